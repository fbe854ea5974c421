package schemacheck

import (
	"fmt"
	"strings"
)

// GlobalScope is the diagnostics key used for findings that concern the
// whole validation run rather than one schema.
const GlobalScope = "__global__"

// Result accumulates the diagnostics of one validation run: errors and
// warnings keyed by schema name in first-report order, plus global
// deduplicated suggestions. A Result is mutated only while the run that
// created it is in flight; callers must treat a returned Result as
// read-only.
type Result struct {
	order    []string
	errors   map[string][]string
	warnings map[string][]string

	suggestions []string

	errorCount   int
	warningCount int
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{
		errors:   make(map[string][]string),
		warnings: make(map[string][]string),
	}
}

// AddError appends a must-fix finding for the named schema.
func (r *Result) AddError(schemaName, msg string) {
	r.touch(schemaName)
	r.errors[schemaName] = append(r.errors[schemaName], msg)
	r.errorCount++
}

// AddWarning appends a should-fix finding for the named schema.
func (r *Result) AddWarning(schemaName, msg string) {
	r.touch(schemaName)
	r.warnings[schemaName] = append(r.warnings[schemaName], msg)
	r.warningCount++
}

// AddSuggestion appends a global suggestion, dropping duplicates.
func (r *Result) AddSuggestion(msg string) {
	for _, s := range r.suggestions {
		if s == msg {
			return
		}
	}
	r.suggestions = append(r.suggestions, msg)
}

func (r *Result) touch(schemaName string) {
	if len(r.errors[schemaName]) == 0 && len(r.warnings[schemaName]) == 0 {
		r.order = append(r.order, schemaName)
	}
}

// IsValid reports whether the run produced no errors. Warnings alone
// leave a result valid.
func (r *Result) IsValid() bool { return r.errorCount == 0 }

// ErrorCount returns the total number of errors.
func (r *Result) ErrorCount() int { return r.errorCount }

// WarningCount returns the total number of warnings.
func (r *Result) WarningCount() int { return r.warningCount }

// Errors returns the error messages of the named schema in report
// order. The returned slice is shared; callers must not modify it.
func (r *Result) Errors(schemaName string) []string { return r.errors[schemaName] }

// Warnings returns the warning messages of the named schema in report
// order. The returned slice is shared; callers must not modify it.
func (r *Result) Warnings(schemaName string) []string { return r.warnings[schemaName] }

// Schemas returns the names that have at least one diagnostic, in
// first-report order.
func (r *Result) Schemas() []string { return r.order }

// Suggestions returns the global suggestions in report order.
func (r *Result) Suggestions() []string { return r.suggestions }

// AllErrors returns every error message across schemas, in report
// order. Useful for keyword scans and tests.
func (r *Result) AllErrors() []string {
	var all []string
	for _, name := range r.order {
		all = append(all, r.errors[name]...)
	}
	return all
}

// clearWarnings drops all warnings; used by strict-mode promotion.
func (r *Result) clearWarnings() {
	r.warnings = make(map[string][]string)
	r.warningCount = 0
}

// Report renders the diagnostics as a deterministic multi-line human
// readable summary: a single success line when valid, otherwise a
// header with the totals, one block per schema with its errors and
// warnings, and a trailing suggestions block if any exist.
func (r *Result) Report() string {
	if r.IsValid() {
		return "All schemas passed validation!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SCHEMA VALIDATION FAILED (%d errors, %d warnings):\n", r.errorCount, r.warningCount)
	for _, name := range r.order {
		errs, warns := r.errors[name], r.warnings[name]
		if len(errs) == 0 && len(warns) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  %s:\n", name)
		for _, msg := range errs {
			fmt.Fprintf(&b, "    [E] %s\n", msg)
		}
		for _, msg := range warns {
			fmt.Fprintf(&b, "    [W] %s\n", msg)
		}
	}
	if len(r.suggestions) > 0 {
		b.WriteString("\nSUGGESTIONS:\n")
		for _, s := range r.suggestions {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

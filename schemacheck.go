// Package schemacheck statically verifies a set of named data-schema
// definitions before any generation work consumes them: foreign-key
// references resolve, document-template bindings match field lists,
// value constraints are internally consistent, and the foreign-key
// dependency graph is acyclic and shallow.
//
// The entry point is [Validator]:
//
//	set := schema.NewSet().
//	    Add("customers", schema.New().
//	        AddField("id", schema.Simple("integer")).
//	        AddField("name", schema.Simple("text"))).
//	    Add("orders", schema.New().
//	        AddField("id", schema.Simple("integer")).
//	        AddField("customer_id", schema.Simple("foreign_key")).
//	        AddForeignKey("customer_id", "customers", "id"))
//
//	result := schemacheck.New().Validate(set)
//	if !result.IsValid() {
//	    fmt.Println(result.Report())
//	}
//
// Findings come in two severities: errors (must fix, make the result
// invalid) and warnings (should fix). With [WithStrict], warnings are
// promoted to errors after the run. The validator never fails with a Go
// error for malformed input; every predictable problem is reported as a
// diagnostic so one pass always covers the whole set.
package schemacheck

import (
	"fmt"
	"strings"

	"github.com/syssam/schemacheck/schema"
	"github.com/syssam/schemacheck/validate"
)

// Validator runs the full check suite over a schema set. A Validator
// is stateless across calls and may be reused; no call observes state
// left by a previous one.
type Validator struct {
	strict bool

	fk          validate.ForeignKeyChecker
	templates   validate.TemplateChecker
	constraints validate.ConstraintChecker
	deps        validate.DependencyChecker
}

// Option configures a Validator.
type Option func(*Validator)

// WithStrict promotes all warnings to errors after each run.
func WithStrict() Option {
	return func(v *Validator) { v.strict = true }
}

// WithMaxDepth overrides the dependency-chain depth threshold.
func WithMaxDepth(depth int) Option {
	return func(v *Validator) { v.deps.MaxDepth = depth }
}

// WithGraphAnalyzer replaces the graph capability used for dependency
// analysis. Passing nil disables the dependency checks.
func WithGraphAnalyzer(g validate.GraphAnalyzer) Option {
	return func(v *Validator) { v.deps.Graph = g }
}

// WithSyntaxChecker replaces the optional template-syntax capability.
// Passing nil skips syntax validation.
func WithSyntaxChecker(c validate.SyntaxChecker) Option {
	return func(v *Validator) { v.templates.Syntax = c }
}

// New returns a Validator with the default capabilities wired in: the
// in-tree directed-graph analyzer and the standard template parser.
func New(opts ...Option) *Validator {
	v := &Validator{
		templates: validate.TemplateChecker{Syntax: validate.TemplateSyntax{}},
		deps:      validate.DependencyChecker{Graph: validate.DirectedGraph(), MaxDepth: validate.DefaultMaxDepth},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every checker over every schema in set, in the set's
// insertion order, and returns the merged diagnostics. The caller must
// not mutate set while validation is in flight.
func (v *Validator) Validate(set *schema.Set) *Result {
	result := NewResult()

	if set == nil || set.Len() == 0 {
		result.AddError(GlobalScope, "No schemas provided")
		return result
	}

	for _, name := range set.Names() {
		if got, bad := set.Malformed(name); bad {
			result.AddError(name, fmt.Sprintf("Schema must be a mapping, got %s", got))
			continue
		}
		sc, _ := set.Schema(name)

		if sc.NumFields() == 0 {
			result.AddError(name, "Schema must define at least one data field (not just metadata)")
		}

		errs, warns := v.fk.Check(name, sc, set)
		merge(result, name, errs, warns)
		errs, warns = v.templates.Check(name, sc)
		merge(result, name, errs, warns)
		errs, warns = v.constraints.Check(name, sc)
		merge(result, name, errs, warns)
		errs, warns = v.deps.Check(name, sc, set)
		merge(result, name, errs, warns)
	}

	v.suggest(result)

	// Promotion runs after suggestion derivation on purpose:
	// suggestions reflect the non-strict error set.
	if v.strict && result.WarningCount() > 0 {
		for _, name := range result.Schemas() {
			for _, warning := range result.Warnings(name) {
				result.AddError(name, "(Strict mode) "+warning)
			}
		}
		result.clearWarnings()
	}
	return result
}

func merge(r *Result, schemaName string, errs, warns []string) {
	for _, msg := range errs {
		r.AddError(schemaName, msg)
	}
	for _, msg := range warns {
		r.AddWarning(schemaName, msg)
	}
}

// Canned suggestions derived from the accumulated error set.
const (
	suggestExplicitFKs = "Use explicit foreign key definitions instead of relying on naming convention inference"
	suggestExactNames  = "Verify all schema names and column names match exactly (case-sensitive)"
	suggestTemplates   = "Ensure template files exist and all placeholders are defined in the schema"
)

// suggest scans every accumulated error for known failure classes and
// appends one deduplicated suggestion per class present.
func (v *Validator) suggest(r *Result) {
	var naming, missing, template bool
	for _, msg := range r.AllErrors() {
		lower := strings.ToLower(msg)
		naming = naming || strings.Contains(lower, "naming convention")
		missing = missing || strings.Contains(lower, "not found") || strings.Contains(lower, "non-existent")
		template = template || strings.Contains(lower, "template")
	}
	if naming {
		r.AddSuggestion(suggestExplicitFKs)
	}
	if missing {
		r.AddSuggestion(suggestExactNames)
	}
	if template {
		r.AddSuggestion(suggestTemplates)
	}
}

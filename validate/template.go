package validate

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/syssam/schemacheck/schema"
)

// placeholderPattern matches a double-brace substitution slot,
// whitespace-tolerant: "{{ name }}".
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// TemplateChecker cross-references a schema's document-template
// binding against its field list: the template file must be readable,
// every placeholder must be a declared field, and the required
// input/output file-type metadata must be present.
type TemplateChecker struct {
	// Syntax optionally validates the template's action syntax.
	// Nil skips the check.
	Syntax SyntaxChecker
}

// Check validates sc's template binding. Schemas without a template
// source are not template schemas and produce no diagnostics.
func (c TemplateChecker) Check(schemaName string, sc *schema.Schema) (errs, warns []string) {
	path, ok := sc.TemplateSource()
	if !ok {
		return nil, nil
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		errs = append(errs, fmt.Sprintf("Template: File not found: '%s'", path))
		return errs, warns
	case err != nil:
		errs = append(errs, fmt.Sprintf("Template: Unable to read file: %v", err))
		return errs, warns
	case !info.Mode().IsRegular():
		errs = append(errs, fmt.Sprintf("Template: '%s' is not a file", path))
		return errs, warns
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		errs = append(errs, fmt.Sprintf("Template: Unable to read file: %v", err))
		return errs, warns
	}
	if !utf8.Valid(raw) {
		errs = append(errs, fmt.Sprintf("Template: Unable to read file: '%s' is not valid UTF-8 text", path))
		return errs, warns
	}
	content := string(raw)

	placeholders := extractPlaceholders(content)
	if len(placeholders) == 0 {
		warns = append(warns, "Template: No placeholders found in template")
	}

	for _, name := range sortedKeys(placeholders) {
		if !sc.HasField(name) {
			errs = append(errs, fmt.Sprintf("Template: Placeholder '{{ %s }}' is not defined in schema", name))
		}
	}

	var unused []string
	for _, name := range sc.FieldNames() {
		if _, ok := placeholders[name]; !ok {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		warns = append(warns, fmt.Sprintf("Template: Schema fields not used in template: %s", strings.Join(unused, ", ")))
	}

	if c.Syntax != nil {
		if err := c.Syntax.CheckSyntax(content); err != nil {
			errs = append(errs, fmt.Sprintf("Template: Invalid template syntax: %v", err))
		}
	}

	if _, ok := sc.InputFileType(); !ok {
		errs = append(errs, fmt.Sprintf("Template: Missing '%s' metadata (Input file type (html, txt, rtf))", schema.KeyInputFileType))
	}
	if _, ok := sc.OutputFileType(); !ok {
		errs = append(errs, fmt.Sprintf("Template: Missing '%s' metadata (Output file type (pdf, html, txt, rtf))", schema.KeyOutputFileType))
	}
	return errs, warns
}

// extractPlaceholders collects the unique placeholder names in content.
func extractPlaceholders(content string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		names[m[1]] = struct{}{}
	}
	return names
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/schemacheck/schema"
)

// maxSuggestions caps the "Did you mean" lines emitted after a failed
// schema or column lookup.
const maxSuggestions = 2

// ForeignKeyChecker validates a schema's declared foreign keys against
// the full schema set: the declaring field must exist, the target
// schema and column must resolve, and the field name should follow the
// usual '<singular-target>_id' convention.
type ForeignKeyChecker struct{}

// Check validates every foreign-key entry of sc. Schemas without
// foreign-key metadata produce no diagnostics.
func (ForeignKeyChecker) Check(schemaName string, sc *schema.Schema, all *schema.Set) (errs, warns []string) {
	for _, entry := range sc.ForeignKeys() {
		fk, err := entry.Target.Normalize()
		switch {
		case errors.Is(err, schema.ErrMalformedForeignKey):
			errs = append(errs, fmt.Sprintf("FK: Invalid foreign key definition for '%s': %s", entry.Field, entry.Target))
			continue
		case errors.Is(err, schema.ErrIncompleteForeignKey):
			errs = append(errs, fmt.Sprintf("FK: Invalid foreign key definition for '%s': missing schema or column", entry.Field))
			continue
		}

		if !sc.HasField(entry.Field) {
			errs = append(errs, fmt.Sprintf("FK: Foreign key field '%s' is not defined in schema", entry.Field))
		}

		target, ok := all.Schema(fk.Schema)
		if !ok {
			errs = append(errs, fmt.Sprintf("FK: Field '%s' references non-existent schema '%s'", entry.Field, fk.Schema))
			for _, name := range similarNames(fk.Schema, all.Names()) {
				errs = append(errs, fmt.Sprintf("FK:    (Did you mean '%s'?)", name))
			}
			continue
		}

		if !target.HasField(fk.Column) {
			errs = append(errs, fmt.Sprintf("FK: Field '%s' references non-existent column '%s.%s'", entry.Field, fk.Schema, fk.Column))
			for _, name := range similarNames(fk.Column, target.FieldNames()) {
				errs = append(errs, fmt.Sprintf("FK:    (Did you mean '%s.%s'?)", fk.Schema, name))
			}
		}

		if !conventionalName(entry.Field) {
			warns = append(warns, fmt.Sprintf("FK: Field '%s' doesn't follow naming convention for '%s' (expected '%s')",
				entry.Field, fk.Schema, expectedPattern(fk.Schema)))
		}
	}
	return errs, warns
}

// similarNames suggests up to maxSuggestions candidates for a failed
// lookup: exact case-insensitive matches first, otherwise names where
// either string contains the other. Deliberately not edit distance;
// the two-tier substring heuristic is cheap and good enough for typos
// of the pluralization kind.
func similarNames(target string, candidates []string) []string {
	if target == "" {
		return nil
	}
	lower := strings.ToLower(target)
	var exact []string
	for _, c := range candidates {
		if strings.ToLower(c) == lower {
			exact = append(exact, c)
		}
	}
	if len(exact) > 0 {
		return capped(exact)
	}
	var substr []string
	for _, c := range candidates {
		cl := strings.ToLower(c)
		if strings.Contains(cl, lower) || strings.Contains(lower, cl) {
			substr = append(substr, c)
		}
	}
	return capped(substr)
}

func capped(names []string) []string {
	if len(names) > maxSuggestions {
		return names[:maxSuggestions]
	}
	return names
}

// expectedPattern returns the conventional FK field name for a target
// schema: the singularized schema name suffixed with '_id'.
func expectedPattern(targetSchema string) string {
	return singularize(targetSchema) + "_id"
}

// singularize strips the usual English plural suffixes: 'ies' becomes
// 'y', a trailing 'es' or 's' is dropped, double-s endings are left
// alone.
func singularize(name string) string {
	switch {
	case strings.HasSuffix(name, "ies"):
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "es"):
		return name[:len(name)-2]
	case strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss"):
		return name[:len(name)-1]
	}
	return name
}

// conventionalName reports whether a FK field name looks conventionally
// named. The expected pattern, '<target>_id' in either case, and every
// other '_id'-suffixed name are all accepted, as is a bare 'id' column.
// Over-accepting is intentional: the warning should fire only on names
// that clearly ignore the convention.
func conventionalName(field string) bool {
	return field == "id" || strings.HasSuffix(field, "_id")
}

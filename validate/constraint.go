package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/syssam/schemacheck/schema"
)

// validTypes is the recognized type-tag vocabulary for bare field
// definitions.
var validTypes = map[string]struct{}{
	"integer": {}, "number": {}, "float": {}, "decimal": {},
	"text": {}, "string": {},
	"email": {}, "phone": {}, "url": {},
	"date": {}, "datetime": {}, "time": {},
	"boolean": {}, "bool": {},
	"json": {}, "dict": {},
	"foreign_key": {},
	"id":          {}, "uuid": {},
}

// validTypeList renders the vocabulary sorted and comma-joined for
// inclusion in unknown-type warnings.
func validTypeList() string {
	names := make([]string, 0, len(validTypes))
	for t := range validTypes {
		names = append(names, t)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// ConstraintChecker validates the type tags and value constraints of a
// single schema's fields: recognized tags for bare definitions, ordered
// numeric and length bounds, and compilable patterns. Unknown
// constraint keys are ignored.
type ConstraintChecker struct{}

// Check validates every non-metadata field of sc.
func (ConstraintChecker) Check(schemaName string, sc *schema.Schema) (errs, warns []string) {
	for _, f := range sc.Fields() {
		switch def := f.Def.(type) {
		case schema.Simple:
			if _, ok := validTypes[strings.ToLower(string(def))]; !ok {
				warns = append(warns, fmt.Sprintf("Constraint: Field '%s' has unknown type '%s' (valid types: %s)",
					f.Name, string(def), validTypeList()))
			}
		case *schema.Constrained:
			errs = append(errs, checkConstraints(f.Name, def.Constraints)...)
		}
	}
	return errs, warns
}

func checkConstraints(field string, c schema.Constraints) []string {
	var errs []string

	if c.Min != nil && c.Max != nil {
		minVal, minErr := strconv.ParseFloat(strings.TrimSpace(*c.Min), 64)
		maxVal, maxErr := strconv.ParseFloat(strings.TrimSpace(*c.Max), 64)
		switch {
		case minErr != nil || maxErr != nil:
			errs = append(errs, fmt.Sprintf("Constraint: Field '%s' has invalid numeric constraints: min %q, max %q",
				field, *c.Min, *c.Max))
		case minVal > maxVal:
			errs = append(errs, fmt.Sprintf("Constraint: Field '%s' has min (%v) > max (%v)", field, minVal, maxVal))
		}
	}

	if c.Pattern != nil {
		if _, err := regexp.Compile(*c.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("Constraint: Field '%s' has invalid regex pattern: %v", field, err))
		}
	}

	if c.MinLength != nil && c.MaxLength != nil {
		minLen, minErr := strconv.Atoi(strings.TrimSpace(*c.MinLength))
		maxLen, maxErr := strconv.Atoi(strings.TrimSpace(*c.MaxLength))
		switch {
		case minErr != nil || maxErr != nil:
			errs = append(errs, fmt.Sprintf("Constraint: Field '%s' has invalid length constraints: min_length %q, max_length %q",
				field, *c.MinLength, *c.MaxLength))
		case minLen > maxLen:
			errs = append(errs, fmt.Sprintf("Constraint: Field '%s' has min_length (%d) > max_length (%d)", field, minLen, maxLen))
		}
	}
	return errs
}

package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for foreign-key normalization failures. Missing
// definitions and wrong references are distinct failure classes; the
// foreign-key checker renders them with different messages.
var (
	// ErrMalformedForeignKey indicates a target that is neither a
	// two-element pair nor a record exposing schema and column keys.
	ErrMalformedForeignKey = errors.New("schemacheck: malformed foreign key target")

	// ErrIncompleteForeignKey indicates a target whose schema or column
	// value is empty.
	ErrIncompleteForeignKey = errors.New("schemacheck: incomplete foreign key target")
)

// ForeignKey is the canonical form of a foreign-key target.
type ForeignKey struct {
	Schema string
	Column string
}

// ForeignKeyEntry associates a declaring field with its target as
// written in the schema's foreign-key metadata.
type ForeignKeyEntry struct {
	Field  string
	Target ForeignKeyTarget
}

// ForeignKeyTarget is a foreign-key target in one of its declared
// shapes: an ordered pair, a record with schema/column keys, or an
// unparseable raw value kept only for diagnostics. Exactly one of the
// three forms is populated.
type ForeignKeyTarget struct {
	// PairForm holds the elements of a sequence-shaped target. A valid
	// pair has exactly two elements, but declarations of any length are
	// carried through so validation can report them.
	PairForm []string

	// RecordForm holds the keys of a mapping-shaped target. The schema
	// may appear under "schema" or "target_schema", the column under
	// "column" or "target_column".
	RecordForm map[string]string

	// Raw is the printable form of a target that is neither a sequence
	// nor a mapping.
	Raw string
}

// Pair returns a target in the canonical two-element pair form.
func Pair(targetSchema, targetColumn string) ForeignKeyTarget {
	return ForeignKeyTarget{PairForm: []string{targetSchema, targetColumn}}
}

// Record returns a target in the mapping form using the given keys.
func Record(keys map[string]string) ForeignKeyTarget {
	return ForeignKeyTarget{RecordForm: keys}
}

// Normalize reduces the declared target to its canonical (schema,
// column) pair. It returns ErrMalformedForeignKey when the shape is
// unrecognizable and ErrIncompleteForeignKey when the shape is right
// but the schema or column value is empty.
func (t ForeignKeyTarget) Normalize() (ForeignKey, error) {
	switch {
	case t.PairForm != nil:
		if len(t.PairForm) != 2 {
			return ForeignKey{}, fmt.Errorf("%w: %s", ErrMalformedForeignKey, t)
		}
		fk := ForeignKey{Schema: t.PairForm[0], Column: t.PairForm[1]}
		if fk.Schema == "" || fk.Column == "" {
			return ForeignKey{}, ErrIncompleteForeignKey
		}
		return fk, nil
	case t.RecordForm != nil:
		fk := ForeignKey{
			Schema: firstOf(t.RecordForm, "schema", "target_schema"),
			Column: firstOf(t.RecordForm, "column", "target_column"),
		}
		if fk.Schema == "" || fk.Column == "" {
			return ForeignKey{}, ErrIncompleteForeignKey
		}
		return fk, nil
	default:
		return ForeignKey{}, fmt.Errorf("%w: %s", ErrMalformedForeignKey, t)
	}
}

// String renders the target as declared, for use in diagnostics.
func (t ForeignKeyTarget) String() string {
	switch {
	case t.PairForm != nil:
		return fmt.Sprintf("%v", t.PairForm)
	case t.RecordForm != nil:
		return fmt.Sprintf("%v", t.RecordForm)
	default:
		return t.Raw
	}
}

func firstOf(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v
		}
	}
	return ""
}

// Package load builds schema sets from YAML or JSON documents.
//
// Documents are decoded through yaml.Node rather than plain maps so
// that declaration order survives into the resulting [schema.Set];
// diagnostic ordering depends on it. Malformed entries (a schema whose
// value is not a mapping, a foreign-key target of the wrong shape) are
// carried through to validation instead of being rejected here, so one
// validation pass can report everything at once.
package load

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/schemacheck/schema"
)

// ErrInvalidDocument indicates a top-level document that is not a
// mapping of schema names.
var ErrInvalidDocument = errors.New("load: schema document must be a mapping of schema names")

// ParseFile reads and parses a schema-set document from path.
func ParseFile(path string) (*schema.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML (or JSON) document into a schema set,
// preserving declaration order.
func Parse(data []byte) (*schema.Set, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("load: parse schema document: %w", err)
	}
	set := schema.NewSet()
	if len(doc.Content) == 0 {
		return set, nil
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidDocument, shape(root))
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		val := resolve(root.Content[i+1])
		if val.Kind != yaml.MappingNode {
			set.AddMalformed(name, shape(val))
			continue
		}
		set.Add(name, parseSchema(val))
	}
	return set, nil
}

func parseSchema(node *yaml.Node) *schema.Schema {
	sc := schema.New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := resolve(node.Content[i+1])
		switch {
		case key == schema.KeyForeignKeys:
			parseForeignKeys(sc, val)
		case key == schema.KeyTemplateSource:
			sc.SetTemplateSource(val.Value)
		case key == schema.KeyInputFileType:
			sc.SetInputFileType(val.Value)
		case key == schema.KeyOutputFileType:
			sc.SetOutputFileType(val.Value)
		case schema.IsMetadataKey(key):
			sc.SetMeta(key, val.Value)
		default:
			sc.AddField(key, parseFieldDef(val))
		}
	}
	return sc
}

func parseForeignKeys(sc *schema.Schema, node *yaml.Node) {
	if node.Kind != yaml.MappingNode {
		// A foreign-key block of the wrong shape carries no entries to
		// validate; field and graph checks still run without it.
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		field := node.Content[i].Value
		val := resolve(node.Content[i+1])
		sc.AddForeignKeyTarget(field, parseForeignKeyTarget(val))
	}
}

func parseForeignKeyTarget(node *yaml.Node) schema.ForeignKeyTarget {
	switch node.Kind {
	case yaml.SequenceNode:
		parts := make([]string, len(node.Content))
		for i, el := range node.Content {
			parts[i] = resolve(el).Value
		}
		return schema.ForeignKeyTarget{PairForm: parts}
	case yaml.MappingNode:
		keys := make(map[string]string)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keys[node.Content[i].Value] = resolve(node.Content[i+1]).Value
		}
		return schema.Record(keys)
	default:
		return schema.ForeignKeyTarget{Raw: node.Value}
	}
}

func parseFieldDef(node *yaml.Node) schema.FieldDef {
	switch node.Kind {
	case yaml.ScalarNode:
		return schema.Simple(node.Value)
	case yaml.MappingNode:
		def := &schema.Constrained{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			val := resolve(node.Content[i+1])
			switch key {
			case "type":
				def.Type = val.Value
			case "constraints":
				def.Constraints = parseConstraints(val)
			case "references":
				def.References = parseReference(val)
			}
		}
		return def
	default:
		// A definition of an unexpected shape still declares the field;
		// there is just nothing to check on it.
		return &schema.Constrained{}
	}
}

func parseConstraints(node *yaml.Node) schema.Constraints {
	var c schema.Constraints
	if node.Kind != yaml.MappingNode {
		return c
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := resolve(node.Content[i+1])
		switch key {
		case "min":
			c.Min = schema.Raw(val.Value)
		case "max":
			c.Max = schema.Raw(val.Value)
		case "min_length":
			c.MinLength = schema.Raw(val.Value)
		case "max_length":
			c.MaxLength = schema.Raw(val.Value)
		case "pattern":
			c.Pattern = schema.Raw(val.Value)
		}
		// Unknown constraint keys are ignored on purpose.
	}
	return c
}

func parseReference(node *yaml.Node) *schema.Reference {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	ref := &schema.Reference{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := resolve(node.Content[i+1])
		switch key {
		case "schema", "target_schema":
			ref.Schema = val.Value
		case "field", "target_column":
			ref.Field = val.Value
		}
	}
	return ref
}

// resolve follows alias nodes to their anchor.
func resolve(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

// shape describes a node for type-error diagnostics: the scalar tag
// (e.g. "!!str") or the structural kind.
func shape(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Tag
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "unknown"
	}
}

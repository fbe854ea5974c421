package load_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/schemacheck/schema"
	"github.com/syssam/schemacheck/schema/load"
)

const ordersDoc = `
customers:
  id: id
  name: text
  email: email
orders:
  id: id
  customer_id: foreign_key
  amount:
    type: number
    constraints:
      min: 0
      max: 100000
  __foreign_keys__:
    customer_id: [customers, id]
`

func TestParsePreservesOrder(t *testing.T) {
	t.Parallel()

	set, err := load.Parse([]byte(ordersDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"customers", "orders"}, set.Names())

	customers, ok := set.Schema("customers")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name", "email"}, customers.FieldNames())
}

func TestParseFieldDefinitions(t *testing.T) {
	t.Parallel()

	set, err := load.Parse([]byte(ordersDoc))
	require.NoError(t, err)

	orders, ok := set.Schema("orders")
	require.True(t, ok)

	def, ok := orders.Field("customer_id")
	require.True(t, ok)
	assert.Equal(t, schema.Simple("foreign_key"), def)

	def, ok = orders.Field("amount")
	require.True(t, ok)
	amount, ok := def.(*schema.Constrained)
	require.True(t, ok)
	assert.Equal(t, "number", amount.Type)
	require.NotNil(t, amount.Constraints.Min)
	assert.Equal(t, "0", *amount.Constraints.Min)
	require.NotNil(t, amount.Constraints.Max)
	assert.Equal(t, "100000", *amount.Constraints.Max)
	assert.Nil(t, amount.Constraints.Pattern)
}

func TestParseForeignKeys(t *testing.T) {
	t.Parallel()

	set, err := load.Parse([]byte(ordersDoc))
	require.NoError(t, err)

	orders, _ := set.Schema("orders")
	fks := orders.ForeignKeys()
	require.Len(t, fks, 1)
	assert.Equal(t, "customer_id", fks[0].Field)

	fk, err := fks[0].Target.Normalize()
	require.NoError(t, err)
	assert.Equal(t, schema.ForeignKey{Schema: "customers", Column: "id"}, fk)
}

func TestParseForeignKeyRecordForm(t *testing.T) {
	t.Parallel()

	doc := `
orders:
  id: id
  customer_id: foreign_key
  __foreign_keys__:
    customer_id:
      schema: customers
      column: id
`
	set, err := load.Parse([]byte(doc))
	require.NoError(t, err)

	orders, _ := set.Schema("orders")
	require.Len(t, orders.ForeignKeys(), 1)

	fk, err := orders.ForeignKeys()[0].Target.Normalize()
	require.NoError(t, err)
	assert.Equal(t, schema.ForeignKey{Schema: "customers", Column: "id"}, fk)
}

func TestParseForeignKeyScalarTarget(t *testing.T) {
	t.Parallel()

	// A scalar target is carried through raw so validation can report it.
	doc := `
orders:
  id: id
  __foreign_keys__:
    customer_id: customers.id
`
	set, err := load.Parse([]byte(doc))
	require.NoError(t, err)

	orders, _ := set.Schema("orders")
	require.Len(t, orders.ForeignKeys(), 1)

	target := orders.ForeignKeys()[0].Target
	assert.Equal(t, "customers.id", target.Raw)
	_, err = target.Normalize()
	assert.ErrorIs(t, err, schema.ErrMalformedForeignKey)
}

func TestParseTemplateMetadata(t *testing.T) {
	t.Parallel()

	doc := `
invoice:
  invoice_id: text
  __template_source__: templates/invoice.html
  __input_file_type__: html
  __output_file_type__: pdf
  __description__: billing document
`
	set, err := load.Parse([]byte(doc))
	require.NoError(t, err)

	invoice, _ := set.Schema("invoice")
	assert.Equal(t, 1, invoice.NumFields())

	src, ok := invoice.TemplateSource()
	require.True(t, ok)
	assert.Equal(t, "templates/invoice.html", src)

	in, _ := invoice.InputFileType()
	out, _ := invoice.OutputFileType()
	assert.Equal(t, "html", in)
	assert.Equal(t, "pdf", out)

	desc, ok := invoice.Meta("__description__")
	require.True(t, ok)
	assert.Equal(t, "billing document", desc)
}

func TestParseMalformedSchemaEntry(t *testing.T) {
	t.Parallel()

	doc := `
customers:
  id: id
broken: just a string
listed: [a, b]
`
	set, err := load.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"customers", "broken", "listed"}, set.Names())
	assert.True(t, set.Has("customers"))
	assert.False(t, set.Has("broken"))

	got, ok := set.Malformed("broken")
	require.True(t, ok)
	assert.Equal(t, "!!str", got)

	got, ok = set.Malformed("listed")
	require.True(t, ok)
	assert.Equal(t, "sequence", got)
}

func TestParseNonMappingDocument(t *testing.T) {
	t.Parallel()

	_, err := load.Parse([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, load.ErrInvalidDocument)
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	set, err := load.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestParseInvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := load.Parse([]byte("a: [unclosed"))
	assert.Error(t, err)
}

func TestParseJSONDocument(t *testing.T) {
	t.Parallel()

	doc := `{"customers": {"id": "id", "name": "text"}}`
	set, err := load.Parse([]byte(doc))
	require.NoError(t, err)

	customers, ok := set.Schema("customers")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, customers.FieldNames())
}

func TestParseAnchorsResolved(t *testing.T) {
	t.Parallel()

	doc := `
customers: &base
  id: id
  name: text
clients: *base
`
	set, err := load.Parse([]byte(doc))
	require.NoError(t, err)

	clients, ok := set.Schema("clients")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, clients.FieldNames())
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schemas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ordersDoc), 0o644))

	set, err := load.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, set.Names())

	_, err = load.ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

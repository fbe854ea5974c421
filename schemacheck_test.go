package schemacheck_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/schemacheck"
	"github.com/syssam/schemacheck/schema"
)

// ordersSet returns the canonical two-schema happy path: orders
// referencing customers through a well-formed foreign key.
func ordersSet() *schema.Set {
	return schema.NewSet().
		Add("customers", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("name", schema.Simple("text")).
			AddField("email", schema.Simple("email"))).
		Add("orders", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("customer_id", schema.Simple("foreign_key")).
			AddField("total", schema.Simple("number")).
			AddForeignKey("customer_id", "customers", "id"))
}

func TestValidateValidSchemas(t *testing.T) {
	t.Parallel()

	result := schemacheck.New().Validate(ordersSet())

	assert.True(t, result.IsValid())
	assert.Equal(t, 0, result.ErrorCount())
	assert.Equal(t, 0, result.WarningCount())
	assert.Equal(t, "All schemas passed validation!", result.Report())
}

func TestValidateEmptySet(t *testing.T) {
	t.Parallel()

	for name, set := range map[string]*schema.Set{
		"empty": schema.NewSet(),
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			result := schemacheck.New().Validate(set)

			assert.False(t, result.IsValid())
			assert.Equal(t, 1, result.ErrorCount())
			require.Equal(t, []string{schemacheck.GlobalScope}, result.Schemas())
			assert.Equal(t, []string{"No schemas provided"}, result.Errors(schemacheck.GlobalScope))
		})
	}
}

func TestValidateSchemaWithOnlyMetadata(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().Add("orders", schema.New().SetMeta("__table_name__", "orders"))

	result := schemacheck.New().Validate(set)

	assert.False(t, result.IsValid())
	require.NotEmpty(t, result.Errors("orders"))
	assert.Contains(t, result.Errors("orders")[0], "at least one")
}

func TestValidateMalformedSchemaEntry(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		AddMalformed("broken", "!!str").
		Add("customers", schema.New().AddField("id", schema.Simple("integer")))

	result := schemacheck.New().Validate(set)

	assert.False(t, result.IsValid())
	require.Len(t, result.Errors("broken"), 1)
	assert.Equal(t, "Schema must be a mapping, got !!str", result.Errors("broken")[0])
	// The rest of the set is still fully evaluated.
	assert.Empty(t, result.Errors("customers"))
}

func TestValidateNonExistentTargetSchema(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		Add("customers", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("name", schema.Simple("text"))).
		Add("orders", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("customer_id", schema.Simple("foreign_key")).
			AddForeignKey("customer_id", "customer", "id")) // singular, does not exist

	result := schemacheck.New().Validate(set)

	assert.False(t, result.IsValid())
	errs := result.Errors("orders")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "non-existent schema 'customer'")
	require.NotEmpty(t, result.Suggestions())
	assert.Contains(t, strings.Join(result.Suggestions(), "\n"), "case-sensitive")
}

func TestValidateMultipleErrors(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		Add("orders", schema.New().
			AddField("id", schema.Simple("integer")).
			AddForeignKey("customer_id", "customer", "id").
			AddForeignKey("product_id", "products", "product_id"))

	result := schemacheck.New().Validate(set)

	assert.False(t, result.IsValid())
	assert.GreaterOrEqual(t, result.ErrorCount(), 2)
}

func TestValidateMergesAllCheckers(t *testing.T) {
	t.Parallel()

	// One schema tripping the foreign-key, constraint, and dependency
	// checkers at once: diagnostics land on the schema in checker order.
	set := schema.NewSet().
		Add("orders", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("self_ref", schema.Simple("foreign_key")).
			AddField("price", &schema.Constrained{
				Type:        "number",
				Constraints: schema.Constraints{Min: schema.Raw("10"), Max: schema.Raw("1")},
			}).
			AddForeignKey("self_ref", "orders", "missing"))

	result := schemacheck.New().Validate(set)

	errs := result.Errors("orders")
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "non-existent column 'orders.missing'")
	assert.Contains(t, errs[1], "min (10) > max (1)")
	assert.Contains(t, errs[2], "Circular dependency detected: orders -> orders")

	warns := result.Warnings("orders")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "naming convention")
}

func TestValidateConstraintError(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		Add("products", schema.New().
			AddField("price", &schema.Constrained{
				Type:        "number",
				Constraints: schema.Constraints{Min: schema.Raw("1000"), Max: schema.Raw("100")},
			}))

	result := schemacheck.New().Validate(set)

	assert.False(t, result.IsValid())
	require.Len(t, result.Errors("products"), 1)
	assert.Contains(t, result.Errors("products")[0], "1000")
	assert.Contains(t, result.Errors("products")[0], "100")
}

func TestValidateCircularDependency(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		Add("a", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("b_id", schema.Simple("foreign_key")).
			AddForeignKey("b_id", "b", "id")).
		Add("b", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("a_id", schema.Simple("foreign_key")).
			AddForeignKey("a_id", "a", "id"))

	result := schemacheck.New().Validate(set)

	assert.False(t, result.IsValid())
	var found bool
	for _, name := range result.Schemas() {
		for _, msg := range result.Errors(name) {
			if strings.Contains(msg, "a -> b -> a") || strings.Contains(msg, "b -> a -> b") {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a rendered cycle closing the loop, got: %s", result.Report())
}

func TestValidateStrictMode(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		Add("customers", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("name", schema.Simple("text"))).
		Add("orders", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("cust_fk", schema.Simple("foreign_key")).
			AddForeignKey("cust_fk", "customers", "id")) // unconventional name

	normal := schemacheck.New().Validate(set)
	strict := schemacheck.New(schemacheck.WithStrict()).Validate(set)

	require.Positive(t, normal.WarningCount())
	assert.True(t, normal.IsValid())

	assert.False(t, strict.IsValid())
	assert.Zero(t, strict.WarningCount())
	assert.GreaterOrEqual(t, strict.ErrorCount(), normal.ErrorCount())
	require.NotEmpty(t, strict.Errors("orders"))
	assert.True(t, strings.HasPrefix(strict.Errors("orders")[0], "(Strict mode) "))
	// Suggestions reflect the non-strict error set, which was empty.
	assert.Empty(t, strict.Suggestions())
}

func TestValidateIdempotent(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		Add("customers", schema.New().
			AddField("id", schema.Simple("integer"))).
		Add("orders", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("vendor_ref", schema.Simple("foreign_key")).
			AddForeignKey("vendor_ref", "vendor", "id"))

	v := schemacheck.New()
	first := v.Validate(set)
	second := v.Validate(set)

	assert.Equal(t, first.ErrorCount(), second.ErrorCount())
	assert.Equal(t, first.WarningCount(), second.WarningCount())
	assert.Equal(t, first.Report(), second.Report())
}

func TestValidateTemplateSchema(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "invoice.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>Invoice {{ invoice_id }}</h1><p>{{ customer_name }}</p>"), 0o644))

	set := schema.NewSet().
		Add("invoices", schema.New().
			AddField("invoice_id", schema.Simple("integer")).
			AddField("customer_name", schema.Simple("text")).
			SetTemplateSource(path).
			SetInputFileType("html").
			SetOutputFileType("pdf"))

	result := schemacheck.New().Validate(set)

	assert.True(t, result.IsValid(), result.Report())
	assert.Zero(t, result.WarningCount())
}

func TestValidateDisabledCapabilities(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		Add("a", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("b_id", schema.Simple("foreign_key")).
			AddForeignKey("b_id", "b", "id")).
		Add("b", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("a_id", schema.Simple("foreign_key")).
			AddForeignKey("a_id", "a", "id"))

	// Without the graph capability the cycle goes unreported.
	result := schemacheck.New(schemacheck.WithGraphAnalyzer(nil)).Validate(set)

	assert.True(t, result.IsValid(), result.Report())
}

func TestReportFormatting(t *testing.T) {
	t.Parallel()

	set := schema.NewSet().
		Add("customers", schema.New().
			AddField("id", schema.Simple("integer"))).
		Add("orders", schema.New().
			AddField("id", schema.Simple("integer")).
			AddField("ref", schema.Simple("foreign_key")).
			AddForeignKey("ref", "customers", "uuid"))

	report := schemacheck.New().Validate(set).Report()

	assert.Contains(t, report, "SCHEMA VALIDATION FAILED")
	assert.Contains(t, report, "orders:")
	assert.Contains(t, report, "[E] FK: Field 'ref' references non-existent column 'customers.uuid'")
	assert.Contains(t, report, "[W] FK: Field 'ref' doesn't follow naming convention")
	assert.Contains(t, report, "SUGGESTIONS:")
}

//go:build property
// +build property

package metadata

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestClosedSchemaProperties checks that undeclared fields are always
// rejected, regardless of field count or value shape.
func TestClosedSchemaProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	schema := &Schema{
		Name: "probe",
		Fields: []FieldDef{
			{Name: "declared", Kind: FieldText},
		},
	}

	properties.Property("undeclared fields are always rejected", prop.ForAll(
		func(fieldName, value string) bool {
			if fieldName == "declared" || fieldName == "" {
				return true // Skip the declared field itself
			}

			_, err := schema.ValidateRecord(map[string]interface{}{
				fieldName: value,
			})

			return err != nil
		},
		gen.Identifier(),
		gen.AnyString(),
	))

	properties.Property("declared text fields round-trip unchanged", prop.ForAll(
		func(value string) bool {
			record, err := schema.ValidateRecord(map[string]interface{}{
				"declared": value,
			})
			if err != nil {
				return false
			}

			return record["declared"] == value
		},
		gen.AnyString(),
	))

	properties.Property("rejection is independent of extra declared content", prop.ForAll(
		func(fieldNames []string) bool {
			record := map[string]interface{}{"declared": "ok"}
			undeclared := 0
			for _, name := range fieldNames {
				if name == "declared" || name == "" {
					continue
				}
				record[name] = "x"
				undeclared++
			}

			_, err := schema.ValidateRecord(record)
			if undeclared == 0 {
				return err == nil
			}

			return err != nil
		},
		gen.SliceOfN(4, gen.Identifier()),
	))

	properties.TestingRun(t)
}

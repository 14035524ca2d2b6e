package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemasVerbose bool

// schemasCmd represents the schemas command
var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List loaded metadata schemas",
	Long: `List the metadata schemas loaded from the configured schemas directory,
including the reserved task workflow schema.

Examples:
  caxton schemas
  caxton schemas --verbose`,
	RunE: runSchemasCommand,
}

func init() {
	rootCmd.AddCommand(schemasCmd)

	schemasCmd.Flags().BoolVarP(&schemasVerbose, "verbose", "v", false, "Show field definitions")
}

func runSchemasCommand(_ *cobra.Command, _ []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}

	schemas := application.Schemas.GetAll()
	if len(schemas) == 0 {
		fmt.Println("No schemas loaded")
		return nil
	}

	for _, s := range schemas {
		open := ""
		if s.AllowUnknown {
			open = " (open to unknown fields)"
		}
		fmt.Printf("%s%s\n", s.Name, open)

		if !schemasVerbose {
			fmt.Printf("  fields: %d\n", len(s.Fields))
			continue
		}

		for _, f := range s.Fields {
			required := ""
			if f.Required {
				required = " required"
			}
			validator := ""
			if f.Validator != "" {
				validator = fmt.Sprintf(" validator=%s", f.Validator)
			}
			fmt.Printf("  %s: %s%s%s\n", f.Name, f.Kind, required, validator)
		}
	}

	return nil
}

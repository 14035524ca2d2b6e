package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var designsVerbose bool

// designsCmd represents the designs command
var designsCmd = &cobra.Command{
	Use:   "designs",
	Short: "List loaded designs",
	Long: `List the designs loaded from the configured designs directory, with
their layouts and component types.

Examples:
  caxton designs
  caxton designs --verbose`,
	RunE: runDesignsCommand,
}

func init() {
	rootCmd.AddCommand(designsCmd)

	designsCmd.Flags().BoolVarP(&designsVerbose, "verbose", "v", false, "Show component types and directive slots")
}

func runDesignsCommand(_ *cobra.Command, _ []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}

	designs := application.Designs.GetAll()
	if len(designs) == 0 {
		fmt.Println("No designs loaded")
		return nil
	}

	for _, d := range designs {
		fmt.Printf("%s\n", d.ID())

		layouts := make([]string, 0, len(d.Layouts))
		for _, l := range d.Layouts {
			layouts = append(layouts, l.Name)
		}
		fmt.Printf("  layouts: %v\n", layouts)

		if !designsVerbose {
			fmt.Printf("  component types: %d\n", len(d.ComponentTypes))
			continue
		}

		for _, ct := range d.ComponentTypes {
			fmt.Printf("  %s (%s)\n", ct.Name, ct.Label)
			for _, dir := range ct.Directives {
				required := ""
				if dir.Required {
					required = " required"
				}
				fmt.Printf("    %s: %s%s\n", dir.Name, dir.Kind, required)
			}
		}
	}

	return nil
}

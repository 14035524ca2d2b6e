package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/caxton/internal/events"
	"github.com/conneroisu/caxton/internal/importer"
)

var (
	importChannel string
	importTimeout time.Duration
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <article.json>",
	Short: "Import an external article into a channel",
	Long: `Import reads an article payload from a JSON file, transforms it into a
living document using the channel's configured design and transformation,
processes its media assets through the asset service, and stores the
provider metadata record.

The document's image components always follow the article's asset order,
regardless of how long each asset takes to process. If any asset fails,
the whole import fails and nothing is stored.

Examples:
  caxton import article.json --channel news
  caxton import wire-story.json --channel sports --timeout 2m`,
	Args: cobra.ExactArgs(1),
	RunE: runImportCommand,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importChannel, "channel", "c", "", "target channel (required)")
	importCmd.Flags().DurationVar(&importTimeout, "timeout", time.Minute, "overall import timeout")
	_ = importCmd.MarkFlagRequired("channel")
}

func runImportCommand(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading article file: %w", err)
	}

	var article importer.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return fmt.Errorf("parsing article file: %w", err)
	}

	application, err := loadApp()
	if err != nil {
		return err
	}

	target, err := application.Config.Target(importChannel)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	doc, record, err := application.Importer.Transform(ctx, article, target)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	application.Events.Broadcast(ctx, events.New(events.TypeImportCompleted, map[string]interface{}{
		"document": doc.ID.String(),
		"channel":  doc.Channel,
		"slug":     doc.Slug,
	}))

	fmt.Printf("Imported %q into channel %s\n", doc.Title, doc.Channel)
	fmt.Printf("  Document:   %s\n", doc.ID)
	fmt.Printf("  Slug:       %s\n", doc.Slug)
	fmt.Printf("  Design:     %s\n", doc.DesignID())
	fmt.Printf("  Components: %d\n", doc.Tree.Len())
	fmt.Printf("  Metadata:   %s (revision %d)\n", target.MetadataSchema, record.Revision)

	return nil
}

//go:build property
// +build property

package importer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestAssetOrderingProperties checks the pipeline's core guarantee: for
// any asset count and any latency assignment, image components appear in
// input order, never completion order.
func TestAssetOrderingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234)
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("image components follow input order for any latency permutation", prop.ForAll(
		func(latenciesMs []int) bool {
			h := newTestHarness(t)

			article := testArticle(len(latenciesMs))
			for i, asset := range article.Assets {
				h.assets.delays[asset.SourceURL] = time.Duration(latenciesMs[i]) * time.Millisecond
			}

			doc, _, err := h.importer.Transform(context.Background(), article, testTarget())
			if err != nil {
				return false
			}

			images := doc.Tree.Components()[3:]
			if len(images) != len(latenciesMs) {
				return false
			}
			for i, image := range images {
				ref, ok := image.Content("image")
				if !ok || ref.Media.URL != fmt.Sprintf("https://cdn.example.com/asset-%d.jpg", i) {
					return false
				}
			}

			return true
		},
		gen.SliceOf(gen.IntRange(0, 25)),
	))

	properties.TestingRun(t)
}

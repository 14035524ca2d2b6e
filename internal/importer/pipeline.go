package importer

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/caxton/internal/design"
	"github.com/conneroisu/caxton/internal/document"
	"github.com/conneroisu/caxton/internal/errors"
	"github.com/conneroisu/caxton/internal/logging"
	"github.com/conneroisu/caxton/internal/metadata"
)

// Target selects where a transformation lands: the design and layout the
// tree binds to, the named transformation mapping, the channel the
// document joins, and the metadata namespace for provider fields.
type Target struct {
	DesignName     string `yaml:"design"`
	DesignVersion  string `yaml:"design_version"`
	Layout         string `yaml:"layout"`
	Transformation string `yaml:"transformation"`
	Channel        string `yaml:"channel"`
	MetadataSchema string `yaml:"metadata_schema"`
}

// Importer runs the transformation pipeline. The tree under construction
// is private to a single Transform call; nothing is observable by other
// actors until the call returns.
type Importer struct {
	designs         *design.Registry
	transformations *TransformationRegistry
	store           *metadata.Store
	assets          AssetService
	logger          logging.Logger
}

// New creates an importer.
func New(designs *design.Registry, transformations *TransformationRegistry, store *metadata.Store, assets AssetService, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Importer{
		designs:         designs,
		transformations: transformations,
		store:           store,
		assets:          assets,
		logger:          logger.WithComponent("importer"),
	}
}

// Transform converts the article into a populated livingdoc plus its
// validated provider metadata record. The pipeline is all-or-nothing at
// article granularity: any asset job failure or metadata rejection aborts
// the whole transformation and no partial document is surfaced.
func (i *Importer) Transform(ctx context.Context, article Article, target Target) (*document.Livingdoc, metadata.Record, error) {
	d, err := i.designs.Get(target.DesignName, target.DesignVersion)
	if err != nil {
		return nil, metadata.Record{}, err
	}

	mapping, err := i.transformations.Get(target.Transformation)
	if err != nil {
		return nil, metadata.Record{}, err
	}

	tree, err := document.NewTree(d, target.Layout)
	if err != nil {
		return nil, metadata.Record{}, err
	}

	if err := i.mapStructuralBlocks(tree, mapping, article); err != nil {
		return nil, metadata.Record{}, err
	}

	// Assets fan out concurrently but fan in strictly by input index, so
	// completion order never leaks into document order.
	refs, err := i.processAssets(ctx, article)
	if err != nil {
		return nil, metadata.Record{}, errors.ErrImportFailed(article.ID, err)
	}

	for index, ref := range refs {
		if err := i.appendImage(tree, mapping, ref, article.Assets[index].Caption); err != nil {
			return nil, metadata.Record{}, err
		}
	}

	title := innerText(article.Title)
	doc := document.NewLivingdoc(target.Channel, title, Slugify(title), tree)

	record, err := i.store.Set(doc.ID.String(), target.MetadataSchema, providerRecord(article.Provider))
	if err != nil {
		return nil, metadata.Record{}, err
	}

	i.logger.Info(ctx, "Article transformed",
		"article", article.ID,
		"document", doc.ID.String(),
		"components", tree.Len(),
		"assets", len(article.Assets),
	)

	return doc, record, nil
}

// mapStructuralBlocks maps the title and text blocks to components in
// input order. This part is synchronous.
func (i *Importer) mapStructuralBlocks(tree *document.Tree, mapping *Transformation, article Article) error {
	head, err := tree.CreateComponent(mapping.HeadComponent)
	if err != nil {
		return err
	}
	if err := head.SetContent(mapping.TitleDirective, document.TextContent(innerText(article.Title))); err != nil {
		return err
	}
	if err := tree.Append(head); err != nil {
		return err
	}

	for _, block := range article.Blocks {
		paragraph, err := tree.CreateComponent(mapping.ParagraphComponent)
		if err != nil {
			return err
		}
		if err := paragraph.SetContent(mapping.TextDirective, document.RichTextContent(normalizeFragment(block.HTML))); err != nil {
			return err
		}
		if err := tree.Append(paragraph); err != nil {
			return err
		}
	}

	return nil
}

// processAssets issues one job per asset and collects results into a slot
// array keyed by original index. It returns only once every slot is
// filled; the first failure cancels the remaining jobs and aborts.
func (i *Importer) processAssets(ctx context.Context, article Article) ([]document.MediaReference, error) {
	refs := make([]document.MediaReference, len(article.Assets))
	if len(article.Assets) == 0 {
		return refs, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	for index, asset := range article.Assets {
		index, asset := index, asset
		g.Go(func() error {
			ref, err := i.assets.Process(gctx, asset.SourceURL)
			if err != nil {
				return errors.ErrAssetJobFailed(asset.SourceURL, err)
			}
			refs[index] = ref

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return refs, nil
}

func (i *Importer) appendImage(tree *document.Tree, mapping *Transformation, ref document.MediaReference, caption string) error {
	image, err := tree.CreateComponent(mapping.ImageComponent)
	if err != nil {
		return err
	}
	if err := image.SetContent(mapping.ImageDirective, document.MediaContent(ref)); err != nil {
		return err
	}
	if caption != "" && mapping.CaptionDirective != "" {
		if err := image.SetContent(mapping.CaptionDirective, document.TextContent(caption)); err != nil {
			return err
		}
	}

	return tree.Append(image)
}

// providerRecord flattens provider metadata into the configured namespace.
func providerRecord(p Provider) map[string]interface{} {
	record := map[string]interface{}{
		"id":       p.ID,
		"category": p.Category,
		"urgency":  p.Urgency,
		"source":   p.Source,
		"service":  p.Service,
		"keywords": strings.Join(p.Keywords, ", "),
	}
	if !p.Timestamp.IsZero() {
		record["timestamp"] = p.Timestamp
	}

	return record
}

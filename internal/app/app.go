// Package app assembles the Caxton engine from its parts: loaded design and
// schema definitions, the metadata store, the import pipeline, the task
// workflow engine, and the event hub. Commands construct an App once and
// call into the wired services.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/conneroisu/caxton/internal/config"
	"github.com/conneroisu/caxton/internal/design"
	"github.com/conneroisu/caxton/internal/events"
	"github.com/conneroisu/caxton/internal/importer"
	"github.com/conneroisu/caxton/internal/logging"
	"github.com/conneroisu/caxton/internal/metadata"
	"github.com/conneroisu/caxton/internal/watcher"
	"github.com/conneroisu/caxton/internal/workflow"
)

// App holds the wired engine services.
type App struct {
	Config          *config.Config
	Logger          logging.Logger
	Designs         *design.Registry
	Schemas         *metadata.SchemaRegistry
	Store           *metadata.Store
	Transformations *importer.TransformationRegistry
	Importer        *importer.Importer
	Workflow        *workflow.Engine
	Events          *events.Hub

	assetService importer.AssetService
}

// Option overrides a default collaborator, mainly for tests.
type Option func(*App)

// WithAssetService substitutes the asset-processing client.
func WithAssetService(assets importer.AssetService) Option {
	return func(a *App) {
		a.assetService = assets
	}
}

// New loads definitions from the configured directories and wires the
// engine. It fails fast on any invalid definition file.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	app := &App{
		Config: cfg,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(app)
	}

	app.Designs = design.NewRegistry()
	designCount, err := design.LoadDir(app.Designs, cfg.Definitions.DesignsDir)
	if err != nil {
		return nil, fmt.Errorf("loading designs from %s: %w", cfg.Definitions.DesignsDir, err)
	}

	app.Schemas = metadata.NewSchemaRegistry(nil)
	schemaCount, err := metadata.LoadDir(app.Schemas, cfg.Definitions.SchemasDir)
	if err != nil {
		return nil, fmt.Errorf("loading schemas from %s: %w", cfg.Definitions.SchemasDir, err)
	}

	app.Store = metadata.NewStore(app.Schemas)

	app.Transformations = importer.NewTransformationRegistry()
	for i := range cfg.Transformations {
		if err := app.Transformations.Register(&cfg.Transformations[i]); err != nil {
			return nil, fmt.Errorf("registering transformation: %w", err)
		}
	}

	assets := app.assetService
	if assets == nil {
		assets = importer.NewHTTPAssetService(
			cfg.Assets.Endpoint,
			time.Duration(cfg.Assets.TimeoutSeconds)*time.Second,
		)
	}

	app.Importer = importer.New(app.Designs, app.Transformations, app.Store, assets, logger)

	var gate workflow.GatePredicate
	if cfg.Tasks.Gate.Task != "" {
		gate = workflow.StateEqualsGate(cfg.Tasks.Gate.Task, cfg.Tasks.Gate.State)
	}

	taskTypes := make([]*workflow.TaskType, len(cfg.Tasks.Types))
	for i := range cfg.Tasks.Types {
		taskTypes[i] = &cfg.Tasks.Types[i]
	}

	app.Workflow, err = workflow.NewEngine(app.Store, cfg.Tasks.Schema, taskTypes, gate, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing workflow engine: %w", err)
	}

	app.Events = events.NewHub(logger)

	logger.Info(context.Background(), "Engine initialized",
		"designs", designCount,
		"schemas", schemaCount,
		"transformations", len(cfg.Transformations),
		"task_types", len(taskTypes))

	return app, nil
}

// StartWatcher begins observing the definition directories. Changed files
// are logged and broadcast; registries stay as loaded until restart.
func (a *App) StartWatcher(ctx context.Context) (*watcher.DefinitionWatcher, error) {
	w, err := watcher.NewDefinitionWatcher(300*time.Millisecond, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating definition watcher: %w", err)
	}

	w.AddFilter(watcher.DefinitionFilter)
	w.AddFilter(watcher.NoHiddenFilter)

	for _, dir := range []string{a.Config.Definitions.DesignsDir, a.Config.Definitions.SchemasDir} {
		if err := w.AddRecursive(dir); err != nil {
			_ = w.Stop()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.AddHandler(func(changes []watcher.ChangeEvent) error {
		for _, change := range changes {
			a.Logger.Warn(ctx, nil, "Definition changed on disk, restart to apply",
				"path", change.Path, "change", change.Type.String())
			a.Events.Broadcast(ctx, events.New(events.TypeDefinitionChanged, map[string]interface{}{
				"path":   change.Path,
				"change": change.Type.String(),
			}))
		}
		return nil
	})

	w.Start(ctx)

	return w, nil
}

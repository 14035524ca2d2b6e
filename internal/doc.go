// Package internal contains the core implementation packages for caxton.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the caxton engine.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - app: Engine assembly wiring registries, store, importer, and workflow
//   - config: Configuration management with validation
//   - design: Immutable design declarations and their registry
//   - document: Livingdoc component trees bound to one design
//   - errors: Structured error types with classification and context
//   - events: WebSocket event hub for editor collaborators
//   - importer: Async import pipeline with order-preserving asset fan-out
//   - logging: Structured logging built on slog
//   - metadata: Schema registry, custom validators, and the revisioned store
//   - watcher: Definition directory monitoring with debouncing
//   - workflow: Editorial task state machine gating publish
package internal

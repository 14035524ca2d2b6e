package workflow

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/conneroisu/caxton/internal/errors"
	"github.com/conneroisu/caxton/internal/logging"
	"github.com/conneroisu/caxton/internal/metadata"
)

// ErrTerminalTask reports an advance on a task whose current state
// completes the task. It is an expected domain outcome, not a failure.
var ErrTerminalTask = stderrors.New("task is already in a terminal state")

// Decision is the answer to the publish-gating question. A blocked
// decision always carries the predicate's rejection reason.
type Decision struct {
	Allowed bool
	Reason  string
}

// GatePredicate evaluates the publish gate over a document's current task
// statuses, keyed by task type name. It returns false plus a
// human-readable reason when publishing must stay blocked. Predicates are
// supplied by the embedding system and must be pure.
type GatePredicate func(tasks map[string]TaskStatus) (bool, string)

// StateEqualsGate builds the common gate "the named task's current state
// equals stateName".
func StateEqualsGate(taskType, stateName string) GatePredicate {
	return func(tasks map[string]TaskStatus) (bool, string) {
		status, ok := tasks[taskType]
		if !ok {
			return false, fmt.Sprintf("task %q has no state yet", taskType)
		}
		if status.State.Name != stateName {
			return false, fmt.Sprintf("task %q is at %q, publishing requires %q",
				taskType, status.State.Name, stateName)
		}

		return true, ""
	}
}

// Engine drives per-document task instances through their declared state
// sequences and answers the publish-gating question. It never mutates
// publish state itself.
type Engine struct {
	store      *metadata.Store
	schemaName string
	types      map[string]*TaskType
	gate       GatePredicate
	logger     logging.Logger
}

// NewEngine registers the tasks schema (one number field per task type,
// range-checked against the declared state count) and returns the engine.
func NewEngine(store *metadata.Store, schemaName string, types []*TaskType, gate GatePredicate, logger logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	byName := make(map[string]*TaskType, len(types))
	fields := make([]metadata.FieldDef, 0, len(types))

	for _, t := range types {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byName[t.Name]; exists {
			return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid,
				"task type declared twice: "+t.Name)
		}
		byName[t.Name] = t

		fields = append(fields, metadata.FieldDef{
			Name:      t.Name,
			Kind:      metadata.FieldNumber,
			Required:  true,
			Validator: "range",
			Config: map[string]interface{}{
				"min": 0,
				"max": len(t.States) - 1,
			},
		})
	}

	if err := store.Registry().Register(&metadata.Schema{
		Name:    schemaName,
		Version: "1",
		Fields:  fields,
	}); err != nil {
		return nil, err
	}

	return &Engine{
		store:      store,
		schemaName: schemaName,
		types:      byName,
		gate:       gate,
		logger:     logger.WithComponent("workflow"),
	}, nil
}

// TaskTypes returns the declared task types sorted by name.
func (e *Engine) TaskTypes() []*TaskType {
	result := make([]*TaskType, 0, len(e.types))
	for _, t := range e.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Status resolves the current state of every task on the document. A
// document without a tasks record is at the initial state of every
// declared task type.
func (e *Engine) Status(documentID string) (map[string]TaskStatus, error) {
	record, _, err := e.read(documentID)
	if err != nil {
		return nil, err
	}

	return e.resolve(record)
}

// Advance moves the named task on the document forward by exactly one
// state. Advancing a terminal task returns ErrTerminalTask. Exactly one of
// several concurrent callers wins a given transition; the rest observe a
// conflict error and must re-read.
func (e *Engine) Advance(ctx context.Context, documentID, taskType string) (TaskStatus, error) {
	t, ok := e.types[taskType]
	if !ok {
		return TaskStatus{}, errors.NewStructuralError(errors.ErrCodeConfigInvalid,
			"unknown task type: "+taskType)
	}

	record, revision, err := e.read(documentID)
	if err != nil {
		return TaskStatus{}, err
	}

	current := stateIndex(record, taskType)
	state, ok := t.StateAt(current)
	if !ok {
		return TaskStatus{}, errors.NewInternalError(errors.ErrCodeInternalError,
			fmt.Sprintf("task %q holds out-of-range state index %d", taskType, current), nil).
			WithDocument(documentID)
	}

	if state.CompletesTask {
		return TaskStatus{}, ErrTerminalTask
	}

	next := current + 1
	record[taskType] = next

	// The store's compare-and-swap turns a lost race into a conflict
	// error instead of a silent double-advance.
	if _, err := e.store.SetIfRevision(documentID, e.schemaName, revision, record); err != nil {
		return TaskStatus{}, err
	}

	nextState, _ := t.StateAt(next)
	e.logger.Info(ctx, "Task advanced",
		"document", documentID,
		"task", taskType,
		"from", state.Name,
		"to", nextState.Name,
	)

	return TaskStatus{
		Type:       taskType,
		StateIndex: next,
		State:      nextState,
		Terminal:   nextState.CompletesTask,
	}, nil
}

// CanPublish evaluates the configured gate predicate against the
// document's current task statuses. A blocked result is a normal outcome
// carrying the predicate's reason.
func (e *Engine) CanPublish(documentID string) (Decision, error) {
	if e.gate == nil {
		return Decision{Allowed: true}, nil
	}

	tasks, err := e.Status(documentID)
	if err != nil {
		return Decision{}, err
	}

	ok, reason := e.gate(tasks)
	if !ok {
		if reason == "" {
			reason = "publish gate rejected the document"
		}

		return Decision{Allowed: false, Reason: reason}, nil
	}

	return Decision{Allowed: true}, nil
}

// read returns the document's tasks record and its revision, synthesizing
// the all-initial record (revision 0) when none exists yet.
func (e *Engine) read(documentID string) (map[string]interface{}, int64, error) {
	record, err := e.store.Get(documentID, e.schemaName)
	if err != nil {
		var ce *errors.CaxtonError
		if stderrors.As(err, &ce) && ce.Code == errors.ErrCodeRecordNotFound {
			initial := make(map[string]interface{}, len(e.types))
			for name := range e.types {
				initial[name] = 0
			}

			return initial, 0, nil
		}

		return nil, 0, err
	}

	return record.Value, record.Revision, nil
}

func (e *Engine) resolve(record map[string]interface{}) (map[string]TaskStatus, error) {
	result := make(map[string]TaskStatus, len(e.types))

	for name, t := range e.types {
		index := stateIndex(record, name)
		state, ok := t.StateAt(index)
		if !ok {
			return nil, errors.NewInternalError(errors.ErrCodeInternalError,
				fmt.Sprintf("task %q holds out-of-range state index %d", name, index), nil)
		}

		result[name] = TaskStatus{
			Type:       name,
			StateIndex: index,
			State:      state,
			Terminal:   state.CompletesTask,
		}
	}

	return result, nil
}

// stateIndex reads a task's state index out of a record. The store
// normalizes numbers to float64.
func stateIndex(record map[string]interface{}, taskType string) int {
	switch v := record[taskType].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

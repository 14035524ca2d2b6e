// Package workflow implements the editorial task state machine that gates
// publishing. Task state lives in the metadata store under a reserved
// schema namespace, so every transition goes through the same validated,
// revision-checked write path as any other metadata.
package workflow

import (
	"fmt"

	"github.com/conneroisu/caxton/internal/errors"
)

// TaskState is one discrete stage of a task workflow.
type TaskState struct {
	// Name is the state identifier (e.g., "content-review")
	Name string `yaml:"name"`
	// Label is the human-readable name shown by the editor collaborator
	Label string `yaml:"label"`
	// CompletesTask marks the state that finishes the task
	CompletesTask bool `yaml:"completes_task"`
}

// TaskType declares an ordered sequence of task states. Transitions are
// monotonic: one state forward at a time, never backward, never skipping.
type TaskType struct {
	Name   string      `yaml:"name"`
	States []TaskState `yaml:"states"`
}

// StateAt returns the state at index.
func (t *TaskType) StateAt(index int) (TaskState, bool) {
	if index < 0 || index >= len(t.States) {
		return TaskState{}, false
	}

	return t.States[index], true
}

// Validate checks the task type declaration.
func (t *TaskType) Validate() error {
	if t.Name == "" {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"task type requires a name")
	}
	if len(t.States) == 0 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("task type %s declares no states", t.Name))
	}

	seen := make(map[string]bool, len(t.States))
	for _, s := range t.States {
		if s.Name == "" {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("task type %s declares an unnamed state", t.Name))
		}
		if seen[s.Name] {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("task type %s declares state %q twice", t.Name, s.Name))
		}
		seen[s.Name] = true
	}

	return nil
}

// TaskStatus is the resolved view of one task instance on a document.
type TaskStatus struct {
	Type       string
	StateIndex int
	State      TaskState
	Terminal   bool
}

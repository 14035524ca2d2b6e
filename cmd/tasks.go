package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/caxton/internal/events"
)

// tasksCmd represents the tasks command group
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and advance editorial task workflows",
	Long: `Tasks shows and advances the editorial task workflows attached to a
document. Each task moves forward one state at a time and never moves
backward; a completing state finishes the task permanently.

Examples:
  caxton tasks status <document-id>
  caxton tasks advance <document-id> review
  caxton tasks can-publish <document-id>`,
}

var tasksStatusCmd = &cobra.Command{
	Use:   "status <document-id>",
	Short: "Show the task states of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksStatusCommand,
}

var tasksAdvanceCmd = &cobra.Command{
	Use:   "advance <document-id> <task-type>",
	Short: "Advance a document's task to its next state",
	Args:  cobra.ExactArgs(2),
	RunE:  runTasksAdvanceCommand,
}

var tasksCanPublishCmd = &cobra.Command{
	Use:   "can-publish <document-id>",
	Short: "Evaluate the publish gate for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksCanPublishCommand,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksStatusCmd)
	tasksCmd.AddCommand(tasksAdvanceCmd)
	tasksCmd.AddCommand(tasksCanPublishCmd)
}

func runTasksStatusCommand(_ *cobra.Command, args []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}

	statuses, err := application.Workflow.Status(args[0])
	if err != nil {
		return err
	}

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		status := statuses[name]
		terminal := ""
		if status.Terminal {
			terminal = " (complete)"
		}
		fmt.Printf("%s: %s%s\n", name, status.State.Name, terminal)
	}

	return nil
}

func runTasksAdvanceCommand(_ *cobra.Command, args []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	documentID, taskType := args[0], args[1]
	status, err := application.Workflow.Advance(ctx, documentID, taskType)
	if err != nil {
		return err
	}

	application.Events.Broadcast(ctx, events.New(events.TypeTaskAdvanced, map[string]interface{}{
		"document": documentID,
		"task":     taskType,
		"state":    status.State.Name,
		"terminal": status.Terminal,
	}))

	terminal := ""
	if status.Terminal {
		terminal = " (complete)"
	}
	fmt.Printf("%s: %s%s\n", taskType, status.State.Name, terminal)

	return nil
}

func runTasksCanPublishCommand(_ *cobra.Command, args []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}

	decision, err := application.Workflow.CanPublish(args[0])
	if err != nil {
		return err
	}

	if decision.Allowed {
		fmt.Println("publish: allowed")
		return nil
	}

	fmt.Printf("publish: blocked (%s)\n", decision.Reason)

	return nil
}

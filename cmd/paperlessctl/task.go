package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/rodstewart/paperless-cli/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// pollInterval is the first delay between status checks while waiting
var pollInterval = 500 * time.Millisecond

var errTaskPending = errors.New("task still running")

var taskWaitTimeout time.Duration

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect ingestion tasks",
	Long:  `Check on the server-side tasks created by uploads.`,
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Show the status of a task",
	Long: `Query the server once for the status of an ingestion task.

Examples:
  paperlessctl task status 4f6c2a1e-3b1d-4d4b-9c55-2b8f3e6f0a17
  paperlessctl task status 4f6c2a1e-3b1d-4d4b-9c55-2b8f3e6f0a17 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskStatus,
}

var taskWaitCmd = &cobra.Command{
	Use:   "wait <task-id>",
	Short: "Wait for a task to finish",
	Long: `Poll the status of an ingestion task until it succeeds, fails, or the timeout expires.

Examples:
  paperlessctl task wait 4f6c2a1e-3b1d-4d4b-9c55-2b8f3e6f0a17
  paperlessctl task wait 4f6c2a1e-3b1d-4d4b-9c55-2b8f3e6f0a17 --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskWait,
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskWaitCmd)

	taskWaitCmd.Flags().DurationVar(&taskWaitTimeout, "timeout", 2*time.Minute, "give up after this long")
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	client, err := setup()
	if err != nil {
		return err
	}

	checkTaskID(args[0])
	status, err := client.Task(args[0]).Status(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(status)
	}
	printTaskStatus(status)
	return nil
}

func runTaskWait(cmd *cobra.Command, args []string) error {
	client, err := setup()
	if err != nil {
		return err
	}

	checkTaskID(args[0])
	status, err := waitForTask(cmd.Context(), client.Task(args[0]), taskWaitTimeout)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := outputJSON(status); err != nil {
			return err
		}
	} else {
		printTaskStatus(status)
	}

	if status.Failed() {
		return fmt.Errorf("task %s finished with status %s", args[0], status.Status)
	}
	return nil
}

// waitForTask polls task until its status is terminal. A task the server has
// not registered yet is polled again rather than treated as an error.
func waitForTask(ctx context.Context, task *api.Task, timeout time.Duration) (*models.TaskStatus, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = pollInterval
	b.MaxInterval = 10 * pollInterval
	b.MaxElapsedTime = timeout

	var last *models.TaskStatus
	operation := func() error {
		status, err := task.Status(ctx)
		if errors.Is(err, api.ErrTaskCount) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}

		last = status
		if !status.Done() {
			log.Debug().Str("task_id", task.ID()).Str("status", status.Status).Msg("Task not finished")
			return errTaskPending
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		if errors.Is(err, errTaskPending) || errors.Is(err, api.ErrTaskCount) {
			state := "unknown"
			if last != nil {
				state = last.Status
			}
			return last, fmt.Errorf("timed out after %s waiting for task %s (last status: %s)", timeout, task.ID(), state)
		}
		return last, err
	}

	return last, nil
}

// checkTaskID warns about ids that do not look like the UUIDs the server issues
func checkTaskID(id string) {
	if _, err := uuid.Parse(id); err != nil {
		log.Warn().Str("task_id", id).Msg("Task id is not a UUID")
	}
}

func printTaskStatus(status *models.TaskStatus) {
	fmt.Printf("Task:      %s\n", status.TaskID)
	if status.FileName != "" {
		fmt.Printf("File:      %s\n", status.FileName)
	}
	fmt.Printf("Status:    %s\n", status.Status)
	if status.RelatedDocument != nil {
		fmt.Printf("Document:  %s\n", *status.RelatedDocument)
	}
	if status.Result != nil && *status.Result != "" {
		fmt.Printf("Result:    %s\n", *status.Result)
	}
	if status.DateDone != nil {
		fmt.Printf("Done:      %s\n", status.DateDone.Format("2006-01-02 15:04:05"))
	}
}

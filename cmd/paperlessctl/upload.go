package main

import (
	"fmt"
	"time"

	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/rodstewart/paperless-cli/internal/models"
	"github.com/spf13/cobra"
)

var (
	uploadWait    bool
	uploadTimeout time.Duration
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload documents for ingestion",
	Long: `Upload one or more files to the Paperless consumer. Each upload creates a
server-side task; its id is printed so the task can be checked later. A file
that fails to upload is reported and the remaining files are still sent.

Examples:
  paperlessctl upload scan.pdf
  paperlessctl upload invoice-*.pdf --wait
  paperlessctl upload scan.pdf --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolVarP(&uploadWait, "wait", "w", false, "wait for each task to finish")
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", 2*time.Minute, "how long to wait for each task")
}

// uploadResult is the JSON output of one upload
type uploadResult struct {
	File   string             `json:"file"`
	TaskID string             `json:"task_id,omitempty"`
	DryRun bool               `json:"dry_run,omitempty"`
	Status *models.TaskStatus `json:"status,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := setup()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	results := make([]uploadResult, 0, len(args))
	var failed int

	for _, path := range args {
		task, err := client.Upload(ctx, path)
		if err != nil {
			failed++
			result := uploadResult{File: path, Error: err.Error()}
			if !jsonOutput {
				printOutcome(result)
			}
			results = append(results, result)
			continue
		}

		result := uploadResult{File: path, TaskID: task.ID(), DryRun: task.IsDryRun()}
		if !jsonOutput {
			printSubmitted(path, task)
		}

		if uploadWait && !task.IsDryRun() {
			status, err := waitForTask(ctx, task, uploadTimeout)
			result.Status = status
			switch {
			case err != nil:
				failed++
				result.Error = err.Error()
			case status.Failed():
				failed++
				result.Error = fmt.Sprintf("task finished with status %s", status.Status)
			}
			if !jsonOutput {
				printOutcome(result)
			}
		}

		results = append(results, result)
	}

	if jsonOutput {
		if err := outputJSON(results); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads did not complete", failed, len(args))
	}
	return nil
}

func printSubmitted(path string, task *api.Task) {
	if task.IsDryRun() {
		fmt.Printf("[dry-run] Would upload %s\n", path)
		return
	}
	fmt.Printf("✓ Uploaded %s (task %s)\n", path, task.ID())
}

func printOutcome(result uploadResult) {
	if result.Error != "" {
		fmt.Printf("✗ %s: %s\n", result.File, result.Error)
		return
	}
	if result.Status.RelatedDocument != nil {
		fmt.Printf("✓ %s ingested as document %s\n", result.File, *result.Status.RelatedDocument)
		return
	}
	fmt.Printf("✓ %s ingested\n", result.File)
}

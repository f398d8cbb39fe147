package main

import (
	"fmt"
	"time"

	"github.com/rodstewart/paperless-cli/internal/ingest"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	ingestPattern      string
	ingestRecursive    bool
	ingestSkipExisting bool
	ingestWait         bool
	ingestTimeout      time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <directory>",
	Short: "Upload every document in a directory",
	Long: `Upload every supported file in a directory. Hidden files are ignored.
A failed upload is reported and the remaining files are still uploaded.

Examples:
  paperlessctl ingest ~/scans
  paperlessctl ingest ~/scans --pattern "*.pdf" --recursive
  paperlessctl ingest ~/scans --skip-existing --wait
  paperlessctl ingest ~/scans --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestPattern, "pattern", "p", "", "Only files whose name matches this glob")
	ingestCmd.Flags().BoolVarP(&ingestRecursive, "recursive", "r", false, "Descend into subdirectories")
	ingestCmd.Flags().BoolVar(&ingestSkipExisting, "skip-existing", false, "Skip files already on the server (by original file name)")
	ingestCmd.Flags().BoolVarP(&ingestWait, "wait", "w", false, "Wait for every task to finish")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 2*time.Minute, "How long to wait for each task")
}

func runIngest(cmd *cobra.Command, args []string) error {
	client, err := setup()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	options := ingest.Options{
		Pattern:      ingestPattern,
		Recursive:    ingestRecursive,
		SkipExisting: ingestSkipExisting,
	}

	result, err := ingest.Run(ctx, client, afero.NewOsFs(), args[0], options)
	if err != nil {
		return err
	}

	if ingestWait && !client.DryRun() {
		for _, s := range result.Submitted {
			status, err := waitForTask(ctx, client.Task(s.TaskID), ingestTimeout)
			switch {
			case err != nil:
				result.Failed++
				result.Errors = append(result.Errors, ingest.FileError{Path: s.Path, Message: err.Error()})
			case status.Failed():
				result.Failed++
				result.Errors = append(result.Errors, ingest.FileError{Path: s.Path, Message: "task finished with status " + status.Status})
			}
		}
	}

	if jsonOutput {
		if err := outputJSON(result); err != nil {
			return err
		}
	} else {
		verb := "Uploaded"
		if client.DryRun() {
			verb = "[dry-run] Would upload"
		}
		for _, s := range result.Submitted {
			fmt.Printf("%s %s (task %s)\n", verb, s.Path, s.TaskID)
		}
		for _, e := range result.Errors {
			fmt.Printf("✗ %s\n", e.Error())
		}
		fmt.Printf("\nIngest complete: %d submitted, %d skipped, %d failed\n", len(result.Submitted), result.Skipped, result.Failed)
	}

	if err := result.Err(); err != nil {
		return fmt.Errorf("ingest finished with errors: %w", err)
	}
	return nil
}

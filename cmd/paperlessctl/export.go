package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rodstewart/paperless-cli/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat         string
	exportOutput         string
	exportCorrespondents []int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export documents or correspondents",
	Long: `Export document metadata or correspondents as JSON or CSV.

Examples:
  paperlessctl export documents > documents.json
  paperlessctl export documents -f csv -o documents.csv --correspondent 3
  paperlessctl export correspondents -f csv`,
}

var exportDocumentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Export document metadata",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var exportCorrespondentsCmd = &cobra.Command{
	Use:   "correspondents",
	Short: "Export correspondents",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportDocumentsCmd)
	exportCmd.AddCommand(exportCorrespondentsCmd)

	exportCmd.PersistentFlags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv")
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportDocumentsCmd.Flags().IntSliceVarP(&exportCorrespondents, "correspondent", "c", nil, "Only documents from these correspondent IDs")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "json", "csv":
	default:
		return fmt.Errorf("invalid export format '%s'. Valid formats: json, csv", exportFormat)
	}

	client, err := setup()
	if err != nil {
		return err
	}

	var writer io.Writer = os.Stdout
	if exportOutput != "" {
		file, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	ctx := cmd.Context()
	options := export.ExportOptions{CorrespondentIDs: exportCorrespondents}
	what := cmd.Name()

	switch {
	case what == "documents" && exportFormat == "json":
		err = export.ExportJSON(ctx, client, writer, options)
	case what == "documents":
		err = export.ExportDocumentsCSV(ctx, client, writer, options)
	case exportFormat == "json":
		err = export.ExportCorrespondentsJSON(ctx, client, writer)
	default:
		err = export.ExportCorrespondentsCSV(ctx, client, writer)
	}
	if err != nil {
		return err
	}

	// Keep stdout clean for the export itself
	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported %s to %s\n", what, exportOutput)
	}

	return nil
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/rodstewart/paperless-cli/internal/models"
	"github.com/spf13/cobra"
)

var documentsCorrespondents []int

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List and organize documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long: `List every document on the server, optionally limited to some correspondents.

Examples:
  paperlessctl documents list
  paperlessctl documents list --correspondent 3,7
  paperlessctl documents list --json`,
	Args: cobra.NoArgs,
	RunE: runDocumentsList,
}

var documentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a document by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsGet,
}

var documentsSetCorrespondentCmd = &cobra.Command{
	Use:   "set-correspondent <name|id> <document-id>...",
	Short: "Assign a correspondent to documents",
	Long: `Assign a correspondent to one or more documents in a single bulk edit.
The correspondent may be given by ID or by name (case-insensitive).

Examples:
  paperlessctl documents set-correspondent "Acme Insurance" 12 13 14
  paperlessctl documents set-correspondent 5 12 --dry-run`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDocumentsSetCorrespondent,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsGetCmd)
	documentsCmd.AddCommand(documentsSetCorrespondentCmd)

	documentsListCmd.Flags().IntSliceVarP(&documentsCorrespondents, "correspondent", "c", nil, "Only documents from these correspondent IDs")
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	client, err := setup()
	if err != nil {
		return err
	}

	docs, err := client.Documents(cmd.Context(), api.DocumentFilter{CorrespondentIDs: documentsCorrespondents})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(docs)
	}
	return outputDocumentTable(docs)
}

func runDocumentsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID("document", args[0])
	if err != nil {
		return err
	}

	client, err := setup()
	if err != nil {
		return err
	}

	doc, err := client.Document(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(doc)
	}

	fmt.Printf("ID:            %d\n", doc.ID)
	fmt.Printf("Title:         %s\n", doc.Title)
	fmt.Printf("Tags:          %s\n", joinIDs(doc.Tags))
	if doc.Correspondent != nil {
		fmt.Printf("Correspondent: %d\n", *doc.Correspondent)
	} else {
		fmt.Printf("Correspondent: -\n")
	}
	if doc.OriginalFileName != "" {
		fmt.Printf("File:          %s\n", doc.OriginalFileName)
	}
	if doc.Created != nil {
		fmt.Printf("Created:       %s\n", doc.Created.Format("2006-01-02"))
	}
	if doc.Added != nil {
		fmt.Printf("Added:         %s\n", doc.Added.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runDocumentsSetCorrespondent(cmd *cobra.Command, args []string) error {
	ids := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := parseID("document", arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	client, err := setup()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	correspondentID, err := strconv.Atoi(args[0])
	if err != nil {
		correspondent, err := client.CorrespondentForName(ctx, args[0])
		if err != nil {
			return err
		}
		correspondentID = correspondent.ID
	}

	if err := client.DocumentsBulkSetCorrespondent(ctx, ids, correspondentID); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(map[string]any{
			"documents":     ids,
			"correspondent": correspondentID,
			"dry_run":       client.DryRun(),
		})
	}

	if client.DryRun() {
		fmt.Printf("[dry-run] Would set correspondent %d on %d document(s)\n", correspondentID, len(ids))
		return nil
	}
	fmt.Printf("✓ Correspondent %d set on %d document(s)\n", correspondentID, len(ids))
	return nil
}

func outputDocumentTable(docs []models.Document) error {
	if len(docs) == 0 {
		fmt.Println("No documents found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTITLE\tCORRESPONDENT\tTAGS")
	fmt.Fprintln(w, "--\t-----\t-------------\t----")

	for _, doc := range docs {
		correspondent := "-"
		if doc.Correspondent != nil {
			correspondent = strconv.Itoa(*doc.Correspondent)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", doc.ID, truncate(doc.Title, 50), correspondent, truncate(joinIDs(doc.Tags), 30))
	}

	w.Flush()

	fmt.Printf("\n%d documents\n", len(docs))
	return nil
}

// parseID parses a numeric resource ID given on the command line
func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s (must be a positive number)", kind, arg)
	}
	return id, nil
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

// truncate truncates a string to maxLen characters, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/rodstewart/paperless-cli/internal/models"
	"github.com/spf13/cobra"
)

var (
	correspondentsName string
	forceDelete        bool
)

var correspondentsCmd = &cobra.Command{
	Use:   "correspondents",
	Short: "Manage correspondents",
}

var correspondentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List correspondents",
	Long: `List correspondents, optionally filtered by a case-insensitive name fragment.

Examples:
  paperlessctl correspondents list
  paperlessctl correspondents list --name bank`,
	Args: cobra.NoArgs,
	RunE: runCorrespondentsList,
}

var correspondentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a correspondent by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorrespondentsGet,
}

var correspondentsFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find a correspondent by exact name",
	Long: `Find the correspondent whose name matches exactly, ignoring case.

Examples:
  paperlessctl correspondents find "acme insurance"`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrespondentsFind,
}

var correspondentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a correspondent by ID",
	Long: `Delete a correspondent by ID. Requires confirmation unless --force or --json flag is set.

Examples:
  paperlessctl correspondents delete 5
  paperlessctl correspondents delete 5 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrespondentsDelete,
}

func init() {
	rootCmd.AddCommand(correspondentsCmd)
	correspondentsCmd.AddCommand(correspondentsListCmd)
	correspondentsCmd.AddCommand(correspondentsGetCmd)
	correspondentsCmd.AddCommand(correspondentsFindCmd)
	correspondentsCmd.AddCommand(correspondentsDeleteCmd)

	correspondentsListCmd.Flags().StringVarP(&correspondentsName, "name", "n", "", "Only names containing this text")
	correspondentsDeleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "skip confirmation prompt")
}

func runCorrespondentsList(cmd *cobra.Command, args []string) error {
	client, err := setup()
	if err != nil {
		return err
	}

	correspondents, err := client.Correspondents(cmd.Context(), api.CorrespondentFilter{NameContains: correspondentsName})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(correspondents)
	}

	if len(correspondents) == 0 {
		fmt.Println("No correspondents found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDOCUMENTS")
	fmt.Fprintln(w, "--\t----\t---------")
	for _, c := range correspondents {
		fmt.Fprintf(w, "%d\t%s\t%d\n", c.ID, truncate(c.Name, 50), c.DocumentCount)
	}
	w.Flush()

	return nil
}

func runCorrespondentsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID("correspondent", args[0])
	if err != nil {
		return err
	}

	client, err := setup()
	if err != nil {
		return err
	}

	correspondent, err := client.Correspondent(cmd.Context(), id)
	if err != nil {
		return err
	}
	return outputCorrespondent(correspondent)
}

func runCorrespondentsFind(cmd *cobra.Command, args []string) error {
	client, err := setup()
	if err != nil {
		return err
	}

	correspondent, err := client.CorrespondentForName(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return outputCorrespondent(correspondent)
}

func runCorrespondentsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID("correspondent", args[0])
	if err != nil {
		return err
	}

	client, err := setup()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if !forceDelete && !jsonOutput {
		correspondent, err := client.Correspondent(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("About to delete correspondent:\n")
		fmt.Printf("  ID:        %d\n", correspondent.ID)
		fmt.Printf("  Name:      %s\n", correspondent.Name)
		fmt.Printf("  Documents: %d\n", correspondent.DocumentCount)
		fmt.Printf("\nAre you sure? (y/N): ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Delete cancelled")
			return nil
		}
	}

	if err := client.DeleteCorrespondent(ctx, id); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(map[string]any{"deleted": !client.DryRun(), "id": id, "dry_run": client.DryRun()})
	}

	if client.DryRun() {
		fmt.Printf("[dry-run] Would delete correspondent %d\n", id)
		return nil
	}
	fmt.Printf("✓ Correspondent %d deleted\n", id)
	return nil
}

func outputCorrespondent(c *models.Correspondent) error {
	if jsonOutput {
		return outputJSON(c)
	}

	fmt.Printf("ID:        %d\n", c.ID)
	fmt.Printf("Name:      %s\n", c.Name)
	fmt.Printf("Slug:      %s\n", c.Slug)
	fmt.Printf("Documents: %d\n", c.DocumentCount)
	if c.Owner != nil {
		fmt.Printf("Owner:     %d\n", *c.Owner)
	}
	return nil
}

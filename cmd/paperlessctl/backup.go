package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rodstewart/paperless-cli/internal/export"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// backupTimeFormat sorts lexically in chronological order
const backupTimeFormat = "2006-01-02T150405"

var backupFS = afero.NewOsFs()

var (
	backupOutput string
	backupPrefix string
	backupKeep   int
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a timestamped backup of document metadata",
	Long: `Write all document metadata and correspondents to <prefix>-<timestamp>.json
in the output directory. The file only appears once the export has completed.
With --keep, older backups with the same prefix beyond the newest N are removed.

Examples:
  paperlessctl backup
  paperlessctl backup -o ~/backups/ --keep 7
  paperlessctl backup --prefix office`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", ".", "Output directory")
	backupCmd.Flags().StringVar(&backupPrefix, "prefix", "paperless-backup", "Filename prefix")
	backupCmd.Flags().IntVar(&backupKeep, "keep", 0, "Keep only the newest N backups with this prefix (0 keeps all)")
}

func runBackup(cmd *cobra.Command, args []string) error {
	if backupKeep < 0 {
		return fmt.Errorf("--keep must not be negative")
	}

	client, err := setup()
	if err != nil {
		return err
	}

	if err := backupFS.MkdirAll(backupOutput, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := afero.TempFile(backupFS, backupOutput, "."+backupPrefix+"-*.partial")
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	exportErr := export.ExportJSON(cmd.Context(), client, tmp, export.ExportOptions{})
	closeErr := tmp.Close()
	if exportErr == nil {
		exportErr = closeErr
	}
	if exportErr != nil {
		_ = backupFS.Remove(tmp.Name())
		return fmt.Errorf("failed to export documents: %w", exportErr)
	}

	path := filepath.Join(backupOutput, backupFileName(backupPrefix, time.Now()))
	if err := backupFS.Rename(tmp.Name(), path); err != nil {
		_ = backupFS.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize backup: %w", err)
	}

	var pruned []string
	if backupKeep > 0 {
		pruned, err = pruneBackups(backupFS, backupOutput, backupPrefix, backupKeep)
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputJSON(map[string]any{"file": path, "pruned": pruned})
	}

	fmt.Fprintf(os.Stderr, "Backup created: %s\n", path)
	for _, p := range pruned {
		fmt.Fprintf(os.Stderr, "Removed old backup: %s\n", p)
	}
	return nil
}

func backupFileName(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s.json", prefix, at.Format(backupTimeFormat))
}

// pruneBackups removes all but the newest keep backups named prefix-<timestamp>.json
// and returns the removed paths.
func pruneBackups(fs afero.Fs, dir, prefix string, keep int) ([]string, error) {
	matches, err := afero.Glob(fs, filepath.Join(dir, prefix+"-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var backups []string
	for _, m := range matches {
		stamp := filepath.Base(m)[len(prefix)+1 : len(filepath.Base(m))-len(".json")]
		if _, err := time.Parse(backupTimeFormat, stamp); err == nil {
			backups = append(backups, m)
		}
	}
	if len(backups) <= keep {
		return nil, nil
	}

	sort.Strings(backups)
	stale := backups[:len(backups)-keep]
	for _, p := range stale {
		if err := fs.Remove(p); err != nil {
			return nil, fmt.Errorf("failed to remove old backup %s: %w", p, err)
		}
	}
	return stale, nil
}

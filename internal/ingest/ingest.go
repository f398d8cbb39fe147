// Package ingest uploads every document in a directory for ingestion.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/spf13/afero"
)

// supportedExtensions are the file types the server consumes.
var supportedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
	".webp": true,
	".txt":  true,
	".eml":  true,
	".docx": true,
	".odt":  true,
}

// Options configures a directory ingest
type Options struct {
	// Pattern is a glob matched against file names. Empty selects every supported type.
	Pattern string

	// Recursive descends into subdirectories.
	Recursive bool

	// SkipExisting skips files whose name matches an existing document's original file name.
	SkipExisting bool
}

// Submission records one upload accepted by the server
type Submission struct {
	Path   string `json:"path"`
	TaskID string `json:"task_id"`
}

// FileError represents a single upload failure
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result tracks the outcome of an ingest run
type Result struct {
	Submitted []Submission `json:"submitted"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Errors    []FileError  `json:"errors,omitempty"`
}

// Err combines the per-file failures, or returns nil if there were none.
func (r *Result) Err() error {
	var result *multierror.Error
	for _, e := range r.Errors {
		result = multierror.Append(result, e)
	}
	return result.ErrorOrNil()
}

// Supported reports whether the file extension is one the server consumes
func Supported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Files lists the files under dir selected by options, in lexical order.
func Files(fs afero.Fs, dir string, options Options) ([]string, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if options.Pattern != "" {
		if _, err := filepath.Match(options.Pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", options.Pattern, err)
		}
	}

	var files []string
	err = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name := info.Name()
		if info.IsDir() {
			if path != dir && (!options.Recursive || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		if options.Pattern != "" {
			if ok, _ := filepath.Match(options.Pattern, name); !ok {
				return nil
			}
		} else if !Supported(name) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	return files, nil
}

// Run uploads every selected file in dir. A failed upload is recorded and the
// run continues; only setup failures and cancellation abort it.
func Run(ctx context.Context, client *api.Client, fs afero.Fs, dir string, options Options) (*Result, error) {
	files, err := Files(fs, dir, options)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool)
	if options.SkipExisting {
		docs, err := client.Documents(ctx, api.DocumentFilter{})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch existing documents: %w", err)
		}
		for _, d := range docs {
			if d.OriginalFileName != "" {
				existing[d.OriginalFileName] = true
			}
		}
	}

	result := &Result{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if existing[filepath.Base(path)] {
			result.Skipped++
			continue
		}

		task, err := client.Upload(ctx, path)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, FileError{Path: path, Message: err.Error()})
			continue
		}
		result.Submitted = append(result.Submitted, Submission{Path: path, TaskID: task.ID()})
	}

	return result, nil
}

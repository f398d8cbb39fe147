// Package export writes Paperless documents and correspondents as JSON or CSV.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/rodstewart/paperless-cli/internal/models"
)

// ExportDocument represents a document in the export format
type ExportDocument struct {
	ID               int          `json:"id"`
	Title            string       `json:"title"`
	Tags             []int        `json:"tags"`
	CorrespondentID  *int         `json:"correspondent_id,omitempty"`
	Correspondent    string       `json:"correspondent,omitempty"`
	OriginalFileName string       `json:"original_file_name,omitempty"`
	Created          *models.Date `json:"created,omitempty"`
}

// ExportData represents the complete export data structure
type ExportData struct {
	Version        string                 `json:"version"`
	ExportedAt     time.Time              `json:"exported_at"`
	Source         string                 `json:"source"`
	Documents      []ExportDocument       `json:"documents"`
	Correspondents []models.Correspondent `json:"correspondents"`
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	// CorrespondentIDs limits exported documents to these correspondents.
	CorrespondentIDs []int
}

// convertToExportFormat converts documents to export format, resolving
// correspondent ids to names where known
func convertToExportFormat(docs []models.Document, correspondents []models.Correspondent) []ExportDocument {
	names := make(map[int]string, len(correspondents))
	for _, c := range correspondents {
		names[c.ID] = c.Name
	}

	exported := make([]ExportDocument, len(docs))
	for i, d := range docs {
		tags := d.Tags
		if tags == nil {
			tags = []int{}
		}
		exported[i] = ExportDocument{
			ID:               d.ID,
			Title:            d.Title,
			Tags:             tags,
			CorrespondentID:  d.Correspondent,
			OriginalFileName: d.OriginalFileName,
			Created:          d.Created,
		}
		if d.Correspondent != nil {
			exported[i].Correspondent = names[*d.Correspondent]
		}
	}
	return exported
}

// fetch retrieves the documents and correspondents to export
func fetch(ctx context.Context, client *api.Client, options ExportOptions) ([]models.Document, []models.Correspondent, error) {
	correspondents, err := client.Correspondents(ctx, api.CorrespondentFilter{})
	if err != nil {
		return nil, nil, err
	}

	docs, err := client.Documents(ctx, api.DocumentFilter{CorrespondentIDs: options.CorrespondentIDs})
	if err != nil {
		return nil, nil, err
	}

	return docs, correspondents, nil
}

// ExportJSON exports documents and correspondents to JSON format
func ExportJSON(ctx context.Context, client *api.Client, writer io.Writer, options ExportOptions) error {
	docs, correspondents, err := fetch(ctx, client, options)
	if err != nil {
		return err
	}

	data := ExportData{
		Version:        "1",
		ExportedAt:     time.Now().UTC(),
		Source:         client.BaseURL(),
		Documents:      convertToExportFormat(docs, correspondents),
		Correspondents: correspondents,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportCorrespondentsJSON exports correspondents as a JSON array
func ExportCorrespondentsJSON(ctx context.Context, client *api.Client, writer io.Writer) error {
	correspondents, err := client.Correspondents(ctx, api.CorrespondentFilter{})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(correspondents); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

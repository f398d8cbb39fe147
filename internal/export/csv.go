package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rodstewart/paperless-cli/internal/api"
)

// ExportDocumentsCSV exports documents to CSV format, one row per document
func ExportDocumentsCSV(ctx context.Context, client *api.Client, writer io.Writer, options ExportOptions) error {
	docs, correspondents, err := fetch(ctx, client, options)
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(writer)

	header := []string{"id", "title", "tags", "correspondent_id", "correspondent", "original_file_name", "created"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, d := range convertToExportFormat(docs, correspondents) {
		tags := make([]string, len(d.Tags))
		for i, tag := range d.Tags {
			tags[i] = strconv.Itoa(tag)
		}

		var correspondentID, created string
		if d.CorrespondentID != nil {
			correspondentID = strconv.Itoa(*d.CorrespondentID)
		}
		if d.Created != nil {
			created = d.Created.String()
		}

		row := []string{
			strconv.Itoa(d.ID),
			d.Title,
			strings.Join(tags, ","),
			correspondentID,
			d.Correspondent,
			d.OriginalFileName,
			created,
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// ExportCorrespondentsCSV exports correspondents to CSV format
func ExportCorrespondentsCSV(ctx context.Context, client *api.Client, writer io.Writer) error {
	correspondents, err := client.Correspondents(ctx, api.CorrespondentFilter{})
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(writer)

	header := []string{"id", "name", "slug", "document_count", "owner"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range correspondents {
		var owner string
		if c.Owner != nil {
			owner = strconv.Itoa(*c.Owner)
		}

		row := []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.Slug,
			strconv.Itoa(c.DocumentCount),
			owner,
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

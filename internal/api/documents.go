package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rodstewart/paperless-cli/internal/models"
)

const (
	uploadPath   = "/api/documents/post_document/"
	bulkEditPath = "/api/documents/bulk_edit/"
)

// DocumentFilter narrows a document listing. The zero value lists everything.
type DocumentFilter struct {
	CorrespondentIDs []int
}

func (f DocumentFilter) path() string {
	path := "/api/documents/"
	if len(f.CorrespondentIDs) == 0 {
		return path
	}

	ids := make([]string, len(f.CorrespondentIDs))
	for i, id := range f.CorrespondentIDs {
		ids[i] = strconv.Itoa(id)
	}
	params := url.Values{}
	params.Set("correspondent__id__in", strings.Join(ids, ","))
	return path + "?" + params.Encode()
}

// Upload sends a file for ingestion and returns the task tracking it.
// In dry-run mode the file is still read, and the returned task has DryRunTaskID.
func (c *Client) Upload(ctx context.Context, filePath string) (*Task, error) {
	c.logger.Info().Str("path", filePath).Msg("Uploading document")

	resp, err := c.PostMultipart(ctx, uploadPath, "document", filePath)
	if err != nil {
		if errors.Is(err, ErrDryRun) {
			if err := c.noOp(http.MethodPost, uploadPath); err != nil {
				return nil, err
			}
			return c.Task(DryRunTaskID), nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: http.MethodPost, URL: c.baseURL + uploadPath, Message: "failed to read upload response", Err: err}
	}

	id := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if id == "" {
		return nil, &Error{Kind: KindTransport, Method: http.MethodPost, URL: c.baseURL + uploadPath, StatusCode: resp.StatusCode, Message: "upload response carried no task id"}
	}

	c.logger.Info().Str("task_id", id).Msg("Task submitted")
	return c.Task(id), nil
}

// Documents retrieves every document matching filter, following pagination.
func (c *Client) Documents(ctx context.Context, filter DocumentFilter) ([]models.Document, error) {
	docs, err := collect[models.Document](ctx, c, filter.path())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, nil
}

// Document retrieves a single document by ID
func (c *Client) Document(ctx context.Context, id int) (*models.Document, error) {
	var doc models.Document
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/documents/%d/", c.baseURL, id), &doc); err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("document with ID %d not found: %w", id, err)
		}
		return nil, err
	}
	return &doc, nil
}

// DocumentsBulkSetCorrespondent assigns one correspondent to many documents
// with a single bulk edit.
func (c *Client) DocumentsBulkSetCorrespondent(ctx context.Context, ids []int, correspondentID int) error {
	edit := models.BulkEdit{
		Documents: ids,
		Method:    models.BulkEditSetCorrespondent,
		Parameters: map[string]string{
			"correspondent": strconv.Itoa(correspondentID),
		},
	}

	resp, err := c.PostJSON(ctx, bulkEditPath, edit)
	if err != nil {
		if errors.Is(err, ErrDryRun) {
			return c.noOp(http.MethodPost, bulkEditPath)
		}
		return fmt.Errorf("bulk edit failed: %w", err)
	}
	resp.Body.Close()

	c.logger.Info().
		Ints("documents", ids).
		Int("correspondent", correspondentID).
		Msg("Correspondent set")
	return nil
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rodstewart/paperless-cli/internal/models"
)

// DryRunTaskID is the id of tasks returned by uploads in dry-run mode.
var DryRunTaskID = uuid.Nil.String()

// Task is a handle on one asynchronous ingestion job. It borrows the client
// that created it and holds nothing but the server-assigned id.
type Task struct {
	id     string
	client *Client
}

// Task returns a handle for a task id obtained earlier, e.g. from a previous run.
func (c *Client) Task(id string) *Task {
	return &Task{id: id, client: c}
}

// ID returns the server-assigned task id.
func (t *Task) ID() string {
	return t.id
}

// IsDryRun reports whether the task was produced by a suppressed upload.
func (t *Task) IsDryRun() bool {
	return t.id == DryRunTaskID
}

// Status performs one status check. No record is an error. More than one
// record is logged as a warning and the first is returned.
func (t *Task) Status(ctx context.Context) (*models.TaskStatus, error) {
	reqURL := t.client.baseURL + "/api/tasks/?task_id=" + url.QueryEscape(t.id)

	var statuses []models.TaskStatus
	if err := t.client.getJSON(ctx, reqURL, &statuses); err != nil {
		return nil, fmt.Errorf("failed to fetch status of task %s: %w", t.id, err)
	}

	switch len(statuses) {
	case 0:
		return nil, &Error{
			Kind:    KindTaskCount,
			Method:  http.MethodGet,
			URL:     reqURL,
			Message: fmt.Sprintf("no status record for task %s", t.id),
		}
	case 1:
	default:
		t.client.logger.Warn().
			Str("task_id", t.id).
			Int("records", len(statuses)).
			Msg("Unexpected number of status responses, using the first")
	}

	status := statuses[0]
	return &status, nil
}

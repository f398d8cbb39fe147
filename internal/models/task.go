package models

import "time"

// Task states reported by the Paperless task queue
const (
	TaskPending = "PENDING"
	TaskStarted = "STARTED"
	TaskSuccess = "SUCCESS"
	TaskFailure = "FAILURE"
	TaskRetry   = "RETRY"
	TaskRevoked = "REVOKED"
)

// TaskStatus is one status record returned by /api/tasks/
type TaskStatus struct {
	TaskID          string     `json:"task_id,omitempty"`
	FileName        string     `json:"task_file_name"`
	Status          string     `json:"status"`
	RelatedDocument *string    `json:"related_document"`
	Result          *string    `json:"result"`
	DateCreated     *time.Time `json:"date_created,omitempty"`
	DateDone        *time.Time `json:"date_done,omitempty"`
}

// Done reports whether the task has reached a terminal state
func (s TaskStatus) Done() bool {
	switch s.Status {
	case TaskSuccess, TaskFailure, TaskRevoked:
		return true
	default:
		return false
	}
}

// Failed reports whether the task ended without producing a document
func (s TaskStatus) Failed() bool {
	return s.Status == TaskFailure || s.Status == TaskRevoked
}

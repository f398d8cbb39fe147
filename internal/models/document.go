// Package models defines the data models exchanged with the Paperless API.
package models

// Document represents a Paperless document
type Document struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Tags             []int  `json:"tags"`
	Correspondent    *int   `json:"correspondent,omitempty"`
	OriginalFileName string `json:"original_file_name,omitempty"`
	Created          *Date  `json:"created,omitempty"`
	Added            *Date  `json:"added,omitempty"`
}

// Bulk edit methods understood by /api/documents/bulk_edit/
const (
	BulkEditSetCorrespondent = "set_correspondent"
)

// BulkEdit represents a request to apply one operation to many documents
type BulkEdit struct {
	Documents  []int             `json:"documents"`
	Method     string            `json:"method"`
	Parameters map[string]string `json:"parameters"`
}

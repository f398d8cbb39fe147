package models

// Correspondent represents a Paperless correspondent
type Correspondent struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	DocumentCount int    `json:"document_count"`
	Owner         *int   `json:"owner"`
}

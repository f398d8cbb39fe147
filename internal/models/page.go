package models

// Page represents one page of a paginated collection response.
// Next and Previous are nil on the last and first page respectively.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	All      []int   `json:"all,omitempty"`
	Results  []T     `json:"results"`
}

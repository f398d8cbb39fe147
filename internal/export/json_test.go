package export

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rodstewart/paperless-cli/internal/api"
	"github.com/rodstewart/paperless-cli/internal/models"
	"github.com/rs/zerolog"
)

func intPtr(i int) *int {
	return &i
}

// setupServer serves one page of documents and one page of correspondents.
// The documents listing honours correspondent__id__in when it is a single id.
func setupServer(t *testing.T, docs []models.Document, correspondents []models.Correspondent) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/", func(w http.ResponseWriter, r *http.Request) {
		results := docs
		if filter := r.URL.Query().Get("correspondent__id__in"); filter != "" {
			results = []models.Document{}
			for _, d := range docs {
				if d.Correspondent != nil && filter == strconv.Itoa(*d.Correspondent) {
					results = append(results, d)
				}
			}
		}
		_ = json.NewEncoder(w).Encode(models.Page[models.Document]{Count: len(results), Results: results})
	})
	mux.HandleFunc("/api/correspondents/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Page[models.Correspondent]{Count: len(correspondents), Results: correspondents})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, serverURL string) *api.Client {
	t.Helper()
	client, err := api.NewBuilder().
		SetURL(serverURL).
		SetToken("test-token").
		SetLogger(zerolog.Nop()).
		Build()
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

func TestConvertToExportFormat(t *testing.T) {
	created := models.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	docs := []models.Document{
		{ID: 1, Title: "Invoice", Tags: []int{1, 2}, Correspondent: intPtr(7), Created: &created},
		{ID: 2, Title: "Letter", OriginalFileName: "letter.pdf"},
		{ID: 3, Title: "Orphan", Correspondent: intPtr(99)},
	}
	correspondents := []models.Correspondent{{ID: 7, Name: "Acme"}}

	exported := convertToExportFormat(docs, correspondents)

	if len(exported) != 3 {
		t.Fatalf("Expected 3 exported documents, got %d", len(exported))
	}
	if exported[0].Correspondent != "Acme" {
		t.Errorf("Expected correspondent name Acme, got %q", exported[0].Correspondent)
	}
	if len(exported[0].Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(exported[0].Tags))
	}
	if exported[1].Tags == nil {
		t.Error("Expected empty tag slice rather than nil")
	}
	if exported[1].CorrespondentID != nil {
		t.Error("Expected no correspondent id for document 2")
	}
	if exported[1].OriginalFileName != "letter.pdf" {
		t.Errorf("Expected original file name letter.pdf, got %q", exported[1].OriginalFileName)
	}
	if exported[2].Correspondent != "" {
		t.Errorf("Expected unknown correspondent to stay unnamed, got %q", exported[2].Correspondent)
	}
}

func TestExportJSON(t *testing.T) {
	server := setupServer(t,
		[]models.Document{
			{ID: 1, Title: "Invoice", Tags: []int{3}, Correspondent: intPtr(7)},
			{ID: 2, Title: "Letter"},
		},
		[]models.Correspondent{{ID: 7, Name: "Acme", Slug: "acme", DocumentCount: 1}},
	)
	client := newClient(t, server.URL)

	var buf bytes.Buffer
	if err := ExportJSON(context.Background(), client, &buf, ExportOptions{}); err != nil {
		t.Fatalf("ExportJSON() failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("Failed to parse exported JSON: %v", err)
	}

	if data.Version != "1" {
		t.Errorf("Expected version 1, got %s", data.Version)
	}
	if data.Source != server.URL {
		t.Errorf("Expected source %s, got %s", server.URL, data.Source)
	}
	if data.ExportedAt.IsZero() {
		t.Error("Expected exported_at to be set")
	}
	if len(data.Documents) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(data.Documents))
	}
	if data.Documents[0].Correspondent != "Acme" {
		t.Errorf("Expected first document correspondent Acme, got %q", data.Documents[0].Correspondent)
	}
	if len(data.Correspondents) != 1 || data.Correspondents[0].Slug != "acme" {
		t.Errorf("Expected one correspondent acme, got %+v", data.Correspondents)
	}
}

func TestExportJSON_CorrespondentFilter(t *testing.T) {
	server := setupServer(t,
		[]models.Document{
			{ID: 1, Title: "Invoice", Correspondent: intPtr(7)},
			{ID: 2, Title: "Letter", Correspondent: intPtr(8)},
		},
		[]models.Correspondent{{ID: 7, Name: "Acme"}, {ID: 8, Name: "Globex"}},
	)
	client := newClient(t, server.URL)

	var buf bytes.Buffer
	if err := ExportJSON(context.Background(), client, &buf, ExportOptions{CorrespondentIDs: []int{8}}); err != nil {
		t.Fatalf("ExportJSON() failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("Failed to parse exported JSON: %v", err)
	}
	if len(data.Documents) != 1 || data.Documents[0].ID != 2 {
		t.Errorf("Expected only document 2, got %+v", data.Documents)
	}
}

func TestExportJSON_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	client := newClient(t, server.URL)

	var buf bytes.Buffer
	err := ExportJSON(context.Background(), client, &buf, ExportOptions{})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if api.StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("Expected status 401 in error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("Expected nothing written on error")
	}
}

func TestExportCorrespondentsJSON(t *testing.T) {
	server := setupServer(t, nil, []models.Correspondent{
		{ID: 1, Name: "Acme", Slug: "acme", DocumentCount: 4},
		{ID: 2, Name: "Globex", Slug: "globex"},
	})
	client := newClient(t, server.URL)

	var buf bytes.Buffer
	if err := ExportCorrespondentsJSON(context.Background(), client, &buf); err != nil {
		t.Fatalf("ExportCorrespondentsJSON() failed: %v", err)
	}

	var got []models.Correspondent
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 correspondents, got %d", len(got))
	}
	if got[0].Name != "Acme" || got[0].DocumentCount != 4 {
		t.Errorf("Unexpected first correspondent: %+v", got[0])
	}
}

package tileserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\nfake")

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "2020-01-01"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2020-01-01", "A.png"), pngHeader, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "2020-01-01", "dir.png"), 0755); err != nil {
		t.Fatal(err)
	}
	return NewServer(dir)
}

func TestServesTile(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/KNP/2020-01-01/A.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
	if rec.Body.String() != string(pngHeader) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestTileErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"missing tile", http.MethodGet, "/static/KNP/2020-01-01/B.png", http.StatusNotFound},
		{"missing date", http.MethodGet, "/static/KNP/1999-01-01/A.png", http.StatusNotFound},
		{"directory", http.MethodGet, "/static/KNP/2020-01-01/dir.png", http.StatusNotFound},
		{"wrong extension", http.MethodGet, "/static/KNP/2020-01-01/A.jpg", http.StatusBadRequest},
		{"too deep", http.MethodGet, "/static/KNP/2020-01-01/x/A.png", http.StatusBadRequest},
		{"post", http.MethodPost, "/static/KNP/2020-01-01/A.png", http.StatusMethodNotAllowed},
		{"preflight", http.MethodOptions, "/static/KNP/2020-01-01/A.png", http.StatusOK},
		{"outside prefix", http.MethodGet, "/other/A.png", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestStartServesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	if err := s.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	resp, err := http.Get(s.GetTileServerURL() + "/static/KNP/2020-01-01/A.png")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != string(pngHeader) {
		t.Errorf("status = %d, body = %q", resp.StatusCode, body)
	}
}

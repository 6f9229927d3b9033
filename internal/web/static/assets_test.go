package static

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEmbeddedAssets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path         string
		contentCheck string
	}{
		{"index.html", "search-form"},
		{"app.js", "/api/v1/search"},
		{"style.css", "source-card"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			f, err := assetsFS.Open(tt.path)
			if err != nil {
				t.Fatalf("opening %s: %v", tt.path, err)
			}
			defer f.Close()

			content, err := io.ReadAll(f)
			if err != nil {
				t.Fatalf("reading %s: %v", tt.path, err)
			}
			if !strings.Contains(string(content), tt.contentCheck) {
				t.Errorf("%s missing expected content marker %q", tt.path, tt.contentCheck)
			}
		})
	}
}

func TestHandler_ServeEmbeddedAssets(t *testing.T) {
	t.Parallel()

	handler := Handler()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantType   string
	}{
		{"index page", "/", http.StatusOK, "text/html"},
		{"script", "/app.js", http.StatusOK, ""},
		{"stylesheet", "/style.css", http.StatusOK, "text/css"},
		{"not found", "/nonexistent.js", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantType != "" {
				contentType := rec.Header().Get("Content-Type")
				if !strings.HasPrefix(contentType, tt.wantType) {
					t.Errorf("Content-Type = %q, want prefix %q", contentType, tt.wantType)
				}
			}
		})
	}
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"pickchart/internal/shared/testutil"
)

func TestFrontendHandler(t *testing.T) {
	files := fstest.MapFS{
		"index.html":       {Data: []byte("<html>chart</html>")},
		"chart.js":         {Data: []byte("console.log('chart')")},
		"assets/style.css": {Data: []byte("body{}")},
	}
	logger, _ := testutil.NewTestLogger(t)
	h := NewFrontendHandler(files, logger, newTestErrorHandler(t))

	tests := []struct {
		name         string
		path         string
		expectedCode int
		contentType  string
		body         string
	}{
		{"root serves index", "/", http.StatusOK, "text/html", "<html>chart</html>"},
		{"script", "/chart.js", http.StatusOK, "javascript", "console.log('chart')"},
		{"nested asset", "/assets/style.css", http.StatusOK, "text/css", "body{}"},
		{"missing file", "/nope.js", http.StatusNotFound, "", ""},
		{"directory", "/assets", http.StatusNotFound, "", ""},
		{"traversal is cleaned", "/../index.html", http.StatusOK, "text/html", "<html>chart</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

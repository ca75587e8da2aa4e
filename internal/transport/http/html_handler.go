package http

import (
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	apierrors "pickchart/internal/errors"
)

// IndexFile is the page served for "/"
const IndexFile = "index.html"

// FrontendHandler serves the embedded chart page and its assets
type FrontendHandler struct {
	files        fs.FS
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFrontendHandler creates a handler over files, usually an embed.FS
// rooted at the frontend directory.
func NewFrontendHandler(files fs.FS, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FrontendHandler {
	return &FrontendHandler{
		files:        files,
		logger:       logger.With(slog.String("component", "frontend_handler")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP serves the file named by the URL path, or the index page for "/".
func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = IndexFile
	}

	f, err := h.files.Open(name)
	if err != nil {
		h.errorHandler.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		h.errorHandler.NotFound(w, r)
		return
	}

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if name == IndexFile {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=86400")
	}

	if _, err := io.Copy(w, f); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write frontend file",
			slog.String("file", name),
			slog.String("error", err.Error()))
	}
}

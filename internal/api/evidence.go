package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DefaultMaxEvidenceBytes bounds a single evidence upload.
const DefaultMaxEvidenceBytes = 25 << 20 // 25 MB

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// EvidenceHandler accepts and serves uploaded evidence blobs. Stored files
// are the only durability the references have: wiping the directory orphans
// every reference recorded in case records, and nothing reconciles that.
type EvidenceHandler struct {
	dir      string
	maxBytes int64
}

// NewEvidenceHandler creates a handler storing blobs under dir. The
// directory is resolved to an absolute path so the traversal guard in
// safePath compares like with like; filepath.Join strips a leading "./"
// that a relative configured dir would otherwise keep.
func NewEvidenceHandler(dir string, maxBytes int64) (*EvidenceHandler, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("evidence: resolve dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxEvidenceBytes
	}
	return &EvidenceHandler{dir: abs, maxBytes: maxBytes}, nil
}

// storedName builds a collision-free disk name from the client filename:
// a random prefix plus the sanitized base name.
func (h *EvidenceHandler) storedName(clientName string) (string, error) {
	base := filepath.Base(filepath.Clean(clientName))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == ".." {
		return "", fmt.Errorf("invalid filename: %s", clientName)
	}
	return uuid.NewString() + "-" + base, nil
}

// safePath resolves a stored filename and rejects traversal out of the
// evidence directory.
func (h *EvidenceHandler) safePath(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(h.dir, cleaned)
	if !strings.HasPrefix(abs, h.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes evidence directory")
	}
	return abs, nil
}

// Upload handles POST /api/evidence (multipart/form-data, field "file").
func (h *EvidenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	stored, err := h.storedName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create evidence dir"))
		return
	}

	abs, err := h.safePath(stored)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create file"))
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return
	}

	writeJSON(w, http.StatusCreated, EvidenceUploadResponse{
		Name:      header.Filename,
		Reference: "/evidence/" + stored,
		Size:      written,
	})
}

// ServeFile handles GET /evidence/{filename}.
func (h *EvidenceHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.safePath(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/media"
)

// Uploaded media never gets buffered fully in memory over this size
const maxMultipartMemory = 32 << 20

// Parse a path value as UUID
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// Read a required file field from a multipart form.
// The returned closer must be closed by the caller.
func formFile(r *http.Request, field string) (media.Upload, io.Closer, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return media.Upload{}, nil, fmt.Errorf("file field '%s': %w", field, err)
	}

	return media.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, file, nil
}

// Query param as int, fallback on absent or unparsable values
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

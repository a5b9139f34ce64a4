package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Object storage for uploaded media files.
// Implementations return a public URL for every stored object
// so it can be saved next to the object key.
type Store interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// Uploaded file as it arrives from a multipart form
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Storage key for a new upload: prefix, upload date and a random id.
// Original file extension is kept so content type survives round trips.
func RandomKey(prefix string, filename string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%d/%d/%s%s", prefix, d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

package reports

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored report object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ReportStore reads generated screening reports from their storage backend.
// The screening service never writes reports; generation happens in the
// analysis pipeline upstream.
type ReportStore interface {
	// List returns the objects whose keys start with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Get streams an object back along with its content type.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

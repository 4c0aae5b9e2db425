package reports

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/ens-screening/backend/internal/apperrors"
)

// Report is a single retrieved report ready to stream to the client.
type Report struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// ReportService resolves which stored object a download request refers to.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// DownloadLatest returns the newest report for one supplier of a session with
// the requested extension ("pdf", "xlsx", ...). Reports are keyed
// <session_id>/<ens_id>/<filename>.
func (s *ReportService) DownloadLatest(ctx context.Context, sessionID, ensID, ext string) (*Report, error) {
	if sessionID == "" || ensID == "" {
		return nil, fmt.Errorf("%w: session_id and ens_id are required", apperrors.ErrValidation)
	}
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		return nil, fmt.Errorf("%w: type_of_file is required", apperrors.ErrValidation)
	}

	prefix := sessionID + "/" + ensID + "/"
	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	var candidates []ObjectInfo
	for _, obj := range objects {
		if strings.EqualFold(strings.TrimPrefix(path.Ext(obj.Key), "."), ext) {
			candidates = append(candidates, obj)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no %s report for supplier %s in session %s", apperrors.ErrNotFound, ext, ensID, sessionID)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].LastModified.After(candidates[j].LastModified)
	})
	latest := candidates[0]

	body, contentType, err := s.store.Get(ctx, latest.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	return &Report{
		Filename:    path.Base(latest.Key),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// DownloadAllZip bundles every report of a session into one in-memory zip.
func (s *ReportService) DownloadAllZip(ctx context.Context, sessionID string) (*Report, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", apperrors.ErrValidation)
	}

	objects, err := s.store.List(ctx, sessionID+"/")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("%w: no reports for session %s", apperrors.ErrNotFound, sessionID)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, obj := range objects {
		if err := s.addToZip(ctx, zw, sessionID, obj.Key); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to finalize zip: %v", apperrors.ErrStorage, err)
	}

	return &Report{
		Filename:    fmt.Sprintf("reports_%s.zip", sessionID),
		ContentType: "application/zip",
		Body:        io.NopCloser(&buf),
	}, nil
}

func (s *ReportService) addToZip(ctx context.Context, zw *zip.Writer, sessionID, key string) error {
	body, _, err := s.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer body.Close()

	// Entries are named relative to the session prefix.
	entry, err := zw.Create(strings.TrimPrefix(key, sessionID+"/"))
	if err != nil {
		return fmt.Errorf("%w: failed to add zip entry: %v", apperrors.ErrStorage, err)
	}
	if _, err := io.Copy(entry, body); err != nil {
		return fmt.Errorf("%w: failed to copy report into zip: %v", apperrors.ErrStorage, err)
	}
	return nil
}

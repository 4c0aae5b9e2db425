package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ens-screening/backend/internal/apperrors"
	"github.com/ens-screening/backend/internal/screening/model"
)

// StatusService maintains the per-session and per-entity screening status
// rows. All writes are conflict-keyed upserts so concurrent stage completions
// never clobber each other's unrelated columns; two writers of the same
// column are last-write-wins.
type StatusService struct {
	db *gorm.DB
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

// UpsertSessionStatus writes the supplied stage values for a session,
// creating the row on first use. Stages not present in the update are left
// untouched on conflict.
func (s *StatusService) UpsertSessionStatus(ctx context.Context, sessionID string, update model.SessionStatusUpdate) error {
	return s.UpsertSessionStatusInTx(s.db.WithContext(ctx), sessionID, update)
}

// UpsertSessionStatusInTx is the transactional form used by services that
// need the status write to commit atomically with their own changes.
func (s *StatusService) UpsertSessionStatusInTx(tx *gorm.DB, sessionID string, update model.SessionStatusUpdate) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session_id is required", apperrors.ErrValidation)
	}
	columns := update.Columns()
	if len(columns) == 0 {
		return fmt.Errorf("%w: no stage values provided", apperrors.ErrValidation)
	}

	row := model.SessionScreeningStatus{SessionID: sessionID}
	if update.OverallStatus != nil {
		row.OverallStatus = *update.OverallStatus
	}
	if update.ListUploadStatus != nil {
		row.ListUploadStatus = *update.ListUploadStatus
	}
	if update.SupplierNameValidationStatus != nil {
		row.SupplierNameValidationStatus = *update.SupplierNameValidationStatus
	}
	if update.ScreeningAnalysisStatus != nil {
		row.ScreeningAnalysisStatus = *update.ScreeningAnalysisStatus
	}
	if update.ProcessStatus != nil {
		row.ProcessStatus = *update.ProcessStatus
	}

	assignments := make([]string, 0, len(columns)+1)
	for column := range columns {
		assignments = append(assignments, column)
	}
	sort.Strings(assignments)
	assignments = append(assignments, "update_time")

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns(assignments),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert session screening status: %w", err)
	}
	return nil
}

// ensidAssignmentColumns are the stage columns refreshed when an entity
// status row already exists.
var ensidAssignmentColumns = []string{
	"overall_status",
	"orbis_retrieval_status",
	"screening_modules_status",
	"report_generation_status",
	"update_time",
}

// UpsertEnsidStatuses writes per-entity screening progress, keyed by the
// (ens_id, session_id) pair.
func (s *StatusService) UpsertEnsidStatuses(ctx context.Context, entries []model.EnsidScreeningStatus) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no entries provided", apperrors.ErrValidation)
	}
	for _, entry := range entries {
		if entry.EnsID == "" || entry.SessionID == "" {
			return fmt.Errorf("%w: ens_id and session_id are required", apperrors.ErrValidation)
		}
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ens_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns(ensidAssignmentColumns),
	}).Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to upsert entity screening status: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ens-screening/backend/internal/apperrors"
	"github.com/ens-screening/backend/internal/screening/model"
	"github.com/ens-screening/backend/utils"
)

// QueryService serves the paginated, filtered views the review UI reads.
type QueryService struct {
	db *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// GetSessionSuppliers returns a page of upload records for a session,
// optionally filtered by classification ("review", "auto_accept" or
// "auto_reject"), newest updates first.
func (s *QueryService) GetSessionSuppliers(ctx context.Context, sessionID string, pageNo, rowsPerPage int, validationFilter string) (*model.PagedResult[model.UploadRecordView], error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", apperrors.ErrValidation)
	}

	query := s.db.WithContext(ctx).Model(&model.UploadRecord{}).Where("session_id = ?", sessionID)

	switch strings.ToLower(strings.TrimSpace(validationFilter)) {
	case "":
	case "review":
		query = query.Where("final_validation_status = ?", model.FinalValidatedStatusReview)
	case "auto_accept":
		query = query.Where("final_validation_status = ?", model.FinalValidatedStatusAutoAccept)
	case "auto_reject":
		query = query.Where("final_validation_status = ?", model.FinalValidatedStatusAutoReject)
	default:
		return nil, fmt.Errorf("%w: unknown validation filter %q", apperrors.ErrValidation, validationFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count session suppliers: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no data for session %s", apperrors.ErrNotFound, sessionID)
	}

	offset, limit := utils.GetPaginationParams(pageNo, rowsPerPage)

	var views []model.UploadRecordView
	if err := query.
		Order("update_time DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to query session suppliers: %w", err)
	}

	return &model.PagedResult[model.UploadRecordView]{
		TotalData: total,
		Data:      views,
		SessionID: sessionID,
	}, nil
}

// GetMasterSuppliers returns a page of golden records for a session.
func (s *QueryService) GetMasterSuppliers(ctx context.Context, sessionID string, pageNo, rowsPerPage int) (*model.PagedResult[model.MasterRecord], error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", apperrors.ErrValidation)
	}

	query := s.db.WithContext(ctx).Model(&model.MasterRecord{}).Where("session_id = ?", sessionID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count golden records: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no data for session %s", apperrors.ErrNotFound, sessionID)
	}

	offset, limit := utils.GetPaginationParams(pageNo, rowsPerPage)

	var records []model.MasterRecord
	if err := query.
		Order("update_time DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query golden records: %w", err)
	}

	return &model.PagedResult[model.MasterRecord]{
		TotalData: total,
		Data:      records,
		SessionID: sessionID,
	}, nil
}

// GetSessionScreeningStatuses returns a page of session status rows across
// all sessions. analysisFilter narrows by the screening-analysis stage:
// "active" keeps sessions past NOT_STARTED, "not_started" keeps the rest.
func (s *QueryService) GetSessionScreeningStatuses(ctx context.Context, pageNo, rowsPerPage int, analysisFilter string) (*model.PagedResult[model.SessionScreeningStatus], error) {
	query := s.db.WithContext(ctx).Model(&model.SessionScreeningStatus{})

	switch strings.ToLower(strings.TrimSpace(analysisFilter)) {
	case "":
	case "active":
		query = query.Where("screening_analysis_status <> ?", model.StatusNotStarted)
	case "not_started":
		query = query.Where("screening_analysis_status = ?", model.StatusNotStarted)
	default:
		return nil, fmt.Errorf("%w: unknown analysis filter %q", apperrors.ErrValidation, analysisFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count screening statuses: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no screening status data found", apperrors.ErrNotFound)
	}

	offset, limit := utils.GetPaginationParams(pageNo, rowsPerPage)

	var statuses []model.SessionScreeningStatus
	if err := query.
		Order("update_time DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("failed to query screening statuses: %w", err)
	}

	return &model.PagedResult[model.SessionScreeningStatus]{
		TotalData: total,
		Data:      statuses,
	}, nil
}

// GetReviewCount returns how many rows of a session still carry the REVIEW
// classification and therefore await a human decision.
func (s *QueryService) GetReviewCount(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, fmt.Errorf("%w: session_id is required", apperrors.ErrValidation)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.UploadRecord{}).
		Where("session_id = ? AND final_validation_status = ?", sessionID, model.FinalValidatedStatusReview).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count review rows: %w", err)
	}
	return count, nil
}

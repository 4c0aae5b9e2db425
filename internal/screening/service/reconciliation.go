package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ens-screening/backend/internal/apperrors"
	"github.com/ens-screening/backend/internal/screening/model"
)

// ReconciliationService resolves the disposition of uploaded supplier rows.
// Every entry point runs a two-phase protocol inside a single transaction:
//
//	phase 1 (classify): rows whose classification is AUTO_ACCEPT or
//	AUTO_REJECT are resolved unconditionally — the classification always wins
//	over any human directive.
//	phase 2 (override): the caller's directive is applied to the rows still
//	classified REVIEW; accepting a row overwrites its working fields with the
//	matcher's suggested values.
//
// Accepted rows are propagated into the golden table before the transaction
// commits.
type ReconciliationService struct {
	db *gorm.DB
}

func NewReconciliationService(db *gorm.DB) *ReconciliationService {
	return &ReconciliationService{db: db}
}

// autoResolution holds the outcome of the classify phase.
type autoResolution struct {
	acceptedCount  int64
	rejectedCount  int64
	acceptedEnsIDs []string
}

// ReconcileBulk applies one directive to every REVIEW row of a session.
func (s *ReconciliationService) ReconcileBulk(ctx context.Context, sessionID string, directive model.Directive) (*model.BulkReconcileResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", apperrors.ErrValidation)
	}

	var result model.BulkReconcileResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireSession(tx, sessionID); err != nil {
			return err
		}

		auto, err := s.applyAutoResolutionsInTx(tx, sessionID)
		if err != nil {
			return err
		}
		result.AcceptedCount = auto.acceptedCount
		result.RejectedCount = auto.rejectedCount

		reviewUpdate := tx.Model(&model.UploadRecord{}).
			Where("session_id = ? AND final_validation_status = ?", sessionID, model.FinalValidatedStatusReview)
		if directive == model.DirectiveAccept {
			reviewUpdate = reviewUpdate.Updates(suggestedOverwriteColumns(model.FinalStatusAccepted))
		} else {
			reviewUpdate = reviewUpdate.Update("final_status", model.FinalStatusRejected)
		}
		if reviewUpdate.Error != nil {
			return fmt.Errorf("failed to apply directive to review rows: %w", reviewUpdate.Error)
		}
		result.ReviewCount = reviewUpdate.RowsAffected

		if result.AcceptedCount > 0 || result.ReviewCount > 0 {
			if err := s.propagateAcceptedInTx(tx, sessionID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("bulk reconciliation completed",
		"session_id", sessionID,
		"directive", directive,
		"accepted", result.AcceptedCount,
		"rejected", result.RejectedCount,
		"review", result.ReviewCount,
	)
	return &result, nil
}

// ReconcileSingle applies explicit per-row directives. Rows not covered by an
// accept — either from the caller or from the AUTO_ACCEPT classification —
// are forced to REJECTED, including rows the caller marked "accept" whose
// classification was not REVIEW.
func (s *ReconciliationService) ReconcileSingle(ctx context.Context, sessionID string, decisions []model.RecordDecisionDTO) (*model.SingleReconcileResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", apperrors.ErrValidation)
	}
	if len(decisions) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", apperrors.ErrValidation)
	}

	var result model.SingleReconcileResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var allEnsIDs []string
		if err := tx.Model(&model.UploadRecord{}).
			Where("session_id = ?", sessionID).
			Pluck("ens_id", &allEnsIDs).Error; err != nil {
			return fmt.Errorf("failed to load session records: %w", err)
		}
		if len(allEnsIDs) == 0 {
			return fmt.Errorf("%w: no records for session %s", apperrors.ErrNotFound, sessionID)
		}

		auto, err := s.applyAutoResolutionsInTx(tx, sessionID)
		if err != nil {
			return err
		}

		acceptSet := make([]string, 0, len(decisions))
		for _, decision := range decisions {
			if model.ParseDirective(decision.Status) == model.DirectiveAccept {
				acceptSet = append(acceptSet, decision.EnsID)
			}
		}

		// Only explicit accepts on REVIEW rows take effect; an accept on any
		// other classification is overridden to reject-by-default.
		var reviewAccepted []string
		if len(acceptSet) > 0 {
			if err := tx.Model(&model.UploadRecord{}).
				Where("session_id = ? AND ens_id IN ? AND final_validation_status = ?",
					sessionID, acceptSet, model.FinalValidatedStatusReview).
				Pluck("ens_id", &reviewAccepted).Error; err != nil {
				return fmt.Errorf("failed to resolve accept set: %w", err)
			}
		}

		if len(reviewAccepted) > 0 {
			overwrite := tx.Model(&model.UploadRecord{}).
				Where("session_id = ? AND ens_id IN ?", sessionID, reviewAccepted).
				Updates(suggestedOverwriteColumns(model.FinalStatusAccepted))
			if overwrite.Error != nil {
				return fmt.Errorf("failed to accept review rows: %w", overwrite.Error)
			}
		}

		acceptedEnsIDs := union(reviewAccepted, auto.acceptedEnsIDs)
		rejectedEnsIDs := difference(allEnsIDs, acceptedEnsIDs)
		if len(rejectedEnsIDs) > 0 {
			reject := tx.Model(&model.UploadRecord{}).
				Where("session_id = ? AND ens_id IN ?", sessionID, rejectedEnsIDs).
				Update("final_status", model.FinalStatusRejected)
			if reject.Error != nil {
				return fmt.Errorf("failed to reject rows: %w", reject.Error)
			}
		}

		if len(acceptedEnsIDs) > 0 {
			if err := s.propagateAcceptedInTx(tx, sessionID); err != nil {
				return err
			}
		}

		sort.Strings(acceptedEnsIDs)
		sort.Strings(rejectedEnsIDs)
		result.AcceptedEnsIDs = acceptedEnsIDs
		result.RejectedEnsIDs = rejectedEnsIDs
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("targeted reconciliation completed",
		"session_id", sessionID,
		"accepted", len(result.AcceptedEnsIDs),
		"rejected", len(result.RejectedEnsIDs),
	)
	return &result, nil
}

// applyAutoResolutionsInTx is the classify phase: AUTO_ACCEPT and AUTO_REJECT
// classifications resolve their rows regardless of any directive.
func (s *ReconciliationService) applyAutoResolutionsInTx(tx *gorm.DB, sessionID string) (*autoResolution, error) {
	accept := tx.Model(&model.UploadRecord{}).
		Where("session_id = ? AND final_validation_status = ?", sessionID, model.FinalValidatedStatusAutoAccept).
		Update("final_status", model.FinalStatusAccepted)
	if accept.Error != nil {
		return nil, fmt.Errorf("failed to auto-accept rows: %w", accept.Error)
	}

	reject := tx.Model(&model.UploadRecord{}).
		Where("session_id = ? AND final_validation_status = ?", sessionID, model.FinalValidatedStatusAutoReject).
		Update("final_status", model.FinalStatusRejected)
	if reject.Error != nil {
		return nil, fmt.Errorf("failed to auto-reject rows: %w", reject.Error)
	}

	var acceptedEnsIDs []string
	if err := tx.Model(&model.UploadRecord{}).
		Where("session_id = ? AND final_validation_status = ?", sessionID, model.FinalValidatedStatusAutoAccept).
		Pluck("ens_id", &acceptedEnsIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to collect auto-accepted rows: %w", err)
	}

	return &autoResolution{
		acceptedCount:  accept.RowsAffected,
		rejectedCount:  reject.RowsAffected,
		acceptedEnsIDs: acceptedEnsIDs,
	}, nil
}

// requireSession fails with ErrNotFound when the session has no records.
func (s *ReconciliationService) requireSession(tx *gorm.DB, sessionID string) error {
	var count int64
	if err := tx.Model(&model.UploadRecord{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: no records for session %s", apperrors.ErrNotFound, sessionID)
	}
	return nil
}

// suggestedOverwriteColumns builds the update that copies the suggested field
// set over the working field set and stamps the final disposition.
func suggestedOverwriteColumns(finalStatus model.FinalStatus) map[string]any {
	return map[string]any{
		"name":               gorm.Expr("suggested_name"),
		"name_international": gorm.Expr("suggested_name_international"),
		"address":            gorm.Expr("suggested_address"),
		"postcode":           gorm.Expr("suggested_postcode"),
		"city":               gorm.Expr("suggested_city"),
		"country":            gorm.Expr("suggested_country"),
		"phone_or_fax":       gorm.Expr("suggested_phone_or_fax"),
		"email_or_website":   gorm.Expr("suggested_email_or_website"),
		"national_id":        gorm.Expr("suggested_national_id"),
		"state":              gorm.Expr("suggested_state"),
		"address_type":       gorm.Expr("suggested_address_type"),
		"final_status":       finalStatus,
	}
}

// union merges two id slices without duplicates.
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}

// difference returns the elements of all that are not in subtract.
func difference(all, subtract []string) []string {
	excluded := make(map[string]struct{}, len(subtract))
	for _, id := range subtract {
		excluded[id] = struct{}{}
	}
	remaining := make([]string, 0, len(all))
	for _, id := range all {
		if _, ok := excluded[id]; !ok {
			remaining = append(remaining, id)
		}
	}
	return remaining
}

// masterAssignmentColumns are the columns refreshed when a propagated row
// already exists in the golden table. The report generation status is owned
// by the downstream pipeline and is deliberately not reset.
var masterAssignmentColumns = []string{
	"bvd_id",
	"name",
	"name_international",
	"address",
	"postcode",
	"city",
	"country",
	"phone_or_fax",
	"email_or_website",
	"national_id",
	"state",
	"address_type",
	"validation_status",
	"final_status",
	"update_time",
}

// propagateAcceptedInTx copies the ACCEPTED, bvd_id-bearing subset of a
// session into the golden table. Zero matching rows is a successful no-op.
func (s *ReconciliationService) propagateAcceptedInTx(tx *gorm.DB, sessionID string) error {
	var rows []model.UploadRecord
	if err := tx.
		Where("session_id = ? AND final_status = ? AND bvd_id IS NOT NULL",
			sessionID, model.FinalStatusAccepted).
		Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load accepted rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	masters := make([]model.MasterRecord, 0, len(rows))
	for _, row := range rows {
		masters = append(masters, model.MasterRecord{
			EnsID:            row.EnsID,
			SessionID:        row.SessionID,
			BvdID:            *row.BvdID,
			SupplierFields:   row.Working,
			ValidationStatus: row.ValidationStatus,
			FinalStatus:      row.FinalStatus,
		})
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ens_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns(masterAssignmentColumns),
	}).Create(&masters).Error; err != nil {
		return fmt.Errorf("failed to upsert golden records: %w", err)
	}

	slog.Debug("propagated accepted rows to golden table",
		"session_id", sessionID,
		"rows", len(masters),
	)
	return nil
}

package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/ens-screening/backend/internal/apperrors"
	"github.com/ens-screening/backend/internal/screening/model"
)

func TestUpsertSessionStatus_UpdatesOnlySuppliedStages(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewStatusService(db)

	// Only the supplied stage columns (plus update_time) appear in the
	// conflict assignment list; the other stages stay untouched.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "session_screening_status" .*ON CONFLICT \("session_id"\) DO UPDATE SET "overall_status"="excluded"\."overall_status","screening_analysis_status"="excluded"\."screening_analysis_status","update_time"="excluded"\."update_time"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	inProgress := model.StatusInProgress
	completed := model.StatusCompleted
	err := service.UpsertSessionStatus(context.Background(), testSessionID, model.SessionStatusUpdate{
		OverallStatus:           &inProgress,
		ScreeningAnalysisStatus: &completed,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSessionStatus_RequiresSessionID(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewStatusService(db)

	inProgress := model.StatusInProgress
	err := service.UpsertSessionStatus(context.Background(), "", model.SessionStatusUpdate{OverallStatus: &inProgress})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpsertSessionStatus_RequiresAtLeastOneStage(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewStatusService(db)

	err := service.UpsertSessionStatus(context.Background(), testSessionID, model.SessionStatusUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpsertEnsidStatuses(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewStatusService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "ensid_screening_status" .*ON CONFLICT \("ens_id","session_id"\) DO UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectCommit()

	err := service.UpsertEnsidStatuses(context.Background(), []model.EnsidScreeningStatus{
		{EnsID: "ens-a", SessionID: testSessionID, OverallStatus: model.StatusInProgress},
		{EnsID: "ens-b", SessionID: testSessionID, OverallStatus: model.StatusCompleted},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertEnsidStatuses_RejectsIncompleteKeys(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewStatusService(db)

	err := service.UpsertEnsidStatuses(context.Background(), []model.EnsidScreeningStatus{
		{EnsID: "", SessionID: testSessionID},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpsertEnsidStatuses_RejectsEmptyBatch(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewStatusService(db)

	err := service.UpsertEnsidStatuses(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

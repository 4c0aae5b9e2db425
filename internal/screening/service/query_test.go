package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/ens-screening/backend/internal/apperrors"
	"github.com/ens-screening/backend/internal/screening/model"
)

func TestGetSessionSuppliers_FiltersByClassification(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewQueryService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "upload_supplier_master_data" WHERE session_id = \$1 AND final_validation_status = \$2`).
		WithArgs(testSessionID, string(model.FinalValidatedStatusReview)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	mock.ExpectQuery(`SELECT .* FROM "upload_supplier_master_data" WHERE session_id = \$1 AND final_validation_status = \$2 ORDER BY update_time DESC, id DESC LIMIT \$3`).
		WithArgs(testSessionID, string(model.FinalValidatedStatusReview), 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ens_id", "session_id", "uploaded_name", "final_validation_status"}).
			AddRow(int64(1), "ens-a", testSessionID, "ACME GmbH", string(model.FinalValidatedStatusReview)).
			AddRow(int64(2), "ens-b", testSessionID, "Globex Ltd", string(model.FinalValidatedStatusReview)))

	result, err := service.GetSessionSuppliers(context.Background(), testSessionID, 1, 10, "review")
	assert.NoError(t, err)
	assert.Equal(t, int64(12), result.TotalData)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, "ACME GmbH", result.Data[0].Uploaded.Name)
	assert.Equal(t, testSessionID, result.SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionSuppliers_SecondPageUsesOffset(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewQueryService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "upload_supplier_master_data" WHERE session_id = \$1`).
		WithArgs(testSessionID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))

	mock.ExpectQuery(`SELECT .* FROM "upload_supplier_master_data" WHERE session_id = \$1 ORDER BY update_time DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(testSessionID, 25, 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ens_id", "session_id"}).
			AddRow(int64(26), "ens-z", testSessionID))

	result, err := service.GetSessionSuppliers(context.Background(), testSessionID, 2, 25, "")
	assert.NoError(t, err)
	assert.Equal(t, int64(30), result.TotalData)
	assert.Len(t, result.Data, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionSuppliers_UnknownFilter(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewQueryService(db)

	result, err := service.GetSessionSuppliers(context.Background(), testSessionID, 1, 10, "bogus")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetSessionSuppliers_EmptySessionIsNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewQueryService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "upload_supplier_master_data" WHERE session_id = \$1`).
		WithArgs(testSessionID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	result, err := service.GetSessionSuppliers(context.Background(), testSessionID, 1, 10, "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMasterSuppliers(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewQueryService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "supplier_master_data" WHERE session_id = \$1`).
		WithArgs(testSessionID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "supplier_master_data" WHERE session_id = \$1 ORDER BY update_time DESC, id DESC LIMIT \$2`).
		WithArgs(testSessionID, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ens_id", "session_id", "bvd_id", "name"}).
			AddRow(int64(1), "ens-a", testSessionID, "BVD-001", "ACME GmbH"))

	result, err := service.GetMasterSuppliers(context.Background(), testSessionID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalData)
	assert.Equal(t, "BVD-001", result.Data[0].BvdID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionScreeningStatuses_ActiveFilter(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewQueryService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "session_screening_status" WHERE screening_analysis_status <> \$1`).
		WithArgs(string(model.StatusNotStarted)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT \* FROM "session_screening_status" WHERE screening_analysis_status <> \$1 ORDER BY update_time DESC, id DESC LIMIT \$2`).
		WithArgs(string(model.StatusNotStarted), 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "screening_analysis_status"}).
			AddRow(int64(1), "session-a", string(model.StatusInProgress)).
			AddRow(int64(2), "session-b", string(model.StatusCompleted)))

	result, err := service.GetSessionScreeningStatuses(context.Background(), 1, 10, "active")
	assert.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionScreeningStatuses_UnknownFilter(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewQueryService(db)

	result, err := service.GetSessionScreeningStatuses(context.Background(), 1, 10, "paused")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetReviewCount(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewQueryService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "upload_supplier_master_data" WHERE session_id = \$1 AND final_validation_status = \$2`).
		WithArgs(testSessionID, string(model.FinalValidatedStatusReview)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := service.GetReviewCount(context.Background(), testSessionID)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReviewCount_RequiresSessionID(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewQueryService(db)

	_, err := service.GetReviewCount(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

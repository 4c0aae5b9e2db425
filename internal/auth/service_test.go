package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ens-screening/backend/internal/apperrors"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm connection: %v", err)
	}

	return db, mock
}

func newTestService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := setupTestDB(t)
	cfg := testJWTConfig()
	return NewAuthService(db, NewTokenIssuer(cfg), cfg), mock
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hashed)
}

func TestLogin_Success(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectQuery(`SELECT \* FROM "users_table" WHERE email = \$1`).
		WithArgs("reviewer@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "password", "user_group"}).
			AddRow("user-1", "reviewer@example.com", hashPassword(t, "s3cret-pass"), "acme"))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "refresh_token"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	pair, err := service.Login(context.Background(), "reviewer@example.com", "s3cret-pass")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Greater(t, pair.RefreshTokenExpiresAt, time.Now().Unix())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectQuery(`SELECT \* FROM "users_table" WHERE email = \$1`).
		WithArgs("reviewer@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "password"}).
			AddRow("user-1", "reviewer@example.com", hashPassword(t, "s3cret-pass")))

	pair, err := service.Login(context.Background(), "reviewer@example.com", "wrong")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmailIsIndistinguishable(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectQuery(`SELECT \* FROM "users_table" WHERE email = \$1`).
		WithArgs("ghost@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	pair, err := service.Login(context.Background(), "ghost@example.com", "whatever")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_RotatesToken(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "refresh_token" WHERE refresh_token = \$1 .*FOR UPDATE SKIP LOCKED`).
		WithArgs("old-token", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "refresh_token", "user_id", "user_group", "exp", "used"}).
			AddRow(int64(5), "old-token", "user-1", "acme", time.Now().Add(time.Hour).Unix(), false))

	mock.ExpectExec(`UPDATE "refresh_token" SET "used"=\$1 WHERE id = \$2`).
		WithArgs(true, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(`INSERT INTO "refresh_token"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))
	mock.ExpectCommit()

	pair, err := service.Refresh(context.Background(), "old-token")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, "old-token", pair.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_UnknownToken(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "refresh_token" WHERE refresh_token = \$1 .*FOR UPDATE SKIP LOCKED`).
		WithArgs("missing-token", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	pair, err := service.Refresh(context.Background(), "missing-token")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_UsedTokenIsRejected(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "refresh_token" WHERE refresh_token = \$1 .*FOR UPDATE SKIP LOCKED`).
		WithArgs("replayed-token", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "refresh_token", "user_id", "exp", "used"}).
			AddRow(int64(5), "replayed-token", "user-1", time.Now().Add(time.Hour).Unix(), true))
	mock.ExpectRollback()

	pair, err := service.Refresh(context.Background(), "replayed-token")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_ExpiredTokenIsRejected(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "refresh_token" WHERE refresh_token = \$1 .*FOR UPDATE SKIP LOCKED`).
		WithArgs("stale-token", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "refresh_token", "user_id", "exp", "used"}).
			AddRow(int64(5), "stale-token", "user-1", time.Now().Add(-time.Hour).Unix(), false))
	mock.ExpectRollback()

	pair, err := service.Refresh(context.Background(), "stale-token")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Success(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users_table" WHERE email = \$1`).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "users_table"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := service.Register(context.Background(), "New Reviewer", "new@example.com", "s3cret-pass", "acme")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users_table" WHERE email = \$1`).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	user, err := service.Register(context.Background(), "Reviewer", "taken@example.com", "s3cret-pass", "acme")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_MissingFields(t *testing.T) {
	service, _ := newTestService(t)

	user, err := service.Register(context.Background(), "", "x@example.com", "pw", "acme")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

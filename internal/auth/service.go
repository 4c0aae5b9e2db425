package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ens-screening/backend/internal/apperrors"
	"github.com/ens-screening/backend/internal/config"
)

// dummyHash is compared against when a login hits an unknown email, so that
// lookup misses cost the same as password mismatches.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService handles account registration, credential verification and
// single-use refresh-token rotation.
type AuthService struct {
	db            *gorm.DB
	issuer        *TokenIssuer
	refreshExpire time.Duration
}

func NewAuthService(db *gorm.DB, issuer *TokenIssuer, cfg config.JWTConfig) *AuthService {
	return &AuthService{
		db:            db,
		issuer:        issuer,
		refreshExpire: time.Duration(cfg.RefreshTokenExpireSecs) * time.Second,
	}
}

// Register creates a new account with a bcrypt-hashed password. A duplicate
// email yields apperrors.ErrConflict.
func (as *AuthService) Register(ctx context.Context, username, email, password, userGroup string) (*User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", apperrors.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		UserID:    uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		UserGroup: userGroup,
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: email %s is already registered", apperrors.ErrConflict, email)
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.UserID, "user_group", user.UserGroup)
	return &user, nil
}

// Login verifies credentials and mints an access token plus a fresh
// single-use refresh token. Wrong email and wrong password are
// indistinguishable to the caller.
func (as *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	var user User
	err := as.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a compare anyway to keep timing flat.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
	}

	pair, err := as.issueTokens(ctx, as.db, user.UserID, user.UserGroup)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.UserID)
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a new
// pair is issued. The token row is locked with SKIP LOCKED so a replayed
// token loses the race instead of blocking on it.
func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", apperrors.ErrValidation)
	}

	var pair *TokenPair
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row RefreshToken
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("refresh_token = ?", refreshToken).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: refresh token not found", apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to look up refresh token: %w", err)
		}

		if row.Used {
			return fmt.Errorf("%w: refresh token already used", apperrors.ErrValidation)
		}
		if row.Exp < time.Now().Unix() {
			return fmt.Errorf("%w: refresh token expired", apperrors.ErrValidation)
		}

		if err := tx.Model(&RefreshToken{}).Where("id = ?", row.ID).Update("used", true).Error; err != nil {
			return fmt.Errorf("failed to consume refresh token: %w", err)
		}

		pair, err = as.issueTokens(ctx, tx, row.UserID, row.UserGroup)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("refresh token rotated")
	return pair, nil
}

func (as *AuthService) issueTokens(ctx context.Context, tx *gorm.DB, userID, userGroup string) (*TokenPair, error) {
	accessToken, expiresAt, err := as.issuer.Issue(userID, userGroup)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(as.refreshExpire).Unix()
	row := RefreshToken{
		RefreshToken: uuid.NewString(),
		UserID:       userID,
		UserGroup:    userGroup,
		Exp:          refreshExp,
	}
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:           accessToken,
		ExpiresAt:             expiresAt,
		RefreshToken:          row.RefreshToken,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ens-screening/backend/internal/config"
)

// Claims are the access-token claims: the subject is the user id, ugr the
// user group the screening core scopes its queries by.
type Claims struct {
	UserGroup string `json:"ugr"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret       []byte
	accessExpire time.Duration
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:       []byte(cfg.Secret),
		accessExpire: time.Duration(cfg.AccessTokenExpireSecs) * time.Second,
	}
}

// Issue creates a signed access token for the user and returns it with its
// unix expiry.
func (i *TokenIssuer) Issue(userID, userGroup string) (string, int64, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(i.accessExpire)

	claims := Claims{
		UserGroup: userGroup,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt.Unix(), nil
}

// Verify parses and validates a signed access token.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}

// file: service/token_service.go

package service

import (
	"errors"
	"fmt"
	"go-forum-api/logger"
	"go-forum-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every access token verification failure: bad
// signature, malformed token, or expiry in the past. Callers get a single
// distinguished error rather than a reason breakdown.
var ErrTokenInvalid = errors.New("invalid or expired token")

// TokenService issues and verifies the short-lived access tokens. It holds
// the signing key explicitly; there is no ambient key lookup, and the same
// key verifies everything it signs. No method here touches the database.
type TokenService struct {
	secretKey []byte
}

// NewTokenService fails when the signing secret is missing, so a
// misconfigured key is fatal at startup instead of per-request.
func NewTokenService(secretKey string) (*TokenService, error) {
	if secretKey == "" {
		return nil, errors.New("jwt signing secret is not configured")
	}
	return &TokenService{secretKey: []byte(secretKey)}, nil
}

// IssueAccessToken builds a signed HS256 token with the fixed claim set.
func (s *TokenService) IssueAccessToken(userID int, username string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &model.AccessClaims{
		UserID:   userID,
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// VerifyAccessToken checks signature and expiry and returns the claims.
// The signing method is pinned to HMAC so a token cannot downgrade the
// verification algorithm.
func (s *TokenService) VerifyAccessToken(tokenString string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

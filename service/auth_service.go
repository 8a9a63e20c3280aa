// file: service/auth_service.go

package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"go-forum-api/logger"
	"go-forum-api/model"
	"go-forum-api/repository"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on any login failure. It never says
// whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSessionInvalid is returned on any refresh failure: expired session,
// revoked session, or a refresh token that does not match the stored hash.
// The three collapse into one outcome so a caller cannot probe which it was.
var ErrSessionInvalid = errors.New("session is invalid")

// TokenPair is what login and refresh hand back to the HTTP layer. The
// refresh token is an opaque bearer secret, never a parseable token, and
// only this plaintext copy exists; the store keeps its hash.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"-"`
	SessionID    string    `json:"-"`
	ExpiresAt    time.Time `json:"-"`
}

// AuthService orchestrates login, refresh rotation, and logout on top of
// the token service and the session repository.
type AuthService struct {
	userRepo    repository.IUserRepository
	sessionRepo repository.ISessionRepository
	tokens      *TokenService
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthService(
	userRepo repository.IUserRepository,
	sessionRepo repository.ISessionRepository,
	tokens *TokenService,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// newRefreshToken draws 32 random bytes for an opaque bearer secret.
func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Login verifies credentials, creates a session row, and mints the first
// token pair. No session is created on a failed login.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(user, "")
}

// Refresh rotates a session. The validity check and the rotation are two
// explicit steps: IsValid is the single authoritative predicate, Extend
// only applies the new hash and expiry. The old refresh token is dead after
// this call even if the new pair never reaches the client; a failed refresh
// means the client starts over at login.
//
// An invalid presentation also revokes the session outright. A token that
// no longer matches the stored hash is the replay signature of a stolen
// or already-rotated token, so the whole session is killed rather than
// just the single request.
func (s *AuthService) Refresh(sessionID, refreshToken string) (*TokenPair, error) {
	valid, err := s.sessionRepo.IsValid(sessionID, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}
	if !valid {
		if revokeErr := s.sessionRepo.Revoke(sessionID); revokeErr != nil {
			logger.Log.WithField("session_id", sessionID).WithError(revokeErr).
				Warn("Failed to revoke session after invalid refresh attempt")
		}
		return nil, ErrSessionInvalid
	}

	user, err := s.userBySession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.issueTokenPair(user, sessionID)
}

// Logout revokes the session. It is idempotent and never demands proof of
// the refresh token: revocation is a courtesy, the access token's natural
// expiry is the real backstop.
func (s *AuthService) Logout(sessionID string) error {
	return s.sessionRepo.Revoke(sessionID)
}

// issueTokenPair mints a fresh access token and refresh token. With an
// empty sessionID a new session row is created, otherwise the existing
// row is rotated in place.
func (s *AuthService) issueTokenPair(user *model.User, sessionID string) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Username, []string{user.Role}, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.refreshTTL)

	if sessionID == "" {
		sessionID, err = s.sessionRepo.Create(user.ID, refreshToken, expiresAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		logger.Log.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"session_id": sessionID,
		}).Info("New session created")
	} else {
		if err := s.sessionRepo.Extend(sessionID, refreshToken, expiresAt); err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return nil, ErrSessionInvalid
			}
			return nil, fmt.Errorf("failed to extend session: %w", err)
		}
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
		ExpiresAt:    expiresAt,
	}, nil
}

// userBySession resolves the owning user for a session that has already
// passed the validity check.
func (s *AuthService) userBySession(sessionID string) (*model.User, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session user: %w", err)
	}
	return user, nil
}

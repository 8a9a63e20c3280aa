// file: repository/session_repository.go

package repository

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"go-forum-api/logger"
	"go-forum-api/model"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSessionNotFound is returned when an extend targets a session id that
// has no row in the database.
var ErrSessionNotFound = errors.New("session not found")

// ISessionRepository defines the contract for refresh-session persistence.
type ISessionRepository interface {
	Create(userID int, refreshToken string, expiresAt time.Time) (string, error)
	GetByID(sessionID string) (*model.Session, error)
	Extend(sessionID string, refreshToken string, expiresAt time.Time) error
	Revoke(sessionID string) error
	IsValid(sessionID string, refreshToken string) (bool, error)
}

// SessionRepository implements ISessionRepository on Postgres.
type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// HashToken returns the SHA-256 of a refresh token, base64 encoded.
// The raw token value never reaches the database or the logs.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Create stores a new session row and returns its generated id.
func (r *SessionRepository) Create(userID int, refreshToken string, expiresAt time.Time) (string, error) {
	sessionID := uuid.NewString()
	log := logger.Log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"user_id":    userID,
		"expires_at": expiresAt,
	})
	log.Info("Executing query to create a new session")

	query := `INSERT INTO sessions (id, user_id, refresh_token_hash, expires_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.Exec(query, sessionID, userID, HashToken(refreshToken), expiresAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create session query")
		return "", err
	}
	return sessionID, nil
}

// GetByID fetches a session row, hash included. Used to resolve the owning
// user during refresh; validity is still decided by IsValid alone.
func (r *SessionRepository) GetByID(sessionID string) (*model.Session, error) {
	if uuid.Validate(sessionID) != nil {
		return nil, ErrSessionNotFound
	}

	session := &model.Session{ID: sessionID}
	query := `SELECT user_id, refresh_token_hash, initiated_at, expires_at, revoked FROM sessions WHERE id = $1`
	err := r.DB.QueryRow(query, sessionID).
		Scan(&session.UserID, &session.RefreshTokenHash, &session.InitiatedAt, &session.ExpiresAt, &session.Revoked)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// Extend overwrites the stored refresh token hash and expiry in a single
// row update. It does not re-check validity; the caller is expected to have
// confirmed the session via IsValid first, so the check-then-act sequence
// stays visible at the call site.
func (r *SessionRepository) Extend(sessionID string, refreshToken string, expiresAt time.Time) error {
	log := logger.Log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"expires_at": expiresAt,
	})
	log.Info("Executing query to rotate session refresh token")

	query := `UPDATE sessions SET refresh_token_hash = $2, expires_at = $3 WHERE id = $1`
	result, err := r.DB.Exec(query, sessionID, HashToken(refreshToken), expiresAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute extend session query")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Revoke marks a session as dead. Revocation is one-way and idempotent:
// revoking a missing or already revoked session is not an error.
func (r *SessionRepository) Revoke(sessionID string) error {
	if uuid.Validate(sessionID) != nil {
		return nil
	}

	log := logger.Log.WithField("session_id", sessionID)
	log.Info("Executing query to revoke session")

	query := `UPDATE sessions SET revoked = TRUE WHERE id = $1`
	_, err := r.DB.Exec(query, sessionID)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke session query")
		return err
	}
	return nil
}

// IsValid is the single authoritative validity predicate: the session must
// exist, not be revoked, not be expired, and the presented token's hash must
// match the stored one. A missing row is simply invalid, not an error.
func (r *SessionRepository) IsValid(sessionID string, refreshToken string) (bool, error) {
	// The id column is UUID typed. An id that cannot be one matches no row,
	// and must not reach the driver where the failed cast would surface as a
	// store error instead of a plain invalid session.
	if uuid.Validate(sessionID) != nil {
		return false, nil
	}

	session := &model.Session{}
	query := `SELECT refresh_token_hash, expires_at, revoked FROM sessions WHERE id = $1`
	err := r.DB.QueryRow(query, sessionID).Scan(&session.RefreshTokenHash, &session.ExpiresAt, &session.Revoked)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		logger.Log.WithField("session_id", sessionID).WithError(err).Error("Failed to execute session lookup query")
		return false, err
	}

	if session.Revoked || !time.Now().Before(session.ExpiresAt) {
		return false, nil
	}
	return session.RefreshTokenHash == HashToken(refreshToken), nil
}

// file: service/auth_service_test.go

package service

import (
	"database/sql"
	"errors"
	"go-forum-api/model"
	"go-forum-api/repository"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if user := args.Get(0); user != nil {
		return user.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if user := args.Get(0); user != nil {
		return user.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) GetAllUsers() ([]*model.User, error) {
	args := m.Called()
	return args.Get(0).([]*model.User), args.Error(1)
}
func (m *mockUserRepo) UpdateUserRole(userID int, newRole string) error {
	args := m.Called(userID, newRole)
	return args.Error(0)
}

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(userID int, refreshToken string, expiresAt time.Time) (string, error) {
	args := m.Called(userID, refreshToken, expiresAt)
	return args.String(0), args.Error(1)
}
func (m *mockSessionRepo) GetByID(sessionID string) (*model.Session, error) {
	args := m.Called(sessionID)
	if session := args.Get(0); session != nil {
		return session.(*model.Session), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionRepo) Extend(sessionID string, refreshToken string, expiresAt time.Time) error {
	args := m.Called(sessionID, refreshToken, expiresAt)
	return args.Error(0)
}
func (m *mockSessionRepo) Revoke(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}
func (m *mockSessionRepo) IsValid(sessionID string, refreshToken string) (bool, error) {
	args := m.Called(sessionID, refreshToken)
	return args.Bool(0), args.Error(1)
}

// fakeSessionRepo is an in-memory stand-in with the real store semantics:
// hash comparison, sliding expiry, one-way revocation. It lets the rotation
// scenarios run against a stateful store without a database.
type fakeSessionRepo struct {
	sessions map[string]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*model.Session{}}
}

func (f *fakeSessionRepo) Create(userID int, refreshToken string, expiresAt time.Time) (string, error) {
	id := uuid.NewString()
	f.sessions[id] = &model.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: repository.HashToken(refreshToken),
		InitiatedAt:      time.Now(),
		ExpiresAt:        expiresAt,
	}
	return id, nil
}

func (f *fakeSessionRepo) GetByID(sessionID string) (*model.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) Extend(sessionID string, refreshToken string, expiresAt time.Time) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.RefreshTokenHash = repository.HashToken(refreshToken)
	session.ExpiresAt = expiresAt
	return nil
}

func (f *fakeSessionRepo) Revoke(sessionID string) error {
	if session, ok := f.sessions[sessionID]; ok {
		session.Revoked = true
	}
	return nil
}

func (f *fakeSessionRepo) IsValid(sessionID string, refreshToken string) (bool, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return false, nil
	}
	if session.Revoked || !time.Now().Before(session.ExpiresAt) {
		return false, nil
	}
	return session.RefreshTokenHash == repository.HashToken(refreshToken), nil
}

func newTestAuthService(t *testing.T, userRepo repository.IUserRepository, sessionRepo repository.ISessionRepository) *AuthService {
	t.Helper()
	tokens, err := NewTokenService("unit-test-secret")
	assert.NoError(t, err)
	return NewAuthService(userRepo, sessionRepo, tokens, 15*time.Minute, 24*time.Hour)
}

func testUser(t *testing.T, auth *AuthService) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	assert.NoError(t, err)
	return &model.User{
		ID:       7,
		Username: "alice",
		Email:    "alice@example.com",
		Password: hash,
		Role:     "user",
	}
}

func TestAuthService_HashAndCheckPassword(t *testing.T) {
	authService := newTestAuthService(t, nil, nil)
	password := "mySecretPassword123"

	hashedPassword, err := authService.HashPassword(password)
	assert.NoError(t, err)
	assert.NotEqual(t, password, hashedPassword)

	assert.True(t, authService.CheckPasswordHash(password, hashedPassword))
	assert.False(t, authService.CheckPasswordHash("notMyPassword", hashedPassword))
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success mints verifiable claims", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockSessions := new(mockSessionRepo)
		authService := newTestAuthService(t, mockUsers, mockSessions)
		user := testUser(t, authService)

		mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()
		mockSessions.On("Create", user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return("session-1", nil).Once()

		pair, err := authService.Login(user.Email, "password123")
		assert.NoError(t, err)
		assert.Equal(t, "session-1", pair.SessionID)
		assert.NotEmpty(t, pair.RefreshToken)

		// The access token decodes back to the same identity and roles.
		claims, err := authService.tokens.VerifyAccessToken(pair.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, []string{user.Role}, claims.Roles)

		mockUsers.AssertExpectations(t)
		mockSessions.AssertExpectations(t)
	})

	t.Run("wrong password creates no session", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockSessions := new(mockSessionRepo)
		authService := newTestAuthService(t, mockUsers, mockSessions)
		user := testUser(t, authService)

		mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()

		_, err := authService.Login(user.Email, "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockSessions.AssertNotCalled(t, "Create")
	})

	t.Run("unknown email is the same failure", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockSessions := new(mockSessionRepo)
		authService := newTestAuthService(t, mockUsers, mockSessions)

		mockUsers.On("GetUserByEmail", "nobody@example.com").Return(nil, sql.ErrNoRows).Once()

		_, err := authService.Login("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockSessions.AssertNotCalled(t, "Create")
	})

	t.Run("store failure is not unauthorized", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		authService := newTestAuthService(t, mockUsers, new(mockSessionRepo))

		mockUsers.On("GetUserByEmail", "alice@example.com").Return(nil, errors.New("connection refused")).Once()

		_, err := authService.Login("alice@example.com", "password123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh_RotatesTokens(t *testing.T) {
	mockUsers := new(mockUserRepo)
	sessions := newFakeSessionRepo()
	authService := newTestAuthService(t, mockUsers, sessions)
	user := testUser(t, authService)

	mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()
	mockUsers.On("GetUserByID", user.ID).Return(user, nil)

	first, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)

	before, err := sessions.GetByID(first.SessionID)
	assert.NoError(t, err)

	second, err := authService.Refresh(first.SessionID, first.RefreshToken)
	assert.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Rotation replaced the stored hash and moved the expiry strictly forward.
	after, err := sessions.GetByID(first.SessionID)
	assert.NoError(t, err)
	assert.NotEqual(t, before.RefreshTokenHash, after.RefreshTokenHash)
	assert.True(t, after.ExpiresAt.After(before.ExpiresAt))
}

func TestAuthService_Refresh_RejectsReplayedToken(t *testing.T) {
	mockUsers := new(mockUserRepo)
	sessions := newFakeSessionRepo()
	authService := newTestAuthService(t, mockUsers, sessions)
	user := testUser(t, authService)

	mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()
	mockUsers.On("GetUserByID", user.ID).Return(user, nil)

	first, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)

	_, err = authService.Refresh(first.SessionID, first.RefreshToken)
	assert.NoError(t, err)

	// A second presentation of the already rotated token is indistinguishable
	// from a forged one.
	_, err = authService.Refresh(first.SessionID, first.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthService_Refresh_InvalidAttemptRevokesSession(t *testing.T) {
	mockUsers := new(mockUserRepo)
	sessions := newFakeSessionRepo()
	authService := newTestAuthService(t, mockUsers, sessions)
	user := testUser(t, authService)

	mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()
	mockUsers.On("GetUserByID", user.ID).Return(user, nil)

	first, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)

	second, err := authService.Refresh(first.SessionID, first.RefreshToken)
	assert.NoError(t, err)

	// Replaying the old token kills the whole session, so even the freshly
	// rotated token is dead afterwards.
	_, err = authService.Refresh(first.SessionID, first.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = authService.Refresh(first.SessionID, second.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthService_Refresh_AfterLogout(t *testing.T) {
	mockUsers := new(mockUserRepo)
	sessions := newFakeSessionRepo()
	authService := newTestAuthService(t, mockUsers, sessions)
	user := testUser(t, authService)

	mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()

	first, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)

	assert.NoError(t, authService.Logout(first.SessionID))

	_, err = authService.Refresh(first.SessionID, first.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthService_Refresh_StoreFailureSurfaces(t *testing.T) {
	mockSessions := new(mockSessionRepo)
	authService := newTestAuthService(t, new(mockUserRepo), mockSessions)

	mockSessions.On("IsValid", "sid", "token").Return(false, errors.New("store timeout")).Once()

	_, err := authService.Refresh("sid", "token")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionInvalid)
	mockSessions.AssertNotCalled(t, "Revoke")
}

func TestAuthService_Logout_IsIdempotent(t *testing.T) {
	mockUsers := new(mockUserRepo)
	sessions := newFakeSessionRepo()
	authService := newTestAuthService(t, mockUsers, sessions)
	user := testUser(t, authService)

	mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()

	first, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)

	assert.NoError(t, authService.Logout(first.SessionID))
	assert.NoError(t, authService.Logout(first.SessionID))

	// Logging out a session that never existed is also fine.
	assert.NoError(t, authService.Logout(uuid.NewString()))

	session, err := sessions.GetByID(first.SessionID)
	assert.NoError(t, err)
	assert.True(t, session.Revoked)
}

package handler

import (
	"go-forum-api/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTokens(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService("middleware-test-secret")
	assert.NoError(t, err)
	return tokens
}

func protectedEcho(t *testing.T, sawRequest *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawRequest = true
		userID, ok := r.Context().Value(UserIDKey).(int)
		assert.True(t, ok)
		assert.Equal(t, 42, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := newTestTokens(t)
	tokenString, err := tokens.IssueAccessToken(42, "alice", []string{"user"}, time.Minute)
	assert.NoError(t, err)

	sawRequest := false
	middleware := NewAuthMiddleware(tokens)

	req := httptest.NewRequest("GET", "/api/destinations", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	middleware(protectedEcho(t, &sawRequest)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, sawRequest)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tokens := newTestTokens(t)
	middleware := NewAuthMiddleware(tokens)

	expiredToken, err := tokens.IssueAccessToken(42, "alice", []string{"user"}, 0)
	assert.NoError(t, err)

	otherTokens, err := service.NewTokenService("some-other-secret")
	assert.NoError(t, err)
	foreignToken, err := otherTokens.IssueAccessToken(42, "alice", []string{"user"}, time.Minute)
	assert.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer header", "Basic dXNlcjpwYXNz"},
		{"malformed header", "Bearer"},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expiredToken},
		{"token signed with another key", "Bearer " + foreignToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sawRequest := false
			req := httptest.NewRequest("GET", "/api/destinations", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			middleware(protectedEcho(t, &sawRequest)).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.False(t, sawRequest, "rejected request must never reach the handler")
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	tokens := newTestTokens(t)
	guard := NewAuthMiddleware(tokens)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		tokenString, err := tokens.IssueAccessToken(1, "root", []string{"admin"}, time.Minute)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rr := httptest.NewRecorder()

		guard(AdminMiddleware(next)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		tokenString, err := tokens.IssueAccessToken(2, "bob", []string{"user"}, time.Minute)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rr := httptest.NewRecorder()

		guard(AdminMiddleware(next)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

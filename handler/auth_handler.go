// file: handler/auth_handler.go

package handler

import (
	"encoding/json"
	"errors"
	"go-forum-api/common"
	"go-forum-api/config"
	"go-forum-api/logger"
	"go-forum-api/model"
	"go-forum-api/service"
	"net/http"
	"time"
)

const (
	sessionIDCookie    = "SessionId"
	refreshTokenCookie = "RefreshToken"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials, starts a session and returns an access token. The refresh credential is delivered via HTTP-only cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  model.LoginRequest  true  "Login credentials"
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError
// @Router       /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Uniform message, no hint about which field was wrong.
			return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not complete login", err)
	}

	h.setSessionCookies(w, pair)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)

	return nil
}

// Refresh godoc
// @Summary      Rotate the session tokens
// @Description  Validates the refresh cookie, rotates both tokens and extends the session. Any failure forces a re-login.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError
// @Router       /api/accessToken [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	sessionID, refreshToken, ok := h.sessionCookies(r)
	if !ok {
		h.clearSessionCookies(w)
		return common.NewAppError(http.StatusUnauthorized, "Session is invalid", nil)
	}

	pair, err := h.authService.Refresh(sessionID, refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			h.clearSessionCookies(w)
			return common.NewAppError(http.StatusUnauthorized, "Session is invalid", nil)
		}
		// Store trouble is a transient server-side failure, not a 401.
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh session", err)
	}

	h.setSessionCookies(w, pair)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)

	return nil
}

// Logout godoc
// @Summary      End the session
// @Description  Clears the session cookies and revokes the session. Revocation is best-effort; the client side always logs out.
// @Tags         auth
// @Success      204
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if cookie, err := r.Cookie(sessionIDCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(cookie.Value); err != nil {
			// Never surfaced to the client; the cookies are gone either way
			// and the access token expires on its own.
			logger.Log.WithField("session_id", cookie.Value).WithError(err).
				Error("Failed to revoke session on logout")
		}
	}

	h.clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)

	return nil
}

func (h *AuthHandler) sessionCookies(r *http.Request) (sessionID, refreshToken string, ok bool) {
	sidCookie, err := r.Cookie(sessionIDCookie)
	if err != nil || sidCookie.Value == "" {
		return "", "", false
	}
	refreshCookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || refreshCookie.Value == "" {
		return "", "", false
	}
	return sidCookie.Value, refreshCookie.Value, true
}

// setSessionCookies delivers the refresh credential via HTTP-only cookies so
// it is never readable from scripts. The access token travels in the body.
func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, pair *service.TokenPair) {
	maxAge := int(time.Until(pair.ExpiresAt).Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     sessionIDCookie,
		Value:    pair.SessionID,
		Path:     "/api",
		Domain:   config.AppConfig.Cookie.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.AppConfig.Cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/api",
		Domain:   config.AppConfig.Cookie.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.AppConfig.Cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{sessionIDCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/api",
			Domain:   config.AppConfig.Cookie.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   config.AppConfig.Cookie.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

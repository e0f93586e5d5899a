package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/meridianlabs/thesisflow/internal/domain/auth"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// AuthHandlers provides HTTP handlers for login, logout, and session status.
type AuthHandlers struct {
	Svc          *service.AuthService
	CookieDomain string
	CookieSecure bool
	// DevLoginEnabled gates the caller-asserted dev login endpoint.
	DevLoginEnabled bool
	Logger          *slog.Logger
}

type devLoginRequest struct {
	Email string          `json:"email"`
	Role  domainauth.Role `json:"role"`
}

// DevLogin issues a session for a caller-asserted identity. Only available
// when dev login is enabled; production builds get a 404.
func (h *AuthHandlers) DevLogin(w http.ResponseWriter, r *http.Request) {
	if !h.DevLoginEnabled {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}

	var req devLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = domainauth.RoleViewer
	}

	session, err := h.Svc.Login(r.Context(), req.Email, req.Role)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, http.StatusOK, session)
}

// Logout removes the current session and clears the cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil && h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Status reports the authenticated identity of the caller, if any.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), cookie.Value)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"email":         session.Email,
		"role":          session.Role,
		"expires_at":    session.ExpiresAt,
	})
}

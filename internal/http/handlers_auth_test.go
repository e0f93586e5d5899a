package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/thesisflow/internal/adapters/devauth"
	domainauth "github.com/meridianlabs/thesisflow/internal/domain/auth"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// memorySessionStore is an in-memory core.SessionStore for handler tests.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *memorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, errors.New("session not found")
	}
	return sess, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func newAuthHandlers(devLoginEnabled bool) (*AuthHandlers, *memorySessionStore) {
	store := newMemorySessionStore()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Issuer:   devauth.NewProvider(devauth.ProviderOptions{SessionTTL: time.Hour}),
		Sessions: store,
	})
	return &AuthHandlers{Svc: svc, DevLoginEnabled: devLoginEnabled}, store
}

func TestDevLogin_Success(t *testing.T) {
	h, store := newAuthHandlers(true)

	body := []byte(`{"email": "analyst@example.com", "role": "editor"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/dev-login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.DevLogin(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domainauth.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, domainauth.RoleEditor, got.Role)

	// Session cookie is set and the session is persisted.
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, got.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	_, err := store.Get(context.Background(), got.ID)
	assert.NoError(t, err)
}

func TestDevLogin_DefaultsToViewer(t *testing.T) {
	h, _ := newAuthHandlers(true)

	body := []byte(`{"email": "analyst@example.com"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/dev-login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.DevLogin(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domainauth.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, domainauth.RoleViewer, got.Role)
}

func TestDevLogin_DisabledReads404(t *testing.T) {
	h, _ := newAuthHandlers(false)

	body := []byte(`{"email": "analyst@example.com"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/dev-login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.DevLogin(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDevLogin_MissingEmail(t *testing.T) {
	h, _ := newAuthHandlers(true)

	body := []byte(`{"email": ""}`)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/dev-login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.DevLogin(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogout_ClearsCookieAndSession(t *testing.T) {
	h, store := newAuthHandlers(true)

	sess := domainauth.Session{
		ID:        "sess-1",
		Email:     "analyst@example.com",
		Role:      domainauth.RoleViewer,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), sess))

	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Logout(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	_, err := store.Get(context.Background(), "sess-1")
	assert.Error(t, err)
}

func TestStatus_Authenticated(t *testing.T) {
	h, store := newAuthHandlers(true)

	sess := domainauth.Session{
		ID:        "sess-1",
		Email:     "analyst@example.com",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), sess))

	r := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Status(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, true, got["authenticated"])
	assert.Equal(t, "analyst@example.com", got["email"])
	assert.Equal(t, "admin", got["role"])
}

func TestStatus_NoCookie(t *testing.T) {
	h, _ := newAuthHandlers(true)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	w := httptest.NewRecorder()

	h.Status(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, false, got["authenticated"])
}

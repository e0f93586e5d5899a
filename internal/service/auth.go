package service

import (
	"context"
	"fmt"
	"time"

	"github.com/meridianlabs/thesisflow/internal/core"
	domainauth "github.com/meridianlabs/thesisflow/internal/domain/auth"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Issuer   core.SessionIssuer
	Sessions core.SessionStore
}

// AuthService orchestrates login, session lookup, and logout. It carries no
// IdP logic itself; the issuer decides how identities are established.
type AuthService struct {
	issuer   core.SessionIssuer
	sessions core.SessionStore
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		issuer:   opts.Issuer,
		sessions: opts.Sessions,
	}
}

// Login issues a session for the given identity and persists it.
func (s *AuthService) Login(ctx context.Context, email string, role domainauth.Role) (*domainauth.Session, error) {
	if email == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}

	session, err := s.issuer.Issue(ctx, email, role)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "issue session")
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &session, nil
}

// GetSession retrieves a live session by ID. Expired sessions are removed and
// reported as not found.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.NotFound("session not found")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, fmt.Errorf("delete expired session: %w", deleteErr)
		}
		return nil, apperrors.NotFound("session expired")
	}

	return &session, nil
}

// Logout removes a session. Unknown or empty IDs are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

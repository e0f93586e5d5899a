// Package devauth issues sessions without an identity provider. It exists for
// local development and integration tests only; production deployments wire a
// real issuer behind core.SessionIssuer.
package devauth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/meridianlabs/thesisflow/internal/domain/auth"
)

// DefaultSessionTTL is used when ProviderOptions.SessionTTL is zero.
const DefaultSessionTTL = 12 * time.Hour

// ProviderOptions groups dependencies for Provider.
type ProviderOptions struct {
	// SessionTTL bounds how long issued sessions remain valid.
	SessionTTL time.Duration
	// TimeProvider returns the current time; defaults to time.Now.
	TimeProvider func() time.Time
}

// Provider issues short-lived sessions for a caller-asserted identity.
type Provider struct {
	sessionTTL   time.Duration
	timeProvider func() time.Time
}

// NewProvider creates a dev session issuer.
func NewProvider(opts ProviderOptions) *Provider {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = time.Now
	}
	return &Provider{
		sessionTTL:   opts.SessionTTL,
		timeProvider: opts.TimeProvider,
	}
}

// Issue mints a session carrying the requested role. The email is trusted
// as-is; there is no credential check in development mode.
func (p *Provider) Issue(_ context.Context, email string, role domainauth.Role) (domainauth.Session, error) {
	if email == "" {
		return domainauth.Session{}, errors.New("email is required")
	}
	switch role {
	case domainauth.RoleViewer, domainauth.RoleEditor, domainauth.RoleAdmin:
	default:
		return domainauth.Session{}, errors.New("unknown role: " + string(role))
	}

	now := p.timeProvider()
	return domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    email,
		Email:     email,
		Role:      role,
		ExpiresAt: now.Add(p.sessionTTL),
	}, nil
}

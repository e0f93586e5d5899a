package core

import (
	"context"

	domainauth "github.com/meridianlabs/thesisflow/internal/domain/auth"
)

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionIssuer mints sessions for authenticated identities. In development
// this is the devauth provider; an IdP-backed issuer can replace it without
// touching the service layer.
type SessionIssuer interface {
	Issue(ctx context.Context, email string, role domainauth.Role) (domainauth.Session, error)
}

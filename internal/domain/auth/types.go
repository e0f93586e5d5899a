// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	// RoleAdmin may administer engagements and all work kinds.
	RoleAdmin Role = "admin"
	// RoleEditor may create, delete, and trigger work within an engagement.
	RoleEditor Role = "editor"
	// RoleViewer may read status, stats, and progress streams.
	RoleViewer Role = "viewer"
)

// CanWrite returns true if the role permits mutating operations.
func (r Role) CanWrite() bool { return r == RoleEditor || r == RoleAdmin }

// CanRead returns true if the role permits read operations.
func (r Role) CanRead() bool { return r == RoleViewer || r.CanWrite() }

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired returns true if the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

package config

import "time"

// AuthConfig contains authentication and session configuration.
type AuthConfig struct {
	// SessionTTL bounds how long issued sessions remain valid.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"12h"`

	// SessionPrefix is the Redis key prefix for stored sessions.
	SessionPrefix string `env:"AUTH_SESSION_PREFIX" envDefault:"session:"`

	// DevLoginEnabled allows the dev login endpoint to issue sessions for a
	// caller-asserted identity. It is forced off outside dev mode.
	DevLoginEnabled bool `env:"AUTH_DEV_LOGIN_ENABLED" envDefault:"false"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < time.Minute {
		a.SessionTTL = time.Minute
	}
	if a.SessionPrefix == "" {
		a.SessionPrefix = "session:"
	}
}

package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/meridianlabs/thesisflow/internal/domain/auth"
)

func TestProvider_Issue(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	p := NewProvider(ProviderOptions{
		SessionTTL:   time.Hour,
		TimeProvider: func() time.Time { return now },
	})

	sess, err := p.Issue(context.Background(), "analyst@example.com", domainauth.RoleEditor)
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "analyst@example.com", sess.UserID)
	assert.Equal(t, "analyst@example.com", sess.Email)
	assert.Equal(t, domainauth.RoleEditor, sess.Role)
	assert.Equal(t, now.Add(time.Hour), sess.ExpiresAt)
}

func TestProvider_Issue_UniqueSessionIDs(t *testing.T) {
	p := NewProvider(ProviderOptions{})

	first, err := p.Issue(context.Background(), "a@example.com", domainauth.RoleViewer)
	require.NoError(t, err)
	second, err := p.Issue(context.Background(), "a@example.com", domainauth.RoleViewer)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestProvider_Issue_DefaultTTL(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	p := NewProvider(ProviderOptions{
		TimeProvider: func() time.Time { return now },
	})

	sess, err := p.Issue(context.Background(), "a@example.com", domainauth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, now.Add(DefaultSessionTTL), sess.ExpiresAt)
}

func TestProvider_Issue_Rejections(t *testing.T) {
	p := NewProvider(ProviderOptions{})

	tests := []struct {
		name  string
		email string
		role  domainauth.Role
	}{
		{name: "empty email", email: "", role: domainauth.RoleViewer},
		{name: "unknown role", email: "a@example.com", role: domainauth.Role("superuser")},
		{name: "empty role", email: "a@example.com", role: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Issue(context.Background(), tt.email, tt.role)
			require.Error(t, err)
		})
	}
}

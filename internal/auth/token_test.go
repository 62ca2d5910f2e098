package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adham-Aroubite/hr-back/internal/model"
)

func newTestSession(expiresIn time.Duration) model.Session {
	now := time.Now().UTC()
	return model.Session{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "hr-back")
	session := newTestSession(time.Hour)

	token, err := issuer.Sign(session)
	require.NoError(t, err)

	id, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, id)
}

func TestTokenIsDeterministicPerSession(t *testing.T) {
	issuer := NewTokenIssuer("secret", "hr-back")
	session := newTestSession(time.Hour)

	first, err := issuer.Sign(session)
	require.NoError(t, err)

	// Stored timestamps lose sub-second precision, the credential must not change
	reloaded := session
	reloaded.CreatedAt = session.CreatedAt.Truncate(time.Microsecond)
	reloaded.ExpiresAt = session.ExpiresAt.Truncate(time.Microsecond)
	second, err := issuer.Sign(reloaded)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", "hr-back")

	expired, err := issuer.Sign(newTestSession(-time.Minute))
	require.NoError(t, err)

	otherSecret, err := NewTokenIssuer("other", "hr-back").Sign(newTestSession(time.Hour))
	require.NoError(t, err)

	otherIssuer, err := NewTokenIssuer("secret", "someone-else").Sign(newTestSession(time.Hour))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"other issuer": otherIssuer,
		"garbage":      "not.a.token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	issuer, err := NewIssuer("top-secret", time.Hour)
	require.NoError(t, err)

	token, claims, err := issuer.Issue("labels")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, got.SessionID)
	assert.Equal(t, "labels", got.Page)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	a, err := NewIssuer("secret-a", time.Hour)
	require.NoError(t, err)
	b, err := NewIssuer("secret-b", time.Hour)
	require.NoError(t, err)

	token, _, err := a.Issue("home")
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	issuer, err := NewIssuer("secret", time.Minute)
	require.NoError(t, err)

	start := time.Now()
	issuer.now = func() time.Time { return start }
	token, _, err := issuer.Issue("home")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

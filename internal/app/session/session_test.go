package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	s := NewSigner("top-secret")
	token := s.Sign("user.with.dots")

	userID, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user.with.dots", userID)
}

func TestSigner_Rejects(t *testing.T) {
	s := NewSigner("top-secret")
	other := NewSigner("another-secret")

	tests := map[string]string{
		"empty":         "",
		"no separator":  "user-1",
		"empty user":    ".abc",
		"empty sig":     "user-1.",
		"forged":        other.Sign("user-1"),
		"tampered user": "user-2." + s.Sign("user-1")[len("user-1."):],
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := NewSigner("").Verify(s.Sign("user-1"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestContext(t *testing.T) {
	assert.False(t, FromContext(context.Background()).Authenticated())

	ctx := WithSession(context.Background(), Session{UserID: "user-1", Plan: "pro"})
	got := FromContext(ctx)
	assert.True(t, got.Authenticated())
	assert.Equal(t, "pro", got.Plan)
}

// Package session resolves who is calling. A Session travels in the request
// context; code that needs the user reads it from there instead of from
// package state.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// Session identifies an authenticated user. The zero value is anonymous.
type Session struct {
	UserID string
	Plan   string
}

// Authenticated reports whether a user is attached.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session in ctx, or the anonymous session.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(contextKey{}).(Session); ok {
		return s
	}
	return Session{}
}

// ErrInvalidToken is returned for malformed or forged tokens.
var ErrInvalidToken = errors.New("invalid session token")

// Signer issues and verifies "userID.signature" tokens, where signature is
// the unpadded base64url HMAC-SHA256 of the user id.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer. An empty secret disables token auth.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Enabled reports whether tokens can be verified.
func (s *Signer) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

// Sign issues a token for userID.
func (s *Signer) Sign(userID string) string {
	return userID + "." + s.mac(userID)
}

// Verify returns the user id of a valid token.
func (s *Signer) Verify(token string) (string, error) {
	if !s.Enabled() {
		return "", ErrInvalidToken
	}
	i := strings.LastIndexByte(token, '.')
	if i <= 0 || i == len(token)-1 {
		return "", ErrInvalidToken
	}
	userID, sig := token[:i], token[i+1:]
	if !hmac.Equal([]byte(sig), []byte(s.mac(userID))) {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (s *Signer) mac(userID string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(userID))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

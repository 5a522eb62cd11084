package mocks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/mocks"
)

// The default token mock round-trips its own tokens, which keeps handler and
// middleware tests free of signing keys.
func TestMockTokenService_DefaultsRoundTrip(t *testing.T) {
	tokens := mocks.NewMockTokenService()

	tok, err := tokens.IssueSessionToken("u-1", domain.RoleInstructor, domain.TokenKindAuth, time.Hour)
	require.NoError(t, err)

	claims, err := tokens.VerifySessionToken(tok, domain.TokenKindAuth)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, domain.RoleInstructor, claims.Role)

	_, err = tokens.VerifySessionToken(tok, domain.TokenKindRefresh)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	act, err := tokens.IssueActivationToken(domain.PendingRegistration{Email: "a@b.com"}, "4821", time.Minute)
	require.NoError(t, err)
	ac, err := tokens.VerifyActivationToken(act)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", ac.Registration.Email)
	assert.Equal(t, "4821", ac.Code)
}

func TestMockMailer_RecordsAndFails(t *testing.T) {
	mailer := mocks.NewMockMailer()
	ctx := context.Background()

	require.NoError(t, mailer.Send(ctx, domain.Mail{To: "a@b.com", Template: "activation-email"}))
	last, ok := mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "a@b.com", last.To)

	mailer.SendFunc = func(context.Context, domain.Mail) error { return errors.New("smtp down") }
	assert.Error(t, mailer.Send(ctx, domain.Mail{To: "c@d.com"}))
	assert.Len(t, mailer.Sent(), 1)
}

func TestMockCasbinEnforcer_Matching(t *testing.T) {
	e := mocks.NewMockCasbinEnforcer()

	tests := []struct {
		name    string
		rvals   []interface{}
		allowed bool
	}{
		{"admin wildcard", []interface{}{"role_admin", "/api/v1/users/:id", "PATCH"}, true},
		{"user exact", []interface{}{"role_user", "/api/v1/users/me", "GET"}, true},
		{"user wrong method", []interface{}{"role_user", "/api/v1/users/me", "POST"}, false},
		{"unknown subject", []interface{}{"role_instructor", "/api/v1/users/me", "GET"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := e.Enforce(tt.rvals...)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, ok)
		})
	}

	added, err := e.AddPolicy("role_instructor", "/api/v1/users/*", "GET")
	require.NoError(t, err)
	assert.True(t, added)
	ok, _ := e.Enforce("role_instructor", "/api/v1/users/all", "GET")
	assert.True(t, ok)

	removed, err := e.RemovePolicy("role_instructor", "/api/v1/users/*", "GET")
	require.NoError(t, err)
	assert.True(t, removed)
	ok, _ = e.Enforce("role_instructor", "/api/v1/users/all", "GET")
	assert.False(t, ok)
}

func TestMockRevocationRepository_InMemory(t *testing.T) {
	repo := mocks.NewMockRevocationRepository()
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	until := time.Now().Add(time.Hour)
	require.NoError(t, repo.Revoke(ctx, "jti", until))

	revoked, err = repo.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, until, repo.Revoked()["jti"])
}

func TestMockPasswordService_Defaults(t *testing.T) {
	pw := mocks.NewMockPasswordService()

	hash, err := pw.Hash("secret1")
	require.NoError(t, err)
	assert.Equal(t, mocks.MockHash("secret1"), hash)
	assert.NotEqual(t, "secret1", hash)
	assert.Equal(t, int64(1), pw.HashCalls())

	assert.True(t, pw.Verify(hash, "secret1"))
	assert.False(t, pw.Verify(hash, "secret2"))
	assert.False(t, pw.Verify("secret1", "secret1"), "plaintext in the store never verifies")
}

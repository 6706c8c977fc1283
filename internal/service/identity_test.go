package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/models"
)

func TestRegister(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	user, tok, err := s.identity.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	claims, err := s.identity.tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRegisterValidation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	for _, tc := range []struct{ username, email, password string }{
		{"", "a@example.com", "pw"},
		{"a", "", "pw"},
		{"a", "a@example.com", ""},
	} {
		_, _, err := s.identity.Register(ctx, tc.username, tc.email, tc.password)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	s.register(t, "alice", "alice@example.com")
	_, _, err := s.identity.Register(ctx, "alice2", "alice@example.com", "other")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Uniqueness is exact-match: a case variant registers as a new account.
	_, _, err = s.identity.Register(ctx, "alice3", "Alice@example.com", "other")
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	user := s.register(t, "alice", "alice@example.com")

	got, tok, err := s.identity.Authenticate(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, tok)

	_, _, err = s.identity.Authenticate(ctx, "alice@example.com", "wrong")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	_, _, err = s.identity.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPublicProfileHidesHash(t *testing.T) {
	s := newStack(t)
	user := s.register(t, "alice", "alice@example.com")

	profile, err := s.identity.PublicProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	_, err = s.identity.PublicProfile(context.Background(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateProfileAuthorization(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")
	bob := s.register(t, "bob", "bob@example.com")
	admin := s.registerAdmin(t, "root", "root@example.com")

	// Owner may update.
	got, err := s.identity.UpdateProfile(ctx, asCaller(alice), alice.ID, ProfileUpdate{Username: strptr("alice2")})
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)

	// A stranger may not.
	_, err = s.identity.UpdateProfile(ctx, asCaller(bob), alice.ID, ProfileUpdate{Username: strptr("hax")})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// An admin may.
	got, err = s.identity.UpdateProfile(ctx, asCaller(admin), alice.ID, ProfileUpdate{Email: strptr("new@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "alice2", got.Username)
}

func TestChangePassword(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")
	admin := s.registerAdmin(t, "root", "root@example.com")

	// Admin override does NOT apply to passwords.
	err := s.identity.ChangePassword(ctx, asCaller(admin), alice.ID, "secret123", "newpw")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Wrong old password.
	err = s.identity.ChangePassword(ctx, asCaller(alice), alice.ID, "wrong", "newpw")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	// Happy path, then login with the new password.
	require.NoError(t, s.identity.ChangePassword(ctx, asCaller(alice), alice.ID, "secret123", "newpw"))
	_, _, err = s.identity.Authenticate(ctx, "alice@example.com", "newpw")
	assert.NoError(t, err)
	_, _, err = s.identity.Authenticate(ctx, "alice@example.com", "secret123")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestPromoteToAdmin(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")

	require.NoError(t, s.identity.PromoteToAdmin(ctx, alice.ID))
	got, err := s.identity.PublicProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	err = s.identity.PromoteToAdmin(ctx, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListUsers(t *testing.T) {
	s := newStack(t)
	s.register(t, "alice", "alice@example.com")
	s.register(t, "bob", "bob@example.com")

	users, err := s.identity.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

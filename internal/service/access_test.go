package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventhub-backend/internal/apperr"
)

func TestRequireAdmin(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")
	admin := s.registerAdmin(t, "root", "root@example.com")

	assert.NoError(t, s.access.RequireAdmin(ctx, admin.ID))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(s.access.RequireAdmin(ctx, alice.ID)))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(s.access.RequireAdmin(ctx, "missing")))
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	owner := s.register(t, "owner", "owner@example.com")
	other := s.register(t, "other", "other@example.com")
	admin := s.registerAdmin(t, "root", "root@example.com")

	assert.NoError(t, s.access.RequireOwnerOrAdmin(ctx, owner.ID, owner.ID))
	assert.NoError(t, s.access.RequireOwnerOrAdmin(ctx, admin.ID, owner.ID))
	assert.Equal(t, apperr.KindForbidden,
		apperr.KindOf(s.access.RequireOwnerOrAdmin(ctx, other.ID, owner.ID)))
}

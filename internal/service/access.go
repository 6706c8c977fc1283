package service

import (
	"context"
	"errors"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/models"
	"eventhub-backend/internal/store"
)

// Access decides whether a caller may act on a resource. Decisions are
// re-derived per request from stored state; ownership is never trusted from
// a request body.
type Access struct {
	store store.Store
}

func NewAccess(st store.Store) *Access {
	return &Access{store: st}
}

// RequireAdmin loads the caller's role and fails unless it is admin. A
// caller whose user document has vanished is treated the same as a
// non-admin.
func (a *Access) RequireAdmin(ctx context.Context, userID string) error {
	doc, err := a.store.Get(ctx, colUsers, userID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Forbidden("admin access required")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if models.UserFromDoc(userID, doc).Role != models.RoleAdmin {
		return apperr.Forbidden("admin access required")
	}
	return nil
}

// RequireOwnerOrAdmin is the single mutation policy shared by events
// (owner = creatorUid), comments (owner = uid) and profile edits (owner =
// the profile id). The resource read and the role read are two independent
// lookups with no transaction around them; a concurrent role or ownership
// change between the two is an accepted race.
func (a *Access) RequireOwnerOrAdmin(ctx context.Context, callerID, ownerID string) error {
	if callerID == ownerID {
		return nil
	}
	return a.RequireAdmin(ctx, callerID)
}

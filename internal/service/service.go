// Package service holds the core of the backend: identity, access control,
// the event aggregate and the attendance ledger. Every operation takes the
// caller explicitly and talks to persistence only through the store port, so
// the whole package is testable against the in-memory store.
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/store"
)

const (
	colUsers      = "users"
	colEvents     = "events"
	colComments   = "comments"
	colAttendance = "attendance"
)

// Caller identifies the authenticated user behind a request. It is derived
// from the verified token by the middleware and passed down explicitly;
// nothing in this package reads request state.
type Caller struct {
	UserID string
	Email  string
}

func newID() string { return uuid.NewString() }

// storeErr translates port-level failures: a missing document becomes a 404,
// anything else is a collaborator failure surfaced as a 500.
func storeErr(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	return apperr.Internal(err)
}

// parseDate accepts RFC3339 or plain YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

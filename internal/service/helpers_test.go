package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"eventhub-backend/internal/models"
	"eventhub-backend/internal/store"
	"eventhub-backend/internal/token"
)

type stack struct {
	store      *store.Memory
	access     *Access
	identity   *Identity
	events     *Events
	attendance *Attendance
}

func newStack(t *testing.T) *stack {
	t.Helper()
	st := store.NewMemory()
	log := zerolog.Nop()
	access := NewAccess(st)
	return &stack{
		store:      st,
		access:     access,
		identity:   NewIdentity(st, token.NewManager("test-secret", time.Hour), access, log),
		events:     NewEvents(st, access, "http://localhost:8080", log),
		attendance: NewAttendance(st, log),
	}
}

func (s *stack) register(t *testing.T, username, email string) models.User {
	t.Helper()
	user, _, err := s.identity.Register(context.Background(), username, email, "secret123")
	require.NoError(t, err)
	return user
}

func (s *stack) registerAdmin(t *testing.T, username, email string) models.User {
	t.Helper()
	user := s.register(t, username, email)
	require.NoError(t, s.identity.PromoteToAdmin(context.Background(), user.ID))
	user.Role = models.RoleAdmin
	return user
}

func (s *stack) createEvent(t *testing.T, creator models.User, title string) models.Event {
	t.Helper()
	ev, err := s.events.Create(context.Background(), creator.ID, title, "2030-06-01", "Berlin", "a description")
	require.NoError(t, err)
	return ev
}

func asCaller(u models.User) Caller {
	return Caller{UserID: u.ID, Email: u.Email}
}

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }

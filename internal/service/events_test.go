package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/store"
)

func TestCreateEvent(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")

	ev, err := s.events.Create(ctx, alice.ID, "Conference A", "2030-06-01", "Berlin", "annual meetup")
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, alice.ID, ev.CreatorUID)
	assert.Equal(t, "alice", ev.CreatorName)

	// Creator name is a snapshot: renaming the user later leaves it alone.
	_, err = s.identity.UpdateProfile(ctx, asCaller(alice), alice.ID, ProfileUpdate{Username: strptr("renamed")})
	require.NoError(t, err)
	got, err := s.events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.CreatorName)
}

func TestCreateEventValidation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")

	_, err := s.events.Create(ctx, alice.ID, "", "2030-06-01", "Berlin", "d")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = s.events.Create(ctx, alice.ID, "t", "not-a-date", "Berlin", "d")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = s.events.Create(ctx, "missing-user", "t", "2030-06-01", "Berlin", "d")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListFilters(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")
	bob := s.register(t, "bob", "bob@example.com")

	now := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
	s.events.now = func() time.Time { return now }

	mk := func(creator, title, date string) {
		_, err := s.events.Create(ctx, creator, title, date, "loc", "desc")
		require.NoError(t, err)
	}
	mk(alice.ID, "Conference A", "2026-09-01")
	mk(alice.ID, "Workshop", "2026-08-24") // today counts as upcoming
	mk(bob.ID, "Retro", "2026-01-10")

	upcoming, err := s.events.Upcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Workshop", upcoming[0].Title)
	assert.Equal(t, "Conference A", upcoming[1].Title)

	past, err := s.events.Past(ctx)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, "Retro", past[0].Title)

	all, err := s.events.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := s.events.ByCreator(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestSearch(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")
	s.createEvent(t, alice, "Conference A")
	s.createEvent(t, alice, "Workshop")

	got, err := s.events.Search(ctx, "conf")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Conference A", got[0].Title)

	_, err = s.events.Search(ctx, "  ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateEvent(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")
	bob := s.register(t, "bob", "bob@example.com")
	admin := s.registerAdmin(t, "root", "root@example.com")
	ev := s.createEvent(t, alice, "Conference A")

	// Partial update: untouched fields survive.
	got, err := s.events.Update(ctx, asCaller(alice), ev.ID, EventUpdate{Location: strptr("Munich")})
	require.NoError(t, err)
	assert.Equal(t, "Munich", got.Location)
	assert.Equal(t, "Conference A", got.Title)

	_, err = s.events.Update(ctx, asCaller(bob), ev.ID, EventUpdate{Title: strptr("hax")})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = s.events.Update(ctx, asCaller(admin), ev.ID, EventUpdate{Title: strptr("Conference B")})
	assert.NoError(t, err)

	_, err = s.events.Update(ctx, asCaller(alice), "missing", EventUpdate{})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteEventCascades(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")
	bob := s.register(t, "bob", "bob@example.com")
	ev := s.createEvent(t, alice, "Conference A")
	keep := s.createEvent(t, alice, "Workshop")

	_, err := s.events.AddComment(ctx, asCaller(bob), ev.ID, "nice", f64ptr(5))
	require.NoError(t, err)
	_, err = s.attendance.Confirm(ctx, asCaller(bob), ev.ID)
	require.NoError(t, err)
	_, err = s.events.AddComment(ctx, asCaller(bob), keep.ID, "other event", nil)
	require.NoError(t, err)

	// A non-owner cannot delete.
	err = s.events.Delete(ctx, asCaller(bob), ev.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, s.events.Delete(ctx, asCaller(alice), ev.ID))

	_, err = s.events.Get(ctx, ev.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	comments, err := s.events.Comments(ctx, ev.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	count, err := s.attendance.Count(ctx, ev.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The sibling event and its comment are untouched.
	kept, err := s.events.Comments(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestDeleteEventIsOneBatch(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice", "alice@example.com")
	ev := s.createEvent(t, alice, "Conference A")
	_, err := s.events.AddComment(ctx, asCaller(alice), ev.ID, "note", nil)
	require.NoError(t, err)

	rec := &recordingStore{Store: s.store}
	evs := NewEvents(rec, s.access, "http://localhost:8080", s.events.log)
	require.NoError(t, evs.Delete(ctx, asCaller(alice), ev.ID))

	// Every child delete rode in the single batch; nothing was deleted
	// through the individual write path.
	assert.Equal(t, 1, rec.batches)
	assert.Zero(t, rec.deletes)
}

func TestShareLink(t *testing.T) {
	s := newStack(t)
	assert.Equal(t, "http://localhost:8080/events/abc", s.events.ShareLink("abc"))
}

// recordingStore counts write-path calls to assert the cascade uses the
// batch primitive.
type recordingStore struct {
	store.Store
	batches int
	deletes int
}

func (r *recordingStore) Delete(ctx context.Context, collection, id string) error {
	r.deletes++
	return r.Store.Delete(ctx, collection, id)
}

func (r *recordingStore) BatchCommit(ctx context.Context, writes []store.Write) error {
	r.batches++
	return r.Store.BatchCommit(ctx, writes)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/models"
	"eventhub-backend/internal/store"
)

// Events owns the event aggregate: the event document plus its dependent
// comments and attendance records. Deleting an event tears the whole
// aggregate down in one batch commit.
type Events struct {
	store     store.Store
	access    *Access
	shareBase string
	log       zerolog.Logger
	now       func() time.Time
}

func NewEvents(st store.Store, access *Access, shareBase string, log zerolog.Logger) *Events {
	return &Events{store: st, access: access, shareBase: shareBase, log: log, now: time.Now}
}

// EventUpdate lists the partially-updatable event fields. CreatorUID is
// immutable after creation and deliberately absent here.
type EventUpdate struct {
	Title       *string
	Date        *string
	Location    *string
	Description *string
}

func (s *Events) List(ctx context.Context) ([]models.Event, error) {
	return s.query(ctx, store.Query{
		Sort: []store.Order{{Field: "createdAt", Desc: true}},
	})
}

func (s *Events) Upcoming(ctx context.Context) ([]models.Event, error) {
	return s.query(ctx, store.Query{
		Filters: []store.Filter{{Field: "date", Op: store.OpGte, Value: s.today()}},
		Sort:    []store.Order{{Field: "date"}},
	})
}

func (s *Events) Past(ctx context.Context) ([]models.Event, error) {
	return s.query(ctx, store.Query{
		Filters: []store.Filter{{Field: "date", Op: store.OpLt, Value: s.today()}},
		Sort:    []store.Order{{Field: "date", Desc: true}},
	})
}

// Search is a case-insensitive substring match over title and description,
// evaluated by loading the whole collection. There is no index; this is
// O(N) per call and acceptable only at this scale.
func (s *Events) Search(ctx context.Context, text string) ([]models.Event, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("search query is required")
	}

	all, err := s.query(ctx, store.Query{
		Sort: []store.Order{{Field: "createdAt", Desc: true}},
	})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(text)
	out := make([]models.Event, 0)
	for _, ev := range all {
		if strings.Contains(strings.ToLower(ev.Title), needle) ||
			strings.Contains(strings.ToLower(ev.Description), needle) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *Events) ByCreator(ctx context.Context, creatorUID string) ([]models.Event, error) {
	return s.query(ctx, store.Query{
		Filters: []store.Filter{{Field: "creatorUid", Op: store.OpEq, Value: creatorUID}},
		Sort:    []store.Order{{Field: "createdAt", Desc: true}},
	})
}

func (s *Events) Get(ctx context.Context, eventID string) (models.Event, error) {
	doc, err := s.store.Get(ctx, colEvents, eventID)
	if err != nil {
		return models.Event{}, storeErr(err, "event")
	}
	return models.EventFromDoc(eventID, doc), nil
}

func (s *Events) Create(ctx context.Context, creatorUID, title, date, location, description string) (models.Event, error) {
	if creatorUID == "" || title == "" || date == "" || location == "" || description == "" {
		return models.Event{}, apperr.Validation("title, date, location, description and creatorUid are required")
	}
	when, err := parseDate(date)
	if err != nil {
		return models.Event{}, apperr.Validation("invalid date format (use RFC3339 or YYYY-MM-DD)")
	}

	// Resolve the creator so an unknown uid fails, and snapshot the current
	// username; the snapshot is not kept in sync with later renames.
	creatorDoc, err := s.store.Get(ctx, colUsers, creatorUID)
	if err != nil {
		return models.Event{}, storeErr(err, "creator")
	}
	creator := models.UserFromDoc(creatorUID, creatorDoc)

	ev := models.Event{
		ID:          newID(),
		Title:       strings.TrimSpace(title),
		Date:        when,
		Location:    location,
		Description: description,
		CreatorUID:  creatorUID,
		CreatorName: creator.Username,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Set(ctx, colEvents, ev.ID, ev.Doc()); err != nil {
		return models.Event{}, apperr.Internal(err)
	}

	s.log.Info().Str("event", ev.ID).Str("creator", creatorUID).Msg("event created")
	return ev, nil
}

func (s *Events) Update(ctx context.Context, caller Caller, eventID string, upd EventUpdate) (models.Event, error) {
	ev, err := s.Get(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if err := s.access.RequireOwnerOrAdmin(ctx, caller.UserID, ev.CreatorUID); err != nil {
		return models.Event{}, err
	}

	fields := store.Doc{}
	if upd.Title != nil {
		fields["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Date != nil {
		when, err := parseDate(*upd.Date)
		if err != nil {
			return models.Event{}, apperr.Validation("invalid date format (use RFC3339 or YYYY-MM-DD)")
		}
		fields["date"] = when
	}
	if upd.Location != nil {
		fields["location"] = *upd.Location
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if len(fields) > 0 {
		if err := s.store.Update(ctx, colEvents, eventID, fields); err != nil {
			return models.Event{}, storeErr(err, "event")
		}
	}
	return s.Get(ctx, eventID)
}

// Delete removes the event together with every comment and attendance
// record in a single batch commit. A crash mid-delete must never leave the
// event gone with orphaned children, or the reverse.
func (s *Events) Delete(ctx context.Context, caller Caller, eventID string) error {
	ev, err := s.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwnerOrAdmin(ctx, caller.UserID, ev.CreatorUID); err != nil {
		return err
	}

	byEvent := store.Query{
		Filters: []store.Filter{{Field: "eventId", Op: store.OpEq, Value: eventID}},
	}
	comments, err := s.store.Query(ctx, colComments, byEvent)
	if err != nil {
		return apperr.Internal(err)
	}
	attendance, err := s.store.Query(ctx, colAttendance, byEvent)
	if err != nil {
		return apperr.Internal(err)
	}

	writes := make([]store.Write, 0, len(comments)+len(attendance)+1)
	for _, c := range comments {
		writes = append(writes, store.Write{Kind: store.WriteDelete, Collection: colComments, ID: c.ID})
	}
	for _, a := range attendance {
		writes = append(writes, store.Write{Kind: store.WriteDelete, Collection: colAttendance, ID: a.ID})
	}
	writes = append(writes, store.Write{Kind: store.WriteDelete, Collection: colEvents, ID: eventID})

	if err := s.store.BatchCommit(ctx, writes); err != nil {
		return apperr.Internal(err)
	}

	s.log.Info().Str("event", eventID).Int("comments", len(comments)).
		Int("attendance", len(attendance)).Msg("event deleted with children")
	return nil
}

// ShareLink builds the public URL for an event page.
func (s *Events) ShareLink(eventID string) string {
	return s.shareBase + "/events/" + eventID
}

func (s *Events) query(ctx context.Context, q store.Query) ([]models.Event, error) {
	snaps, err := s.store.Query(ctx, colEvents, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]models.Event, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, models.EventFromDoc(snap.ID, snap.Doc))
	}
	return out, nil
}

// today is midnight UTC of the current day: the boundary between "upcoming"
// (date >= today) and "past" (date < today).
func (s *Events) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

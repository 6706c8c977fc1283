package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/models"
	"eventhub-backend/internal/store"
)

// Attendance is the ledger of who confirmed for which event. Records are
// keyed by (event, user), so the per-document atomic Set IS the uniqueness
// guarantee — there is no check-then-write window to race through.
type Attendance struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewAttendance(st store.Store, log zerolog.Logger) *Attendance {
	return &Attendance{store: st, log: log, now: time.Now}
}

// Confirm upserts the caller's record. Re-confirming is idempotent and
// always refreshes UpdatedAt.
func (s *Attendance) Confirm(ctx context.Context, caller Caller, eventID string) (models.AttendanceRecord, error) {
	if _, err := s.store.Get(ctx, colEvents, eventID); err != nil {
		return models.AttendanceRecord{}, storeErr(err, "event")
	}
	userDoc, err := s.store.Get(ctx, colUsers, caller.UserID)
	if err != nil {
		return models.AttendanceRecord{}, storeErr(err, "user")
	}
	user := models.UserFromDoc(caller.UserID, userDoc)

	rec := models.AttendanceRecord{
		EventID:   eventID,
		UID:       caller.UserID,
		Username:  user.Username,
		Confirmed: true,
		UpdatedAt: s.now().UTC(),
	}
	key := models.AttendanceKey(eventID, caller.UserID)
	if err := s.store.Set(ctx, colAttendance, key, rec.Doc()); err != nil {
		return models.AttendanceRecord{}, apperr.Internal(err)
	}
	return rec, nil
}

// Cancel removes the record entirely; there is no confirmed=false
// tombstone. Cancelling when no record exists is a no-op, not an error.
func (s *Attendance) Cancel(ctx context.Context, caller Caller, eventID string) error {
	key := models.AttendanceKey(eventID, caller.UserID)
	if err := s.store.Delete(ctx, colAttendance, key); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Status reports whether a user confirmed for an event. Absence means "not
// confirmed", never an error.
func (s *Attendance) Status(ctx context.Context, eventID, userID string) (models.AttendanceStatus, error) {
	doc, err := s.store.Get(ctx, colAttendance, models.AttendanceKey(eventID, userID))
	if errors.Is(err, store.ErrNotFound) {
		return models.AttendanceStatus{Confirmed: false}, nil
	}
	if err != nil {
		return models.AttendanceStatus{}, apperr.Internal(err)
	}

	rec := models.AttendanceFromDoc(doc)
	return models.AttendanceStatus{
		Confirmed: rec.Confirmed,
		UID:       rec.UID,
		Username:  rec.Username,
		UpdatedAt: &rec.UpdatedAt,
	}, nil
}

func (s *Attendance) Attendees(ctx context.Context, eventID string) ([]models.AttendanceRecord, error) {
	snaps, err := s.store.Query(ctx, colAttendance, store.Query{
		Filters: []store.Filter{{Field: "eventId", Op: store.OpEq, Value: eventID}},
		Sort:    []store.Order{{Field: "updatedAt"}},
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]models.AttendanceRecord, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, models.AttendanceFromDoc(snap.Doc))
	}
	return out, nil
}

func (s *Attendance) Count(ctx context.Context, eventID string) (int, error) {
	recs, err := s.Attendees(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

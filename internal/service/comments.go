package service

import (
	"context"
	"strings"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/models"
	"eventhub-backend/internal/store"
)

// CommentUpdate carries the partially-updatable comment fields.
type CommentUpdate struct {
	Comment *string
	Rating  *float64
}

func (s *Events) AddComment(ctx context.Context, caller Caller, eventID, text string, rating *float64) (models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return models.Comment{}, apperr.Validation("comment text is required")
	}
	if _, err := s.Get(ctx, eventID); err != nil {
		return models.Comment{}, err
	}

	authorDoc, err := s.store.Get(ctx, colUsers, caller.UserID)
	if err != nil {
		return models.Comment{}, storeErr(err, "user")
	}
	author := models.UserFromDoc(caller.UserID, authorDoc)

	c := models.Comment{
		ID:        newID(),
		EventID:   eventID,
		UID:       caller.UserID,
		Username:  author.Username,
		Comment:   text,
		Rating:    rating,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Set(ctx, colComments, c.ID, c.Doc()); err != nil {
		return models.Comment{}, apperr.Internal(err)
	}
	return c, nil
}

func (s *Events) Comments(ctx context.Context, eventID string) ([]models.Comment, error) {
	snaps, err := s.store.Query(ctx, colComments, store.Query{
		Filters: []store.Filter{{Field: "eventId", Op: store.OpEq, Value: eventID}},
		Sort:    []store.Order{{Field: "createdAt", Desc: true}},
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]models.Comment, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, models.CommentFromDoc(snap.ID, snap.Doc))
	}
	return out, nil
}

// UpdateComment authorizes against the comment's author, not the event's
// creator: owning an event grants no rights over other people's comments.
func (s *Events) UpdateComment(ctx context.Context, caller Caller, eventID, commentID string, upd CommentUpdate) (models.Comment, error) {
	c, err := s.comment(ctx, eventID, commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if err := s.access.RequireOwnerOrAdmin(ctx, caller.UserID, c.UID); err != nil {
		return models.Comment{}, err
	}

	fields := store.Doc{}
	if upd.Comment != nil {
		if strings.TrimSpace(*upd.Comment) == "" {
			return models.Comment{}, apperr.Validation("comment text is required")
		}
		fields["comment"] = *upd.Comment
	}
	if upd.Rating != nil {
		fields["rating"] = *upd.Rating
	}
	if len(fields) > 0 {
		fields["editedAt"] = s.now().UTC()
		if err := s.store.Update(ctx, colComments, commentID, fields); err != nil {
			return models.Comment{}, storeErr(err, "comment")
		}
	}
	return s.comment(ctx, eventID, commentID)
}

func (s *Events) DeleteComment(ctx context.Context, caller Caller, eventID, commentID string) error {
	c, err := s.comment(ctx, eventID, commentID)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwnerOrAdmin(ctx, caller.UserID, c.UID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, colComments, commentID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// AverageRating recomputes the aggregate on demand; nothing is stored. A
// rating of exactly 0 counts as absent and is excluded from both the
// average and the count — kept byte-for-byte compatible with what clients
// already expect. With no qualifying ratings the result is {0, 0}, never
// NaN.
func (s *Events) AverageRating(ctx context.Context, eventID string) (models.Rating, error) {
	comments, err := s.Comments(ctx, eventID)
	if err != nil {
		return models.Rating{}, err
	}

	var sum float64
	var count int
	for _, c := range comments {
		if c.Rating != nil && *c.Rating != 0 {
			sum += *c.Rating
			count++
		}
	}
	if count == 0 {
		return models.Rating{}, nil
	}
	return models.Rating{Average: sum / float64(count), Count: count}, nil
}

// comment loads a comment and checks it belongs to the given event, so a
// valid comment id under the wrong event URL reads as absent.
func (s *Events) comment(ctx context.Context, eventID, commentID string) (models.Comment, error) {
	doc, err := s.store.Get(ctx, colComments, commentID)
	if err != nil {
		return models.Comment{}, storeErr(err, "comment")
	}
	c := models.CommentFromDoc(commentID, doc)
	if c.EventID != eventID {
		return models.Comment{}, apperr.NotFound("comment not found")
	}
	return c, nil
}

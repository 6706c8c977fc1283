package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/models"
	"eventhub-backend/internal/password"
	"eventhub-backend/internal/store"
	"eventhub-backend/internal/token"
)

// Identity owns user records: registration, login, profiles, passwords and
// the admin listing/promotion operations.
type Identity struct {
	store  store.Store
	tokens *token.Manager
	access *Access
	log    zerolog.Logger
	now    func() time.Time
}

func NewIdentity(st store.Store, tokens *token.Manager, access *Access, log zerolog.Logger) *Identity {
	return &Identity{store: st, tokens: tokens, access: access, log: log, now: time.Now}
}

// ProfileUpdate carries the partially-updatable profile fields; nil means
// "leave unchanged".
type ProfileUpdate struct {
	Username *string
	Email    *string
}

func (s *Identity) Register(ctx context.Context, username, email, pw string) (models.User, string, error) {
	if username == "" || email == "" || pw == "" {
		return models.User{}, "", apperr.Validation("username, email and password are required")
	}

	// Exact-match lookup: uniqueness is case-sensitive on purpose, matching
	// the existing client expectations.
	if _, err := s.userByEmail(ctx, email); err == nil {
		return models.User{}, "", apperr.Conflict("email already registered")
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return models.User{}, "", err
	}

	hash, err := password.Hash(pw)
	if err != nil {
		return models.User{}, "", apperr.Internal(err)
	}

	user := models.User{
		ID:           newID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Set(ctx, colUsers, user.ID, user.Doc()); err != nil {
		return models.User{}, "", apperr.Internal(err)
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return models.User{}, "", apperr.Internal(err)
	}

	s.log.Info().Str("uid", user.ID).Msg("user registered")
	return user, tok, nil
}

func (s *Identity) Authenticate(ctx context.Context, email, pw string) (models.User, string, error) {
	if email == "" || pw == "" {
		return models.User{}, "", apperr.Validation("email and password are required")
	}

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return models.User{}, "", err
	}
	if !password.Matches(user.PasswordHash, pw) {
		return models.User{}, "", apperr.Auth("invalid credentials")
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return models.User{}, "", apperr.Internal(err)
	}
	return user, tok, nil
}

func (s *Identity) PublicProfile(ctx context.Context, userID string) (models.User, error) {
	doc, err := s.store.Get(ctx, colUsers, userID)
	if err != nil {
		return models.User{}, storeErr(err, "user")
	}
	return models.UserFromDoc(userID, doc), nil
}

func (s *Identity) UpdateProfile(ctx context.Context, caller Caller, targetID string, upd ProfileUpdate) (models.User, error) {
	if _, err := s.PublicProfile(ctx, targetID); err != nil {
		return models.User{}, err
	}
	if err := s.access.RequireOwnerOrAdmin(ctx, caller.UserID, targetID); err != nil {
		return models.User{}, err
	}

	fields := store.Doc{}
	if upd.Username != nil {
		fields["username"] = *upd.Username
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if len(fields) > 0 {
		if err := s.store.Update(ctx, colUsers, targetID, fields); err != nil {
			return models.User{}, storeErr(err, "user")
		}
	}
	return s.PublicProfile(ctx, targetID)
}

// ChangePassword is deliberately narrower than owner-or-admin: only the
// owning user may change a password, and only after re-proving the old one.
func (s *Identity) ChangePassword(ctx context.Context, caller Caller, targetID, oldPw, newPw string) error {
	if caller.UserID != targetID {
		return apperr.Forbidden("you can only change your own password")
	}
	if oldPw == "" || newPw == "" {
		return apperr.Validation("old and new password are required")
	}

	user, err := s.PublicProfile(ctx, targetID)
	if err != nil {
		return err
	}
	if !password.Matches(user.PasswordHash, oldPw) {
		return apperr.Auth("old password is incorrect")
	}

	hash, err := password.Hash(newPw)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.store.Update(ctx, colUsers, targetID, store.Doc{"passwordHash": hash}); err != nil {
		return storeErr(err, "user")
	}
	s.log.Info().Str("uid", targetID).Msg("password changed")
	return nil
}

// PromoteToAdmin assumes the caller already passed an admin check upstream.
// There is no demotion counterpart.
func (s *Identity) PromoteToAdmin(ctx context.Context, targetID string) error {
	if err := s.store.Update(ctx, colUsers, targetID, store.Doc{"role": models.RoleAdmin}); err != nil {
		return storeErr(err, "user")
	}
	s.log.Info().Str("uid", targetID).Msg("user promoted to admin")
	return nil
}

func (s *Identity) ListUsers(ctx context.Context) ([]models.User, error) {
	snaps, err := s.store.Query(ctx, colUsers, store.Query{
		Sort: []store.Order{{Field: "createdAt", Desc: true}},
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	users := make([]models.User, 0, len(snaps))
	for _, s := range snaps {
		users = append(users, models.UserFromDoc(s.ID, s.Doc))
	}
	return users, nil
}

func (s *Identity) userByEmail(ctx context.Context, email string) (models.User, error) {
	snaps, err := s.store.Query(ctx, colUsers, store.Query{
		Filters: []store.Filter{{Field: "email", Op: store.OpEq, Value: email}},
	})
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}
	if len(snaps) == 0 {
		return models.User{}, apperr.NotFound("user not found")
	}
	return models.UserFromDoc(snaps[0].ID, snaps[0].Doc), nil
}

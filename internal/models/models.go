package models

import (
	"time"

	"eventhub-backend/internal/store"
)

// Role values stored on a user document. There is no demotion path: a user
// becomes admin through the admin endpoint and stays admin.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. PasswordHash never serializes; the struct
// doubles as the public profile shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) Doc() store.Doc {
	return store.Doc{
		"username":     u.Username,
		"email":        u.Email,
		"passwordHash": u.PasswordHash,
		"role":         u.Role,
		"createdAt":    u.CreatedAt,
	}
}

func UserFromDoc(id string, d store.Doc) User {
	return User{
		ID:           id,
		Username:     docString(d, "username"),
		Email:        docString(d, "email"),
		PasswordHash: docString(d, "passwordHash"),
		Role:         docString(d, "role"),
		CreatedAt:    docTime(d, "createdAt"),
	}
}

// Event is the aggregate root. CreatorName is a snapshot of the creator's
// username at creation time and is not kept in sync with later renames.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatorUID  string    `json:"creatorUid"`
	CreatorName string    `json:"creatorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e Event) Doc() store.Doc {
	return store.Doc{
		"title":       e.Title,
		"date":        e.Date,
		"location":    e.Location,
		"description": e.Description,
		"creatorUid":  e.CreatorUID,
		"creatorName": e.CreatorName,
		"createdAt":   e.CreatedAt,
	}
}

func EventFromDoc(id string, d store.Doc) Event {
	return Event{
		ID:          id,
		Title:       docString(d, "title"),
		Date:        docTime(d, "date"),
		Location:    docString(d, "location"),
		Description: docString(d, "description"),
		CreatorUID:  docString(d, "creatorUid"),
		CreatorName: docString(d, "creatorName"),
		CreatedAt:   docTime(d, "createdAt"),
	}
}

// Comment belongs to one event. Rating is optional; nil means the author
// left no rating at all.
type Comment struct {
	ID        string     `json:"id"`
	EventID   string     `json:"eventId"`
	UID       string     `json:"uid"`
	Username  string     `json:"username"`
	Comment   string     `json:"comment"`
	Rating    *float64   `json:"rating"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

func (c Comment) Doc() store.Doc {
	d := store.Doc{
		"eventId":   c.EventID,
		"uid":       c.UID,
		"username":  c.Username,
		"comment":   c.Comment,
		"rating":    nil,
		"createdAt": c.CreatedAt,
	}
	if c.Rating != nil {
		d["rating"] = *c.Rating
	}
	if c.EditedAt != nil {
		d["editedAt"] = *c.EditedAt
	}
	return d
}

func CommentFromDoc(id string, d store.Doc) Comment {
	c := Comment{
		ID:        id,
		EventID:   docString(d, "eventId"),
		UID:       docString(d, "uid"),
		Username:  docString(d, "username"),
		Comment:   docString(d, "comment"),
		CreatedAt: docTime(d, "createdAt"),
	}
	if r, ok := docFloat(d, "rating"); ok {
		c.Rating = &r
	}
	if t, ok := d["editedAt"].(time.Time); ok {
		c.EditedAt = &t
	}
	return c
}

// AttendanceRecord is keyed by AttendanceKey, never by a generated id. The
// key is what makes "confirm" an idempotent upsert with at most one record
// per (event, user).
type AttendanceRecord struct {
	EventID   string    `json:"eventId"`
	UID       string    `json:"uid"`
	Username  string    `json:"username"`
	Confirmed bool      `json:"confirmed"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func AttendanceKey(eventID, userID string) string {
	return eventID + ":" + userID
}

func (a AttendanceRecord) Doc() store.Doc {
	return store.Doc{
		"eventId":   a.EventID,
		"uid":       a.UID,
		"username":  a.Username,
		"confirmed": a.Confirmed,
		"updatedAt": a.UpdatedAt,
	}
}

func AttendanceFromDoc(d store.Doc) AttendanceRecord {
	confirmed, _ := d["confirmed"].(bool)
	return AttendanceRecord{
		EventID:   docString(d, "eventId"),
		UID:       docString(d, "uid"),
		Username:  docString(d, "username"),
		Confirmed: confirmed,
		UpdatedAt: docTime(d, "updatedAt"),
	}
}

// AttendanceStatus is the answer to "is this user going". An absent record
// reports confirmed=false with no other fields set.
type AttendanceStatus struct {
	Confirmed bool       `json:"confirmed"`
	UID       string     `json:"uid,omitempty"`
	Username  string     `json:"username,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Rating is the on-demand aggregate over an event's comment ratings.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func docString(d store.Doc, key string) string {
	s, _ := d[key].(string)
	return s
}

func docTime(d store.Doc, key string) time.Time {
	t, _ := d[key].(time.Time)
	return t
}

func docFloat(d store.Doc, key string) (float64, bool) {
	switch n := d[key].(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

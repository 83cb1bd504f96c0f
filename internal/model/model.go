// Package model defines domain entities used by services and repositories.
package model

import "time"

// Default page sizes applied when a listing request omits the limit.
const (
	DefaultItemLimit    = 10
	DefaultUserLimit    = 10
	DefaultMessageLimit = 100
)

// Item is a free-standing named record.
type Item struct {
	ID          int64 // server-assigned, never reused
	Name        string
	Description string
}

// ItemPatch carries only the fields present in an update request.
// A nil field leaves the stored value unchanged.
type ItemPatch struct {
	Name        *string
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool { return p.Name == nil && p.Description == nil }

// Apply returns it with the present patch fields written over it.
func (p ItemPatch) Apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	return it
}

// User is a message participant.
type User struct {
	ID   int64
	Name string
}

// Message is a stored chat message. SenderName is joined from users on every
// read and is not persisted with the message.
type Message struct {
	ID          int64
	SenderID    int64  // FK -> users.id, required
	RecipientID *int64 // FK -> users.id, optional
	SenderName  string
	Content     string
	Timestamp   time.Time // assigned by the database, ordering key
}

// NewMessage is a message creation intent.
type NewMessage struct {
	SenderID    int64
	RecipientID *int64
	Content     string
}

// Page selects a window of an ordered listing.
type Page struct {
	Offset int
	Limit  int
}

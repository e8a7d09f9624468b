package model

import (
	"time"
)

const DefaultMaxParticipants = 20

type Event struct {
	ID              string    `db:"id" json:"id"`
	GroupID         string    `db:"group_id" json:"group_id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	StartsAt        time.Time `db:"starts_at" json:"starts_at"`
	Location        *string   `db:"location" json:"location,omitempty"` // Nullable
	MaxParticipants int       `db:"max_participants" json:"max_participants"`
	CreatorID       string    `db:"creator_id" json:"creator_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Attendance struct {
	EventID string    `db:"event_id" json:"event_id"`
	UserID  string    `db:"user_id" json:"user_id"`
	RSVPAt  time.Time `db:"rsvp_at" json:"rsvp_at"`
}

// EventRelation is how a single user relates to an event. Exactly one applies.
type EventRelation string

const (
	EventRelationCreated   EventRelation = "created"
	EventRelationAttending EventRelation = "attending"
	EventRelationNone      EventRelation = "none"
)

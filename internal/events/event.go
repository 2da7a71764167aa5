package events

import (
	"time"

	"github.com/google/uuid"
)

// Type names a lifecycle change.
type Type string

const (
	ApartmentCreated Type = "apartment.created"
	ApartmentUpdated Type = "apartment.updated"
	ApartmentDeleted Type = "apartment.deleted"

	FlatCreated Type = "flat.created"
	FlatDeleted Type = "flat.deleted"

	ResidentMovedIn     Type = "resident.moved_in"
	ResidentMovedOut    Type = "resident.moved_out"
	ResidentDeleted     Type = "resident.deleted"
	ResidentTypeChanged Type = "resident.type_changed"
)

// Event is published after a successful mutation.
type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	EntityID   int64       `json:"entity_id"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func New(t Type, entityID int64, payload interface{}, now time.Time) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: now.UTC(),
	}
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// PinEventsQueue is the durable queue that carries pin lifecycle events.
const PinEventsQueue = "pins.events"

// Event kinds.
const (
    PinCreated = "pin.created"
    PinDeleted = "pin.deleted"
)

// PinEvent is published after a pin row is inserted or deleted.  It carries
// enough of the row for consumers to log or notify without querying the
// database; deleted events only carry the id.
type PinEvent struct {
    Kind       string  `json:"kind"`
    PinID      string  `json:"pin_id"`
    Type       string  `json:"type,omitempty"`
    Title      string  `json:"title,omitempty"`
    Lat        float64 `json:"lat,omitempty"`
    Lng        float64 `json:"lng,omitempty"`
    Role       string  `json:"role,omitempty"`
    OccurredAt string  `json:"occurred_at"`
}

package domain

import "time"

const (
	EventLocation = "location"
	EventTemplate = "template"
)

// Event is broadcast to realtime subscribers.
type Event struct {
	Type      string    `json:"type"`
	ArtworkID int64     `json:"artworkID,omitempty"`
	Location  string    `json:"location,omitempty"`
	At        time.Time `json:"at"`
}

package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusWorking Status = "working"
	StatusForSale Status = "for_sale"
	StatusSold    Status = "sold"
)

// ParseStatus normalizes s; ok is false for anything outside the known states.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusWorking, StatusForSale, StatusSold:
		return st, true
	default:
		return "", false
	}
}

// Artwork is a single catalogued work. Empty optional strings mean "unset".
type Artwork struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Year          string    `json:"year,omitempty"`
	Series        string    `json:"series,omitempty"`
	Medium        string    `json:"medium"`
	Dimensions    string    `json:"dimensions,omitempty"`
	Description   string    `json:"description,omitempty"`
	EditionType   string    `json:"editionType,omitempty"`
	EditionInfo   string    `json:"editionInfo,omitempty"`
	Status        Status    `json:"status"`
	ForSale       bool      `json:"forSale"`
	Price         string    `json:"price,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	ColorCode     string    `json:"colorcode,omitempty"`
	ImageFilename string    `json:"imageFilename,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LocationLog is one append-only entry of an artwork's location history.
type LocationLog struct {
	ID        int64     `json:"id"`
	ArtworkID int64     `json:"artworkID"`
	Location  string    `json:"location"`
	Note      string    `json:"note,omitempty"`
	ChangedAt time.Time `json:"changedAt"`
}

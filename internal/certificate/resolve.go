package certificate

import (
	"html"
	"strconv"
	"time"

	"github.com/totegamma/artistdb/internal/domain"
)

// Recognized placeholder keys.
const (
	KeyArtistName      = "artist_name"
	KeyArtworkTitle    = "artwork_title"
	KeyYear            = "year"
	KeyMedium          = "medium"
	KeyDimensions      = "dimensions"
	KeyEditionInfo     = "edition_info"
	KeyArtworkID       = "artwork_id"
	KeyCertificateDate = "certificate_date"
	KeyArtworkImageURL = "artwork_image_url"
	KeySignatureLine   = "signature_line"
)

// Keys lists every recognized placeholder key.
var Keys = []string{
	KeyArtistName,
	KeyArtworkTitle,
	KeyYear,
	KeyMedium,
	KeyDimensions,
	KeyEditionInfo,
	KeyArtworkID,
	KeyCertificateDate,
	KeyArtworkImageURL,
	KeySignatureLine,
}

const defaultEdition = "Unique"

const signatureLine = `<span style="display:inline-block;` +
	`border-bottom:1px solid #111;` +
	`min-width:260px;height:1.2em;vertical-align:baseline;"></span>`

// Values maps placeholder keys to their resolved, already-escaped text.
type Values map[string]string

// ImageEmpty reports whether the artwork image resolved to nothing.
func (v Values) ImageEmpty() bool {
	return v[KeyArtworkImageURL] == ""
}

// Resolve computes the value of every recognized key for artwork.
func Resolve(artwork domain.Artwork, artistName string, image Image, now time.Time) Values {
	edition := artwork.EditionInfo
	if edition == "" {
		edition = defaultEdition
	}

	uri, _ := image.DataURI()

	return Values{
		KeyArtistName:      FormatValue(artistName),
		KeyArtworkTitle:    FormatValue(artwork.Title),
		KeyYear:            FormatValue(artwork.Year),
		KeyMedium:          FormatValue(artwork.Medium),
		KeyDimensions:      FormatValue(artwork.Dimensions),
		KeyEditionInfo:     FormatValue(edition),
		KeyArtworkID:       FormatValue(strconv.FormatInt(artwork.ID, 10)),
		KeyCertificateDate: FormatValue(now.UTC().Format(time.DateOnly)),
		KeyArtworkImageURL: html.EscapeString(uri),
		KeySignatureLine:   signatureLine,
	}
}

package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/artistdb/internal/domain"
)

const TokenErrorMessage = "Invalid or expired QR code."

// BoxPage is what a person scanning a box label sees.
type BoxPage struct {
	Artwork    domain.Artwork       `json:"artwork"`
	Latest     *domain.LocationLog  `json:"latest"`
	History    []domain.LocationLog `json:"history"`
	CanUpdate  bool                 `json:"can_update"`
	TokenError string               `json:"token_error,omitempty"`
	// TokenStatus is "expired" or "invalid" whenever TokenError is set.
	TokenStatus string `json:"token_status,omitempty"`
}

// BoxUsecase handles location tracking through the QR label on a box.
// The request context carries the verified capability, see
// domain.BoxCapabilityCtxKey.
type BoxUsecase struct {
	artworks  ArtworkRepository
	locations LocationRepository
	tokens    TokenIssuer
	signal    EventPublisher
	renderer  Renderer
	now       func() time.Time
}

func NewBoxUsecase(
	artworks ArtworkRepository,
	locations LocationRepository,
	tokens TokenIssuer,
	signal EventPublisher,
	renderer Renderer,
) *BoxUsecase {
	return &BoxUsecase{
		artworks:  artworks,
		locations: locations,
		tokens:    tokens,
		signal:    signal,
		renderer:  renderer,
		now:       time.Now,
	}
}

// Authorised reports whether ctx holds a capability for artworkID. When it
// does not, the token error seen while verifying (if any) is returned.
func Authorised(ctx context.Context, artworkID int64) (bool, error) {
	if id, ok := ctx.Value(domain.BoxCapabilityCtxKey).(int64); ok && id == artworkID {
		return true, nil
	}
	if err, ok := ctx.Value(domain.BoxTokenErrorCtxKey).(error); ok {
		return false, err
	}
	return false, nil
}

func (uc *BoxUsecase) CurrentLocation(ctx context.Context, artworkID int64) (*domain.LocationLog, error) {
	latest, err := uc.locations.Current(ctx, artworkID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &latest, nil
}

func (uc *BoxUsecase) History(ctx context.Context, artworkID int64) ([]domain.LocationLog, error) {
	if _, err := uc.artworks.Get(ctx, artworkID); err != nil {
		return nil, err
	}
	return uc.locations.History(ctx, artworkID)
}

func (uc *BoxUsecase) Page(ctx context.Context, artworkID int64) (BoxPage, error) {
	ctx, span := tracer.Start(ctx, "Box.Usecase.Page")
	defer span.End()

	artwork, err := uc.artworks.Get(ctx, artworkID)
	if err != nil {
		return BoxPage{}, err
	}

	page := BoxPage{Artwork: artwork}

	canUpdate, tokenErr := Authorised(ctx, artworkID)
	page.CanUpdate = canUpdate
	if tokenErr != nil {
		page.TokenError = TokenErrorMessage
		page.TokenStatus = "invalid"
		if errors.Is(tokenErr, domain.ErrTokenExpired) {
			page.TokenStatus = "expired"
		}
	}

	page.Latest, err = uc.CurrentLocation(ctx, artworkID)
	if err != nil {
		return BoxPage{}, err
	}
	page.History, err = uc.locations.History(ctx, artworkID)
	if err != nil {
		return BoxPage{}, err
	}
	return page, nil
}

// Append records a new location. ctx must carry the capability for artworkID.
func (uc *BoxUsecase) Append(ctx context.Context, artworkID int64, location, note string) (domain.LocationLog, error) {
	ctx, span := tracer.Start(ctx, "Box.Usecase.Append")
	defer span.End()
	span.SetAttributes(attribute.Int64("artworkID", artworkID))

	if _, err := uc.artworks.Get(ctx, artworkID); err != nil {
		return domain.LocationLog{}, err
	}

	ok, tokenErr := Authorised(ctx, artworkID)
	if !ok {
		if tokenErr != nil {
			return domain.LocationLog{}, tokenErr
		}
		return domain.LocationLog{}, domain.ErrNotAuthorised
	}

	location = strings.TrimSpace(location)
	note = strings.TrimSpace(note)
	if location == "" {
		return domain.LocationLog{}, domain.ValidationError{Field: "location", Message: "Location required."}
	}

	entry, err := uc.locations.Append(ctx, domain.LocationLog{
		ArtworkID: artworkID,
		Location:  location,
		Note:      note,
		ChangedAt: uc.now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		return domain.LocationLog{}, errors.Wrap(err, "append location")
	}

	err = uc.signal.Publish(ctx, domain.Event{
		Type:      domain.EventLocation,
		ArtworkID: artworkID,
		Location:  location,
		At:        entry.ChangedAt,
	})
	if err != nil {
		slog.WarnContext(
			ctx, "failed to publish location event",
			slog.String("error", err.Error()),
			slog.String("module", "box"),
		)
	}

	return entry, nil
}

// BoxURL is the link encoded in the label QR code.
func (uc *BoxUsecase) BoxURL(ctx context.Context, artworkID int64, baseURL string) (string, error) {
	token, err := uc.tokens.Generate(ctx, artworkID)
	if err != nil {
		return "", err
	}
	query := url.Values{domain.BoxTokenQueryParam: {token}}
	return fmt.Sprintf("%s/artworks/%d/box?%s", strings.TrimRight(baseURL, "/"), artworkID, query.Encode()), nil
}

// LabelHTML is the printable label: title, id, URL and a QR code.
func (uc *BoxUsecase) LabelHTML(ctx context.Context, artworkID int64, baseURL string) (string, error) {
	artwork, err := uc.artworks.Get(ctx, artworkID)
	if err != nil {
		return "", err
	}

	boxURL, err := uc.BoxURL(ctx, artworkID, baseURL)
	if err != nil {
		return "", err
	}

	png, err := qrcode.Encode(boxURL, qrcode.Medium, 512)
	if err != nil {
		return "", errors.Wrap(err, "encode qr")
	}

	var b strings.Builder
	b.WriteString(labelHead)
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(artwork.Title))
	fmt.Fprintf(&b, "<p class=\"id\">ID: %s</p>\n", strconv.FormatInt(artwork.ID, 10))
	fmt.Fprintf(&b, "<img class=\"qr\" alt=\"QR\" src=\"data:image/png;base64,%s\">\n", base64.StdEncoding.EncodeToString(png))
	fmt.Fprintf(&b, "<p class=\"url\">%s</p>\n", html.EscapeString(boxURL))
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

func (uc *BoxUsecase) Label(ctx context.Context, artworkID int64, baseURL string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Box.Usecase.Label")
	defer span.End()

	document, err := uc.LabelHTML(ctx, artworkID, baseURL)
	if err != nil {
		return nil, err
	}
	return uc.renderer.Render(ctx, document)
}

const labelHead = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Box label</title>
<style>
@page { size: A4; margin: 20mm; }
body { font-family: Helvetica, Arial, sans-serif; margin: 0; }
h1 { font-size: 14pt; margin: 30mm 0 4mm 10mm; }
.id { font-size: 12pt; margin: 0 0 4mm 10mm; }
.qr { width: 60mm; height: 60mm; margin-left: 100mm; }
.url { font-size: 9pt; margin-left: 10mm; word-break: break-all; }
</style>
</head>
<body>
`

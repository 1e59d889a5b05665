package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/totegamma/artistdb/internal/domain"
)

func newBoxUsecase() (*BoxUsecase, *mockLocationRepo, *mockPublisher, *mockRenderer) {
	artworks := newMockArtworkRepo(domain.Artwork{ID: 7, Title: "Dusk & Dawn", Medium: "oil"})
	locations := &mockLocationRepo{}
	publisher := &mockPublisher{}
	renderer := &mockRenderer{}
	uc := NewBoxUsecase(artworks, locations, mockTokens{}, publisher, renderer)
	uc.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }
	return uc, locations, publisher, renderer
}

func withCapability(artworkID int64) context.Context {
	return context.WithValue(context.Background(), domain.BoxCapabilityCtxKey, artworkID)
}

func TestBoxAppendRequiresCapability(t *testing.T) {
	uc, locations, _, _ := newBoxUsecase()

	_, err := uc.Append(context.Background(), 7, "Studio", "")
	if !errors.Is(err, domain.ErrNotAuthorised) {
		t.Fatalf("expected not authorised got %v", err)
	}

	// a capability for another artwork grants nothing here
	_, err = uc.Append(withCapability(8), 7, "Studio", "")
	if !errors.Is(err, domain.ErrNotAuthorised) {
		t.Fatalf("expected not authorised got %v", err)
	}

	expired := context.WithValue(context.Background(), domain.BoxTokenErrorCtxKey, domain.ErrTokenExpired)
	_, err = uc.Append(expired, 7, "Studio", "")
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected expired got %v", err)
	}

	if len(locations.entries) != 0 {
		t.Fatalf("nothing should be recorded")
	}
}

func TestBoxAppendRecordsAndPublishes(t *testing.T) {
	uc, locations, publisher, _ := newBoxUsecase()

	entry, err := uc.Append(withCapability(7), 7, "  Gallery  ", " on loan ")
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if entry.Location != "Gallery" || entry.Note != "on loan" {
		t.Fatalf("expected trimmed entry got %+v", entry)
	}
	if len(locations.entries) != 1 {
		t.Fatalf("expected one entry")
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != domain.EventLocation || publisher.events[0].ArtworkID != 7 {
		t.Fatalf("expected location event got %+v", publisher.events)
	}

	_, err = uc.Append(withCapability(7), 7, "   ", "")
	var verr domain.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Location required." {
		t.Fatalf("expected location validation got %v", err)
	}
}

func TestBoxAppendUnknownArtwork(t *testing.T) {
	uc, _, _, _ := newBoxUsecase()

	_, err := uc.Append(withCapability(9), 9, "Studio", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestBoxPage(t *testing.T) {
	uc, _, _, _ := newBoxUsecase()

	page, err := uc.Page(context.Background(), 7)
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if page.CanUpdate || page.TokenError != "" || page.Latest != nil {
		t.Fatalf("unexpected page %+v", page)
	}

	if _, err := uc.Append(withCapability(7), 7, "Studio", ""); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := uc.Append(withCapability(7), 7, "Gallery", ""); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	page, err = uc.Page(withCapability(7), 7)
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if !page.CanUpdate {
		t.Fatalf("expected can update")
	}
	if page.Latest == nil || page.Latest.Location != "Gallery" {
		t.Fatalf("expected latest gallery got %+v", page.Latest)
	}
	if len(page.History) != 2 || page.History[1].Location != "Studio" {
		t.Fatalf("expected newest-first history got %+v", page.History)
	}
}

func TestBoxPageTokenStatus(t *testing.T) {
	uc, _, _, _ := newBoxUsecase()

	cases := map[error]string{
		domain.ErrTokenExpired: "expired",
		domain.ErrInvalidToken: "invalid",
	}
	for tokenErr, want := range cases {
		ctx := context.WithValue(context.Background(), domain.BoxTokenErrorCtxKey, tokenErr)
		page, err := uc.Page(ctx, 7)
		if err != nil {
			t.Fatalf("page failed: %v", err)
		}
		if page.TokenError != TokenErrorMessage || page.TokenStatus != want {
			t.Fatalf("expected %s got %+v", want, page)
		}
	}
}

func TestBoxLabel(t *testing.T) {
	uc, _, _, renderer := newBoxUsecase()

	boxURL, err := uc.BoxURL(context.Background(), 7, "https://example.com/")
	if err != nil {
		t.Fatalf("box url failed: %v", err)
	}
	if boxURL != "https://example.com/artworks/7/box?token=tok-7" {
		t.Fatalf("unexpected url %s", boxURL)
	}

	pdf, err := uc.Label(context.Background(), 7, "https://example.com")
	if err != nil {
		t.Fatalf("label failed: %v", err)
	}
	if string(pdf) != "%PDF-1.4" {
		t.Fatalf("expected rendered pdf")
	}
	doc := renderer.document
	if !strings.Contains(doc, "<h1>Dusk &amp; Dawn</h1>") {
		t.Fatalf("expected escaped title in label")
	}
	if !strings.Contains(doc, "ID: 7") || !strings.Contains(doc, `src="data:image/png;base64,`) {
		t.Fatalf("expected id and qr code in label")
	}

	if _, err := uc.Label(context.Background(), 99, "https://example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/totegamma/artistdb/internal/certificate"
	"github.com/totegamma/artistdb/internal/domain"
)

func newCertificateUsecase(tpl string) (*CertificateUsecase, *mockRenderer) {
	artworks := newMockArtworkRepo(
		domain.Artwork{ID: 1, Title: "Untitled #4", Year: "2021", Medium: "oil"},
		domain.Artwork{ID: 2, Title: "Dusk", Medium: "ink", ImageFilename: "dusk.png"},
	)
	templates := &mockTemplateRepo{tpl: domain.CertificateTemplate{HTML: tpl}}

	assets := newMockAssets()
	assets.files["dusk.png"] = []byte("png")
	composer := certificate.NewComposer(
		certificate.NewInliner(assets, []string{"jpg", "jpeg", "png"}, nil),
		"J. Doe",
	).WithClock(func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) })

	renderer := &mockRenderer{}
	return NewCertificateUsecase(artworks, templates, composer, renderer), renderer
}

func TestCertificateDocument(t *testing.T) {
	uc, _ := newCertificateUsecase("<p>%%artwork_title%% by [[artist_name]], {{year}}</p>")

	doc, err := uc.Document(context.Background(), 1)
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}
	if !strings.Contains(doc, "<body>\n<p>Untitled #4 by J. Doe, 2021</p>\n</body>") {
		t.Fatalf("unexpected document %s", doc)
	}
}

func TestCertificateTemplateMissing(t *testing.T) {
	uc, renderer := newCertificateUsecase("")

	if _, err := uc.Document(context.Background(), 1); !errors.Is(err, domain.ErrTemplateMissing) {
		t.Fatalf("expected template missing got %v", err)
	}
	if _, err := uc.PDF(context.Background(), 1); !errors.Is(err, domain.ErrTemplateMissing) {
		t.Fatalf("expected template missing got %v", err)
	}
	if renderer.document != "" {
		t.Fatalf("renderer must not run without a template")
	}
}

func TestCertificateUnknownArtwork(t *testing.T) {
	uc, _ := newCertificateUsecase("<p>x</p>")

	if _, err := uc.Document(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestCertificatePDF(t *testing.T) {
	uc, renderer := newCertificateUsecase(`<img src="[[artwork_image_url]]"><p>{{ certificate_date }}</p>`)

	pdf, err := uc.PDF(context.Background(), 2)
	if err != nil {
		t.Fatalf("pdf failed: %v", err)
	}
	if string(pdf) != "%PDF-1.4" {
		t.Fatalf("unexpected pdf %q", pdf)
	}
	if !strings.Contains(renderer.document, `<img src="data:image/png;base64,cG5n">`) {
		t.Fatalf("expected inlined image in %s", renderer.document)
	}
	if !strings.Contains(renderer.document, "<p>2026-03-09</p>") {
		t.Fatalf("expected certificate date in %s", renderer.document)
	}
}

func TestCertificatePDFDropsEmptyImage(t *testing.T) {
	uc, renderer := newCertificateUsecase(`<img src="[[artwork_image_url]]"><p>ok</p>`)

	if _, err := uc.PDF(context.Background(), 1); err != nil {
		t.Fatalf("pdf failed: %v", err)
	}
	if strings.Contains(renderer.document, "<img") {
		t.Fatalf("expected img removed in %s", renderer.document)
	}
}

func TestCertificatePDFRenderingError(t *testing.T) {
	uc, renderer := newCertificateUsecase("<p>x</p>")
	renderer.err = &domain.RenderingError{Cause: errors.New("chrome crashed")}

	_, err := uc.PDF(context.Background(), 1)
	var rendering *domain.RenderingError
	if !errors.As(err, &rendering) {
		t.Fatalf("expected rendering error got %v", err)
	}
}

func TestCertificatePreviewUsesLatest(t *testing.T) {
	uc, _ := newCertificateUsecase("<p>[[artwork_id]]</p>")

	doc, err := uc.Preview(context.Background())
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if !strings.Contains(doc, "<p>2</p>") {
		t.Fatalf("expected newest artwork in %s", doc)
	}
}

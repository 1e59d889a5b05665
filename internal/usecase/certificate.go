package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/artistdb/internal/certificate"
	"github.com/totegamma/artistdb/internal/domain"
)

// CertificateUsecase runs the certificate pipeline: template, merge, wrap
// and, for PDFs, render.
type CertificateUsecase struct {
	artworks  ArtworkRepository
	templates TemplateRepository
	composer  *certificate.Composer
	renderer  Renderer
}

func NewCertificateUsecase(
	artworks ArtworkRepository,
	templates TemplateRepository,
	composer *certificate.Composer,
	renderer Renderer,
) *CertificateUsecase {
	return &CertificateUsecase{
		artworks:  artworks,
		templates: templates,
		composer:  composer,
		renderer:  renderer,
	}
}

// Document returns the merged, wrapped HTML for one artwork.
func (uc *CertificateUsecase) Document(ctx context.Context, artworkID int64) (string, error) {
	ctx, span := tracer.Start(ctx, "Certificate.Usecase.Document")
	defer span.End()
	span.SetAttributes(attribute.Int64("artworkID", artworkID))

	artwork, err := uc.artworks.Get(ctx, artworkID)
	if err != nil {
		return "", err
	}

	tpl, err := uc.templates.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if !tpl.Saved() {
		return "", domain.ErrTemplateMissing
	}

	return uc.composer.Compose(ctx, tpl.HTML, artwork), nil
}

// Preview merges the current template with the newest artwork, so the
// designer can check placeholders without picking a record.
func (uc *CertificateUsecase) Preview(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "Certificate.Usecase.Preview")
	defer span.End()

	artwork, err := uc.artworks.Latest(ctx)
	if err != nil {
		return "", err
	}
	return uc.Document(ctx, artwork.ID)
}

// PDF renders the certificate document.
func (uc *CertificateUsecase) PDF(ctx context.Context, artworkID int64) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Certificate.Usecase.PDF")
	defer span.End()

	document, err := uc.Document(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	pdf, err := uc.renderer.Render(ctx, document)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(
			ctx, "Certificate PDF generation failed",
			slog.Int64("artworkID", artworkID),
			slog.String("error", err.Error()),
			slog.String("module", "certificate"),
		)
		return nil, err
	}
	return pdf, nil
}

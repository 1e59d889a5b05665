package usecase

import (
	"context"
	"io"

	"github.com/totegamma/artistdb/internal/domain"
)

// ArtworkRepository defines persistence for artwork records.
type ArtworkRepository interface {
	Create(ctx context.Context, artwork domain.Artwork) (domain.Artwork, error)
	Get(ctx context.Context, id int64) (domain.Artwork, error)
	Latest(ctx context.Context) (domain.Artwork, error)
	List(ctx context.Context, status domain.Status) ([]domain.Artwork, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Artwork, error)
	Update(ctx context.Context, artwork domain.Artwork) error
	UpdateColumn(ctx context.Context, ids []int64, column string, value any) error
	Delete(ctx context.Context, id int64) error
}

// LocationRepository defines the append-only location history.
type LocationRepository interface {
	Append(ctx context.Context, entry domain.LocationLog) (domain.LocationLog, error)
	Current(ctx context.Context, artworkID int64) (domain.LocationLog, error)
	History(ctx context.Context, artworkID int64) ([]domain.LocationLog, error)
}

// TemplateRepository defines access to the certificate template singleton.
type TemplateRepository interface {
	Get(ctx context.Context) (domain.CertificateTemplate, error)
	Save(ctx context.Context, designJSON, html string) (domain.CertificateTemplate, error)
}

// AssetStore holds uploaded images.
type AssetStore interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Save(ctx context.Context, name string, body io.Reader) error
	Delete(ctx context.Context, name string) error
}

// Renderer converts a full HTML document to PDF.
type Renderer interface {
	Render(ctx context.Context, document string) ([]byte, error)
}

// EventPublisher broadcasts domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// TokenIssuer signs box label tokens.
type TokenIssuer interface {
	Generate(ctx context.Context, artworkID int64) (string, error)
}

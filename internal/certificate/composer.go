package certificate

import (
	"context"
	"time"

	"github.com/totegamma/artistdb/internal/domain"
)

// Composer runs resolve, merge and wrap for one artwork.
type Composer struct {
	inliner    *Inliner
	artistName string
	now        func() time.Time
}

func NewComposer(inliner *Inliner, artistName string) *Composer {
	return &Composer{
		inliner:    inliner,
		artistName: artistName,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for the certificate date.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Values resolves the placeholder mapping for artwork.
func (c *Composer) Values(ctx context.Context, artwork domain.Artwork) Values {
	image := c.inliner.Inline(ctx, artwork.ImageFilename)
	return Resolve(artwork, c.artistName, image, c.now())
}

// Compose returns the full certificate document for artwork.
func (c *Composer) Compose(ctx context.Context, templateHTML string, artwork domain.Artwork) string {
	return Wrap(Merge(templateHTML, c.Values(ctx, artwork)))
}

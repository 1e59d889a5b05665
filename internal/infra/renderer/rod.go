// Package renderer turns self-contained HTML documents into PDF bytes.
package renderer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/totegamma/artistdb/internal/domain"
)

var tracer = otel.Tracer("renderer")

// A4 in inches, the unit the DevTools protocol expects.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

type RodOptions struct {
	Bin     string
	Timeout time.Duration
	Settle  time.Duration
}

// RodRenderer launches a fresh headless Chromium per render and tears it
// down before returning.
type RodRenderer struct {
	opts RodOptions
}

func NewRodRenderer(opts RodOptions) *RodRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &RodRenderer{opts: opts}
}

func (r *RodRenderer) Render(ctx context.Context, document string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Renderer.Rod.Render")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	pdf, err := r.render(ctx, document)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(
			ctx, "pdf render failed",
			slog.String("error", err.Error()),
			slog.String("module", "renderer"),
		)
		return nil, &domain.RenderingError{Cause: err}
	}
	return pdf, nil
}

func (r *RodRenderer) render(ctx context.Context, document string) ([]byte, error) {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-gpu")
	if r.opts.Bin != "" {
		l = l.Bin(r.opts.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(err, "launch browser")
	}
	// Cleanup blocks until the browser process exits.
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, errors.Wrap(err, "connect browser")
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errors.Wrap(err, "open page")
	}
	defer page.Close()

	if err := page.SetDocumentContent(document); err != nil {
		return nil, errors.Wrap(err, "load document")
	}
	if err := page.WaitLoad(); err != nil {
		return nil, errors.Wrap(err, "wait load")
	}
	if r.opts.Settle > 0 {
		select {
		case <-time.After(r.opts.Settle):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	width, height := a4Width, a4Height
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        &width,
		PaperHeight:       &height,
	})
	if err != nil {
		return nil, errors.Wrap(err, "print pdf")
	}
	defer stream.Close()

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, errors.Wrap(err, "read pdf")
	}
	if len(pdf) == 0 {
		return nil, errors.New("empty pdf")
	}
	return pdf, nil
}

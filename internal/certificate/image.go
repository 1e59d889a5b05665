package certificate

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"path"
	"strings"
)

// AssetOpener reads stored upload files by name.
type AssetOpener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Image is the outcome of inlining an artwork image: either a data URI or
// nothing at all.
type Image struct {
	dataURI string
}

// NoImage is the absent variant.
var NoImage = Image{}

// DataURI returns the embeddable URI and whether an image is present.
func (i Image) DataURI() (string, bool) {
	return i.dataURI, i.dataURI != ""
}

// Present reports whether the image resolved to data.
func (i Image) Present() bool {
	return i.dataURI != ""
}

// Inliner produces data: URIs so the renderer never fetches over the network.
type Inliner struct {
	assets  AssetOpener
	allowed map[string]struct{}
	logger  *slog.Logger
}

func NewInliner(assets AssetOpener, allowedExtensions []string, logger *slog.Logger) *Inliner {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Inliner{assets: assets, allowed: allowed, logger: logger}
}

// Inline never fails: every problem degrades to NoImage.
func (in *Inliner) Inline(ctx context.Context, filename string) Image {
	if filename == "" {
		return NoImage
	}

	mime, ok := in.mimeType(filename)
	if !ok {
		in.logger.WarnContext(ctx, "image extension not allowed",
			slog.String("filename", filename),
			slog.String("module", "certificate"),
		)
		return NoImage
	}

	rc, err := in.assets.Open(ctx, filename)
	if err != nil {
		in.logger.DebugContext(ctx, "image not available",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
			slog.String("module", "certificate"),
		)
		return NoImage
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil || len(data) == 0 {
		return NoImage
	}

	return Image{dataURI: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)}
}

func (in *Inliner) mimeType(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if _, ok := in.allowed[ext]; !ok {
		return "", false
	}
	if ext == "jpg" || ext == "jpeg" {
		return "image/jpeg", true
	}
	return "image/png", true
}

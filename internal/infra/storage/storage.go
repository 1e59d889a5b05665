// Package storage keeps uploaded artwork images on local disk or in an S3 bucket.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/totegamma/artistdb/internal/domain"
)

// Store is implemented by every asset backend.
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Save(ctx context.Context, name string, body io.Reader) error
	Delete(ctx context.Context, name string) error
}

// cleanName accepts plain file names only. Anything that could walk out of
// the upload area is treated as absent.
func cleanName(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", domain.ErrAssetMissing
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", domain.ErrAssetMissing
	}
	return name, nil
}

// ContentType maps an upload name to the type it is served with.
func ContentType(name string) string {
	return contentType(name)
}

func contentType(name string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

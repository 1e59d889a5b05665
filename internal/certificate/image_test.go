package certificate

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/totegamma/artistdb/internal/domain"
)

type mapAssets map[string][]byte

func (m mapAssets) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, domain.ErrAssetMissing
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var allowed = []string{"jpg", "jpeg", "png"}

func TestInlineMimeTypes(t *testing.T) {
	assets := mapAssets{
		"a.jpg":  []byte("jpg-bytes"),
		"b.JPEG": []byte("jpeg-bytes"),
		"c.png":  []byte("png-bytes"),
	}
	in := NewInliner(assets, allowed, nil)
	ctx := context.Background()

	cases := map[string]string{
		"a.jpg":  "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg-bytes")),
		"b.JPEG": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")),
		"c.png":  "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes")),
	}
	for name, want := range cases {
		uri, ok := in.Inline(ctx, name).DataURI()
		assert.True(t, ok, name)
		assert.Equal(t, want, uri, name)
	}
}

func TestInlineDegradesToNoImage(t *testing.T) {
	assets := mapAssets{"x.gif": []byte("gif"), "empty.png": {}}
	in := NewInliner(assets, allowed, nil)
	ctx := context.Background()

	for _, name := range []string{"", "missing.png", "x.gif", "noext", "empty.png"} {
		img := in.Inline(ctx, name)
		assert.False(t, img.Present(), name)
		assert.Equal(t, NoImage, img, name)
	}
}

func TestComposeWrapsMergedTemplate(t *testing.T) {
	assets := mapAssets{"w.png": []byte("png")}
	c := NewComposer(NewInliner(assets, allowed, nil), "J. Doe")

	doc := c.Compose(context.Background(), `<img src="[[artwork_image_url]]"><p>[[artist_name]]</p>`,
		domain.Artwork{ID: 1, Title: "T", ImageFilename: "w.png"})

	assert.Contains(t, doc, `<img src="data:image/png;base64,cG5n">`)
	assert.Contains(t, doc, "<p>J. Doe</p>")
	assert.Contains(t, doc, "@page { size: A4; margin: 20mm; }")
}

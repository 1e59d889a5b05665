package renderer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/artistdb/internal/domain"
)

func TestRodRenderLaunchFailure(t *testing.T) {
	r := NewRodRenderer(RodOptions{
		Bin:     filepath.Join(t.TempDir(), "no-such-chrome"),
		Timeout: 2 * time.Second,
	})

	type result struct {
		pdf []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		pdf, err := r.Render(context.Background(), "<html><body>x</body></html>")
		done <- result{pdf, err}
	}()

	select {
	case res := <-done:
		require.Error(t, res.err)
		assert.Nil(t, res.pdf)
		var rendering *domain.RenderingError
		assert.True(t, errors.As(res.err, &rendering), "got %v", res.err)
	case <-time.After(10 * time.Second):
		t.Fatal("Render did not return after the browser failed to launch")
	}
}

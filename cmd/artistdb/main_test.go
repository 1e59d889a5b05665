package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/totegamma/artistdb/internal/domain"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "token", "artworks"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestRenderArtworks(t *testing.T) {
	out := renderArtworks([]domain.Artwork{
		{ID: 12, Title: "Dusk", Year: "2021", Medium: "oil", Status: domain.StatusForSale, Price: "900", ImageFilename: "x.png", CreatedAt: time.Now()},
		{ID: 3, Title: "Dawn", Medium: "ink", Status: domain.StatusSold},
	})

	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Dusk")
	assert.Contains(t, out, "for_sale")
	assert.Contains(t, out, "Dawn")
	// top border, header, separator, two rows, bottom border
	assert.Len(t, strings.Split(out, "\n"), 6)
}

func TestRenderArtworksTrimsLongTitles(t *testing.T) {
	out := renderArtworks([]domain.Artwork{
		{ID: 1, Title: strings.Repeat("x", 60), Medium: "oil", Status: domain.StatusWorking},
	})

	assert.NotContains(t, out, strings.Repeat("x", 41))
	assert.Contains(t, out, strings.Repeat("x", 40))
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Equal(t, "", renderTable(nil, nil))
}

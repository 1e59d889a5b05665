package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATA_DIR", "SECRET_KEY", "ARTIST_NAME", "PUBLIC_BASE_URL", "DATABASE_DSN"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Miet Warlop", c.App.ArtistName)
	assert.Equal(t, 5*365*24*time.Hour, c.App.BoxTokenMaxAge.Std())
	assert.Equal(t, []string{"jpg", "jpeg", "png"}, c.App.AllowedImageExtensions)
	assert.Equal(t, 60*time.Second, c.Server.RenderTimeout.Std())
	assert.Equal(t, filepath.Join(".", "uploads"), c.Server.UploadDir)
	assert.Equal(t, filepath.Join(".", "database.db"), c.Server.DatabaseDsn)
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app:
  artistName: J. Doe
  boxTokenMaxAge: 1h
server:
  listenAddr: ":9000"
  databaseDriver: postgres
  databaseDsn: "host=db"
  dataDir: /var/data
  renderTimeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "J. Doe", c.App.ArtistName)
	assert.Equal(t, time.Hour, c.App.BoxTokenMaxAge.Std())
	assert.Equal(t, ":9000", c.Server.ListenAddr)
	assert.Equal(t, "host=db", c.Server.DatabaseDsn)
	assert.Equal(t, "/var/data/uploads", c.Server.UploadDir)
	assert.Equal(t, 5*time.Second, c.Server.RenderTimeout.Std())
	// untouched keys keep their defaults
	assert.Equal(t, "dev-change-me", c.App.SecretKey)
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  renderTimeout: soon\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	env := map[string]string{
		"SECRET_KEY":      "s3cret",
		"ARTIST_NAME":     "A. Artist",
		"PUBLIC_BASE_URL": "https://art.example",
	}
	c.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "s3cret", c.App.SecretKey)
	assert.Equal(t, "A. Artist", c.App.ArtistName)
	assert.Equal(t, "https://art.example", c.App.PublicBaseURL)
}

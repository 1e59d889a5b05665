package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/totegamma/artistdb/internal/config"
)

func captureDatabase(t *testing.T) **gorm.DB {
	t.Helper()
	var opened *gorm.DB
	original := openDatabase
	openDatabase = func(cfg config.Config) (*gorm.DB, error) {
		db, err := original(cfg)
		opened = db
		return db, err
	}
	t.Cleanup(func() { openDatabase = original })
	return &opened
}

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Server.DatabaseDriver = "sqlite"
	cfg.Server.DatabaseDsn = filepath.Join(dir, "database.db")
	cfg.Server.UploadDir = filepath.Join(dir, "uploads")
	cfg.Server.RenderCacheTTL = 0
	return cfg
}

func TestBootstrapClosesDatabaseOnFailure(t *testing.T) {
	opened := captureDatabase(t)
	cfg := testConfig(t)
	cfg.App.SecretKey = ""

	a, err := bootstrap(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, a)

	require.NotNil(t, *opened)
	sqlDB, err := (*opened).DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "database should be closed after a failed bootstrap")
}

func TestBootstrapCloseReleasesDatabase(t *testing.T) {
	opened := captureDatabase(t)

	a, err := bootstrap(context.Background(), testConfig(t))
	require.NoError(t, err)

	sqlDB, err := (*opened).DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	a.close()
	assert.Error(t, sqlDB.Ping())
}

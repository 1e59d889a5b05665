package main

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/totegamma/artistdb/internal/certificate"
	"github.com/totegamma/artistdb/internal/config"
	"github.com/totegamma/artistdb/internal/infra/database"
	"github.com/totegamma/artistdb/internal/infra/renderer"
	"github.com/totegamma/artistdb/internal/infra/repository"
	"github.com/totegamma/artistdb/internal/infra/storage"
	"github.com/totegamma/artistdb/internal/present/rest"
	"github.com/totegamma/artistdb/internal/present/rest/middleware"
	"github.com/totegamma/artistdb/internal/service"
	"github.com/totegamma/artistdb/internal/usecase"
)

type app struct {
	db      *gorm.DB
	tokens  *service.BoxTokenService
	artwork *usecase.ArtworkUsecase
	box     *usecase.BoxUsecase
	handler *rest.Handler
	close   func()
}

// openDatabase is a variable so tests can observe the connection.
var openDatabase = func(cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.Server.DatabaseDriver, cfg.Server.DatabaseDsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}
	return db, nil
}

func openAssets(ctx context.Context, cfg config.Config) (usecase.AssetStore, error) {
	if cfg.Server.S3.Bucket != "" {
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.Server.S3.Bucket,
			Region:    cfg.Server.S3.Region,
			Endpoint:  cfg.Server.S3.Endpoint,
			AccessKey: cfg.Server.S3.AccessKey,
			SecretKey: cfg.Server.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := storage.NewLocalStore(cfg.Server.UploadDir)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newRenderer(cfg config.Config) usecase.Renderer {
	var r usecase.Renderer = renderer.NewRodRenderer(renderer.RodOptions{
		Bin:     cfg.Server.ChromeBin,
		Timeout: cfg.Server.RenderTimeout.Std(),
		Settle:  cfg.Server.RenderSettle.Std(),
	})

	ttl := cfg.Server.RenderCacheTTL.Std()
	if ttl <= 0 {
		return r
	}
	if cfg.Server.MemcachedAddr != "" {
		mc := database.NewMemcached(cfg.Server.MemcachedAddr)
		return renderer.NewCachedRenderer(r, renderer.NewMemcacheCache(mc, ttl))
	}
	return renderer.NewCachedRenderer(r, renderer.NewMemoryCache(ttl))
}

// bootstrap wires every component from cfg. Whatever was opened before a
// failure is closed again.
func bootstrap(ctx context.Context, cfg config.Config) (_ *app, err error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	closers := []func(){
		func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		},
	}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			closeAll()
		}
	}()

	assets, err := openAssets(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open asset store")
	}

	tokens, err := service.NewBoxTokenService(cfg.App.SecretKey, cfg.App.BoxTokenMaxAge.Std())
	if err != nil {
		return nil, err
	}

	signal := service.NewSignalService(nil)
	if cfg.Server.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, cfg.Server.RedisAddr, cfg.Server.RedisDB)
		if err != nil {
			return nil, err
		}
		signal = service.NewSignalService(rdb)
		closers = append(closers, func() { rdb.Close() })
	} else {
		slog.Info("redis not configured, realtime events disabled", slog.String("module", "main"))
	}

	artworkRepo := repository.NewArtworkRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	pdf := newRenderer(cfg)
	composer := certificate.NewComposer(
		certificate.NewInliner(assets, cfg.App.AllowedImageExtensions, slog.Default()),
		cfg.App.ArtistName,
	)

	artworkUC := usecase.NewArtworkUsecase(artworkRepo, locationRepo, assets, cfg.App.AllowedImageExtensions)
	boxUC := usecase.NewBoxUsecase(artworkRepo, locationRepo, tokens, signal, pdf)
	certificateUC := usecase.NewCertificateUsecase(artworkRepo, templateRepo, composer, pdf)
	templateUC := usecase.NewTemplateUsecase(templateRepo, signal)

	handler := rest.NewHandler(
		cfg.App,
		artworkUC,
		boxUC,
		certificateUC,
		templateUC,
		assets,
		middleware.NewBoxTokenMiddleware(tokens),
		signal,
	)

	return &app{
		db:      db,
		tokens:  tokens,
		artwork: artworkUC,
		box:     boxUC,
		handler: handler,
		close:   closeAll,
	}, nil
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/totegamma/artistdb/internal/infra/database"
	"github.com/totegamma/artistdb/internal/infra/tracing"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if cfg.Server.EnableTrace {
				shutdown, err := tracing.Setup(runCtx, "artistdb", cfg.Server.TraceEndpoint)
				if err != nil {
					return errors.Wrap(err, "failed to set up tracing")
				}
				defer shutdown(context.Background())
			}

			a, err := bootstrap(runCtx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.Migrate(a.db); err != nil {
				return errors.Wrap(err, "failed to migrate database")
			}

			e := echo.New()
			e.HideBanner = true
			if cfg.Server.EnableTrace {
				e.Use(otelecho.Middleware("artistdb"))
			}
			e.Use(middleware.Logger())
			e.Use(middleware.Recover())
			e.Use(middleware.CORS())

			a.handler.RegisterRoutes(e)

			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", slog.String("addr", cfg.Server.ListenAddr), slog.String("module", "main"))
				errCh <- e.Start(cfg.Server.ListenAddr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-runCtx.Done():
			}

			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelShutdown()
			return e.Shutdown(shutdownCtx)
		},
	}
}

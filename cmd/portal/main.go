// Command portal runs the staff portal view server against the lending API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"staff-portal/internal/adapter/portal"
	"staff-portal/internal/app"
	"staff-portal/internal/config"
	"staff-portal/internal/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, "portal")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("building portal")
	}
	defer c.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), logging.RequestLogger(log))
	portal.New(c).Register(e)

	addr := ":" + cfg.PortalPort
	go func() {
		log.Info().Str("addr", addr).Str("api", cfg.APIBaseURL).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	<-ctx.Done()

	// open dialogs answer "no" once their requests are cancelled
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// Command devapi serves a development lending API for the staff portal,
// backed by sqlite or mysql and seeded with demo data.
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
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	httpadp "staff-portal/internal/adapter/http"
	mw "staff-portal/internal/adapter/middleware"
	"staff-portal/internal/adapter/repository/gormstore"
	"staff-portal/internal/config"
	"staff-portal/internal/infrastructure/cache"
	"staff-portal/internal/infrastructure/db"
	"staff-portal/internal/logging"
	"staff-portal/internal/usecase/account"
	"staff-portal/internal/usecase/review"
	"staff-portal/internal/validation"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, "devapi")
	if err := cfg.ValidateDevAPI(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	if err := gormstore.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migrating")
	}
	if err := gormstore.Seed(ctx, gdb, bcrypt.DefaultCost); err != nil {
		log.Fatal().Err(err).Msg("seeding")
	}

	var (
		deny  mw.Revoker
		idemp echo.MiddlewareFunc
	)
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("connecting to redis")
		}
		defer rdb.Close()
		deny = cache.NewDenylist(rdb, "devapi:deny:")
		idemp = mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log)
	} else {
		log.Warn().Msg("REDIS_ADDR not set: writes are not idempotent and logout does not revoke tokens")
	}

	users := gormstore.NewUserRepository(gdb)
	loans := gormstore.NewLoanRepository(gdb)
	tokens := mw.NewTokens(cfg.JWTSecret, cfg.TokenTTL, deny)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(middleware.Recover(), logging.RequestLogger(log))
	httpadp.Register(e, httpadp.Deps{
		Tokens:       tokens,
		Account:      account.NewUsecase(users, tokens, bcrypt.DefaultCost),
		Review:       review.NewUsecase(loans, gormstore.NewGormUoW(gdb)),
		Users:        users,
		Roles:        gormstore.NewRoleRepository(gdb),
		Branches:     gormstore.NewBranchRepository(gdb),
		Products:     gormstore.NewProductRepository(gdb),
		Loans:        loans,
		Idempotency:  idemp,
		DB:           sqlDB,
		DocumentRoot: cfg.DocumentRoot,
		Log:          log,
	})

	serve(ctx, e, ":"+cfg.DevAPIPort, log)
}

// serve runs e until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) {
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

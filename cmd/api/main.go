package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_listing/internal/adapters/http_server"
	"hotel_listing/internal/adapters/media"
	"hotel_listing/internal/adapters/observability"
	redisad "hotel_listing/internal/adapters/redis"
	"hotel_listing/internal/app"
	"hotel_listing/internal/auth"
	"hotel_listing/internal/shared"
	mysqlrepo "hotel_listing/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set outside development")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// cache is optional; the API keeps serving from MySQL when redis is down
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; continuing without warm cache")
	}

	host, err := media.New(cfg.MediaBase, cfg.MediaCloud, cfg.MediaKey, cfg.MediaSecret, cfg.MediaRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("media client init failed")
	}

	// deps
	repo := mysqlrepo.New(db)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := app.NewAuthService(repo, tokens, cfg.AdminKey, cfg.BcryptCost)

	// http
	srv := server.New(server.Options{ClientURL: cfg.ClientURL})
	if cfg.MetricsAddr == "" {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	}
	srv.MountHandlers(&server.Handlers{
		Q:         app.NewQueryService(repo, repo, cache, cfg.CacheTTL),
		Hotels:    app.NewHotelService(repo, repo, host, cache, cfg.MediaFolder),
		Locations: app.NewLocationService(repo, cache),
		Auth:      authSvc,
		Users:     app.NewUserService(repo, cfg.BcryptCost),
		Uploads:   server.Stager{Dir: cfg.UploadDir},
		Cookie:    server.Cookie{Name: cfg.CookieName, Secure: cfg.IsProduction(), TTL: cfg.JWTTTL},
		Dev:       !cfg.IsProduction(),
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

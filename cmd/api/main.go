package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crisisgrid.org/internal/auth"
	"crisisgrid.org/internal/config"
	"crisisgrid.org/internal/hazard"
	"crisisgrid.org/internal/httpapi"
	"crisisgrid.org/internal/obs"
	"crisisgrid.org/internal/store/pg"
	"crisisgrid.org/internal/stream"
	"crisisgrid.org/internal/users"
	"crisisgrid.org/internal/warning"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	if cfg.PGDSN == "" {
		log.Fatal("missing CRISISGRID_PG_DSN")
	}
	db, err := pg.Open(cfg.PGDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := pg.Ping(context.Background(), db); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.AuthSecret,
		auth.WithAccessTTL(cfg.AccessTTL),
		auth.WithRefreshTTL(cfg.RefreshTTL),
	)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	authStore := auth.NewPGStore(db)
	authSvc, err := auth.NewService(authStore, auth.NewHasher(cfg.BcryptCost), tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	userSvc, err := users.NewService(authStore, cfg.SuperAdminID)
	if err != nil {
		log.Fatalf("users service: %v", err)
	}
	hazardSvc, err := hazard.NewService(hazard.NewPGStore(db))
	if err != nil {
		log.Fatalf("hazard service: %v", err)
	}
	warningSvc, err := warning.NewService(warning.NewPGStore(db))
	if err != nil {
		log.Fatalf("warning service: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, httpapi.Options{
		Version:       version,
		RateBurst:     cfg.RateBurst,
		RatePerSec:    cfg.RatePerSec,
		VerboseErrors: !cfg.Production(),
	}, httpapi.Services{
		Auth:     authSvc,
		Users:    userSvc,
		Hazards:  hazardSvc,
		Warnings: warningSvc,
		Stream:   stream.New(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting crisisgrid-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Println("Stopped")
}

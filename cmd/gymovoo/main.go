package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/autosave"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/catalog"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/config"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/planner"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/server"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/storage"
	"github.com/robfig/cron"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("GYMovoo starting", "version", Version, "storage", cfg.Storage.Driver)

	if *migrateOnly {
		if cfg.Storage.Driver != config.DriverPostgres {
			log.Info("migrate-only: nothing to migrate", "driver", cfg.Storage.Driver)
			return
		}
		if err := storage.RunMigrations(cfg.Database.DSN(), cfg.Storage.Migrations); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrate-only: exiting")
		return
	}

	// Load catalog
	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "exercises", cat.Len())

	// Open storage
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, release, err := storage.Open(ctx, storage.Options{
		Driver:     cfg.Storage.Driver,
		SQLitePath: cfg.Storage.SQLitePath,
		DSN:        cfg.Database.DSN(),
		Migrations: cfg.Storage.Migrations,
	}, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer release()

	saver := autosave.New(store, autosave.Config{
		Interval:    cfg.AutoSave.Interval,
		TTL:         cfg.AutoSave.DraftTTL,
		MaxFailures: cfg.AutoSave.MaxFailures,
	}, log)
	defer saver.Stop()

	// Sweep expired drafts on a schedule
	sweeper := cron.New()
	err = sweeper.AddFunc(cfg.AutoSave.SweepSchedule, func() {
		n, err := saver.SweepExpired(ctx)
		if err != nil {
			log.Warn("draft sweep failed", "error", err)
			return
		}
		if n > 0 {
			log.Info("expired drafts removed", "count", n)
		}
	})
	if err != nil {
		log.Error("invalid sweep schedule", "schedule", cfg.AutoSave.SweepSchedule, "error", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv := server.New(ctx, cat, planner.New(cat, log), saver, cfg.Auth.APIKey, cfg.Server.CORSOrigins, log)
	if cfg.Auth.APIKey == "" {
		log.Warn("no API key configured, session and draft endpoints are open")
	}

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}

	// Flush the running session before storage closes.
	if id, ok := saver.Active(); ok {
		if err := saver.SaveNow(shutdownCtx); err != nil {
			log.Warn("final draft save failed", "workout_id", id, "error", err)
		}
	}
	log.Info("server stopped")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/autosave"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/catalog"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/config"
	gymcp "github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/mcp"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/planner"
	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	remote := flag.String("remote", "", "GYMovoo server URL; drafts are read over HTTP instead of local storage")
	apiKey := flag.String("api-key", os.Getenv("GYMOVOO_AUTH_API_KEY"), "API key for -remote")
	noDrafts := flag.Bool("no-drafts", false, "do not offer the draft tools")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymovoo-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	var cat *catalog.Catalog
	var err error
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var drafts gymcp.DraftSource
	switch {
	case *noDrafts:
	case *remote != "":
		drafts = gymcp.NewHTTPClient(*remote, *apiKey)
		log.Info("remote draft mode", "server", *remote)
	default:
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
		drafts = autosave.New(store, autosave.Config{TTL: cfg.AutoSave.DraftTTL}, log)
	}

	s := gymcp.New(cat, planner.New(cat, log), drafts, Version, log)
	log.Info("gymovoo-mcp serving on stdio", "version", Version, "exercises", cat.Len())
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

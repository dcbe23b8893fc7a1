package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Options selects and configures a BlobStore backend.
type Options struct {
	Driver     string // sqlite, postgres or memory
	SQLitePath string
	DSN        string
	Migrations string
}

// Open returns the store for opts.Driver and a function that releases it.
// The postgres driver runs migrations before connecting.
func Open(ctx context.Context, opts Options, log *slog.Logger) (BlobStore, func(), error) {
	switch opts.Driver {
	case "memory":
		log.Warn("using in-memory storage, drafts will not survive a restart")
		return NewMemoryStore(), func() {}, nil

	case "sqlite", "":
		s, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("sqlite storage opened", "path", opts.SQLitePath)
		return s, func() { _ = s.Close() }, nil

	case "postgres":
		if err := RunMigrations(opts.DSN, opts.Migrations); err != nil {
			return nil, nil, err
		}
		log.Info("migrations applied")
		db, err := New(ctx, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connected")
		return db, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

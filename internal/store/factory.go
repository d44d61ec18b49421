// Package store abre el backend configurado (postgres | memory).
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/castingagency/internal/observability/logger"
	"github.com/dropDatabas3/castingagency/internal/store/core"
	"github.com/dropDatabas3/castingagency/internal/store/memory"
	"github.com/dropDatabas3/castingagency/internal/store/pg"
	migrations "github.com/dropDatabas3/castingagency/migrations/postgres"
)

type Config struct {
	Driver   string
	DSN      string
	Migrate  bool
	Postgres pg.Config
}

// Opened es el store abierto más lo que necesita el wiring (metrics del pool).
type Opened struct {
	core.Store
	// PG es nil con el driver memory.
	PG *pg.Store
}

func Open(ctx context.Context, cfg Config) (*Opened, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "pg", "postgresql":
		s, err := pg.New(ctx, cfg.DSN, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			mctx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			ran, err := pg.NewMigrator(migrations.FS, ".").Up(mctx, s.Pool(), 0)
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("store: migrate: %w", err)
			}
			logger.Named("store").Info("migrations up to date", logger.Count(len(ran)))
		}
		return &Opened{Store: s, PG: s}, nil
	case "memory", "mem", "":
		return &Opened{Store: memory.New()}, nil
	default:
		return nil, fmt.Errorf("store: unsupported driver: %s", cfg.Driver)
	}
}

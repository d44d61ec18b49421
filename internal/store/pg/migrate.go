package pg

import (
	"context"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/castingagency/internal/observability/logger"
)

// Formato de archivo: {version}_{name}_up.sql y {version}_{name}_down.sql (ej: 0001_initial_up.sql).
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)_(up|down)\.sql$`)

// Migration es un par up/down con la misma versión.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Migrator aplica migraciones embebidas y registra las versiones en schema_migrations.
type Migrator struct {
	fsys fs.FS
	dir  string
}

func NewMigrator(fsys fs.FS, dir string) *Migrator {
	if dir == "" {
		dir = "."
	}
	return &Migrator{fsys: fsys, dir: dir}
}

// Parse lee y ordena las migraciones por versión.
func (m *Migrator) Parse() ([]Migration, error) {
	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return nil, fmt.Errorf("migrate: read dir: %w", err)
	}
	byVersion := map[int]*Migration{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := migrationFilePattern.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		version, _ := strconv.Atoi(match[1])
		b, err := fs.ReadFile(m.fsys, pathJoin(m.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("migrate: read %s: %w", e.Name(), err)
		}
		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Name: match[2]}
			byVersion[version] = mig
		}
		if match[3] == "up" {
			mig.Up = string(b)
		} else {
			mig.Down = string(b)
		}
	}
	out := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		if mig.Up == "" {
			return nil, fmt.Errorf("migrate: version %d has no up file", mig.Version)
		}
		out = append(out, *mig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func pathJoin(dir, name string) string {
	if dir == "." || dir == "" {
		return name
	}
	return dir + "/" + name
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func (m *Migrator) applied(ctx context.Context, pool *pgxpool.Pool) (map[int]bool, error) {
	if _, err := pool.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("migrate: create schema_migrations: %w", err)
	}
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(versions))
	for _, v := range versions {
		out[v] = true
	}
	return out, nil
}

// Up aplica las migraciones pendientes; steps <= 0 = todas. Devuelve las versiones aplicadas.
func (m *Migrator) Up(ctx context.Context, pool *pgxpool.Pool, steps int) ([]int, error) {
	migs, err := m.Parse()
	if err != nil {
		return nil, err
	}
	done, err := m.applied(ctx, pool)
	if err != nil {
		return nil, err
	}
	var ran []int
	for _, mig := range migs {
		if done[mig.Version] {
			continue
		}
		if steps > 0 && len(ran) >= steps {
			break
		}
		if err := m.run(ctx, pool, mig, mig.Up,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
			return ran, err
		}
		ran = append(ran, mig.Version)
	}
	return ran, nil
}

// Down revierte las últimas steps migraciones aplicadas; steps <= 0 = todas.
func (m *Migrator) Down(ctx context.Context, pool *pgxpool.Pool, steps int) ([]int, error) {
	migs, err := m.Parse()
	if err != nil {
		return nil, err
	}
	done, err := m.applied(ctx, pool)
	if err != nil {
		return nil, err
	}
	var ran []int
	for i := len(migs) - 1; i >= 0; i-- {
		mig := migs[i]
		if !done[mig.Version] {
			continue
		}
		if steps > 0 && len(ran) >= steps {
			break
		}
		if mig.Down == "" {
			return ran, fmt.Errorf("migrate: version %d has no down file", mig.Version)
		}
		if err := m.run(ctx, pool, mig, mig.Down,
			`DELETE FROM schema_migrations WHERE version = $1`, mig.Version); err != nil {
			return ran, err
		}
		ran = append(ran, mig.Version)
	}
	return ran, nil
}

// run ejecuta el SQL y el registro de versión en la misma transacción.
func (m *Migrator) run(ctx context.Context, pool *pgxpool.Pool, mig Migration, body, record string, args ...any) error {
	start := time.Now()
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, body); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, record, args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("migrate: %04d_%s: %w", mig.Version, mig.Name, err)
	}
	logger.Named("migrate").Info("migration applied",
		logger.Any("version", mig.Version),
		logger.String("name", mig.Name),
		logger.DurationMs(time.Since(start)),
	)
	return nil
}

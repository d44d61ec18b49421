// Package pg implementa core.Store sobre Postgres (pgx/v5, pgxpool).
// Cada mutación toma una conexión del pool, abre una transacción y, después
// del commit, recarga el registro por la misma conexión antes de devolverla.
package pg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/castingagency/internal/observability/logger"
	"github.com/dropDatabas3/castingagency/internal/store/core"
)

type Store struct{ pool *pgxpool.Pool }

var _ core.Store = (*Store)(nil)

// Config de tuning del pool. Ceros = defaults de pgxpool.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	// MaxIdleConns → MinConns (pgxpool)
	if cfg.MaxIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if pcfg.MinConns > pcfg.MaxConns {
		pcfg.MinConns = pcfg.MaxConns
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
		pcfg.MaxConnIdleTime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}

	// Arranque no bloqueante: si la DB todavía no está, /healthz lo reporta.
	log := logger.Named("pg")
	if err := pool.Ping(ctx); err != nil {
		log.Warn("pg pool startup ping failed", logger.Err(err))
	} else {
		log.Info("pg pool ready", logger.Any("max_conns", pcfg.MaxConns))
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool (migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// PoolStats devuelve un snapshot del pool; nil si no está inicializado.
func (s *Store) PoolStats() *pgxpool.Stat {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Stat()
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Movies() core.Repository[core.Movie]     { return movieRepo{s} }
func (s *Store) Actors() core.Repository[core.Actor]     { return actorRepo{s} }
func (s *Store) Genders() core.Repository[core.Gender]   { return genderRepo{s} }
func (s *Store) Castings() core.Repository[core.Casting] { return castingRepo{s} }

// querier es lo común entre pool, conn y tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// txHandle implementa core.Handle: conexión del pool + transacción.
type txHandle struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
	once sync.Once
}

func (s *Store) begin(ctx context.Context) (*txHandle, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("pg: acquire: %w", err)
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("pg: begin: %w", err)
	}
	return &txHandle{conn: conn, tx: tx}, nil
}

func (h *txHandle) Commit(ctx context.Context) error { return h.tx.Commit(ctx) }

func (h *txHandle) Rollback(ctx context.Context) error {
	if err := h.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func (h *txHandle) Release() { h.once.Do(h.conn.Release) }

// mutate: locate y stage corren en la tx; confirm corre en la conexión ya commiteada.
func (s *Store) mutate(ctx context.Context, resource, op string,
	locate func(context.Context, pgx.Tx) error,
	stage func(context.Context, pgx.Tx) error,
	confirm func(context.Context, querier) error,
) error {
	h, err := s.begin(ctx)
	if err != nil {
		return err
	}
	m := core.Mutation{
		Resource: resource,
		Op:       op,
		Stage: func(ctx context.Context) error {
			return mapErr(stage(ctx, h.tx))
		},
	}
	if locate != nil {
		m.Locate = func(ctx context.Context) error { return mapErr(locate(ctx, h.tx)) }
	}
	if confirm != nil {
		m.Confirm = func(ctx context.Context) error { return confirm(ctx, h.conn) }
	}
	return core.Mutate(ctx, h, m)
}

// lockRow verifica existencia y bloquea la fila hasta el commit.
func lockRow(table string, id int64) func(context.Context, pgx.Tx) error {
	q := "SELECT id FROM " + table + " WHERE id = $1 FOR UPDATE"
	return func(ctx context.Context, tx pgx.Tx) error {
		var got int64
		return tx.QueryRow(ctx, q, id).Scan(&got)
	}
}

func execOne(ctx context.Context, tx pgx.Tx, sql string, args ...any) error {
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

type scanner interface{ Scan(dest ...any) error }

func list[T any](ctx context.Context, q querier, sql string, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func get[T any](ctx context.Context, q querier, sql string, id int64, scan func(scanner) (T, error)) (T, error) {
	v, err := scan(q.QueryRow(ctx, sql, id))
	if err != nil {
		var zero T
		return zero, mapErr(err)
	}
	return v, nil
}

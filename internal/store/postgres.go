package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the durable Backend. Records live in the `records` table
// keyed by (kind, id); the identity counter is the single `id_counter`
// row. Update maps directly onto a database transaction, so the staged-
// commit discipline comes for free: either every Put and NextID of a unit
// of work commits, or none do.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a connection pool and verifies connectivity.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Pool exposes the underlying pool for collaborators that keep their own
// tables (the market-events repository). Core state goes through Tx only.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// View runs fn inside a read-only transaction.
func (p *Postgres) View(ctx context.Context, fn func(Tx) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	return fn(&pgTx{ctx: ctx, tx: tx})
}

// Update runs fn inside a read-write transaction, committing only if fn
// returns nil.
func (p *Postgres) Update(ctx context.Context, fn func(Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	ctx context.Context
	tx  pgx.Tx
}

func (t *pgTx) Get(kind string, id uint64) ([]byte, bool, error) {
	var record []byte
	err := t.tx.QueryRow(t.ctx,
		`SELECT record FROM records WHERE kind = $1 AND id = $2`,
		kind, int64(id),
	).Scan(&record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s record %d: %w", kind, id, err)
	}
	return record, true, nil
}

func (t *pgTx) Put(kind string, id uint64, record []byte) (bool, error) {
	var replaced bool
	err := t.tx.QueryRow(t.ctx,
		`INSERT INTO records (kind, id, record)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (kind, id)
		 DO UPDATE SET record = EXCLUDED.record, updated_at = now()
		 RETURNING (xmax <> 0)`,
		kind, int64(id), record,
	).Scan(&replaced)
	if err != nil {
		return false, fmt.Errorf("put %s record %d: %w", kind, id, err)
	}
	return replaced, nil
}

func (t *pgTx) Ascend(kind string, fn func(id uint64, record []byte) error) error {
	rows, err := t.tx.Query(t.ctx,
		`SELECT id, record FROM records WHERE kind = $1 ORDER BY id ASC`,
		kind,
	)
	if err != nil {
		return fmt.Errorf("iterate %s records: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var record []byte
		if err := rows.Scan(&id, &record); err != nil {
			return fmt.Errorf("scan %s record: %w", kind, err)
		}
		if err := fn(uint64(id), record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s records: %w", kind, err)
	}
	return nil
}

func (t *pgTx) NextID() (uint64, error) {
	var id int64
	err := t.tx.QueryRow(t.ctx,
		`UPDATE id_counter SET next_id = next_id + 1 WHERE singleton RETURNING next_id - 1`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("advance identity counter: %w", err)
	}
	return uint64(id), nil
}

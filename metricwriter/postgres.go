package metricwriter

import "context"
import "encoding/json"
import "sync"
import "time"

import "github.com/go-logr/logr"
import "github.com/jackc/pgx/v5"
import "github.com/jackc/pgx/v5/pgconn"
import "github.com/jackc/pgx/v5/pgxpool"
import "github.com/pkg/errors"

const createTables = `
CREATE TABLE IF NOT EXISTS metrics (
	run_id     TEXT NOT NULL,
	step       INTEGER NOT NULL,
	name       TEXT NOT NULL,
	value      DOUBLE PRECISION NOT NULL,
	written_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS hparams (
	run_id     TEXT PRIMARY KEY,
	params     JSONB NOT NULL,
	written_at TIMESTAMPTZ NOT NULL
)`

// DB is the part of a pgx pool the writer uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type metricRow struct {
	step      int
	name      string
	value     float64
	writtenAt time.Time
}

// PostgresWriter buffers metric rows and inserts them in one batch on Flush.
type PostgresWriter struct {
	ctx    context.Context
	db     DB
	pool   *pgxpool.Pool
	runID  string
	logger logr.Logger

	mu    sync.Mutex
	batch []metricRow
}

// ConnectPostgres connects to dsn and returns a writer owning the pool.
func ConnectPostgres(ctx context.Context, dsn, runID string) (*PostgresWriter, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse connection string")
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	w, err := NewPostgresWriter(ctx, pool, runID)
	if err != nil {
		pool.Close()
		return nil, err
	}
	w.pool = pool
	return w, nil
}

// NewPostgresWriter creates the metric tables if needed and returns a writer using db.
func NewPostgresWriter(ctx context.Context, db DB, runID string) (*PostgresWriter, error) {
	if _, err := db.Exec(ctx, createTables); err != nil {
		return nil, errors.Wrap(err, "create metric tables")
	}
	return &PostgresWriter{
		ctx:    ctx,
		db:     db,
		runID:  runID,
		logger: logr.FromContextOrDiscard(ctx).WithName("postgres-metrics"),
	}, nil
}

func (w *PostgresWriter) WriteScalars(step int, scalars map[string]float64) error {
	now := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, k := range sortedKeys(scalars) {
		w.batch = append(w.batch, metricRow{step: step, name: k, value: scalars[k], writtenAt: now})
	}
	return nil
}

func (w *PostgresWriter) WriteHParams(params map[string]any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return errors.Wrap(err, "encode hparams")
	}
	_, err = w.db.Exec(w.ctx, `
		INSERT INTO hparams (run_id, params, written_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id) DO UPDATE SET params = EXCLUDED.params, written_at = EXCLUDED.written_at
	`, w.runID, data, time.Now())
	return errors.Wrap(err, "insert hparams")
}

// Flush inserts the buffered rows.
func (w *PostgresWriter) Flush() error {
	w.mu.Lock()
	rows := w.batch
	w.batch = nil
	w.mu.Unlock()
	if len(rows) == 0 {
		return nil
	}

	start := time.Now()
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO metrics (run_id, step, name, value, written_at)
			VALUES ($1, $2, $3, $4, $5)
		`, w.runID, r.step, r.name, r.value, r.writtenAt)
	}
	results := w.db.SendBatch(w.ctx, batch)
	defer results.Close()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return errors.Wrap(err, "insert metrics")
		}
	}
	w.logger.V(1).Info("flushed metrics", "count", len(rows), "duration", time.Since(start))
	return nil
}

// Close flushes and closes the pool if the writer owns it.
func (w *PostgresWriter) Close() error {
	err := w.Flush()
	if w.pool != nil {
		w.pool.Close()
	}
	return err
}

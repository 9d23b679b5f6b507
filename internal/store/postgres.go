package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/db"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use this with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id              TEXT PRIMARY KEY,
	position        INTEGER NOT NULL,
	name            TEXT NOT NULL,
	type            TEXT NOT NULL,
	location        TEXT NOT NULL,
	phones          JSONB NOT NULL,
	pitch           TEXT NOT NULL,
	source          TEXT NOT NULL,
	has_website     TEXT NOT NULL,
	has_app         TEXT NOT NULL,
	presence_reason TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'pending',
	added_at        TIMESTAMPTZ NOT NULL,
	contacted_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS pipeline_runs (
	id                TEXT PRIMARY KEY,
	category          TEXT NOT NULL,
	location          TEXT NOT NULL,
	results           INTEGER NOT NULL,
	created           INTEGER NOT NULL,
	skipped_duplicate INTEGER NOT NULL,
	skipped_no_phone  INTEGER NOT NULL,
	skipped_no_pitch  INTEGER NOT NULL,
	started_at        TIMESTAMPTZ NOT NULL,
	duration_ms       BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_position ON leads(position);
CREATE INDEX IF NOT EXISTS idx_pipeline_runs_started_at ON pipeline_runs(started_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, type, location, phones, pitch, source,
		        has_website, has_app, presence_reason, status, added_at, contacted_at
		 FROM leads ORDER BY position ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		var phonesJSON []byte
		var contactedAt *time.Time
		if err := rows.Scan(&l.ID, &l.Name, &l.Type, &l.Location, &phonesJSON, &l.Pitch, &l.Source,
			&l.HasWebsite, &l.HasApp, &l.PresenceReason, &l.Status, &l.AddedAt, &contactedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		if err := json.Unmarshal(phonesJSON, &l.Phones); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal phones for %s", l.ID)
		}
		l.ContactedAt = contactedAt
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: load leads iterate")
}

func (s *PostgresStore) Save(ctx context.Context, leads []model.Lead) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin save")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM leads`); err != nil {
		return eris.Wrap(err, "postgres: clear leads")
	}

	for i, l := range leads {
		phonesJSON, err := json.Marshal(l.Phones)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal phones for %s", l.ID)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO leads (id, position, name, type, location, phones, pitch, source,
			                    has_website, has_app, presence_reason, status, added_at, contacted_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			l.ID, i, l.Name, l.Type, l.Location, phonesJSON, l.Pitch, l.Source,
			string(l.HasWebsite), string(l.HasApp), l.PresenceReason, string(l.Status),
			l.AddedAt.UTC(), l.ContactedAt,
		); err != nil {
			return eris.Wrapf(err, "postgres: insert lead %s", l.ID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit save")
}

func (s *PostgresStore) RecordRun(ctx context.Context, run model.PipelineRun) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO pipeline_runs (id, category, location, results, created,
		                            skipped_duplicate, skipped_no_phone, skipped_no_pitch,
		                            started_at, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.Category, run.Location, run.Results, run.Created,
		run.SkippedDuplicate, run.SkippedNoPhone, run.SkippedNoPitch,
		run.StartedAt.UTC(), run.DurationMS,
	)
	return eris.Wrap(err, "postgres: record run")
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.PipelineRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, category, location, results, created,
		        skipped_duplicate, skipped_no_phone, skipped_no_pitch, started_at, duration_ms
		 FROM pipeline_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.PipelineRun
	for rows.Next() {
		var r model.PipelineRun
		if err := rows.Scan(&r.ID, &r.Category, &r.Location, &r.Results, &r.Created,
			&r.SkippedDuplicate, &r.SkippedNoPhone, &r.SkippedNoPitch, &r.StartedAt, &r.DurationMS); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

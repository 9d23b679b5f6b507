package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id              TEXT PRIMARY KEY,
	position        INTEGER NOT NULL,
	name            TEXT NOT NULL,
	type            TEXT NOT NULL,
	location        TEXT NOT NULL,
	phones          TEXT NOT NULL,
	pitch           TEXT NOT NULL,
	source          TEXT NOT NULL,
	has_website     TEXT NOT NULL,
	has_app         TEXT NOT NULL,
	presence_reason TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'pending',
	added_at        DATETIME NOT NULL,
	contacted_at    DATETIME
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
	started_at        DATETIME NOT NULL,
	duration_ms       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_position ON leads(position);
CREATE INDEX IF NOT EXISTS idx_pipeline_runs_started_at ON pipeline_runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, location, phones, pitch, source,
		        has_website, has_app, presence_reason, status, added_at, contacted_at
		 FROM leads ORDER BY position ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		var phonesJSON string
		var contactedAt sql.NullTime
		if err := rows.Scan(&l.ID, &l.Name, &l.Type, &l.Location, &phonesJSON, &l.Pitch, &l.Source,
			&l.HasWebsite, &l.HasApp, &l.PresenceReason, &l.Status, &l.AddedAt, &contactedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		if err := json.Unmarshal([]byte(phonesJSON), &l.Phones); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal phones for %s", l.ID)
		}
		if contactedAt.Valid {
			t := contactedAt.Time
			l.ContactedAt = &t
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: load leads iterate")
}

// Save replaces the leads table contents inside one transaction, preserving
// list order through the position column.
func (s *SQLiteStore) Save(ctx context.Context, leads []model.Lead) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM leads`); err != nil {
		return eris.Wrap(err, "sqlite: clear leads")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO leads (id, position, name, type, location, phones, pitch, source,
		                    has_website, has_app, presence_reason, status, added_at, contacted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for i, l := range leads {
		phonesJSON, err := json.Marshal(l.Phones)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal phones for %s", l.ID)
		}
		var contactedAt any
		if l.ContactedAt != nil {
			contactedAt = l.ContactedAt.UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			l.ID, i, l.Name, l.Type, l.Location, string(phonesJSON), l.Pitch, l.Source,
			string(l.HasWebsite), string(l.HasApp), l.PresenceReason, string(l.Status),
			l.AddedAt.UTC(), contactedAt,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert lead %s", l.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save")
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run model.PipelineRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_runs (id, category, location, results, created,
		                            skipped_duplicate, skipped_no_phone, skipped_no_pitch,
		                            started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Category, run.Location, run.Results, run.Created,
		run.SkippedDuplicate, run.SkippedNoPhone, run.SkippedNoPitch,
		run.StartedAt.UTC(), run.DurationMS,
	)
	return eris.Wrap(err, "sqlite: record run")
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.PipelineRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, location, results, created,
		        skipped_duplicate, skipped_no_phone, skipped_no_pitch, started_at, duration_ms
		 FROM pipeline_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.PipelineRun
	for rows.Next() {
		var r model.PipelineRun
		var startedAt time.Time
		if err := rows.Scan(&r.ID, &r.Category, &r.Location, &r.Results, &r.Created,
			&r.SkippedDuplicate, &r.SkippedNoPhone, &r.SkippedNoPitch, &startedAt, &r.DurationMS); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.StartedAt = startedAt
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

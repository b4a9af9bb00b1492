package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stablehand/temperament/internal/domain/model"
	"github.com/stablehand/temperament/pkg/metrics"

	_ "modernc.org/sqlite" // sqlite driver registration
)

const schema = `
CREATE TABLE IF NOT EXISTS subjects (
	subject_id  TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	species     TEXT NOT NULL,
	birth_ts    TEXT NOT NULL,
	bond        REAL NOT NULL,
	stress      REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS subject_flags (
	subject_id  TEXT NOT NULL,
	flag        TEXT NOT NULL,
	assigned_at TEXT NOT NULL,
	position    INTEGER NOT NULL,
	PRIMARY KEY (subject_id, flag),
	FOREIGN KEY (subject_id) REFERENCES subjects(subject_id)
);

CREATE TABLE IF NOT EXISTS interactions (
	event_id          TEXT PRIMARY KEY,
	subject_id        TEXT NOT NULL,
	actor_id          TEXT NOT NULL,
	actor_personality TEXT NOT NULL,
	task              TEXT NOT NULL,
	quality           TEXT NOT NULL,
	bond_delta        REAL NOT NULL,
	stress_delta      REAL NOT NULL,
	duration_sec      REAL NOT NULL,
	ts                TEXT NOT NULL,
	FOREIGN KEY (subject_id) REFERENCES subjects(subject_id)
);

CREATE INDEX IF NOT EXISTS idx_interactions_subject_ts
	ON interactions(subject_id, ts);
`

// SQLiteStore persists subjects and interactions in SQLite.
type SQLiteStore struct {
	db       *sql.DB
	maxFlags int
}

// NewSQLiteStore opens (or creates) the database at path and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db, maxFlags: model.MaxFlags}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListInteractions returns events in [since, until) ascending by timestamp.
func (s *SQLiteStore) ListInteractions(ctx context.Context, subjectID string, since, until time.Time) ([]model.InteractionEvent, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, subject_id, actor_id, actor_personality, task, quality,
		        bond_delta, stress_delta, duration_sec, ts
		 FROM interactions
		 WHERE subject_id = ? AND ts >= ? AND ts < ?
		 ORDER BY ts ASC`,
		subjectID, since.UTC().Format(time.RFC3339Nano), until.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []model.InteractionEvent
	for rows.Next() {
		var e model.InteractionEvent
		var quality, ts string
		var durationSec float64
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.ActorID, &e.ActorPersonality, &e.Task,
			&quality, &e.BondDelta, &e.StressDelta, &durationSec, &ts); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		grade, err := model.ParseQualityGrade(quality)
		if err != nil {
			return nil, fmt.Errorf("interaction %s: %w", e.ID, err)
		}
		e.Quality = grade
		e.Duration = time.Duration(durationSec * float64(time.Second))
		if e.TS, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("interaction %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return out, nil
}

// AppendInteraction records a new immutable interaction event.
func (s *SQLiteStore) AppendInteraction(ctx context.Context, e model.InteractionEvent) error {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (event_id, subject_id, actor_id, actor_personality, task,
		                           quality, bond_delta, stress_delta, duration_sec, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SubjectID, e.ActorID, e.ActorPersonality, e.Task,
		string(e.Quality), e.BondDelta, e.StressDelta, e.Duration.Seconds(),
		e.TS.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// GetSubject returns the subject record with its ordered flag set.
func (s *SQLiteStore) GetSubject(ctx context.Context, subjectID string) (model.Subject, error) {
	var subj model.Subject
	var birth string
	err := s.db.QueryRowContext(ctx,
		`SELECT subject_id, name, species, birth_ts, bond, stress
		 FROM subjects WHERE subject_id = ?`, subjectID,
	).Scan(&subj.ID, &subj.Name, &subj.Species, &birth, &subj.Bond, &subj.Stress)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Subject{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}
	if err != nil {
		return model.Subject{}, fmt.Errorf("query subject: %w", err)
	}
	if subj.BirthTS, err = time.Parse(time.RFC3339Nano, birth); err != nil {
		return model.Subject{}, fmt.Errorf("subject %s: %w", subjectID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT flag FROM subject_flags WHERE subject_id = ? ORDER BY position ASC`, subjectID)
	if err != nil {
		return model.Subject{}, fmt.Errorf("query flags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return model.Subject{}, fmt.Errorf("scan flag: %w", err)
		}
		subj.Flags = append(subj.Flags, f)
	}
	if err := rows.Err(); err != nil {
		return model.Subject{}, fmt.Errorf("iterate flags: %w", err)
	}
	return subj, nil
}

// PutSubject creates or replaces a subject record. Flags already persisted
// are kept; PutSubject never removes a flag.
func (s *SQLiteStore) PutSubject(ctx context.Context, subj model.Subject) error {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subjects (subject_id, name, species, birth_ts, bond, stress)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(subject_id) DO UPDATE SET
		   name = excluded.name, species = excluded.species,
		   birth_ts = excluded.birth_ts, bond = excluded.bond, stress = excluded.stress`,
		subj.ID, subj.Name, subj.Species, subj.BirthTS.UTC().Format(time.RFC3339Nano),
		subj.Bond, subj.Stress,
	)
	if err != nil {
		return fmt.Errorf("upsert subject: %w", err)
	}
	return nil
}

// AppendFlags atomically appends new flags within a single transaction,
// re-checking the cap and duplicates against the committed state.
func (s *SQLiteStore) AppendFlags(ctx context.Context, subjectID string, newFlags []string) error {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subjects WHERE subject_id = ?`, subjectID).Scan(&exists); err != nil {
		return fmt.Errorf("check subject: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT flag FROM subject_flags WHERE subject_id = ?`, subjectID)
	if err != nil {
		return fmt.Errorf("query flags: %w", err)
	}
	held := make(map[string]struct{})
	count := 0
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			rows.Close()
			return fmt.Errorf("scan flag: %w", err)
		}
		held[f] = struct{}{}
		count++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate flags: %w", err)
	}
	rows.Close()

	if count+len(newFlags) > s.maxFlags {
		return fmt.Errorf("%w: %s has %d flags, adding %d", ErrFlagCapExceeded, subjectID, count, len(newFlags))
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, f := range newFlags {
		if _, dup := held[f]; dup {
			return fmt.Errorf("%w: %s on %s", ErrDuplicateFlag, f, subjectID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subject_flags (subject_id, flag, assigned_at, position)
			 VALUES (?, ?, ?, ?)`,
			subjectID, f, now, count+i,
		); err != nil {
			return fmt.Errorf("insert flag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListSubjectIDs returns all subject ids.
func (s *SQLiteStore) ListSubjectIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT subject_id FROM subjects ORDER BY subject_id`)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subject id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return ids, nil
}

// Count returns the number of subjects tracked.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&n); err != nil {
		return 0
	}
	return n
}

package storage

// sqlite.go — journal de ciclos.
//
// Una fila por ciclo completado. El journal es forense: permite revisar
// qué hizo cada ciclo (entró, salió, fill, error) después de una sesión
// larga sin depender del scrollback de la consola.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dominolu/dex-opinion/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
    id          TEXT PRIMARY KEY,
    strategy    TEXT     NOT NULL,
    number      INTEGER  NOT NULL,
    started_at  DATETIME NOT NULL,
    duration_ms INTEGER  NOT NULL DEFAULT 0,
    entered     INTEGER  NOT NULL DEFAULT 0,
    filled      INTEGER  NOT NULL DEFAULT 0,
    exited      INTEGER  NOT NULL DEFAULT 0,
    error       TEXT     NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_cycles_started ON cycles(started_at);
`

// SQLiteJournal implementa ports.CycleJournal sobre un archivo SQLite
// (o ":memory:" para tests).
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal abre (y migra) el journal en el DSN dado.
func NewSQLiteJournal(dsn string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteJournal: open %q: %w", dsn, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteJournal: apply schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// SaveCycle persiste un ciclo completado.
func (s *SQLiteJournal) SaveCycle(ctx context.Context, rec domain.CycleRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (id, strategy, number, started_at, duration_ms, entered, filled, exited, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Strategy),
		rec.Number,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
		boolInt(rec.Entered),
		boolInt(rec.Filled),
		boolInt(rec.Exited),
		rec.Err,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: %w", err)
	}
	return nil
}

// RecentCycles devuelve los últimos ciclos, el más reciente primero.
func (s *SQLiteJournal) RecentCycles(ctx context.Context, limit int) ([]domain.CycleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, strategy, number, started_at, duration_ms, entered, filled, exited, error
		FROM cycles ORDER BY started_at DESC, number DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentCycles: %w", err)
	}
	defer rows.Close()

	var out []domain.CycleRecord
	for rows.Next() {
		var (
			rec                     domain.CycleRecord
			strategy, startedAt     string
			durMS                   int64
			entered, filled, exited int
		)
		if err := rows.Scan(&rec.ID, &strategy, &rec.Number, &startedAt, &durMS, &entered, &filled, &exited, &rec.Err); err != nil {
			return nil, fmt.Errorf("storage.RecentCycles: scan: %w", err)
		}
		rec.Strategy = domain.StrategyKind(strategy)
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		rec.Duration = time.Duration(durMS) * time.Millisecond
		rec.Entered = entered != 0
		rec.Filled = filled != 0
		rec.Exited = exited != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close cierra la conexión limpiamente.
func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

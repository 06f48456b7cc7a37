// Package sqlite is the single-file turn journal used when no Postgres server
// is available, typically on a contest runner or a laptop.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/freeeve/bastion/internal/model"
	"github.com/freeeve/bastion/internal/repository"
)

var _ repository.TurnJournal = (*TurnRepo)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
    match_id         TEXT    NOT NULL,
    turn             INTEGER NOT NULL,
    profile          TEXT    NOT NULL,
    posture          TEXT    NOT NULL,
    branch           TEXT    NOT NULL DEFAULT 'none',
    enemy_front      INTEGER NOT NULL DEFAULT 0,
    wall_breaches    INTEGER NOT NULL DEFAULT 0,
    low_health_walls INTEGER NOT NULL DEFAULT 0,
    scored_on        INTEGER NOT NULL DEFAULT 0,
    health           REAL    NOT NULL DEFAULT 0,
    sp               REAL    NOT NULL DEFAULT 0,
    mp               REAL    NOT NULL DEFAULT 0,
    actions          TEXT    NOT NULL DEFAULT '{}',
    created_at_ms    INTEGER NOT NULL,
    PRIMARY KEY (match_id, turn)
);`

// TurnRepo stores turn records in a SQLite file.
type TurnRepo struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at dsn. A plain path has its
// parent directory created; "file:" URIs are passed through untouched.
func Open(ctx context.Context, dsn string) (*TurnRepo, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite open: empty path")
	}
	if !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite open: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite init: %w", err)
		}
	}
	return &TurnRepo{db: db, now: time.Now}, nil
}

// Close closes the database.
func (r *TurnRepo) Close() error {
	return r.db.Close()
}

// SaveTurn inserts a turn record, replacing an earlier one for the same turn.
func (r *TurnRepo) SaveTurn(ctx context.Context, rec *model.TurnRecord) error {
	actions := string(rec.Actions)
	if actions == "" {
		actions = "{}"
	}
	created := r.now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO turns (match_id, turn, profile, posture, branch, enemy_front, wall_breaches,
		                    low_health_walls, scored_on, health, sp, mp, actions, created_at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (match_id, turn) DO UPDATE SET
		     profile = excluded.profile, posture = excluded.posture, branch = excluded.branch,
		     enemy_front = excluded.enemy_front, wall_breaches = excluded.wall_breaches,
		     low_health_walls = excluded.low_health_walls, scored_on = excluded.scored_on,
		     health = excluded.health, sp = excluded.sp, mp = excluded.mp, actions = excluded.actions`,
		rec.MatchID, rec.Turn, rec.Profile, rec.Posture, rec.Branch, rec.EnemyFront, rec.WallBreaches,
		rec.LowHealthWalls, rec.ScoredOn, rec.Health, rec.SP, rec.MP, actions, created.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	rec.CreatedAt = created
	return nil
}

// ListTurns returns a match's turn records in turn order.
func (r *TurnRepo) ListTurns(ctx context.Context, matchID string) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, turn, profile, posture, branch, enemy_front, wall_breaches,
		        low_health_walls, scored_on, health, sp, mp, actions, created_at_ms
		 FROM turns WHERE match_id = ? ORDER BY turn`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var out []model.TurnRecord
	for rows.Next() {
		var rec model.TurnRecord
		var actions string
		var createdMs int64
		if err := rows.Scan(&rec.MatchID, &rec.Turn, &rec.Profile, &rec.Posture, &rec.Branch,
			&rec.EnemyFront, &rec.WallBreaches, &rec.LowHealthWalls, &rec.ScoredOn,
			&rec.Health, &rec.SP, &rec.MP, &actions, &createdMs); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		rec.Actions = []byte(actions)
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	return out, nil
}

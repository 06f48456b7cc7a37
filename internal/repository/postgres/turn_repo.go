package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freeeve/bastion/internal/model"
	"github.com/freeeve/bastion/internal/repository"
)

var _ repository.TurnJournal = (*TurnRepo)(nil)

// TurnRepo handles per-turn decision records.
type TurnRepo struct {
	db *sql.DB
}

// NewTurnRepo creates a TurnRepo.
func NewTurnRepo(db *sql.DB) *TurnRepo {
	return &TurnRepo{db: db}
}

// SaveTurn inserts a turn record, replacing an earlier one for the same turn.
func (r *TurnRepo) SaveTurn(ctx context.Context, rec *model.TurnRecord) error {
	actions := rec.Actions
	if len(actions) == 0 {
		actions = []byte("{}")
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO turns (match_id, turn, profile, posture, branch, enemy_front, wall_breaches,
		                    low_health_walls, scored_on, health, sp, mp, actions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (match_id, turn) DO UPDATE SET
		     profile = EXCLUDED.profile, posture = EXCLUDED.posture, branch = EXCLUDED.branch,
		     enemy_front = EXCLUDED.enemy_front, wall_breaches = EXCLUDED.wall_breaches,
		     low_health_walls = EXCLUDED.low_health_walls, scored_on = EXCLUDED.scored_on,
		     health = EXCLUDED.health, sp = EXCLUDED.sp, mp = EXCLUDED.mp, actions = EXCLUDED.actions
		 RETURNING created_at`,
		rec.MatchID, rec.Turn, rec.Profile, rec.Posture, rec.Branch, rec.EnemyFront, rec.WallBreaches,
		rec.LowHealthWalls, rec.ScoredOn, rec.Health, rec.SP, rec.MP, string(actions),
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// ListTurns returns a match's turn records in turn order.
func (r *TurnRepo) ListTurns(ctx context.Context, matchID string) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, turn, profile, posture, branch, enemy_front, wall_breaches,
		        low_health_walls, scored_on, health, sp, mp, actions, created_at
		 FROM turns WHERE match_id = $1 ORDER BY turn`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()
	return scanTurns(rows)
}

func scanTurns(rows *sql.Rows) ([]model.TurnRecord, error) {
	var out []model.TurnRecord
	for rows.Next() {
		var rec model.TurnRecord
		var actions []byte
		if err := rows.Scan(&rec.MatchID, &rec.Turn, &rec.Profile, &rec.Posture, &rec.Branch,
			&rec.EnemyFront, &rec.WallBreaches, &rec.LowHealthWalls, &rec.ScoredOn,
			&rec.Health, &rec.SP, &rec.MP, &actions, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		rec.Actions = actions
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	return out, nil
}

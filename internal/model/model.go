package model

import (
	"encoding/json"
	"time"
)

// TurnRecord is the persisted summary of one planning pass.
type TurnRecord struct {
	MatchID        string          `json:"match_id"`
	Turn           int             `json:"turn"`
	Profile        string          `json:"profile"`
	Posture        string          `json:"posture"`
	Branch         string          `json:"branch"`
	EnemyFront     int             `json:"enemy_front"`
	WallBreaches   int             `json:"wall_breaches"`
	LowHealthWalls int             `json:"low_health_walls"`
	ScoredOn       int             `json:"scored_on"`
	Health         float64         `json:"health"`
	SP             float64         `json:"sp"`
	MP             float64         `json:"mp"`
	Actions        json.RawMessage `json:"actions"`
	CreatedAt      time.Time       `json:"created_at"`
}

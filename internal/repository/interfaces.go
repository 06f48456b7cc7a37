package repository

import (
	"context"
	"encoding/json"

	"github.com/freeeve/bastion/internal/model"
)

// StateStore keeps the latest strategy state of a match so a restarted algo
// can resume it. Load returns nil, nil when nothing is stored.
type StateStore interface {
	SaveState(ctx context.Context, matchID string, state json.RawMessage) error
	LoadState(ctx context.Context, matchID string) (json.RawMessage, error)
	DeleteState(ctx context.Context, matchID string) error
}

// TurnJournal records one row per planned turn.
type TurnJournal interface {
	SaveTurn(ctx context.Context, rec *model.TurnRecord) error
	ListTurns(ctx context.Context, matchID string) ([]model.TurnRecord, error)
}

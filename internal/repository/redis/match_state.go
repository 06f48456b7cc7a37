package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/bastion/internal/repository"
)

// stateTTL outlives any single match; abandoned states expire on their own.
const stateTTL = 24 * time.Hour

var _ repository.StateStore = (*Client)(nil)

func stateKey(matchID string) string { return "match:" + matchID + ":state" }

// SaveState stores the strategy state JSON for a match.
func (c *Client) SaveState(ctx context.Context, matchID string, state json.RawMessage) error {
	if err := c.rdb.Set(ctx, stateKey(matchID), []byte(state), stateTTL).Err(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState retrieves the strategy state JSON, or nil if none is stored.
func (c *Client) LoadState(ctx context.Context, matchID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return json.RawMessage(data), nil
}

// DeleteState drops a finished match's state.
func (c *Client) DeleteState(ctx context.Context, matchID string) error {
	if err := c.rdb.Del(ctx, stateKey(matchID)).Err(); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

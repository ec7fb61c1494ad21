// Package collection owns the authoritative list of coin records. The list
// lives in memory, ordered most-recent-first, and the full serialized array
// is written back to the backend after every mutation.
package collection

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/joaoccaldas/coinsnap-collector/internal/model"
	"github.com/joaoccaldas/coinsnap-collector/internal/normalize"
)

// Collection is the sole owner of the record list. Mutations persist
// fire-and-forget: a failed write is logged and the in-memory state stands as
// the truth for the rest of the session.
type Collection struct {
	mu      sync.RWMutex
	backend Backend
	coins   []model.Coin
}

// Open loads the persisted collection once. An absent or corrupt blob yields
// an empty collection, never an error: the user simply starts fresh. Every
// loaded record passes through the normalizer, which migrates legacy shapes.
func Open(ctx context.Context, backend Backend) *Collection {
	c := &Collection{backend: backend}

	data, ok, err := backend.Read(ctx)
	if err != nil {
		zap.L().Warn("collection: read failed, starting empty", zap.Error(err))
		return c
	}
	if !ok {
		return c
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		zap.L().Warn("collection: corrupt data, starting empty", zap.Error(err))
		return c
	}

	c.coins = make([]model.Coin, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		coin := normalize.Normalize(r)
		if seen[coin.ID] {
			zap.L().Warn("collection: duplicate id in stored data, keeping first", zap.String("id", coin.ID))
			continue
		}
		seen[coin.ID] = true
		c.coins = append(c.coins, coin)
	}
	zap.L().Info("collection loaded", zap.Int("coins", len(c.coins)))
	return c
}

// Append inserts the coin at the head, so default iteration order is
// most-recent-first, and persists. Ids are unique: appending a coin whose id
// is already stored is rejected and reports false.
func (c *Collection) Append(ctx context.Context, coin model.Coin) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.coins {
		if existing.ID == coin.ID {
			zap.L().Warn("collection: duplicate id rejected", zap.String("id", coin.ID))
			return false
		}
	}
	c.coins = append([]model.Coin{coin}, c.coins...)
	c.persistLocked(ctx)
	return true
}

// Remove deletes the record with the given id and persists. Removing an
// unknown id is a no-op and reports false.
func (c *Collection) Remove(ctx context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, coin := range c.coins {
		if coin.ID == id {
			c.coins = append(c.coins[:i], c.coins[i+1:]...)
			c.persistLocked(ctx)
			return true
		}
	}
	return false
}

// Replace swaps the stored record with the same id for the given one.
// Records are never edited in place; an edit is a whole-record replacement.
func (c *Collection) Replace(ctx context.Context, coin model.Coin) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.coins {
		if existing.ID == coin.ID {
			c.coins[i] = coin
			c.persistLocked(ctx)
			return true
		}
	}
	return false
}

// Get returns the record with the given id.
func (c *Collection) Get(id string) (model.Coin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, coin := range c.coins {
		if coin.ID == id {
			return coin, true
		}
	}
	return model.Coin{}, false
}

// All returns a snapshot copy of the record list in insertion order.
func (c *Collection) All() []model.Coin {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Coin, len(c.coins))
	copy(out, c.coins)
	return out
}

// Len reports the number of records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.coins)
}

// persistLocked serializes the full collection and writes it to the backend.
// Callers must hold the write lock. Failure is logged, never surfaced: the
// mutation is not rolled back.
func (c *Collection) persistLocked(ctx context.Context) {
	coins := c.coins
	if coins == nil {
		coins = []model.Coin{}
	}
	data, err := json.Marshal(coins)
	if err != nil {
		zap.L().Error("collection: marshal failed", zap.Error(err))
		return
	}
	if err := c.backend.Write(ctx, data); err != nil {
		zap.L().Error("collection: persist failed", zap.Error(err))
	}
}

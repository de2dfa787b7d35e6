// Package history projects the append-only history store into live
// per-owner snapshots and question suggestions for input completion.
package history

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/store"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

const defaultListLimit = 200

// Cache is a read projection over the history store. It never writes;
// entries arrive only through the query side effect in the agent.
type Cache struct {
	store    store.HistoryStorer
	interval time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	latest map[string][]types.HistoryEntry
}

func NewCache(storer store.HistoryStorer, pollInterval time.Duration) *Cache {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Cache{
		store:    storer,
		interval: pollInterval,
		logger:   slog.Default(),
		latest:   make(map[string][]types.HistoryEntry),
	}
}

// Observe delivers the owner's current history immediately, then a fresh
// snapshot whenever the stored set changes, newest entry first. Delivery
// stops and the channel closes when ctx is canceled; resubscribing
// starts a fresh stream. A consumer that falls behind misses
// intermediate snapshots rather than blocking the poll loop.
func (c *Cache) Observe(ctx context.Context, ownerID string) <-chan []types.HistoryEntry {
	out := make(chan []types.HistoryEntry, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		var last []types.HistoryEntry
		first := true
		for {
			entries, err := c.store.ListByOwner(ctx, ownerID, defaultListLimit)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Warn("history.poll_failed", "owner", ownerID, "error", err)
			} else if first || changed(last, entries) {
				first = false
				last = entries
				c.remember(ownerID, entries)
				select {
				case out <- entries:
				default:
					// Drop the stale snapshot so the next send carries
					// the latest state.
					select {
					case <-out:
					default:
					}
					out <- entries
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

// Suggestions returns the distinct non-blank questions from the latest
// observed snapshot, sorted for stable output. Before any observation it
// falls back to a direct store read.
func (c *Cache) Suggestions(ctx context.Context, ownerID string) []string {
	c.mu.RLock()
	entries, seen := c.latest[ownerID]
	c.mu.RUnlock()

	if !seen {
		fresh, err := c.store.ListByOwner(ctx, ownerID, defaultListLimit)
		if err != nil {
			c.logger.Warn("history.suggestions_read_failed", "owner", ownerID, "error", err)
			return nil
		}
		entries = fresh
	}

	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		q := strings.TrimSpace(e.Question)
		if q == "" {
			continue
		}
		set[q] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

func (c *Cache) remember(ownerID string, entries []types.HistoryEntry) {
	c.mu.Lock()
	c.latest[ownerID] = entries
	c.mu.Unlock()
}

func changed(prev, next []types.HistoryEntry) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if prev[i].ID != next[i].ID {
			return true
		}
	}
	return false
}

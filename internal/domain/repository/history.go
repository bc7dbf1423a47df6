// Package repository declares the persistence ports of the host.
package repository

import (
	"context"
	"time"

	"github.com/bnema/berkelium-go/internal/domain/entity"
)

// HistoryRepository defines operations for visit history persistence.
type HistoryRepository interface {
	// Save creates an entry or, for a known URL, bumps its visit count and
	// refreshes its title.
	Save(ctx context.Context, entry *entity.HistoryEntry) error

	// FindByURL retrieves a history entry by its URL. It returns nil when
	// the URL was never visited.
	FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error)

	// GetRecent retrieves recent history entries with pagination.
	GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error)

	// Delete removes a single history entry by ID.
	Delete(ctx context.Context, id int64) error

	// DeleteOlderThan removes entries last visited before the given time.
	DeleteOlderThan(ctx context.Context, before time.Time) error

	// DeleteAll removes all history entries.
	DeleteAll(ctx context.Context) error

	// GetStats retrieves overall history statistics.
	GetStats(ctx context.Context) (*entity.HistoryStats, error)
}

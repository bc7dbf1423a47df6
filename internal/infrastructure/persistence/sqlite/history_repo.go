package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/berkelium-go/internal/domain/entity"
	"github.com/bnema/berkelium-go/internal/domain/repository"
	"github.com/bnema/berkelium-go/internal/logging"
)

const logURLMaxLen = 60

// aboutBlankURL is never recorded.
const aboutBlankURL = "about:blank"

const historyColumns = "id, url, title, visit_count, last_visited, created_at"

type historyRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewHistoryRepository creates a new SQLite-backed history repository.
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepo{db: db, now: time.Now}
}

func (r *historyRepo) Save(ctx context.Context, entry *entity.HistoryEntry) error {
	if entry == nil || entry.URL == "" || entry.URL == aboutBlankURL {
		return nil
	}
	log := logging.FromContext(ctx)
	log.Debug().Str("url", logging.TruncateURL(entry.URL, logURLMaxLen)).Msg("saving history entry")

	visited := entry.LastVisited
	if visited.IsZero() {
		visited = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO history (url, title, visit_count, last_visited, created_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = CASE WHEN excluded.title = '' THEN history.title ELSE excluded.title END,
			visit_count = history.visit_count + 1,
			last_visited = excluded.last_visited`,
		entry.URL, entry.Title, visited.UnixMilli(), visited.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save history entry: %w", err)
	}
	return nil
}

func (r *historyRepo) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+historyColumns+" FROM history WHERE url = ?", url)
	entry, err := scanHistory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (r *historyRepo) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+historyColumns+" FROM history ORDER BY last_visited DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()

	entries := make([]*entity.HistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *historyRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id)
	return err
}

func (r *historyRepo) DeleteOlderThan(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM history WHERE last_visited < ?", before.UnixMilli())
	return err
}

func (r *historyRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM history")
	return err
}

func (r *historyRepo) GetStats(ctx context.Context) (*entity.HistoryStats, error) {
	stats := &entity.HistoryStats{}
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(visit_count), 0) FROM history",
	).Scan(&stats.TotalEntries, &stats.TotalVisits)
	if err != nil {
		return nil, fmt.Errorf("query history stats: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHistory(s scanner) (*entity.HistoryEntry, error) {
	var (
		entry            entity.HistoryEntry
		visited, created int64
	)
	if err := s.Scan(&entry.ID, &entry.URL, &entry.Title, &entry.VisitCount, &visited, &created); err != nil {
		return nil, err
	}
	entry.LastVisited = time.UnixMilli(visited)
	entry.CreatedAt = time.UnixMilli(created)
	return &entry, nil
}

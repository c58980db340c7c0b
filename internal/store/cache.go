package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetCachedSearch returns the cached payload for a query, or ok=false when no
// fresh entry exists. Hits bump the entry's hit counter; expired rows are
// removed on the way out.
func (s *Store) GetCachedSearch(ctx context.Context, query string, now time.Time) (string, bool, error) {
	var data string
	var expiresAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT result_data, expires_at FROM search_cache WHERE search_query = ?",
		query).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read search cache: %w", err)
	}

	expiry, err := parseTime(expiresAt)
	if err != nil {
		return "", false, fmt.Errorf("parse cache expiry: %w", err)
	}
	if !now.UTC().Before(expiry) {
		if _, delErr := s.db.ExecContext(ctx,
			"DELETE FROM search_cache WHERE search_query = ?", query); delErr != nil {
			return "", false, fmt.Errorf("evict expired cache entry: %w", delErr)
		}
		return "", false, nil
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE search_cache SET hit_count = hit_count + 1 WHERE search_query = ?",
		query); err != nil {
		return "", false, fmt.Errorf("bump cache hit count: %w", err)
	}
	return data, true, nil
}

// PutCachedSearch stores a result payload for a query, replacing any prior
// entry and resetting its hit counter.
func (s *Store) PutCachedSearch(ctx context.Context, query, data string, ttl time.Duration, now time.Time) error {
	created := now.UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO search_cache
		(search_query, result_data, created_at, expires_at, hit_count)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(search_query) DO UPDATE SET
			result_data = excluded.result_data,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at,
			hit_count = 0`,
		query, data, formatTime(created), formatTime(created.Add(ttl)))
	if err != nil {
		return fmt.Errorf("write search cache: %w", err)
	}
	return nil
}

// ClearCache drops every cached search and reports how many were removed.
func (s *Store) ClearCache(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM search_cache")
	if err != nil {
		return 0, fmt.Errorf("clear search cache: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear search cache count: %w", err)
	}
	return removed, nil
}

// CacheStats summarizes cache size, accumulated hits, and entries already past
// their expiry but not yet evicted.
func (s *Store) CacheStats(ctx context.Context, now time.Time) (CacheStats, error) {
	var stats CacheStats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(hit_count), 0) FROM search_cache",
	).Scan(&stats.Entries, &stats.TotalHits)
	if err != nil {
		return CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM search_cache WHERE expires_at <= ?",
		formatTime(now)).Scan(&stats.Expired)
	if err != nil {
		return CacheStats{}, fmt.Errorf("cache expired count: %w", err)
	}
	return stats, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InsertCallLog appends one audit record for a lookup attempt.
func (s *Store) InsertCallLog(ctx context.Context, record *CallLogRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	result, err := s.db.ExecContext(ctx, `INSERT INTO api_call_log (
		request_id, endpoint, search_query, card_id, response_status,
		response_time_ms, items_returned, cache_hit, success, error_message,
		created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RequestID, record.Endpoint, record.Query,
		nullableInt64(record.CardID), record.StatusCode, record.LatencyMS,
		record.ItemCount, boolToInt(record.CacheHit), boolToInt(record.Success),
		nullableString(record.ErrorMessage), formatTime(record.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert call log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("call log insert id: %w", err)
	}
	record.ID = id
	return nil
}

// RecentCalls returns the newest call-log records, up to limit.
func (s *Store) RecentCalls(ctx context.Context, limit int) ([]*CallLogRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, request_id, endpoint,
		search_query, card_id, response_status, response_time_ms,
		items_returned, cache_hit, success, error_message, created_at
		FROM api_call_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent calls: %w", err)
	}
	defer rows.Close()

	var records []*CallLogRecord
	for rows.Next() {
		var record CallLogRecord
		var cardID sql.NullInt64
		var cacheHit, success int
		var errorMessage sql.NullString
		var createdAt string
		err := rows.Scan(&record.ID, &record.RequestID, &record.Endpoint,
			&record.Query, &cardID, &record.StatusCode, &record.LatencyMS,
			&record.ItemCount, &cacheHit, &success, &errorMessage, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan call log row: %w", err)
		}
		if cardID.Valid {
			record.CardID = &cardID.Int64
		}
		record.CacheHit = cacheHit != 0
		record.Success = success != 0
		record.ErrorMessage = errorMessage.String
		if record.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse call log created_at: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate call log: %w", err)
	}
	return records, nil
}

// CallSummary aggregates totals across the entire call log.
func (s *Store) CallSummary(ctx context.Context) (CallSummary, error) {
	var summary CallSummary
	err := s.db.QueryRowContext(ctx, `SELECT
		COUNT(1),
		COALESCE(SUM(CASE WHEN cache_hit = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(cache_hit), 0),
		COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(response_time_ms), 0)
		FROM api_call_log`,
	).Scan(&summary.TotalCalls, &summary.LiveCalls, &summary.CacheHits,
		&summary.Failures, &summary.AvgLatencyMS)
	if err != nil {
		return CallSummary{}, fmt.Errorf("call summary: %w", err)
	}
	return summary, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCardNotFound indicates the requested card id does not exist.
var ErrCardNotFound = errors.New("card not found")

const cardColumns = `id, set_name, card_number, player, team, year, variety, parallel,
	autograph, numbered, graded, price_paid, current_value, quantity, tracked,
	notes, image_url, last_checked_at, created_at, updated_at`

// CreateCard inserts a new card and returns it with id and timestamps set.
func (s *Store) CreateCard(ctx context.Context, card *Card) error {
	if strings.TrimSpace(card.Player) == "" {
		return fmt.Errorf("create card: player is required")
	}
	if card.Quantity <= 0 {
		card.Quantity = 1
	}
	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `INSERT INTO cards (
		set_name, card_number, player, team, year, variety, parallel,
		autograph, numbered, graded, price_paid, current_value, quantity,
		tracked, notes, image_url, last_checked_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.SetName, card.CardNumber, card.Player, card.Team, card.Year,
		card.Variety, card.Parallel, boolToInt(card.Autograph), card.Numbered,
		card.Graded, nullableFloat(card.PricePaid), nullableFloat(card.CurrentValue),
		card.Quantity, boolToInt(card.Tracked), card.Notes, card.ImageURL,
		nullableTime(card.LastCheckedAt), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("card insert id: %w", err)
	}
	card.ID = id
	return nil
}

// GetCard fetches a single card by id.
func (s *Store) GetCard(ctx context.Context, id int64) (*Card, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+cardColumns+" FROM cards WHERE id = ?", id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrCardNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}
	return card, nil
}

// ListCards returns cards matching the filter, newest first.
func (s *Store) ListCards(ctx context.Context, filter CardFilter) ([]*Card, error) {
	query := "SELECT " + cardColumns + " FROM cards"
	var conditions []string
	var args []any
	if filter.Player != "" {
		conditions = append(conditions, "player LIKE ?")
		args = append(args, "%"+filter.Player+"%")
	}
	if filter.Year != "" {
		conditions = append(conditions, "year = ?")
		args = append(args, filter.Year)
	}
	if filter.SetName != "" {
		conditions = append(conditions, "set_name LIKE ?")
		args = append(args, "%"+filter.SetName+"%")
	}
	if filter.Tracked != nil {
		conditions = append(conditions, "tracked = ?")
		args = append(args, boolToInt(*filter.Tracked))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		card, scanErr := scanCard(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan card row: %w", scanErr)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

// TrackedCards returns every card flagged for scheduled price checks.
func (s *Store) TrackedCards(ctx context.Context) ([]*Card, error) {
	tracked := true
	return s.ListCards(ctx, CardFilter{Tracked: &tracked})
}

// UpdateCard rewrites all editable fields of an existing card.
func (s *Store) UpdateCard(ctx context.Context, card *Card) error {
	card.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `UPDATE cards SET
		set_name = ?, card_number = ?, player = ?, team = ?, year = ?,
		variety = ?, parallel = ?, autograph = ?, numbered = ?, graded = ?,
		price_paid = ?, current_value = ?, quantity = ?, tracked = ?,
		notes = ?, image_url = ?, last_checked_at = ?, updated_at = ?
		WHERE id = ?`,
		card.SetName, card.CardNumber, card.Player, card.Team, card.Year,
		card.Variety, card.Parallel, boolToInt(card.Autograph), card.Numbered,
		card.Graded, nullableFloat(card.PricePaid), nullableFloat(card.CurrentValue),
		card.Quantity, boolToInt(card.Tracked), card.Notes, card.ImageURL,
		nullableTime(card.LastCheckedAt), formatTime(card.UpdatedAt), card.ID)
	if err != nil {
		return fmt.Errorf("update card %d: %w", card.ID, err)
	}
	return requireRow(result, card.ID)
}

// SetTracked toggles the tracked flag on a card.
func (s *Store) SetTracked(ctx context.Context, id int64, tracked bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE cards SET tracked = ?, updated_at = ? WHERE id = ?",
		boolToInt(tracked), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("set tracked on card %d: %w", id, err)
	}
	return requireRow(result, id)
}

// UpdateCardValue records the outcome of a price check: the new market value,
// optionally a representative image, and the check timestamp.
func (s *Store) UpdateCardValue(ctx context.Context, id int64, value *float64, imageURL string, checkedAt time.Time) error {
	checked := checkedAt.UTC()
	var result sql.Result
	var err error
	if imageURL != "" {
		result, err = s.db.ExecContext(ctx,
			"UPDATE cards SET current_value = ?, image_url = ?, last_checked_at = ?, updated_at = ? WHERE id = ?",
			nullableFloat(value), imageURL, formatTime(checked), formatTime(checked), id)
	} else {
		result, err = s.db.ExecContext(ctx,
			"UPDATE cards SET current_value = ?, last_checked_at = ?, updated_at = ? WHERE id = ?",
			nullableFloat(value), formatTime(checked), formatTime(checked), id)
	}
	if err != nil {
		return fmt.Errorf("update card %d value: %w", id, err)
	}
	return requireRow(result, id)
}

// DeleteCard removes a card permanently.
func (s *Store) DeleteCard(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrCardNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*Card, error) {
	var card Card
	var autograph, tracked int
	var pricePaid, currentValue sql.NullFloat64
	var lastChecked sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&card.ID, &card.SetName, &card.CardNumber, &card.Player,
		&card.Team, &card.Year, &card.Variety, &card.Parallel, &autograph,
		&card.Numbered, &card.Graded, &pricePaid, &currentValue,
		&card.Quantity, &tracked, &card.Notes, &card.ImageURL,
		&lastChecked, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	card.Autograph = autograph != 0
	card.Tracked = tracked != 0
	if pricePaid.Valid {
		card.PricePaid = &pricePaid.Float64
	}
	if currentValue.Valid {
		card.CurrentValue = &currentValue.Float64
	}
	if lastChecked.Valid && lastChecked.String != "" {
		if parsed, parseErr := parseTime(lastChecked.String); parseErr == nil {
			card.LastCheckedAt = &parsed
		}
	}
	if card.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if card.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &card, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

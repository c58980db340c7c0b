package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"cardhound/internal/lookup"
	"cardhound/internal/ratelimit"
	"cardhound/internal/services"
	"cardhound/internal/store"
)

// Service exposes the engine and store operations behind stable
// signatures shared by the daemon handlers and the CLI.
type Service struct {
	store    *store.Store
	engine   *lookup.Engine
	governor *ratelimit.Governor
}

// NewService wires a service over its collaborators.
func NewService(st *store.Store, engine *lookup.Engine, governor *ratelimit.Governor) *Service {
	return &Service{store: st, engine: engine, governor: governor}
}

// Lookup prices a described card, or runs a raw query when one is given.
func (s *Service) Lookup(ctx context.Context, req LookupRequest) (*lookup.Result, error) {
	if query := strings.TrimSpace(req.Query); query != "" {
		return s.engine.ManualQuery(ctx, query)
	}
	return s.engine.Lookup(ctx, req.Descriptor())
}

// AddCard creates a card from the request payload.
func (s *Service) AddCard(ctx context.Context, req CardRequest) (*store.Card, error) {
	card := cardFromRequest(req)
	if card.Player == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "add-card", "player is required", nil)
	}
	if err := s.store.CreateCard(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// GetCard fetches one card.
func (s *Service) GetCard(ctx context.Context, id int64) (*store.Card, error) {
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, wrapNotFound("get-card", err)
	}
	return card, nil
}

// ListCards returns cards matching the filter.
func (s *Service) ListCards(ctx context.Context, filter store.CardFilter) ([]*store.Card, error) {
	return s.store.ListCards(ctx, filter)
}

// UpdateCard rewrites a card's editable fields.
func (s *Service) UpdateCard(ctx context.Context, id int64, req CardRequest) (*store.Card, error) {
	existing, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, wrapNotFound("update-card", err)
	}
	card := cardFromRequest(req)
	if card.Player == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "update-card", "player is required", nil)
	}
	card.ID = id
	card.CurrentValue = existing.CurrentValue
	card.ImageURL = existing.ImageURL
	card.LastCheckedAt = existing.LastCheckedAt
	card.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateCard(ctx, card); err != nil {
		return nil, wrapNotFound("update-card", err)
	}
	return card, nil
}

// DeleteCard removes a card.
func (s *Service) DeleteCard(ctx context.Context, id int64) error {
	if err := s.store.DeleteCard(ctx, id); err != nil {
		return wrapNotFound("delete-card", err)
	}
	return nil
}

// SetTracked toggles scheduled price checking for a card.
func (s *Service) SetTracked(ctx context.Context, id int64, tracked bool) error {
	if err := s.store.SetTracked(ctx, id, tracked); err != nil {
		return wrapNotFound("set-tracked", err)
	}
	return nil
}

// CheckPrice refreshes one card's market value and returns both the
// updated card and the lookup behind it.
func (s *Service) CheckPrice(ctx context.Context, id int64) (*store.Card, *lookup.Result, error) {
	result, err := s.engine.CheckCard(ctx, id)
	if err != nil {
		return nil, nil, wrapNotFound("check-price", err)
	}
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, nil, wrapNotFound("check-price", err)
	}
	return card, result, nil
}

// CheckTracked sweeps every tracked card.
func (s *Service) CheckTracked(ctx context.Context) ([]lookup.CheckOutcome, error) {
	return s.engine.CheckTracked(ctx)
}

// RateStats reports the day's API budget.
func (s *Service) RateStats() ratelimit.Stats {
	return s.governor.Stats()
}

// ResetRate zeroes the day's call counter.
func (s *Service) ResetRate() error {
	return s.governor.Reset()
}

// CacheStats reports search cache statistics.
func (s *Service) CacheStats(ctx context.Context) (store.CacheStats, error) {
	return s.store.CacheStats(ctx, time.Now().UTC())
}

// ClearCache drops every cached search.
func (s *Service) ClearCache(ctx context.Context) (int64, error) {
	return s.store.ClearCache(ctx)
}

// RecentCalls returns the newest call-log records.
func (s *Service) RecentCalls(ctx context.Context, limit int) ([]*store.CallLogRecord, error) {
	return s.store.RecentCalls(ctx, limit)
}

// CallSummary aggregates the call log.
func (s *Service) CallSummary(ctx context.Context) (store.CallSummary, error) {
	return s.store.CallSummary(ctx)
}

// DatabasePath reports the backing database location.
func (s *Service) DatabasePath() string {
	return s.store.Path()
}

func cardFromRequest(req CardRequest) *store.Card {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	return &store.Card{
		SetName:    strings.TrimSpace(req.SetName),
		CardNumber: strings.TrimSpace(req.CardNumber),
		Player:     strings.TrimSpace(req.Player),
		Team:       strings.TrimSpace(req.Team),
		Year:       strings.TrimSpace(req.Year),
		Variety:    strings.TrimSpace(req.Variety),
		Parallel:   strings.TrimSpace(req.Parallel),
		Autograph:  req.Autograph,
		Numbered:   strings.TrimSpace(req.Numbered),
		Graded:     strings.TrimSpace(req.Graded),
		PricePaid:  req.PricePaid,
		Quantity:   req.Quantity,
		Tracked:    req.Tracked,
		Notes:      req.Notes,
	}
}

func wrapNotFound(op string, err error) error {
	if errors.Is(err, store.ErrCardNotFound) {
		return services.Wrap(services.ErrNotFound, "api", op, err.Error(), err)
	}
	return err
}

package lookup

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cardhound/internal/config"
	"cardhound/internal/ebay"
	"cardhound/internal/logging"
	"cardhound/internal/match"
	"cardhound/internal/pricing"
	"cardhound/internal/ratelimit"
	"cardhound/internal/services"
	"cardhound/internal/store"
)

const searchEndpoint = "browse.search"

// broadening is the fixed order of fallback strategies after a strict
// query finds nothing relevant.
var broadening = []struct {
	strategy match.Strategy
	note     string
}{
	{match.StrategyNoPrintRun, "removed print run"},
	{match.StrategyCore, "removed variety and parallel"},
}

// Engine runs lookups end to end.
type Engine struct {
	searcher ebay.Searcher
	governor *ratelimit.Governor
	store    *store.Store
	tables   match.Tables
	scorer   *match.Scorer
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides request-id generation, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// NewEngine wires the lookup pipeline from its collaborators.
func NewEngine(cfg *config.Config, st *store.Store, searcher ebay.Searcher, governor *ratelimit.Governor, logger *slog.Logger, opts ...Option) *Engine {
	tables := match.NewTables(cfg.Match)
	engine := &Engine{
		searcher: searcher,
		governor: governor,
		store:    st,
		tables:   tables,
		scorer:   match.NewScorer(cfg.Match.MinScore, tables),
		cacheTTL: cfg.Ebay.CacheDuration(),
		logger:   logging.NewComponentLogger(logger, "lookup"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Lookup prices one card described by its attributes. It starts with the
// strict query and progressively broadens until listings survive
// filtering or the strategies are exhausted. Finding nothing relevant is
// a success with an empty result.
func (e *Engine) Lookup(ctx context.Context, d match.Descriptor) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return e.run(ctx, d, nil)
}

// CheckCard prices the stored card and persists the outcome: the trimmed
// average as the new current value, a representative photo, and the check
// timestamp. A lookup that matches nothing clears the stored value.
func (e *Engine) CheckCard(ctx context.Context, cardID int64) (*Result, error) {
	card, err := e.store.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	descriptor := card.Descriptor()
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}

	result, err := e.run(ctx, descriptor, &cardID)
	if err != nil {
		return nil, err
	}

	var image string
	if len(result.SampleImages) > 0 {
		image = result.SampleImages[0]
	}
	if err := e.store.UpdateCardValue(ctx, cardID, result.Pricing.Average, image, e.now()); err != nil {
		return nil, err
	}
	return result, nil
}

// CheckTracked sweeps every tracked card. Individual failures are
// captured per card; the sweep itself only fails when the tracked list
// cannot be read or the context ends.
func (e *Engine) CheckTracked(ctx context.Context) ([]CheckOutcome, error) {
	cards, err := e.store.TrackedCards(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]CheckOutcome, 0, len(cards))
	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcome := CheckOutcome{CardID: card.ID, Player: card.Player}
		result, err := e.CheckCard(ctx, card.ID)
		if err != nil {
			outcome.Err = err.Error()
			e.logger.Warn("tracked card check failed",
				logging.Int64(logging.FieldCardID, card.ID),
				logging.Error(err))
		} else {
			outcome.Result = result
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// ManualQuery runs a caller-supplied search string verbatim: no scoring,
// no broadening, pricing over every listing with a usable price.
func (e *Engine) ManualQuery(ctx context.Context, query string) (*Result, error) {
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "lookup", "manual-query", "query is required", nil)
	}

	requestID := e.newID()
	response, cacheHit, err := e.search(ctx, requestID, nil, query)
	if err != nil {
		return nil, err
	}

	items := make([]match.ScoredListing, 0, len(response.ItemSummaries))
	var prices []float64
	for _, listing := range response.ItemSummaries {
		items = append(items, match.ScoredListing{Listing: listing, Accepted: true})
		if amount, ok := listing.Price.Amount(); ok {
			prices = append(prices, amount)
		}
	}

	return &Result{
		RequestID:     requestID,
		Query:         query,
		TotalUpstream: response.Total,
		Scanned:       len(response.ItemSummaries),
		CacheHit:      cacheHit,
		Items:         buildResultItems(items),
		Pricing:       pricing.Summarize(prices),
		SampleImages:  sampleImages(items),
	}, nil
}

func (e *Engine) run(ctx context.Context, d match.Descriptor, cardID *int64) (*Result, error) {
	requestID := e.newID()
	logger := e.logger.With(logging.String(logging.FieldRequestID, requestID))

	result := &Result{
		RequestID: requestID,
		Strategy:  match.StrategyStrict,
	}

	query := match.BuildQuery(d, match.StrategyStrict, e.tables)
	accepted, err := e.attempt(ctx, requestID, cardID, query, d, result)
	if err != nil {
		return nil, err
	}

	for _, step := range broadening {
		if len(accepted) > 0 {
			break
		}
		broadened := match.BuildQuery(d, step.strategy, e.tables)
		if broadened == query {
			continue
		}
		query = broadened
		logger.Info("broadening search",
			logging.String(logging.FieldQuery, query),
			logging.String("strategy", string(step.strategy)))

		accepted, err = e.attempt(ctx, requestID, cardID, query, d, result)
		if err != nil {
			return nil, err
		}
		// Only broadenings that produced listings are annotated; an
		// exhausted search stays marked strict.
		if len(accepted) > 0 {
			result.Strategy = step.strategy
			result.Broadened = true
			result.BroadenNote = step.note
		}
	}

	result.Items = buildResultItems(accepted)
	result.Pricing = pricing.Summarize(acceptedPrices(accepted))
	result.SampleImages = sampleImages(accepted)

	if len(accepted) == 0 {
		logger.Info("no relevant listings",
			logging.String(logging.FieldQuery, result.Query),
			logging.Int("rejected", result.RejectedCount))
	} else {
		logger.Info("lookup complete",
			logging.String(logging.FieldQuery, result.Query),
			logging.Int("accepted", len(accepted)),
			logging.Int("rejected", result.RejectedCount),
			logging.Bool("broadened", result.Broadened))
	}
	return result, nil
}

// attempt executes one query and filters the listings, updating the
// result's per-attempt fields.
func (e *Engine) attempt(ctx context.Context, requestID string, cardID *int64, query string, d match.Descriptor, result *Result) ([]match.ScoredListing, error) {
	response, cacheHit, err := e.search(ctx, requestID, cardID, query)
	if err != nil {
		return nil, err
	}

	accepted, rejected := e.scorer.Filter(response.ItemSummaries, d)
	result.Query = query
	result.TotalUpstream = response.Total
	result.Scanned = len(response.ItemSummaries)
	result.RejectedCount = rejected
	result.CacheHit = cacheHit
	return accepted, nil
}

// search serves a query from the cache when possible, otherwise spends
// quota on a live call. Every execution appends one call-log record; cache
// writes and log writes are best effort.
func (e *Engine) search(ctx context.Context, requestID string, cardID *int64, query string) (*ebay.SearchResponse, bool, error) {
	record := store.CallLogRecord{
		RequestID: requestID,
		Endpoint:  searchEndpoint,
		Query:     query,
		CardID:    cardID,
	}

	if cached, ok, err := e.store.GetCachedSearch(ctx, query, e.now()); err != nil {
		e.logger.Warn("cache read failed", logging.Error(err))
	} else if ok {
		var response ebay.SearchResponse
		if err := json.Unmarshal([]byte(cached), &response); err != nil {
			e.logger.Warn("discarding undecodable cache entry",
				logging.String(logging.FieldQuery, query),
				logging.Error(err))
		} else {
			record.StatusCode = 200
			record.ItemCount = len(response.ItemSummaries)
			record.CacheHit = true
			record.Success = true
			e.logCall(ctx, record)
			return &response, true, nil
		}
	}

	if ok, reason := e.governor.CanProceed(); !ok {
		err := services.Wrap(services.ErrRateLimited, "lookup", "search", reason, nil)
		record.StatusCode = services.HTTPStatus(err)
		record.ErrorMessage = reason
		e.logCall(ctx, record)
		return nil, false, err
	}

	start := e.now()
	response, err := e.searcher.Search(ctx, query)
	record.LatencyMS = e.now().Sub(start).Milliseconds()
	if err != nil {
		record.StatusCode = services.HTTPStatus(err)
		record.ErrorMessage = err.Error()
		e.logCall(ctx, record)
		return nil, false, err
	}

	if err := e.governor.Record(); err != nil {
		e.logger.Warn("rate state write failed", logging.Error(err))
	}

	if payload, marshalErr := json.Marshal(response); marshalErr == nil {
		if cacheErr := e.store.PutCachedSearch(ctx, query, string(payload), e.cacheTTL, e.now()); cacheErr != nil {
			e.logger.Warn("cache write failed", logging.Error(cacheErr))
		}
	}

	record.StatusCode = 200
	record.ItemCount = len(response.ItemSummaries)
	record.Success = true
	e.logCall(ctx, record)
	return response, false, nil
}

func (e *Engine) logCall(ctx context.Context, record store.CallLogRecord) {
	if err := e.store.InsertCallLog(ctx, &record); err != nil {
		e.logger.Warn("call log write failed", logging.Error(err))
	}
}

package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"cardhound/internal/api"
	"cardhound/internal/config"
	"cardhound/internal/daemon"
	"cardhound/internal/ebay"
	"cardhound/internal/logging"
	"cardhound/internal/lookup"
	"cardhound/internal/ratelimit"
	"cardhound/internal/store"
	"cardhound/internal/testsupport"
)

type stubSearcher struct {
	response *ebay.SearchResponse
}

func (s *stubSearcher) Search(context.Context, string) (*ebay.SearchResponse, error) {
	if s.response != nil {
		return s.response, nil
	}
	return &ebay.SearchResponse{}, nil
}

func startDaemon(t *testing.T, cfg *config.Config, st *store.Store, searcher ebay.Searcher) *daemon.Daemon {
	t.Helper()
	governor := ratelimit.New(cfg.Ebay.DailyQuota, filepath.Join(t.TempDir(), "rate.json"), logging.NewNop())
	engine := lookup.NewEngine(cfg, st, searcher, governor, logging.NewNop())
	d, err := daemon.New(cfg, st, engine, governor, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		d.Stop()
	})
	return d
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &payload)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d := startDaemon(t, cfg, st, &stubSearcher{})

	var health api.HealthResponse
	resp := doJSON(t, http.MethodGet, "http://"+d.Addr()+"/api/health", nil, &health)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if health.Status != "ok" || health.Database == "" {
		t.Fatalf("unexpected health payload: %#v", health)
	}
}

func TestCardCRUDOverHTTP(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d := startDaemon(t, cfg, st, &stubSearcher{})
	base := "http://" + d.Addr()

	var created api.CardResponse
	resp := doJSON(t, http.MethodPost, base+"/api/cards", api.CardRequest{
		Player:     "Derek Jeter",
		Year:       "1993",
		SetName:    "Topps",
		CardNumber: "98",
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if created.Card == nil || created.Card.ID == 0 {
		t.Fatalf("unexpected create payload: %#v", created)
	}

	var listed api.CardListResponse
	doJSON(t, http.MethodGet, base+"/api/cards?player=Jeter", nil, &listed)
	if len(listed.Cards) != 1 {
		t.Fatalf("expected one card, got %d", len(listed.Cards))
	}

	cardURL := fmt.Sprintf("%s/api/cards/%d", base, created.Card.ID)
	var fetched api.CardResponse
	resp = doJSON(t, http.MethodGet, cardURL, nil, &fetched)
	if resp.StatusCode != http.StatusOK || fetched.Card.Player != "Derek Jeter" {
		t.Fatalf("unexpected get response: %d %#v", resp.StatusCode, fetched)
	}

	var tracked api.CardResponse
	doJSON(t, http.MethodPost, cardURL+"/track", map[string]bool{"tracked": true}, &tracked)
	if !tracked.Card.Tracked {
		t.Fatalf("expected tracked card, got %#v", tracked.Card)
	}

	resp = doJSON(t, http.MethodDelete, cardURL, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, cardURL, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestLookupEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d := startDaemon(t, cfg, st, &stubSearcher{response: &ebay.SearchResponse{
		Total: 1,
		ItemSummaries: []ebay.ItemSummary{{
			ItemID: "1",
			Title:  "1996 Topps Michael Jordan #138",
			Price:  ebay.Price{Value: "55.00", Currency: "USD"},
		}},
	}})

	var payload api.LookupResponse
	resp := doJSON(t, http.MethodPost, "http://"+d.Addr()+"/api/lookup", api.LookupRequest{
		Player:  "Michael Jordan",
		Year:    "1996",
		SetName: "Topps",
		Number:  "138",
	}, &payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if payload.Result == nil || !payload.Result.Matched() {
		t.Fatalf("expected a match, got %#v", payload.Result)
	}
	if payload.Result.Pricing.Median == nil || *payload.Result.Pricing.Median != 55 {
		t.Fatalf("expected median 55, got %v", payload.Result.Pricing.Median)
	}
}

func TestLookupEndpointValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d := startDaemon(t, cfg, st, &stubSearcher{})

	resp := doJSON(t, http.MethodPost, "http://"+d.Addr()+"/api/lookup", api.LookupRequest{Year: "2020"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing player, got %d", resp.StatusCode)
	}
}

func TestRateLimitEndpoints(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d := startDaemon(t, cfg, st, &stubSearcher{})
	base := "http://" + d.Addr()

	var status api.RateLimitResponse
	doJSON(t, http.MethodGet, base+"/api/rate-limit", nil, &status)
	if status.Stats.Limit != cfg.Ebay.DailyQuota || status.Stats.Used != 0 {
		t.Fatalf("unexpected rate stats: %#v", status.Stats)
	}

	var reset api.RateLimitResponse
	resp := doJSON(t, http.MethodPost, base+"/api/rate-limit/reset", nil, &reset)
	if resp.StatusCode != http.StatusOK || reset.Stats.Used != 0 {
		t.Fatalf("unexpected reset response: %d %#v", resp.StatusCode, reset.Stats)
	}
}

func TestCacheAndCallEndpoints(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d := startDaemon(t, cfg, st, &stubSearcher{})
	base := "http://" + d.Addr()

	// One live lookup seeds the cache and the call log.
	doJSON(t, http.MethodPost, base+"/api/lookup", api.LookupRequest{Player: "Mike Trout"}, nil)

	var cacheStats api.CacheStatsResponse
	doJSON(t, http.MethodGet, base+"/api/cache/stats", nil, &cacheStats)
	if cacheStats.Stats.Entries != 1 {
		t.Fatalf("expected one cache entry, got %#v", cacheStats.Stats)
	}

	var calls api.CallsResponse
	doJSON(t, http.MethodGet, base+"/api/calls/recent?limit=5", nil, &calls)
	if len(calls.Calls) != 1 {
		t.Fatalf("expected one call record, got %d", len(calls.Calls))
	}

	var summary api.CallSummaryResponse
	doJSON(t, http.MethodGet, base+"/api/calls/summary", nil, &summary)
	if summary.Summary.TotalCalls != 1 || summary.Summary.LiveCalls != 1 {
		t.Fatalf("unexpected call summary: %#v", summary.Summary)
	}

	var cleared api.CacheClearResponse
	doJSON(t, http.MethodPost, base+"/api/cache/clear", nil, &cleared)
	if cleared.Removed != 1 {
		t.Fatalf("expected one cache row cleared, got %d", cleared.Removed)
	}
}

func TestAPITokenGuardsEndpoints(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIToken = "sekrit"
	st := testsupport.MustOpenStore(t, cfg)
	d := startDaemon(t, cfg, st, &stubSearcher{})
	base := "http://" + d.Addr()

	resp := doJSON(t, http.MethodGet, base+"/api/cards", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, base+"/api/cards", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer sekrit")
	authed, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authorized request: %v", err)
	}
	defer authed.Body.Close()
	if authed.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", authed.StatusCode)
	}

	// Health stays open for probes.
	resp = doJSON(t, http.MethodGet, base+"/api/health", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected open health endpoint, got %d", resp.StatusCode)
	}
}

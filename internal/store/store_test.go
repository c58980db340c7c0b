package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cardhound/internal/store"
	"cardhound/internal/testsupport"
)

func TestOpenCreatesSchemaAndRoundTripsCard(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	paid := 120.0
	card := &store.Card{
		SetName:    "Prizm",
		CardNumber: "248",
		Player:     "Victor Wembanyama",
		Year:       "2023",
		Parallel:   "Silver",
		PricePaid:  &paid,
		Tracked:    true,
	}
	if err := st.CreateCard(ctx, card); err != nil {
		t.Fatalf("CreateCard failed: %v", err)
	}
	if card.ID == 0 {
		t.Fatal("expected card ID to be assigned")
	}

	fetched, err := st.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if fetched.Player != "Victor Wembanyama" || fetched.Parallel != "Silver" {
		t.Fatalf("unexpected fetched card: %#v", fetched)
	}
	if fetched.PricePaid == nil || *fetched.PricePaid != 120.0 {
		t.Fatalf("expected price paid 120.0, got %v", fetched.PricePaid)
	}
	if !fetched.Tracked {
		t.Fatal("expected card to be tracked")
	}
	if fetched.CurrentValue != nil || fetched.LastCheckedAt != nil {
		t.Fatalf("expected unchecked card, got %#v", fetched)
	}

	desc := fetched.Descriptor()
	if desc.Subject != "Victor Wembanyama" || desc.Brand != "Prizm" || desc.Number != "248" {
		t.Fatalf("unexpected descriptor: %#v", desc)
	}
}

func TestCreateCardRequiresPlayer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if err := st.CreateCard(context.Background(), &store.Card{SetName: "Topps"}); err == nil {
		t.Fatal("expected error when player missing")
	}
}

func TestGetCardNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.GetCard(context.Background(), 999); !errors.Is(err, store.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestListCardsFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.NewCard(t, st, &store.Card{Player: "Derek Jeter", Year: "1993", SetName: "Topps"})
	testsupport.NewCard(t, st, &store.Card{Player: "Derek Jeter", Year: "1996", SetName: "Upper Deck"})
	jordan := testsupport.NewCard(t, st, &store.Card{Player: "Michael Jordan", Year: "1996", SetName: "Topps", Tracked: true})

	byPlayer, err := st.ListCards(ctx, store.CardFilter{Player: "Jeter"})
	if err != nil {
		t.Fatalf("ListCards by player failed: %v", err)
	}
	if len(byPlayer) != 2 {
		t.Fatalf("expected 2 Jeter cards, got %d", len(byPlayer))
	}

	byYear, err := st.ListCards(ctx, store.CardFilter{Year: "1996"})
	if err != nil {
		t.Fatalf("ListCards by year failed: %v", err)
	}
	if len(byYear) != 2 {
		t.Fatalf("expected 2 cards from 1996, got %d", len(byYear))
	}

	combined, err := st.ListCards(ctx, store.CardFilter{Player: "Jordan", Year: "1996"})
	if err != nil {
		t.Fatalf("ListCards combined failed: %v", err)
	}
	if len(combined) != 1 || combined[0].ID != jordan.ID {
		t.Fatalf("expected only the Jordan card, got %#v", combined)
	}

	tracked, err := st.TrackedCards(ctx)
	if err != nil {
		t.Fatalf("TrackedCards failed: %v", err)
	}
	if len(tracked) != 1 || tracked[0].ID != jordan.ID {
		t.Fatalf("expected one tracked card, got %#v", tracked)
	}
}

func TestUpdateCardValue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	card := testsupport.NewCard(t, st, &store.Card{Player: "Luka Doncic", Year: "2018"})
	checked := time.Now().UTC()
	value := 245.50
	if err := st.UpdateCardValue(ctx, card.ID, &value, "https://example.com/card.jpg", checked); err != nil {
		t.Fatalf("UpdateCardValue failed: %v", err)
	}

	fetched, err := st.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if fetched.CurrentValue == nil || *fetched.CurrentValue != 245.50 {
		t.Fatalf("expected current value 245.50, got %v", fetched.CurrentValue)
	}
	if fetched.ImageURL != "https://example.com/card.jpg" {
		t.Fatalf("expected image URL to be set, got %q", fetched.ImageURL)
	}
	if fetched.LastCheckedAt == nil || !fetched.LastCheckedAt.Equal(checked) {
		t.Fatalf("expected last checked %v, got %v", checked, fetched.LastCheckedAt)
	}

	// A later check with no result clears the value but keeps the image.
	later := checked.Add(time.Hour)
	if err := st.UpdateCardValue(ctx, card.ID, nil, "", later); err != nil {
		t.Fatalf("UpdateCardValue with nil failed: %v", err)
	}
	fetched, err = st.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if fetched.CurrentValue != nil {
		t.Fatalf("expected cleared value, got %v", fetched.CurrentValue)
	}
	if fetched.ImageURL != "https://example.com/card.jpg" {
		t.Fatalf("expected image URL preserved, got %q", fetched.ImageURL)
	}
}

func TestSetTrackedAndDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	card := testsupport.NewCard(t, st, &store.Card{Player: "Shohei Ohtani"})
	if err := st.SetTracked(ctx, card.ID, true); err != nil {
		t.Fatalf("SetTracked failed: %v", err)
	}
	fetched, err := st.GetCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if !fetched.Tracked {
		t.Fatal("expected card to be tracked")
	}

	if err := st.DeleteCard(ctx, card.ID); err != nil {
		t.Fatalf("DeleteCard failed: %v", err)
	}
	if _, err := st.GetCard(ctx, card.ID); !errors.Is(err, store.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound after delete, got %v", err)
	}
	if err := st.DeleteCard(ctx, card.ID); !errors.Is(err, store.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound on second delete, got %v", err)
	}
}

func TestSearchCacheLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, ok, err := st.GetCachedSearch(ctx, "2023 wembanyama prizm #248", now); err != nil || ok {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	if err := st.PutCachedSearch(ctx, "2023 wembanyama prizm #248", `{"items":[]}`, time.Hour, now); err != nil {
		t.Fatalf("PutCachedSearch failed: %v", err)
	}

	data, ok, err := st.GetCachedSearch(ctx, "2023 wembanyama prizm #248", now.Add(time.Minute))
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if data != `{"items":[]}` {
		t.Fatalf("unexpected cached payload: %q", data)
	}

	stats, err := st.CacheStats(ctx, now)
	if err != nil {
		t.Fatalf("CacheStats failed: %v", err)
	}
	if stats.Entries != 1 || stats.TotalHits != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	// Past the TTL the entry is evicted on read.
	if _, ok, err := st.GetCachedSearch(ctx, "2023 wembanyama prizm #248", now.Add(2*time.Hour)); err != nil || ok {
		t.Fatalf("expected expiry miss, got ok=%v err=%v", ok, err)
	}
	stats, err = st.CacheStats(ctx, now)
	if err != nil {
		t.Fatalf("CacheStats failed: %v", err)
	}
	if stats.Entries != 0 {
		t.Fatalf("expected entry evicted, got %#v", stats)
	}
}

func TestPutCachedSearchReplacesAndResetsHits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := st.PutCachedSearch(ctx, "query", "v1", time.Hour, now); err != nil {
		t.Fatalf("PutCachedSearch failed: %v", err)
	}
	if _, _, err := st.GetCachedSearch(ctx, "query", now); err != nil {
		t.Fatalf("GetCachedSearch failed: %v", err)
	}
	if err := st.PutCachedSearch(ctx, "query", "v2", time.Hour, now); err != nil {
		t.Fatalf("PutCachedSearch replace failed: %v", err)
	}

	data, ok, err := st.GetCachedSearch(ctx, "query", now)
	if err != nil || !ok || data != "v2" {
		t.Fatalf("expected replaced payload v2, got %q ok=%v err=%v", data, ok, err)
	}
	stats, err := st.CacheStats(ctx, now)
	if err != nil {
		t.Fatalf("CacheStats failed: %v", err)
	}
	if stats.TotalHits != 1 {
		t.Fatalf("expected hit count reset before second read, got %#v", stats)
	}
}

func TestClearCache(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, q := range []string{"a", "b", "c"} {
		if err := st.PutCachedSearch(ctx, q, "{}", time.Hour, now); err != nil {
			t.Fatalf("PutCachedSearch %q failed: %v", q, err)
		}
	}
	removed, err := st.ClearCache(ctx)
	if err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
}

func TestCallLogInsertAndSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	cardID := int64(7)
	records := []*store.CallLogRecord{
		{RequestID: "req-1", Endpoint: "browse.search", Query: "q1", CardID: &cardID, StatusCode: 200, LatencyMS: 120, ItemCount: 14, Success: true},
		{RequestID: "req-2", Endpoint: "browse.search", Query: "q1", StatusCode: 200, LatencyMS: 2, ItemCount: 14, CacheHit: true, Success: true},
		{RequestID: "req-3", Endpoint: "browse.search", Query: "q2", StatusCode: 429, LatencyMS: 40, ErrorMessage: "rate limited"},
	}
	for _, record := range records {
		if err := st.InsertCallLog(ctx, record); err != nil {
			t.Fatalf("InsertCallLog failed: %v", err)
		}
		if record.ID == 0 {
			t.Fatal("expected call log ID to be assigned")
		}
	}

	recent, err := st.RecentCalls(ctx, 2)
	if err != nil {
		t.Fatalf("RecentCalls failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent calls, got %d", len(recent))
	}
	if recent[0].RequestID != "req-3" || recent[1].RequestID != "req-2" {
		t.Fatalf("expected newest first, got %q then %q", recent[0].RequestID, recent[1].RequestID)
	}
	if recent[0].ErrorMessage != "rate limited" {
		t.Fatalf("expected error message preserved, got %q", recent[0].ErrorMessage)
	}
	if recent[1].CardID != nil {
		t.Fatalf("expected nil card id, got %v", recent[1].CardID)
	}

	summary, err := st.CallSummary(ctx)
	if err != nil {
		t.Fatalf("CallSummary failed: %v", err)
	}
	if summary.TotalCalls != 3 || summary.LiveCalls != 2 || summary.CacheHits != 1 || summary.Failures != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
	if summary.AvgLatencyMS != 54 {
		t.Fatalf("expected average latency 54ms, got %v", summary.AvgLatencyMS)
	}
}

package testsupport

import (
	"context"
	"testing"

	"cardhound/internal/config"
	"cardhound/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// NewCard inserts a card for tests using the provided store.
func NewCard(t testing.TB, st *store.Store, card *store.Card) *store.Card {
	t.Helper()

	if err := st.CreateCard(context.Background(), card); err != nil {
		t.Fatalf("store.CreateCard: %v", err)
	}
	return card
}

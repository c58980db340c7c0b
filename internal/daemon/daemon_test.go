package daemon_test

import (
	"context"
	"path/filepath"
	"testing"

	"cardhound/internal/daemon"
	"cardhound/internal/logging"
	"cardhound/internal/lookup"
	"cardhound/internal/ratelimit"
	"cardhound/internal/testsupport"
)

func TestStartEnforcesSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	first := startDaemon(t, cfg, st, &stubSearcher{})
	if first.Addr() == "" {
		t.Fatal("expected bound address")
	}

	governor := ratelimit.New(cfg.Ebay.DailyQuota, filepath.Join(t.TempDir(), "rate.json"), logging.NewNop())
	engine := lookup.NewEngine(cfg, st, &stubSearcher{}, governor, logging.NewNop())
	second, err := daemon.New(cfg, st, engine, governor, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be refused")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d := startDaemon(t, cfg, st, &stubSearcher{})

	d.Stop()
	d.Stop()
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cardhound/internal/config"
	"cardhound/internal/daemon"
	"cardhound/internal/ebay"
	"cardhound/internal/logging"
	"cardhound/internal/lookup"
	"cardhound/internal/ratelimit"
	"cardhound/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		return
	}

	tokens := ebay.NewTokenManager(cfg.Ebay)
	client, err := ebay.New(cfg.Ebay, tokens)
	if err != nil {
		logger.Error("build ebay client", logging.Error(err))
		_ = st.Close()
		return
	}

	governor := ratelimit.New(cfg.Ebay.DailyQuota, cfg.RateStatePath(), logger)
	engine := lookup.NewEngine(cfg, st, client, governor, logger)

	d, err := daemon.New(cfg, st, engine, governor, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = st.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("cardhoundd shutting down")
}

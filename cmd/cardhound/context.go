package main

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cardhound/internal/api"
	"cardhound/internal/config"
	"cardhound/internal/ebay"
	"cardhound/internal/logging"
	"cardhound/internal/lookup"
	"cardhound/internal/ratelimit"
	"cardhound/internal/store"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withService builds the full pipeline over the shared database and rate
// state, runs fn, and tears everything down. The CLI works on the same
// files as the daemon; the file lock and WAL journal keep both safe.
func (c *commandContext) withService(cmd *cobra.Command, fn func(context.Context, *api.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: "warn", Format: "text", Writer: os.Stderr})
	if err != nil {
		return err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	tokens := ebay.NewTokenManager(cfg.Ebay)
	client, err := ebay.New(cfg.Ebay, tokens)
	if err != nil {
		return err
	}

	governor := ratelimit.New(cfg.Ebay.DailyQuota, cfg.RateStatePath(), logger)
	engine := lookup.NewEngine(cfg, st, client, governor, logger)
	return fn(cmd.Context(), api.NewService(st, engine, governor))
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

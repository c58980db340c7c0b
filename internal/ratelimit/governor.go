package ratelimit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"cardhound/internal/logging"
)

// warningThreshold is the fraction of quota at which CanProceed starts
// attaching a warning to an otherwise allowed call.
const warningThreshold = 0.9

// Stats is a read-only snapshot of the day's budget.
type Stats struct {
	Date        string  `json:"date"`
	Used        int     `json:"used"`
	Limit       int     `json:"limit"`
	Remaining   int     `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
}

type state struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Governor tracks live external calls against a hard daily quota. The
// in-process mutex makes counter updates atomic across goroutines; the
// file lock extends that to other cardhound processes sharing the state
// file.
type Governor struct {
	quota  int
	path   string
	lock   *flock.Flock
	logger *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// Option customises Governor construction.
type Option func(*Governor)

// WithClock overrides the clock (used in tests for day rollover).
func WithClock(now func() time.Time) Option {
	return func(g *Governor) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a Governor persisting state to path.
func New(quota int, path string, logger *slog.Logger, opts ...Option) *Governor {
	g := &Governor{
		quota:  quota,
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "ratelimit"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CanProceed reports whether a live call is allowed. At or above 90% of
// quota the call is still allowed but the message carries a warning; at or
// above 100% it is refused.
func (g *Governor) CanProceed() (bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	current := g.currentState()

	if current.Count >= g.quota {
		return false, fmt.Sprintf("daily limit of %d API calls reached", g.quota)
	}
	if float64(current.Count) >= float64(g.quota)*warningThreshold {
		remaining := g.quota - current.Count
		return true, fmt.Sprintf("warning: only %d API calls remaining today", remaining)
	}
	return true, fmt.Sprintf("OK (%d/%d calls today)", current.Count, g.quota)
}

// Record counts one live call. Cache hits are never recorded. The file
// lock is held across the read-increment-write so concurrent processes
// cannot lose increments.
func (g *Governor) Record() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.lock.Lock(); err != nil {
		return fmt.Errorf("acquire rate lock: %w", err)
	}
	defer func() { _ = g.lock.Unlock() }()

	current, err := g.loadLocked()
	if err != nil {
		current = g.freshState()
	}
	current.Count++
	return g.saveLocked(current)
}

// Stats returns the current budget snapshot.
func (g *Governor) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	current := g.currentState()
	remaining := g.quota - current.Count
	if remaining < 0 {
		remaining = 0
	}
	percent := 0.0
	if g.quota > 0 {
		percent = float64(current.Count) / float64(g.quota) * 100
	}
	return Stats{
		Date:        current.Date,
		Used:        current.Count,
		Limit:       g.quota,
		Remaining:   remaining,
		PercentUsed: percent,
	}
}

// Reset zeroes the counter. Admin action; normal resets happen at the day
// boundary.
func (g *Governor) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.lock.Lock(); err != nil {
		return fmt.Errorf("acquire rate lock: %w", err)
	}
	defer func() { _ = g.lock.Unlock() }()
	return g.saveLocked(g.freshState())
}

// currentState reads today's state under the file lock, falling back to a
// fresh day when the file cannot be locked or read.
func (g *Governor) currentState() state {
	if err := g.lock.Lock(); err != nil {
		g.logger.Warn("failed to lock rate state, assuming fresh day", logging.Error(err))
		return g.freshState()
	}
	defer func() { _ = g.lock.Unlock() }()

	current, err := g.loadLocked()
	if err != nil {
		g.logger.Warn("failed to load rate state, assuming fresh day", logging.Error(err))
		return g.freshState()
	}
	return current
}

func (g *Governor) freshState() state {
	return state{Date: g.today()}
}

func (g *Governor) today() string {
	return g.now().Format("2006-01-02")
}

// loadLocked reads the state file. The caller holds both the mutex and
// the file lock. A state from a previous day is discarded.
func (g *Governor) loadLocked() (state, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return g.freshState(), nil
		}
		return state{}, fmt.Errorf("read rate state: %w", err)
	}

	var current state
	if err := json.Unmarshal(data, &current); err != nil {
		return state{}, fmt.Errorf("parse rate state: %w", err)
	}
	if current.Date != g.today() {
		return g.freshState(), nil
	}
	return current, nil
}

// saveLocked writes the state file atomically. The caller holds both the
// mutex and the file lock.
func (g *Governor) saveLocked(current state) error {
	data, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal rate state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmpPath := g.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := os.Rename(tmpPath, g.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp state: %w", err)
	}
	return nil
}

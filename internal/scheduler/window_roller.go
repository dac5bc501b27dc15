package scheduler

import (
	"context"
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

// DefaultRollInterval is how often histories are checked for a day change.
const DefaultRollInterval = time.Hour

// Roller shifts click histories onto the window ending today.
type Roller interface {
	RollWindow(ctx context.Context, today time.Time) (int, error)
}

// WindowRoller keeps every link's history a trailing window ending today,
// so the dashboard shows zero-click days instead of stale ones.
type WindowRoller struct {
	store    Roller
	logger   logger.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// NewWindowRoller creates a new window roller
func NewWindowRoller(store Roller, log logger.Logger, interval time.Duration, now func() time.Time) *WindowRoller {
	if interval <= 0 {
		interval = DefaultRollInterval
	}
	if now == nil {
		now = time.Now
	}

	return &WindowRoller{
		store:    store,
		logger:   log,
		interval: interval,
		now:      now,
		stopCh:   make(chan struct{}),
	}
}

// Start rolls once, then periodically until Stop or ctx is done
func (wr *WindowRoller) Start(ctx context.Context) {
	if err := wr.Roll(ctx); err != nil {
		wr.logger.Warn("initial window roll failed", logger.Error(err))
	}

	ticker := time.NewTicker(wr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := wr.Roll(ctx); err != nil {
					wr.logger.Error("window roll failed", logger.Error(err))
				}
			case <-wr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the roller
func (wr *WindowRoller) Stop() {
	close(wr.stopCh)
}

// Roll aligns histories on the current day
func (wr *WindowRoller) Roll(ctx context.Context) error {
	changed, err := wr.store.RollWindow(ctx, wr.now())
	if changed > 0 {
		wr.logger.Info("click histories rolled", logger.Int("links", changed))
	} else {
		wr.logger.Debug("click histories already current")
	}
	return err
}

package scheduler

import (
	"context"
	"errors"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store"
)

// Loader rehydrates the link collection from its snapshot.
type Loader interface {
	Load(ctx context.Context) error
	Count() int
}

// SnapshotReloader reloads the collection each time the trigger fires.
// The trigger is buffered by the caller; a full buffer means a reload is
// already pending.
type SnapshotReloader struct {
	store   Loader
	logger  logger.Logger
	trigger chan struct{}
	stopCh  chan struct{}
	done    chan struct{}
}

// NewSnapshotReloader creates a new reloader listening on trigger
func NewSnapshotReloader(s Loader, log logger.Logger, trigger chan struct{}) *SnapshotReloader {
	return &SnapshotReloader{
		store:   s,
		logger:  log,
		trigger: trigger,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start listens for triggers until Stop or ctx is done
func (sr *SnapshotReloader) Start(ctx context.Context) {
	go func() {
		defer close(sr.done)
		for {
			select {
			case <-sr.trigger:
				sr.logger.Info("manual reload triggered")
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload links", logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reloader and waits for an in-flight reload
func (sr *SnapshotReloader) Stop() {
	close(sr.stopCh)
	<-sr.done
}

// Reload reads the snapshot into memory. An empty slot keeps the current
// collection.
func (sr *SnapshotReloader) Reload(ctx context.Context) error {
	err := sr.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		sr.logger.Warn("no snapshot to reload, keeping current links",
			logger.Int("count", sr.store.Count()))
		return nil
	}
	if err != nil {
		return err
	}

	sr.logger.Info("links reloaded from snapshot",
		logger.Int("count", sr.store.Count()))
	return nil
}

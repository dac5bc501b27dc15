package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store"
)

type fakeRoller struct {
	mu    sync.Mutex
	days  []time.Time
	err   error
	moved int
}

func (f *fakeRoller) RollWindow(_ context.Context, today time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, today)
	return f.moved, f.err
}

func (f *fakeRoller) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.days)
}

func TestWindowRoller_Roll(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC)
	roller := &fakeRoller{moved: 3}
	wr := NewWindowRoller(roller, logger.New("error", false), time.Hour, func() time.Time { return now })

	if err := wr.Roll(context.Background()); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if len(roller.days) != 1 || !roller.days[0].Equal(now) {
		t.Errorf("RollWindow called with %v, want [%v]", roller.days, now)
	}

	roller.err = errors.New("persist failed")
	if err := wr.Roll(context.Background()); err == nil {
		t.Error("Roll should surface store errors")
	}
}

func TestWindowRoller_StartRollsImmediatelyAndPeriodically(t *testing.T) {
	roller := &fakeRoller{}
	wr := NewWindowRoller(roller, logger.NewNop(), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wr.Start(ctx)
	if roller.calls() < 1 {
		t.Fatal("Start should roll immediately")
	}

	deadline := time.Now().Add(2 * time.Second)
	for roller.calls() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	wr.Stop()

	if roller.calls() < 3 {
		t.Errorf("expected periodic rolls, got %d", roller.calls())
	}
}

func TestNewWindowRoller_DefaultInterval(t *testing.T) {
	wr := NewWindowRoller(&fakeRoller{}, logger.NewNop(), 0, nil)
	if wr.interval != DefaultRollInterval {
		t.Errorf("interval = %v, want %v", wr.interval, DefaultRollInterval)
	}
}

type fakeLoader struct {
	mu    sync.Mutex
	loads int
	err   error
}

func (f *fakeLoader) Load(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.err
}

func (f *fakeLoader) Count() int { return 2 }

func (f *fakeLoader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func TestSnapshotReloader_Trigger(t *testing.T) {
	loader := &fakeLoader{}
	trigger := make(chan struct{}, 1)
	sr := NewSnapshotReloader(loader, logger.NewNop(), trigger)

	sr.Start(context.Background())
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for loader.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	sr.Stop()

	if loader.count() != 1 {
		t.Errorf("loads = %d, want 1", loader.count())
	}
}

func TestSnapshotReloader_Reload(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "loaded", err: nil, wantErr: false},
		{name: "empty slot keeps links", err: store.ErrNotFound, wantErr: false},
		{name: "read failure", err: errors.New("connection reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := NewSnapshotReloader(&fakeLoader{err: tt.err}, logger.NewNop(), nil)
			err := sr.Reload(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Reload() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// Package links owns the link collection: the persisted store and the
// operations the dashboard performs on it.
package links

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/index"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store"
)

// DefaultSnapshotKey is the slot holding the JSON array of links.
const DefaultSnapshotKey = "linkpulse_links"

var (
	// ErrPersist wraps snapshot write failures. The in-memory change is kept.
	ErrPersist = errors.New("failed to persist links")
	// ErrNotFound is returned when an id is unknown.
	ErrNotFound = errors.New("link not found")
	// ErrCorruptSnapshot is returned when the slot holds undecodable data.
	ErrCorruptSnapshot = errors.New("corrupt links snapshot")
)

// CorruptSuffix is appended to the slot key to keep an undecodable snapshot.
const CorruptSuffix = ".corrupt"

// SeedFunc returns the initial collection used when the slot is empty.
type SeedFunc func(ctx context.Context, today time.Time) ([]domain.Link, error)

type Options struct {
	Key    string   // defaults to DefaultSnapshotKey
	Seed   SeedFunc // nil starts empty
	Clock  func() time.Time
	Logger logger.Logger
}

// Store is the link collection mirrored to a KV slot.
//
// Reads go to the in-memory index and never block on I/O. Mutations are
// serialised by writeMu so that each snapshot is the result of a complete
// sequence of mutations.
type Store struct {
	kv     store.KV
	key    string
	seed   SeedFunc
	now    func() time.Time
	logger logger.Logger

	idx     *index.MemoryIndex
	writeMu sync.Mutex

	mu       sync.RWMutex
	loaded   bool
	lastSave time.Time
}

// Open creates the store and performs load-or-seed. A slot read error is
// fatal; failing to persist the seed is only logged. An undecodable snapshot
// is copied to key+CorruptSuffix and replaced by the seed; if that copy
// cannot be written, Open fails rather than overwrite the only copy.
func Open(ctx context.Context, kv store.KV, opts Options) (*Store, error) {
	s := &Store{
		kv:     kv,
		key:    opts.Key,
		seed:   opts.Seed,
		now:    opts.Clock,
		logger: opts.Logger,
		idx:    index.NewMemoryIndex(),
	}
	if s.key == "" {
		s.key = DefaultSnapshotKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}

	switch err := s.Load(ctx); {
	case err == nil:
		return s, nil
	case errors.Is(err, ErrCorruptSnapshot):
		if err := s.quarantine(ctx, err); err != nil {
			return nil, err
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	var initial []domain.Link
	if s.seed != nil {
		seeded, err := s.seed(ctx, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to seed links: %w", err)
		}
		initial = seeded
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.idx.ReplaceAll(initial)
	s.markLoaded()
	s.logger.Info("link store seeded",
		logger.String("backend", kv.Name()),
		logger.Int("links", len(initial)))

	if err := s.persistLocked(ctx); err != nil {
		s.logger.Warn("failed to persist seed", logger.Error(err))
	}
	return s, nil
}

// quarantine keeps the undecodable payload next to the slot.
func (s *Store) quarantine(ctx context.Context, cause error) error {
	backup := s.key + CorruptSuffix
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to read corrupt snapshot: %w", err)
	}
	if err := s.kv.Put(ctx, backup, data); err != nil {
		return fmt.Errorf("failed to keep corrupt snapshot under %s: %w", backup, err)
	}
	s.logger.Error("corrupt links snapshot moved aside, reseeding",
		logger.String("backend", s.kv.Name()),
		logger.String("backup_key", backup),
		logger.Int("bytes", len(data)),
		logger.Error(cause))
	return nil
}

// Load replaces the in-memory collection with the slot's snapshot.
// It returns store.ErrNotFound when the slot is empty.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	links, err := Decode(data)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.idx.ReplaceAll(links)
	s.markLoaded()
	s.logger.Info("link store loaded",
		logger.String("backend", s.kv.Name()),
		logger.Int("links", len(links)))
	return nil
}

// Save writes the full collection to the slot.
func (s *Store) Save(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.persistLocked(ctx)
}

// Insert places link at position 0 and persists.
func (s *Store) Insert(ctx context.Context, link domain.Link) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.idx.Prepend(link)
	return s.persistLocked(ctx)
}

// Delete removes the link with id. Unknown ids change nothing and skip the
// write.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.idx.Remove(id) {
		return false, nil
	}
	return true, s.persistLocked(ctx)
}

// RecordVisit counts one click on the link at now.
func (s *Store) RecordVisit(ctx context.Context, id string, now time.Time) (domain.Link, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	link, ok := s.idx.Update(id, func(l *domain.Link) { l.Analytics.RecordClick(now) })
	if !ok {
		return domain.Link{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return link, s.persistLocked(ctx)
}

// RollWindow shifts every history so it ends at today. It persists only when
// some history moved and returns the number of links changed.
func (s *Store) RollWindow(ctx context.Context, today time.Time) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	changed := s.idx.UpdateAll(func(l *domain.Link) bool {
		n := len(l.Analytics.History)
		if n == 0 {
			n = domain.HistoryDays
		}
		rolled, moved := domain.RollHistory(l.Analytics.History, today, n)
		l.Analytics.History = rolled
		return moved
	})
	if changed == 0 {
		return 0, nil
	}
	return changed, s.persistLocked(ctx)
}

// Query returns, in order, the links matching term. An empty term returns
// everything.
func (s *Store) Query(term string) []domain.Link {
	return s.idx.Filter(func(l domain.Link) bool { return l.Matches(term) })
}

func (s *Store) All() []domain.Link {
	return s.idx.All()
}

func (s *Store) Get(id string) (domain.Link, bool) {
	return s.idx.Get(id)
}

func (s *Store) Count() int {
	return s.idx.Count()
}

// Backend names the KV slot implementation.
func (s *Store) Backend() string { return s.kv.Name() }

// Ping checks that the slot is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

// Loaded reports whether the collection has been loaded or seeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LastReload is when the collection was last replaced from the slot or seed.
func (s *Store) LastReload() time.Time { return s.idx.GetLastReload() }

// LastSave is the time of the last successful snapshot write.
func (s *Store) LastSave() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSave
}

func (s *Store) markLoaded() {
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
}

// persistLocked must be called with writeMu held.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := Encode(s.idx.All())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to persist links",
			logger.String("backend", s.kv.Name()),
			logger.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.mu.Lock()
	s.lastSave = s.now()
	s.mu.Unlock()
	return nil
}

// Encode renders the snapshot format: a JSON array of links, in order.
func Encode(links []domain.Link) ([]byte, error) {
	if links == nil {
		links = []domain.Link{}
	}
	return json.Marshal(links)
}

// Decode parses a snapshot written by Encode.
func Decode(data []byte) ([]domain.Link, error) {
	var links []domain.Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return links, nil
}

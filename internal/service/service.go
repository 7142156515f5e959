package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"restoledger/backend/internal/cache"
	"restoledger/backend/internal/domain"
	"restoledger/backend/internal/metrics"
	"restoledger/backend/internal/store"
	"restoledger/backend/internal/suggest"
)

var ErrForbidden = errors.New("manager role required")

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

func requireManager(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleManager {
		return ErrForbidden
	}
	return nil
}

type Config struct {
	Views       cache.ViewCache
	ViewTTL     time.Duration
	Suggester   suggest.Suggester
	Clock       func() time.Time
	ViewOptions domain.ViewOptions
}

type memoKey struct {
	version      uint64
	outlet       string
	opts         domain.ViewOptions
	hour         int64
	campaignDays int
}

// Service owns the current snapshot. Every mutation writes through the
// repository, then replaces the snapshot with a full reload before returning,
// so views are never computed from a mix of old and new records.
type Service struct {
	repo      store.Repository
	views     cache.ViewCache
	viewTTL   time.Duration
	suggester suggest.Suggester
	now       func() time.Time
	defaults  domain.ViewOptions

	// writeMu serializes write-then-reload cycles.
	writeMu sync.Mutex

	mu          sync.RWMutex
	snapshot    *domain.Snapshot
	fingerprint string
	version     uint64
	memo        map[memoKey]*domain.View
	read        map[string]struct{}
	selected    string
}

func New(repo store.Repository, cfg Config) *Service {
	if cfg.Views == nil {
		cfg.Views = cache.NoopViewCache{}
	}
	if cfg.ViewTTL <= 0 {
		cfg.ViewTTL = 10 * time.Minute
	}
	if cfg.Suggester == nil {
		cfg.Suggester = suggest.Static{}
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		repo:      repo,
		views:     cfg.Views,
		viewTTL:   cfg.ViewTTL,
		suggester: cfg.Suggester,
		now:       cfg.Clock,
		defaults:  metrics.NormalizeOptions(cfg.ViewOptions),
		memo:      make(map[memoKey]*domain.View),
		read:      make(map[string]struct{}),
	}
}

// Reload replaces the snapshot with a fresh read of every entity.
func (s *Service) Reload(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Service) reloadLocked(ctx context.Context) error {
	snap, err := store.LoadSnapshot(ctx, s.repo)
	if err != nil {
		return err
	}
	snap.LoadedAt = s.now()

	fingerprint, err := cache.Fingerprint(snap)
	if err != nil {
		log.Printf("[service] WARN: snapshot fingerprint failed: %v", err)
		fingerprint = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	snap.Version = s.version
	s.snapshot = snap
	s.fingerprint = fingerprint
	s.memo = make(map[memoKey]*domain.View)

	if !hasOutlet(snap, s.selected) {
		s.selected = ""
		if len(snap.Outlets) > 0 {
			s.selected = snap.Outlets[0].ID
		}
	}
	return nil
}

// mutate runs one store write and, when it succeeds, reloads the snapshot.
// A failed reload after a successful write is reported; the next mutation or
// Reload picks up the committed state.
func (s *Service) mutate(ctx context.Context, write func(snap *domain.Snapshot) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.currentLocked(ctx)
	if err != nil {
		return err
	}
	if err := write(snap); err != nil {
		return err
	}
	return s.reloadLocked(ctx)
}

// guarded is mutate for writes that may be refused by a referential guard.
// A refusal skips the write and the reload.
func (s *Service) guarded(ctx context.Context, check func(snap *domain.Snapshot) (domain.GuardResult, error), write func() error) (domain.GuardResult, error) {
	var result domain.GuardResult
	err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		var err error
		if result, err = check(snap); err != nil {
			return err
		}
		if !result.Success {
			return errGuardRefused
		}
		return write()
	})
	if errors.Is(err, errGuardRefused) {
		return result, nil
	}
	if err != nil {
		return domain.GuardResult{}, err
	}
	return result, nil
}

var errGuardRefused = errors.New("guard refused")

// currentLocked returns the snapshot, loading it on first use. The caller
// holds writeMu.
func (s *Service) currentLocked(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	if err := s.reloadLocked(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

// Snapshot returns the current snapshot, loading it on first use. Callers
// must treat it as read-only.
func (s *Service) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.currentLocked(ctx)
}

func (s *Service) SelectedOutlet(ctx context.Context) (string, error) {
	if _, err := s.Snapshot(ctx); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, nil
}

func (s *Service) SelectOutlet(ctx context.Context, outletID string) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !hasOutlet(snap, outletID) {
		return store.ErrNotFound
	}
	s.mu.Lock()
	s.selected = outletID
	s.mu.Unlock()
	return nil
}

// resolveOutlet maps an empty outlet id to the selected outlet.
func (s *Service) resolveOutlet(ctx context.Context, outletID string) (*domain.Snapshot, string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, "", err
	}
	if outletID == "" {
		s.mu.RLock()
		outletID = s.selected
		s.mu.RUnlock()
	}
	if !hasOutlet(snap, outletID) {
		return nil, "", store.ErrNotFound
	}
	return snap, outletID, nil
}

func hasOutlet(snap *domain.Snapshot, outletID string) bool {
	if snap == nil || outletID == "" {
		return false
	}
	for _, outlet := range snap.Outlets {
		if outlet.ID == outletID {
			return true
		}
	}
	return false
}

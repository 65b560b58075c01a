package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const detailCacheSize = 256

// WorkflowService serves the workflow catalog and owns the synchronizer
type WorkflowService struct {
	store    *Store
	syncer   *Synchronizer
	cache    *lru.Cache[string, *Workflow]
	interval time.Duration
	wg       sync.WaitGroup

	// cacheMu orders cache fills against purges; cacheGen moves on every purge
	cacheMu  sync.Mutex
	cacheGen uint64
}

func NewWorkflowService(cfg *SyncConfig, store *Store, remote RemoteSource, opts ...SyncOption) (*WorkflowService, error) {
	syncer, err := NewSynchronizer(cfg, remote, store, opts...)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[string, *Workflow](detailCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create workflow cache: %w", err)
	}

	return &WorkflowService{
		store:    store,
		syncer:   syncer,
		cache:    cache,
		interval: cfg.Interval,
	}, nil
}

// Start schedules periodic syncs when an interval is configured
func (s *WorkflowService) Start(ctx context.Context) error {
	slog.Debug("workflow service start", "interval", s.interval)
	if s.interval <= 0 {
		return nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Debug("workflow scheduler stopped")
				return
			case <-ticker.C:
				if _, err := s.Sync(ctx); errors.Is(err, ErrSyncInProgress) {
					slog.Info("scheduled workflow sync skipped", "reason", err)
				} else if err != nil {
					slog.Error("scheduled workflow sync", "error", err)
				}
			}
		}
	}()

	return nil
}

// Shutdown waits for the scheduler to exit. The context passed to Start must
// be cancelled first.
func (s *WorkflowService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Debug("workflow service shutdown")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *WorkflowService) List(ctx context.Context, params ListParams) (*ListResult, error) {
	return s.store.List(ctx, params)
}

// Get returns a workflow by id, served from cache when possible
func (s *WorkflowService) Get(ctx context.Context, id string) (*Workflow, error) {
	if w, ok := s.cache.Get(id); ok {
		return w, nil
	}

	w, gen, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.remember(id, w, gen)
	return w, nil
}

// load reads a workflow from the store along with the cache generation seen
// before the read
func (s *WorkflowService) load(ctx context.Context, id string) (*Workflow, uint64, error) {
	s.cacheMu.Lock()
	gen := s.cacheGen
	s.cacheMu.Unlock()

	w, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return w, gen, nil
}

// remember caches w unless a purge happened since it was read
func (s *WorkflowService) remember(id string, w *Workflow, gen uint64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if gen != s.cacheGen {
		return
	}
	s.cache.Add(id, w)
}

func (s *WorkflowService) purge() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cacheGen++
	s.cache.Purge()
}

// Sync runs the synchronizer and drops cached details if anything changed
func (s *WorkflowService) Sync(ctx context.Context) (*SyncOutcome, error) {
	outcome, err := s.syncer.Sync(ctx)
	if outcome != nil && outcome.Changed() {
		s.purge()
	}
	return outcome, err
}

// Syncing reports whether a sync run is in progress
func (s *WorkflowService) Syncing() bool {
	return s.syncer.Running()
}

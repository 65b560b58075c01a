package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// Synchronizer mirrors the workflow files of a remote repository into the
// local store. Unchanged files (same content hash) are never downloaded, and
// a failure on one file never stops the others.
type Synchronizer struct {
	cfg      *SyncConfig
	remote   RemoteSource
	store    RecordStore
	logger   *slog.Logger
	progress ProgressFunc
	running  atomic.Bool
}

type SyncOption func(*Synchronizer)

// WithProgress registers a callback invoked after every processed entry
func WithProgress(fn ProgressFunc) SyncOption {
	return func(s *Synchronizer) {
		s.progress = fn
	}
}

// WithLogger sets the logger used for run summaries
func WithLogger(logger *slog.Logger) SyncOption {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

func NewSynchronizer(cfg *SyncConfig, remote RemoteSource, store RecordStore, opts ...SyncOption) (*Synchronizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sync config: %w", err)
	}

	s := &Synchronizer{
		cfg:    cfg,
		remote: remote,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Running reports whether a run is in progress
func (s *Synchronizer) Running() bool {
	return s.running.Load()
}

// Sync runs one synchronization. A tree listing failure returns a *FetchError
// and no outcome. Overlapping calls fail with ErrSyncInProgress. If ctx ends
// mid-run, the partial outcome is returned together with the context error.
func (s *Synchronizer) Sync(ctx context.Context) (*SyncOutcome, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	outcome := &SyncOutcome{
		Errors:    []SyncError{},
		StartedAt: time.Now().UTC(),
	}

	s.logger.Info("sync start", "owner", s.cfg.Owner, "repo", s.cfg.Repo, "branch", s.cfg.Branch)

	entries, err := s.remote.ListFiles(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Branch)
	if err != nil {
		s.logger.Error("sync fetch tree", "error", err)
		return nil, &FetchError{Owner: s.cfg.Owner, Repo: s.cfg.Repo, Branch: s.cfg.Branch, Err: err}
	}

	files := make([]RemoteFileEntry, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Path, s.cfg.Extension) {
			files = append(files, e)
		}
	}
	s.logger.Info("sync tree", "entries", len(entries), "files", len(files))

	window := s.cfg.Concurrency
	for start := 0; start < len(files); start += window {
		if err := ctx.Err(); err != nil {
			outcome.FinishedAt = time.Now().UTC()
			return outcome, fmt.Errorf("sync interrupted: %w", err)
		}
		end := min(start+window, len(files))
		s.processBatch(ctx, files[start:end], start, len(files), outcome)
	}

	if s.cfg.Prune {
		s.prune(ctx, files, outcome)
	}

	outcome.FinishedAt = time.Now().UTC()
	s.logger.Info("sync complete",
		"added", outcome.Added,
		"updated", outcome.Updated,
		"skipped", outcome.Skipped,
		"deleted", outcome.Deleted,
		"errors", len(outcome.Errors),
		"took", outcome.FinishedAt.Sub(outcome.StartedAt),
	)
	return outcome, nil
}

// pending is the state of one entry while its batch is processed
type pending struct {
	entry    RemoteFileEntry
	existing *Workflow
	record   *Workflow
	skip     bool
	err      error
}

// processBatch classifies entries in order, downloads candidates with at most
// len(batch) requests in flight, then writes and counts strictly in order.
func (s *Synchronizer) processBatch(ctx context.Context, batch []RemoteFileEntry, offset, total int, outcome *SyncOutcome) {
	items := make([]*pending, len(batch))

	for i, entry := range batch {
		item := &pending{entry: entry}
		items[i] = item

		existing, err := s.store.FindByPath(ctx, entry.Path)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			item.err = err
		case existing.ContentHash == entry.Hash:
			item.skip = true
		default:
			item.existing = existing
		}
	}

	var g errgroup.Group
	for _, item := range items {
		if item.skip || item.err != nil {
			continue
		}
		g.Go(func() error {
			item.record, item.err = s.buildRecord(ctx, item.entry)
			return nil
		})
	}
	_ = g.Wait()

	for i, item := range items {
		result := s.apply(ctx, item, outcome)
		s.report(offset+i+1, total, item, result)
	}
}

// buildRecord downloads one file and derives its catalog fields
func (s *Synchronizer) buildRecord(ctx context.Context, entry RemoteFileEntry) (*Workflow, error) {
	content, err := s.remote.FetchContent(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Branch, entry.Path)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}

	nodeTypes, err := ExtractNodeTypes(content, s.cfg.NodeTypePrefix)
	if err != nil {
		return nil, err
	}

	return &Workflow{
		FilePath:      entry.Path,
		Name:          DeriveName(entry.Path, s.cfg.Extension),
		RawContent:    json.RawMessage(content),
		NodeTypeNames: nodeTypes,
		SourceURL:     s.cfg.SourceURL(entry.Path),
		ContentHash:   entry.Hash,
	}, nil
}

func (s *Synchronizer) apply(ctx context.Context, item *pending, outcome *SyncOutcome) EntryResult {
	if item.skip {
		outcome.Skipped++
		return EntrySkipped
	}

	if item.err == nil {
		_, item.err = s.store.Upsert(ctx, item.record)
	}

	if item.err != nil {
		s.logger.Warn("sync file failed", "path", item.entry.Path, "error", item.err)
		outcome.Errors = append(outcome.Errors, SyncError{Path: item.entry.Path, Message: item.err.Error()})
		return EntryFailed
	}

	if item.existing != nil {
		outcome.Updated++
		return EntryUpdated
	}
	outcome.Added++
	return EntryAdded
}

func (s *Synchronizer) report(processed, total int, item *pending, result EntryResult) {
	if processed%progressPeriod == 0 {
		s.logger.Info("sync progress", "processed", processed, "total", total)
	}
	if s.progress != nil {
		s.progress(SyncProgress{
			Processed: processed,
			Total:     total,
			Path:      item.entry.Path,
			Result:    result,
			Err:       item.err,
		})
	}
}

// prune deletes stored workflows whose path is absent from the remote listing
func (s *Synchronizer) prune(ctx context.Context, files []RemoteFileEntry, outcome *SyncOutcome) {
	remote := mapset.NewThreadUnsafeSetWithSize[string](len(files))
	for _, f := range files {
		remote.Add(f.Path)
	}

	paths, err := s.store.ListPaths(ctx)
	if err != nil {
		outcome.Errors = append(outcome.Errors, SyncError{Message: fmt.Sprintf("prune: %s", err)})
		return
	}

	stale := make([]string, 0)
	for _, path := range paths {
		if !remote.Contains(path) {
			stale = append(stale, path)
		}
	}

	// deletions continue the entry count so progress never goes backwards
	total := len(files) + len(stale)
	for i, path := range stale {
		result := EntryDeleted
		err := s.store.DeleteByPath(ctx, path)
		if err != nil && !errors.Is(err, ErrNotFound) {
			outcome.Errors = append(outcome.Errors, SyncError{Path: path, Message: err.Error()})
			result = EntryFailed
		} else {
			err = nil
			outcome.Deleted++
			s.logger.Debug("sync pruned", "path", path)
		}
		if s.progress != nil {
			s.progress(SyncProgress{
				Processed: len(files) + i + 1,
				Total:     total,
				Path:      path,
				Result:    result,
				Err:       err,
			})
		}
	}
}

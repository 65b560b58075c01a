package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultOwner          = "Zie619"
	DefaultRepo           = "n8n-workflows"
	DefaultBranch         = "main"
	DefaultExtension      = ".json"
	DefaultNodeTypePrefix = "n8n-nodes-base."
	DefaultConcurrency    = 1
	MaxConcurrency        = 16

	sourceWebURL   = "https://github.com"
	progressPeriod = 50
)

var (
	ErrSyncInProgress = errors.New("workflow sync already in progress")
)

// SyncConfig identifies the remote repository and tunes a sync run
type SyncConfig struct {
	Owner          string        `mapstructure:"owner"`
	Repo           string        `mapstructure:"repo"`
	Branch         string        `mapstructure:"branch"`
	Extension      string        `mapstructure:"extension"`
	NodeTypePrefix string        `mapstructure:"node_type_prefix"`
	Concurrency    int           `mapstructure:"concurrency"`
	Prune          bool          `mapstructure:"prune"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Interval       time.Duration `mapstructure:"interval"`
}

func (c *SyncConfig) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("owner required")
	}
	if c.Repo == "" {
		return fmt.Errorf("repo required")
	}
	if c.Branch == "" {
		return fmt.Errorf("branch required")
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.NodeTypePrefix == "" {
		c.NodeTypePrefix = DefaultNodeTypePrefix
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be at most %d", MaxConcurrency)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative")
	}
	return nil
}

// SourceURL is the browsable location of path in the configured repository
func (c *SyncConfig) SourceURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/blob/%s/%s", sourceWebURL, c.Owner, c.Repo, c.Branch, path)
}

// RemoteFileEntry is one file of the remote tree at fetch time
type RemoteFileEntry struct {
	Path string
	Hash string
}

// RemoteSource lists and downloads files of a remote repository
type RemoteSource interface {
	ListFiles(ctx context.Context, owner, repo, branch string) ([]RemoteFileEntry, error)
	FetchContent(ctx context.Context, owner, repo, branch, path string) ([]byte, error)
}

// RecordStore is the part of the workflow store the synchronizer writes to
type RecordStore interface {
	FindByPath(ctx context.Context, path string) (*Workflow, error)
	Upsert(ctx context.Context, w *Workflow) (*Workflow, error)
	ListPaths(ctx context.Context) ([]string, error)
	DeleteByPath(ctx context.Context, path string) error
}

// FetchError means the remote tree could not be listed. Nothing was written.
type FetchError struct {
	Owner  string
	Repo   string
	Branch string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch tree %s/%s@%s: %v", e.Owner, e.Repo, e.Branch, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type SyncError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SyncOutcome is the result of a single run
type SyncOutcome struct {
	Added      int         `json:"added"`
	Updated    int         `json:"updated"`
	Skipped    int         `json:"skipped"`
	Deleted    int         `json:"deleted"`
	Errors     []SyncError `json:"errors"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
}

// Changed reports whether the run wrote anything
func (o *SyncOutcome) Changed() bool {
	return o.Added+o.Updated+o.Deleted > 0
}

type EntryResult string

const (
	EntryAdded   EntryResult = "added"
	EntryUpdated EntryResult = "updated"
	EntrySkipped EntryResult = "skipped"
	EntryFailed  EntryResult = "failed"
	EntryDeleted EntryResult = "deleted"
)

// SyncProgress is reported after each entry of a run
type SyncProgress struct {
	Processed int
	Total     int
	Path      string
	Result    EntryResult
	Err       error
}

type ProgressFunc func(SyncProgress)

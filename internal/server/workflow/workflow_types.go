package workflow

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
)

var (
	ErrNotFound = errors.New("workflow not found")
)

// Workflow is a synced workflow definition. JSON names follow the catalog API
// consumed by the frontend.
type Workflow struct {
	ID            string          `json:"_id"`
	FilePath      string          `json:"filePath"`
	Name          string          `json:"name"`
	RawContent    json.RawMessage `json:"json,omitempty"`
	NodeTypeNames []string        `json:"nodes"`
	SourceURL     string          `json:"githubUrl"`
	ContentHash   string          `json:"sha,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Summary is the list view of a workflow, without the raw document
type Summary struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	NodeTypeNames []string  `json:"nodes"`
	SourceURL     string    `json:"githubUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ListParams struct {
	Page   int
	Limit  int
	Search string
}

type ListResult struct {
	Workflows      []*Summary `json:"workflows"`
	CurrentPage    int        `json:"currentPage"`
	TotalPages     int        `json:"totalPages"`
	TotalWorkflows int        `json:"totalWorkflows"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// normalize clamps paging values to sane bounds
func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

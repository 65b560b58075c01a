package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gensquad/talentbase/internal/db"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const workflowColumns = `id, file_path, name, raw_content, node_types, source_url, content_hash, created_at, updated_at`

const upsertSQL = `
INSERT INTO workflows (` + workflowColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(file_path) DO UPDATE SET
	name = excluded.name,
	raw_content = excluded.raw_content,
	node_types = excluded.node_types,
	source_url = excluded.source_url,
	content_hash = excluded.content_hash,
	updated_at = excluded.updated_at
RETURNING ` + workflowColumns

// matches name or any node type, case-insensitively for ASCII
const searchFilter = `
WHERE (? = ''
	OR name LIKE ? ESCAPE '\'
	OR EXISTS (SELECT 1 FROM json_each(workflows.node_types) WHERE json_each.value LIKE ? ESCAPE '\'))`

type workflowRow struct {
	ID          string `db:"id"`
	FilePath    string `db:"file_path"`
	Name        string `db:"name"`
	RawContent  string `db:"raw_content"`
	NodeTypes   string `db:"node_types"`
	SourceURL   string `db:"source_url"`
	ContentHash string `db:"content_hash"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r *workflowRow) nodeTypes() []string {
	types := []string{}
	if r.NodeTypes != "" {
		_ = json.Unmarshal([]byte(r.NodeTypes), &types)
	}
	return types
}

func (r *workflowRow) toWorkflow() *Workflow {
	return &Workflow{
		ID:            r.ID,
		FilePath:      r.FilePath,
		Name:          r.Name,
		RawContent:    json.RawMessage(r.RawContent),
		NodeTypeNames: r.nodeTypes(),
		SourceURL:     r.SourceURL,
		ContentHash:   r.ContentHash,
		CreatedAt:     db.ParseTime(r.CreatedAt),
		UpdatedAt:     db.ParseTime(r.UpdatedAt),
	}
}

func (r *workflowRow) toSummary() *Summary {
	return &Summary{
		ID:            r.ID,
		Name:          r.Name,
		NodeTypeNames: r.nodeTypes(),
		SourceURL:     r.SourceURL,
		CreatedAt:     db.ParseTime(r.CreatedAt),
	}
}

// Store persists workflows in SQLite, keyed by file path
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// FindByPath returns the workflow stored for path or ErrNotFound
func (s *Store) FindByPath(ctx context.Context, path string) (*Workflow, error) {
	var row workflowRow
	err := s.db.GetContext(ctx, &row, "SELECT "+workflowColumns+" FROM workflows WHERE file_path = ?", path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("find workflow %q: %w", path, err)
	}
	return row.toWorkflow(), nil
}

// GetByID returns the workflow with the given id or ErrNotFound
func (s *Store) GetByID(ctx context.Context, id string) (*Workflow, error) {
	var row workflowRow
	err := s.db.GetContext(ctx, &row, "SELECT "+workflowColumns+" FROM workflows WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get workflow %q: %w", id, err)
	}
	return row.toWorkflow(), nil
}

// Upsert inserts w or overwrites every mutable field of the record with the
// same file path. ID and CreatedAt of an existing record are kept.
func (s *Store) Upsert(ctx context.Context, w *Workflow) (*Workflow, error) {
	nodeTypes := w.NodeTypeNames
	if nodeTypes == nil {
		nodeTypes = []string{}
	}
	nodeTypesJSON, err := json.Marshal(nodeTypes)
	if err != nil {
		return nil, fmt.Errorf("marshal node types: %w", err)
	}

	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := db.FormatTime(s.now())

	var row workflowRow
	err = s.db.QueryRowxContext(ctx, upsertSQL,
		id, w.FilePath, w.Name, string(w.RawContent), string(nodeTypesJSON),
		w.SourceURL, w.ContentHash, now, now,
	).StructScan(&row)
	if err != nil {
		return nil, fmt.Errorf("upsert workflow %q: %w", w.FilePath, err)
	}

	return row.toWorkflow(), nil
}

// List returns a page of summaries, newest first
func (s *Store) List(ctx context.Context, params ListParams) (*ListResult, error) {
	params.normalize()

	search := strings.TrimSpace(params.Search)
	pattern := "%" + escapeLike(search) + "%"
	filterArgs := []any{search, pattern, pattern}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM workflows"+searchFilter, filterArgs...); err != nil {
		return nil, fmt.Errorf("count workflows: %w", err)
	}

	var rows []workflowRow
	query := "SELECT id, name, node_types, source_url, created_at FROM workflows" + searchFilter +
		" ORDER BY created_at DESC, file_path ASC LIMIT ? OFFSET ?"
	args := append(filterArgs, params.Limit, (params.Page-1)*params.Limit)
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}

	summaries := make([]*Summary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, rows[i].toSummary())
	}

	return &ListResult{
		Workflows:      summaries,
		CurrentPage:    params.Page,
		TotalPages:     (total + params.Limit - 1) / params.Limit,
		TotalWorkflows: total,
	}, nil
}

// ListPaths returns the file path of every stored workflow
func (s *Store) ListPaths(ctx context.Context) ([]string, error) {
	var paths []string
	if err := s.db.SelectContext(ctx, &paths, "SELECT file_path FROM workflows ORDER BY file_path"); err != nil {
		return nil, fmt.Errorf("list workflow paths: %w", err)
	}
	return paths, nil
}

// DeleteByPath removes the workflow stored for path
func (s *Store) DeleteByPath(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM workflows WHERE file_path = ?", path)
	if err != nil {
		return fmt.Errorf("delete workflow %q: %w", path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored workflows
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM workflows"); err != nil {
		return 0, fmt.Errorf("count workflows: %w", err)
	}
	return count, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

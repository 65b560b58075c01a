package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gensquad/talentbase/internal/github"
	"github.com/gensquad/talentbase/internal/server/blob"
	"github.com/gensquad/talentbase/internal/server/talent"
	"github.com/gensquad/talentbase/internal/server/workflow"
	"github.com/jmoiron/sqlx"
)

type Services struct {
	Blob     *blob.BlobService
	Talent   *talent.TalentService
	Workflow *workflow.WorkflowService
}

func NewServices(config *Config, db *sqlx.DB) (*Services, error) {
	var blobSvc *blob.BlobService
	var uploader talent.Uploader
	if config.BlobEnabled() {
		svc, err := blob.NewBlobService(&config.Blob)
		if err != nil {
			return nil, fmt.Errorf("create blob service: %w", err)
		}
		blobSvc = svc
		uploader = svc
	} else {
		slog.Warn("blob storage not configured, file uploads are disabled")
	}

	talentSvc := talent.NewTalentService(talent.NewStore(db), uploader)

	ghClient, err := github.New(&config.GitHub)
	if err != nil {
		return nil, fmt.Errorf("create github client: %w", err)
	}

	workflowSvc, err := workflow.NewWorkflowService(
		&config.Sync,
		workflow.NewStore(db),
		workflow.NewGitHubSource(ghClient),
		workflow.WithLogger(slog.Default().With("component", "sync")),
	)
	if err != nil {
		return nil, fmt.Errorf("create workflow service: %w", err)
	}

	return &Services{
		Blob:     blobSvc,
		Talent:   talentSvc,
		Workflow: workflowSvc,
	}, nil
}

func (s *Services) Start(ctx context.Context) error {
	if err := s.Workflow.Start(ctx); err != nil {
		return fmt.Errorf("start workflow service: %w", err)
	}
	return nil
}

func (s *Services) Shutdown(ctx context.Context) error {
	if err := s.Workflow.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop workflow service: %w", err)
	}
	return nil
}

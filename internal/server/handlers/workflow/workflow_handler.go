package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gensquad/talentbase/internal/server/handlers/api"
	"github.com/gensquad/talentbase/internal/server/workflow"
	"github.com/gin-gonic/gin"
)

type WorkflowHandler struct {
	svc *workflow.WorkflowService
}

func NewWorkflowHandler(svc *workflow.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{
		svc: svc,
	}
}

// List handles GET /api/workflows
func (h *WorkflowHandler) List(ctx *gin.Context) {
	var req ListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	result, err := h.svc.List(ctx.Request.Context(), req.Params())
	if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeWorkflowListFailed, err)
		return
	}

	ctx.PureJSON(http.StatusOK, result)
}

// Get handles GET /api/workflows/:id
func (h *WorkflowHandler) Get(ctx *gin.Context) {
	w, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, workflow.ErrNotFound) {
		api.AbortWithError(ctx, http.StatusNotFound, api.CodeWorkflowNotFound, errors.New("Not found"))
		return
	} else if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeInternalError, err)
		return
	}

	ctx.PureJSON(http.StatusOK, w)
}

// Sync handles POST /api/workflows/sync. Per-file failures still report
// success; only a fatal run error is a failure. The run outlives the caller,
// only the configured sync timeout can stop it.
func (h *WorkflowHandler) Sync(ctx *gin.Context) {
	outcome, err := h.svc.Sync(context.WithoutCancel(ctx.Request.Context()))
	switch {
	case errors.Is(err, workflow.ErrSyncInProgress):
		api.AbortWithError(ctx, http.StatusConflict, api.CodeSyncInProgress, err)
		return
	case err != nil:
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeSyncFailed, err)
		return
	}

	ctx.PureJSON(http.StatusOK, &SyncResponse{
		Success: true,
		Message: fmt.Sprintf("Sync Complete. Added: %d, Updated: %d", outcome.Added, outcome.Updated),
		Added:   outcome.Added,
		Updated: outcome.Updated,
		Skipped: outcome.Skipped,
		Deleted: outcome.Deleted,
		Errors:  outcome.Errors,
	})
}

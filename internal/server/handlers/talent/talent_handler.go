package talent

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gensquad/talentbase/internal/server/blob"
	"github.com/gensquad/talentbase/internal/server/handlers/api"
	"github.com/gensquad/talentbase/internal/server/talent"
	"github.com/gin-gonic/gin"
)

const msgNotFound = "Talent not found"

type TalentHandler struct {
	svc *talent.TalentService
}

func NewTalentHandler(svc *talent.TalentService) *TalentHandler {
	return &TalentHandler{
		svc: svc,
	}
}

// Create handles POST /api/talent. Every failure is a 400.
func (h *TalentHandler) Create(ctx *gin.Context) {
	req, err := readTalentRequest(ctx)
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}
	defer req.Close()

	created, err := h.svc.Create(ctx.Request.Context(), req.Input, req.Files)
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, errorCode(err), err)
		return
	}

	ctx.PureJSON(http.StatusCreated, created)
}

// Update handles PUT /api/talent/:id
func (h *TalentHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	req, err := readTalentRequest(ctx)
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}
	defer req.Close()

	updated, err := h.svc.Update(ctx.Request.Context(), id, req.Input, req.Files)
	if errors.Is(err, talent.ErrNotFound) {
		api.AbortWithMessage(ctx, http.StatusNotFound, err, msgNotFound)
		return
	} else if err != nil {
		api.AbortWithError(ctx, updateStatus(err), errorCode(err), err)
		return
	}

	ctx.PureJSON(http.StatusOK, updated)
}

// List handles GET /api/talent
func (h *TalentHandler) List(ctx *gin.Context) {
	talents, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeInternalError, err)
		return
	}

	ctx.PureJSON(http.StatusOK, talents)
}

// Get handles GET /api/talent/:id
func (h *TalentHandler) Get(ctx *gin.Context) {
	t, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, talent.ErrNotFound) {
		api.AbortWithMessage(ctx, http.StatusNotFound, err, msgNotFound)
		return
	} else if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeInternalError, fmt.Errorf("get talent: %w", err))
		return
	}

	ctx.PureJSON(http.StatusOK, t)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, talent.ErrValidation), errors.Is(err, talent.ErrInvalidInput):
		return api.CodeTalentInvalid
	case errors.Is(err, talent.ErrDuplicateEmail):
		return api.CodeTalentDuplicateEmail
	case isRejectedUpload(err):
		return api.CodeUploadRejected
	case errors.Is(err, talent.ErrUploadDisabled):
		return api.CodeUploadFailed
	default:
		return api.CodeTalentSaveFailed
	}
}

// updateStatus is 400 for anything the client can fix and 500 otherwise
func updateStatus(err error) int {
	switch {
	case errors.Is(err, talent.ErrValidation),
		errors.Is(err, talent.ErrInvalidInput),
		errors.Is(err, talent.ErrDuplicateEmail),
		isRejectedUpload(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isRejectedUpload(err error) bool {
	return errors.Is(err, blob.ErrFormatNotAllowed) ||
		errors.Is(err, blob.ErrFileTooLarge) ||
		errors.Is(err, blob.ErrEmptyFile)
}

// internal/handlers/pipeline/pipeline_handler.go
package pipeline

import (
	"net/http"
	"strconv"

	"quinto-service/internal/domain/interest"
	"quinto-service/internal/middleware"
	xerrors "quinto-service/internal/pkg/errors"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/pipeline"

	"github.com/gin-gonic/gin"
)

// PipelineHandler exposes the broker's pipeline board: the grouped lead view,
// drag-and-drop moves, loss confirmation, lead details and the audit trail.
type PipelineHandler struct {
	engine *service.Engine
}

func NewPipelineHandler(engine *service.Engine) *PipelineHandler {
	return &PipelineHandler{engine: engine}
}

// GetBoard loads the caller's board, grouped by stage.
func (h *PipelineHandler) GetBoard(c *gin.Context) {
	brokerID := middleware.MustGetIdentityID(c)

	board, err := h.engine.LoadBoard(c.Request.Context(), brokerID)
	if err != nil {
		response.FromError(c, "failed to load pipeline board", err)
		return
	}

	response.Success(c, http.StatusOK, "pipeline board", board)
}

// GetStats returns the derived board header numbers.
func (h *PipelineHandler) GetStats(c *gin.Context) {
	brokerID := middleware.MustGetIdentityID(c)

	stats, err := h.engine.Stats(c.Request.Context(), brokerID)
	if err != nil {
		response.FromError(c, "failed to compute pipeline stats", err)
		return
	}

	response.Success(c, http.StatusOK, "pipeline stats", stats)
}

// MoveLead applies a drag-and-drop stage move.
func (h *PipelineHandler) MoveLead(c *gin.Context) {
	brokerID := middleware.MustGetIdentityID(c)

	leadID, err := h.leadID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	var req interest.MoveLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authorize(c, brokerID, leadID); err != nil {
		return
	}

	board, err := h.engine.MoveLead(c.Request.Context(), brokerID, leadID, &req)
	if err != nil {
		response.FromError(c, "failed to move lead", err)
		return
	}

	response.Success(c, http.StatusOK, "lead moved", board)
}

// ConfirmLoss moves a lead to lost with its mandatory reason.
func (h *PipelineHandler) ConfirmLoss(c *gin.Context) {
	brokerID := middleware.MustGetIdentityID(c)

	leadID, err := h.leadID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	var req interest.ConfirmLossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authorize(c, brokerID, leadID); err != nil {
		return
	}

	board, err := h.engine.ConfirmLoss(c.Request.Context(), brokerID, leadID, req.Reason)
	if err != nil {
		response.FromError(c, "failed to confirm loss", err)
		return
	}

	response.Success(c, http.StatusOK, "loss confirmed", board)
}

// UpdateDetails patches broker notes and/or the proposal value.
func (h *PipelineHandler) UpdateDetails(c *gin.Context) {
	brokerID := middleware.MustGetIdentityID(c)

	leadID, err := h.leadID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	var req interest.UpdateLeadDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authorize(c, brokerID, leadID); err != nil {
		return
	}

	lead, err := h.engine.UpdateDetails(c.Request.Context(), brokerID, leadID, &req)
	if err != nil {
		response.FromError(c, "failed to update lead details", err)
		return
	}

	response.Success(c, http.StatusOK, "lead details updated", lead)
}

// GetHistory returns a lead's audit trail, newest first.
func (h *PipelineHandler) GetHistory(c *gin.Context) {
	brokerID := middleware.MustGetIdentityID(c)

	leadID, err := h.leadID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	if err := h.authorize(c, brokerID, leadID); err != nil {
		return
	}

	entries, err := h.engine.History(c.Request.Context(), leadID)
	if err != nil {
		response.FromError(c, "failed to load lead history", err)
		return
	}

	response.Success(c, http.StatusOK, "lead history", entries)
}

// GetLead returns one lead with its property projection.
func (h *PipelineHandler) GetLead(c *gin.Context) {
	brokerID := middleware.MustGetIdentityID(c)

	leadID, err := h.leadID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	if err := h.authorize(c, brokerID, leadID); err != nil {
		return
	}

	lead, err := h.engine.Detail(c.Request.Context(), leadID)
	if err != nil {
		response.FromError(c, "lead not found", err)
		return
	}

	response.Success(c, http.StatusOK, "lead detail", lead)
}

func (h *PipelineHandler) leadID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// authorize checks the lead belongs to one of the caller's listings. Admins
// may touch any board.
func (h *PipelineHandler) authorize(c *gin.Context, brokerID, leadID int64) error {
	owner, err := h.engine.BrokerOf(c.Request.Context(), leadID)
	if err != nil {
		response.FromError(c, "lead not found", err)
		return err
	}
	if owner != brokerID && !middleware.IsAdmin(c) {
		response.Forbidden(c, "lead belongs to another broker")
		return xerrors.ErrForbidden
	}
	return nil
}

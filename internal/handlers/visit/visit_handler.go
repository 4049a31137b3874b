// internal/handlers/visit/visit_handler.go
package visit

import (
	"context"
	"net/http"
	"strconv"

	"quinto-service/internal/domain/visit"
	"quinto-service/internal/middleware"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/visit"

	"github.com/gin-gonic/gin"
)

type VisitHandler struct {
	visitService *service.VisitService
}

func NewVisitHandler(visitService *service.VisitService) *VisitHandler {
	return &VisitHandler{visitService: visitService}
}

// Schedule books a visit to a listing.
func (h *VisitHandler) Schedule(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	var req visit.ScheduleVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	v, err := h.visitService.Schedule(c.Request.Context(), userID, propertyID, &req)
	if err != nil {
		response.FromError(c, "failed to schedule visit", err)
		return
	}

	response.Success(c, http.StatusCreated, "visit scheduled", v)
}

// ListMine returns the caller's visits.
func (h *VisitHandler) ListMine(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	visits, err := h.visitService.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, "failed to list visits", err)
		return
	}

	response.Success(c, http.StatusOK, "my visits", visits)
}

// Cancel cancels one of the caller's scheduled visits.
func (h *VisitHandler) Cancel(c *gin.Context) {
	h.updateStatus(c, h.visitService.Cancel, "visit cancelled")
}

// Complete marks one of the caller's visits as done.
func (h *VisitHandler) Complete(c *gin.Context) {
	h.updateStatus(c, h.visitService.Complete, "visit completed")
}

func (h *VisitHandler) updateStatus(c *gin.Context, fn func(ctx context.Context, id, userID int64) error, message string) {
	userID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid visit ID", err)
		return
	}

	if err := fn(c.Request.Context(), id, userID); err != nil {
		response.FromError(c, "failed to update visit", err)
		return
	}

	response.Success(c, http.StatusOK, message, nil)
}

// internal/handlers/lead/lead_handler.go
package lead

import (
	"net/http"
	"strconv"

	"quinto-service/internal/domain/lead"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/lead"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadService *service.LeadService
}

func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Capture stores a buyer search profile from the public landing page. No
// authentication: this is the top of the funnel.
func (h *LeadHandler) Capture(c *gin.Context) {
	var req lead.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.leadService.Capture(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to capture profile", err)
		return
	}

	response.Success(c, http.StatusCreated, "profile captured", p)
}

// Get returns one profile (admin).
func (h *LeadHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid profile ID", err)
		return
	}

	p, err := h.leadService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "profile not found", err)
		return
	}

	response.Success(c, http.StatusOK, "profile", p)
}

// List returns profiles, optionally filtered by status (admin).
func (h *LeadHandler) List(c *gin.Context) {
	profiles, err := h.leadService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.FromError(c, "failed to list profiles", err)
		return
	}

	response.Success(c, http.StatusOK, "profiles", profiles)
}

// UpdateStatus transitions a profile through the contact workflow (admin).
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid profile ID", err)
		return
	}

	var req lead.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.leadService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		response.FromError(c, "failed to update status", err)
		return
	}

	response.Success(c, http.StatusOK, "status updated", nil)
}

// Overview returns platform totals and profile counts per status (admin).
func (h *LeadHandler) Overview(c *gin.Context) {
	overview, err := h.leadService.Overview(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to load overview", err)
		return
	}

	response.Success(c, http.StatusOK, "admin overview", overview)
}

// internal/handlers/report/report_handler.go
package report

import (
	"net/http"
	"strconv"

	"quinto-service/internal/domain/property"
	"quinto-service/internal/middleware"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/report"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create files a complaint against a listing.
func (h *ReportHandler) Create(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	var req property.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	rep, err := h.reportService.Create(c.Request.Context(), userID, propertyID, &req)
	if err != nil {
		response.FromError(c, "failed to create report", err)
		return
	}

	response.Success(c, http.StatusCreated, "report filed", rep)
}

// List returns the admin report queue.
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reportService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.FromError(c, "failed to list reports", err)
		return
	}

	response.Success(c, http.StatusOK, "reports", reports)
}

// Resolve marks a report reviewed or dismissed.
func (h *ReportHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid report ID", err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=reviewed dismissed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.reportService.Resolve(c.Request.Context(), id, req.Status); err != nil {
		response.FromError(c, "failed to resolve report", err)
		return
	}

	response.Success(c, http.StatusOK, "report resolved", nil)
}

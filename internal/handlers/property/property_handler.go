// internal/handlers/property/property_handler.go
package property

import (
	"net/http"
	"strconv"

	"quinto-service/internal/domain/property"
	"quinto-service/internal/middleware"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/property"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertyService *service.PropertyService
}

func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Create publishes a new listing.
func (h *PropertyHandler) Create(c *gin.Context) {
	ownerID := middleware.MustGetIdentityID(c)

	var req property.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.propertyService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		response.FromError(c, "failed to create property", err)
		return
	}

	response.Success(c, http.StatusCreated, "property created", p)
}

// Get returns one listing, images included.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	p, err := h.propertyService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "property not found", err)
		return
	}

	response.Success(c, http.StatusOK, "property", p)
}

// Search runs a filtered, paginated listing search.
func (h *PropertyHandler) Search(c *gin.Context) {
	var filters property.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.propertyService.Search(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "search failed", err)
		return
	}

	response.Success(c, http.StatusOK, "search results", result)
}

// ListFeatured returns highlighted listings for the home page.
func (h *PropertyHandler) ListFeatured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	properties, err := h.propertyService.ListFeatured(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, "failed to list featured properties", err)
		return
	}

	response.Success(c, http.StatusOK, "featured properties", properties)
}

// ListMine returns the caller's listings.
func (h *PropertyHandler) ListMine(c *gin.Context) {
	ownerID := middleware.MustGetIdentityID(c)

	properties, err := h.propertyService.ListMine(c.Request.Context(), ownerID)
	if err != nil {
		response.FromError(c, "failed to list properties", err)
		return
	}

	response.Success(c, http.StatusOK, "my properties", properties)
}

// Update patches one of the caller's listings.
func (h *PropertyHandler) Update(c *gin.Context) {
	ownerID := middleware.MustGetIdentityID(c)

	id, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	var req property.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.propertyService.Update(c.Request.Context(), id, ownerID, &req)
	if err != nil {
		response.FromError(c, "failed to update property", err)
		return
	}

	response.Success(c, http.StatusOK, "property updated", p)
}

// UpdateStatus flips a listing between available, reserved and sold.
func (h *PropertyHandler) UpdateStatus(c *gin.Context) {
	ownerID := middleware.MustGetIdentityID(c)

	id, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	var req property.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.propertyService.UpdateStatus(c.Request.Context(), id, ownerID, req.Status); err != nil {
		response.FromError(c, "failed to update status", err)
		return
	}

	response.Success(c, http.StatusOK, "status updated", nil)
}

// Delete soft-deletes one of the caller's listings.
func (h *PropertyHandler) Delete(c *gin.Context) {
	ownerID := middleware.MustGetIdentityID(c)

	id, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), id, ownerID); err != nil {
		response.FromError(c, "failed to delete property", err)
		return
	}

	response.Success(c, http.StatusOK, "property deleted", nil)
}

// Analytics returns engagement numbers for one of the caller's listings.
func (h *PropertyHandler) Analytics(c *gin.Context) {
	ownerID := middleware.MustGetIdentityID(c)

	id, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	summary, err := h.propertyService.Analytics(c.Request.Context(), id, ownerID)
	if err != nil {
		response.FromError(c, "failed to load analytics", err)
		return
	}

	response.Success(c, http.StatusOK, "property analytics", summary)
}

func paramID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

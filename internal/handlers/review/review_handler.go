// internal/handlers/review/review_handler.go
package review

import (
	"net/http"
	"strconv"

	"quinto-service/internal/domain/review"
	"quinto-service/internal/middleware"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/review"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateForProperty leaves a review on a listing.
func (h *ReviewHandler) CreateForProperty(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	propertyID, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	var req review.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	rv, err := h.reviewService.CreateForProperty(c.Request.Context(), userID, propertyID, &req)
	if err != nil {
		response.FromError(c, "failed to create review", err)
		return
	}

	response.Success(c, http.StatusCreated, "review created", rv)
}

// CreateForBroker leaves a review on a broker.
func (h *ReviewHandler) CreateForBroker(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	brokerID, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid broker ID", err)
		return
	}

	var req review.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	rv, err := h.reviewService.CreateForBroker(c.Request.Context(), userID, brokerID, &req)
	if err != nil {
		response.FromError(c, "failed to create review", err)
		return
	}

	response.Success(c, http.StatusCreated, "review created", rv)
}

// ListForProperty returns a listing's reviews.
func (h *ReviewHandler) ListForProperty(c *gin.Context) {
	propertyID, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	result, err := h.reviewService.ListForProperty(c.Request.Context(), propertyID)
	if err != nil {
		response.FromError(c, "failed to list reviews", err)
		return
	}

	response.Success(c, http.StatusOK, "reviews", result)
}

// ListForBroker returns a broker's reviews.
func (h *ReviewHandler) ListForBroker(c *gin.Context) {
	brokerID, err := paramID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid broker ID", err)
		return
	}

	result, err := h.reviewService.ListForBroker(c.Request.Context(), brokerID)
	if err != nil {
		response.FromError(c, "failed to list reviews", err)
		return
	}

	response.Success(c, http.StatusOK, "reviews", result)
}

func paramID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

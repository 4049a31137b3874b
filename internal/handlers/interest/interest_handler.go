// internal/handlers/interest/interest_handler.go
package interest

import (
	"net/http"
	"strconv"

	"quinto-service/internal/domain/interest"
	"quinto-service/internal/middleware"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/interest"

	"github.com/gin-gonic/gin"
)

type InterestHandler struct {
	interestService *service.InterestService
}

func NewInterestHandler(interestService *service.InterestService) *InterestHandler {
	return &InterestHandler{interestService: interestService}
}

// Create registers the caller's interest in a listing; the lead enters the
// owning broker's pipeline.
func (h *InterestHandler) Create(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	var req interest.CreateInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	in, err := h.interestService.Create(c.Request.Context(), userID, propertyID, &req)
	if err != nil {
		response.FromError(c, "failed to register interest", err)
		return
	}

	response.Success(c, http.StatusCreated, "interest registered", in)
}

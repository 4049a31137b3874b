// internal/handlers/favorite/favorite_handler.go
package favorite

import (
	"net/http"
	"strconv"

	"quinto-service/internal/domain/favorite"
	"quinto-service/internal/middleware"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/favorite"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Toggle favorites or unfavorites a listing.
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid property ID", err)
		return
	}

	result, err := h.favoriteService.Toggle(c.Request.Context(), userID, propertyID)
	if err != nil {
		response.FromError(c, "failed to toggle favorite", err)
		return
	}

	response.Success(c, http.StatusOK, "favorite toggled", result)
}

// ListMine returns the caller's favorites.
func (h *FavoriteHandler) ListMine(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	favorites, err := h.favoriteService.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, "failed to list favorites", err)
		return
	}

	response.Success(c, http.StatusOK, "my favorites", favorites)
}

// CreateFolder adds a folder to organize favorites.
func (h *FavoriteHandler) CreateFolder(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	var req favorite.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	folder, err := h.favoriteService.CreateFolder(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, "failed to create folder", err)
		return
	}

	response.Success(c, http.StatusCreated, "folder created", folder)
}

// ListFolders returns the caller's folders.
func (h *FavoriteHandler) ListFolders(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	folders, err := h.favoriteService.ListFolders(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, "failed to list folders", err)
		return
	}

	response.Success(c, http.StatusOK, "my folders", folders)
}

// AssignFolder moves a favorite into (or out of) a folder.
func (h *FavoriteHandler) AssignFolder(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	favoriteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid favorite ID", err)
		return
	}

	var req favorite.AssignFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.favoriteService.AssignFolder(c.Request.Context(), favoriteID, userID, req.FolderID); err != nil {
		response.FromError(c, "failed to assign folder", err)
		return
	}

	response.Success(c, http.StatusOK, "folder assigned", nil)
}

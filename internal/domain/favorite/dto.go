// internal/domain/favorite/dto.go
package favorite

type CreateFolderRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type AssignFolderRequest struct {
	FolderID *int64 `json:"folder_id"` // nil moves the favorite out of any folder
}

// ToggleResult tells the client whether the property ended up favorited.
type ToggleResult struct {
	Favorited bool `json:"favorited"`
}

// internal/domain/review/dto.go
package review

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,min=3,max=2000"`
}

type ListResponse struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	Total         int64    `json:"total"`
}

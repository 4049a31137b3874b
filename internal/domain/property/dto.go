// internal/domain/property/dto.go
package property

type CreatePropertyRequest struct {
	Title        string   `json:"title" binding:"required,min=5,max=255"`
	Description  string   `json:"description" binding:"required,min=20"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Location     string   `json:"location" binding:"required,min=3,max=255"`
	PropertyType string   `json:"property_type" binding:"required,oneof=apartamento casa cobertura kitnet terreno comercial"`
	Bedrooms     int      `json:"bedrooms" binding:"min=0"`
	Bathrooms    int      `json:"bathrooms" binding:"min=0"`
	Area         float64  `json:"area" binding:"required,gt=0"`
	Features     []string `json:"features"`
	ImageURLs    []string `json:"image_urls"`
}

type UpdatePropertyRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=5,max=255"`
	Description  *string  `json:"description" binding:"omitempty,min=20"`
	Price        *float64 `json:"price" binding:"omitempty,gt=0"`
	Location     *string  `json:"location" binding:"omitempty,min=3,max=255"`
	PropertyType *string  `json:"property_type" binding:"omitempty,oneof=apartamento casa cobertura kitnet terreno comercial"`
	Bedrooms     *int     `json:"bedrooms" binding:"omitempty,min=0"`
	Bathrooms    *int     `json:"bathrooms" binding:"omitempty,min=0"`
	Area         *float64 `json:"area" binding:"omitempty,gt=0"`
	Features     []string `json:"features"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available reserved sold"`
}

type SearchFilters struct {
	Location     string  `form:"location"`
	PropertyType string  `form:"property_type"`
	PriceMin     float64 `form:"price_min" binding:"min=0"`
	PriceMax     float64 `form:"price_max" binding:"min=0"`
	BedroomsMin  int     `form:"bedrooms_min" binding:"min=0"`
	Page         int     `form:"page"`
	PageSize     int     `form:"page_size" binding:"max=100"`
}

type ListResponse struct {
	Properties []Property `json:"properties"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

type ReportRequest struct {
	Reason      string `json:"reason" binding:"required,oneof=fake sold wrong_info offensive other"`
	Description string `json:"description" binding:"max=1000"`
}

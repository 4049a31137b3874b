// internal/domain/lead/dto.go
package lead

type CaptureRequest struct {
	FullName         string  `json:"full_name" binding:"required,min=3,max=100"`
	Email            string  `json:"email" binding:"required,email,max=255"`
	Phone            string  `json:"phone" binding:"required,min=10,max=15"`
	CPF              string  `json:"cpf" binding:"max=14"`
	MonthlyIncome    string  `json:"monthly_income" binding:"max=50"`
	InterestLocation string  `json:"interest_location" binding:"required,max=255"`
	PropertyType     string  `json:"property_type" binding:"required,oneof=apartamento casa cobertura kitnet terreno comercial"`
	BudgetMin        float64 `json:"budget_min" binding:"min=0"`
	BudgetMax        float64 `json:"budget_max" binding:"min=0"`
	BedroomsMin      int     `json:"bedrooms_min" binding:"min=0"`
	Notes            string  `json:"notes" binding:"max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=novo contatado convertido descartado"`
}

// OverviewResponse backs the admin dashboard header.
type OverviewResponse struct {
	TotalUsers       int64            `json:"total_users"`
	TotalBrokers     int64            `json:"total_brokers"`
	TotalProperties  int64            `json:"total_properties"`
	ProfilesByStatus map[string]int64 `json:"profiles_by_status"`
}

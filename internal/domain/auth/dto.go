// internal/domain/auth/dto.go
package auth

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"required,min=3,max=100"`
	Phone    string `json:"phone" binding:"max=15"`
	Broker   bool   `json:"broker"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=3,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=15"`
}

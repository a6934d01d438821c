package dto

import "github.com/hellodap/dap-backend/internal/entity"

type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`

	Age       *int    `json:"age,omitempty" binding:"omitempty,gte=18"`
	Gender    *string `json:"gender,omitempty"`
	Origin    *string `json:"origin,omitempty"`
	Sexuality *string `json:"sexuality,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type PushTokenRequest struct {
	Token *string `json:"token"`
}

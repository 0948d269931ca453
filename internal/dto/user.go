package dto

import (
	"time"

	"github.com/dkozyr/gomarket/internal/domain"
)

type UserResponseDTO struct {
	ID            int        `json:"id" example:"1"`
	Username      string     `json:"username" example:"alice"`
	Email         string     `json:"email" example:"alice@example.com"`
	FirstName     string     `json:"first_name,omitempty" example:"Alice"`
	LastName      string     `json:"last_name,omitempty" example:"Cooper"`
	Phone         string     `json:"phone,omitempty" example:"+15550100"`
	Role          string     `json:"role" example:"user"`
	Status        string     `json:"status" example:"active"`
	EmailVerified bool       `json:"email_verified" example:"true"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewUserResponseDTO(user *domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Phone:         user.Phone,
		Role:          string(user.Role),
		Status:        string(user.Status),
		EmailVerified: user.EmailVerified,
		LastLogin:     user.LastLogin,
		CreatedAt:     user.CreatedAt,
	}
}

type UpdateProfileRequestDTO struct {
	Email     *string `json:"email,omitempty" example:"alice@example.com"`
	FirstName *string `json:"first_name,omitempty" example:"Alice"`
	LastName  *string `json:"last_name,omitempty" example:"Cooper"`
	Phone     *string `json:"phone,omitempty" example:"+15550100"`
}

type UpdateRoleRequestDTO struct {
	Role string `json:"role" example:"moderator"`
}

type UpdateUserStatusRequestDTO struct {
	Status string `json:"status" example:"suspended"`
}

package dto

import (
	"strings"

	"github.com/hongminglow/eventus-be/internal/models"
)

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"min=2"`
	LastName  string `json:"lastName" validate:"min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"min=6"`
	Role      string `json:"role" validate:"omitempty,oneof=user organizer"`
}

// Normalize trims the free-text fields and lowercases the email.
func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Role = strings.TrimSpace(r.Role)
}

// LoginRequest accepts either an email address or a phone number as identifier.
// Older clients send the identifier in the email field.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (r LoginRequest) LoginIdentifier() string {
	if trimmed := strings.TrimSpace(r.Identifier); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(r.Email)
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"min=6"`
}

type DeviceTokenRequest struct {
	DeviceToken string `json:"deviceToken" validate:"required"`
}

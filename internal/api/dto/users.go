package dto

import (
	"github.com/hugh/recipebox/internal/api/validation"
	"github.com/hugh/recipebox/internal/database/models"
)

const minPasswordLength = 5

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email address"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < minPasswordLength {
		errors["password"] = "Password must be at least 5 characters"
	}

	return errors
}

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r TokenRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

// UpdateMeRequest carries a partial profile update; only non-nil fields
// are applied.
type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (r UpdateMeRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Password != nil && len(*r.Password) < minPasswordLength {
		errors["password"] = "Password must be at least 5 characters"
	}

	return errors
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

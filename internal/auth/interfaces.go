package auth

import (
	"context"

	"github.com/hugh/recipebox/internal/database/models"
)

// Authenticator defines the interface for user account operations.
type Authenticator interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	CreateSuperuser(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User, patch UpdateUserInput) (*models.User, error)
}

// TokenService defines the interface for signed token operations.
type TokenService interface {
	GenerateToken(userID uint, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)

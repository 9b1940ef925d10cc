// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a user.
type RegisterInput struct {
	Login    string `json:"login" form:"login" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	FullName string `json:"fullName" form:"fullName" validate:"required"`
	Gender   string `json:"gender" form:"gender" validate:"required"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Login    string `json:"login" form:"login" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// --- Output DTOs ---

// LoginOutput carries the session token issued on successful login.
type LoginOutput struct {
	Token string `json:"token"`
}

// TokenInfo describes a verified session token.
type TokenInfo struct {
	Login     string    `json:"login"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthUsecase defines the registration, login and deletion flows.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) error
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Delete(ctx context.Context, login string) error
	VerifyToken(ctx context.Context, token string) (*TokenInfo, error)
}

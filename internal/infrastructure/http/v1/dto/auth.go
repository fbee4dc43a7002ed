package dto

import (
	"time"

	"vyapari/internal/domain/auth"
	"vyapari/internal/domain/org"
)

// --- Request DTOs ---

// SignupRequest registers a new shop with its owner account.
type SignupRequest struct {
	ShopName string `json:"shopName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// ToSignupRequest converts to the domain request.
func (r *SignupRequest) ToSignupRequest() auth.SignupRequest {
	return auth.SignupRequest{
		ShopName: r.ShopName,
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Timezone: r.Timezone,
	}
}

// LoginRequest for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Email:    r.Email,
		Password: r.Password,
	}
}

// RefreshTokenRequest for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AddUserRequest registers a staff account in the caller's shop.
type AddUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role" binding:"required,oneof=owner staff"`
}

// --- Response DTOs ---

// TokenResponse represents token pair response.
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// FromTokenPair creates response from domain token pair.
func FromTokenPair(tp *auth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:  tp.AccessToken,
		RefreshToken: tp.RefreshToken,
		ExpiresAt:    tp.ExpiresAt,
		TokenType:    tp.TokenType,
	}
}

// UserResponse represents user in API response.
type UserResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromUser creates response from domain user.
func FromUser(u *auth.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID.String(),
		OrgID:     u.OrgID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse includes tokens and user info.
type LoginResponse struct {
	Tokens *TokenResponse `json:"tokens"`
	User   *UserResponse  `json:"user"`
}

// SignupResponse includes the new shop and its owner.
type SignupResponse struct {
	Organization *org.Organization `json:"organization"`
	User         *UserResponse     `json:"user"`
}

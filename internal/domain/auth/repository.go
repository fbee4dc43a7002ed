package auth

import (
	"context"

	"vyapari/internal/core/id"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *User) error
	ListByOrg(ctx context.Context, orgID id.ID) ([]User, error)
}

// TokenRepository defines refresh token persistence operations.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error
	RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error
}

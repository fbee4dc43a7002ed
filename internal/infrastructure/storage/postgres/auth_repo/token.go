package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/domain/auth"
	"vyapari/internal/infrastructure/storage/postgres"
)

// TokenRepo implements auth.TokenRepository.
type TokenRepo struct {
	tm *postgres.TxManager
}

// NewTokenRepo creates a new token repository.
func NewTokenRepo(tm *postgres.TxManager) *TokenRepo {
	return &TokenRepo{tm: tm}
}

// SaveRefreshToken stores a hashed refresh token.
func (r *TokenRepo) SaveRefreshToken(ctx context.Context, token *auth.RefreshToken) error {
	_, err := r.tm.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken retrieves a token by its hash.
func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	var token auth.RefreshToken
	err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &token, `
		SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("refresh token", "")
		}
		return nil, fmt.Errorf("query refresh token: %w", err)
	}
	return &token, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	_, err := r.tm.GetQuerier(ctx).Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = now(), revoke_reason = $2
		WHERE id = $1 AND revoked_at IS NULL
	`, tokenID, reason)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllUserTokens revokes every live token of a user.
func (r *TokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	_, err := r.tm.GetQuerier(ctx).Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = now(), revoke_reason = $2
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID, reason)
	if err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

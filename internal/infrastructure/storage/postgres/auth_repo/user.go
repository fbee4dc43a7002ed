// Package auth_repo provides PostgreSQL implementations for auth
// repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/domain/auth"
	"vyapari/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

var userColumns = postgres.ExtractDBColumns[auth.User]()

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	tm *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(tm *postgres.TxManager) *UserRepo {
	return &UserRepo{tm: tm}
}

func (r *UserRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	sql, args, err := r.builder().
		Insert(usersTable).
		SetMap(postgres.StructToMap(user)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": userID}, userID.String())
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, email)
}

func (r *UserRepo) getOne(ctx context.Context, where squirrel.Eq, ref string) (*auth.User, error) {
	sql, args, err := r.builder().
		Select(userColumns...).
		From(usersTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var user auth.User
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &user, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", ref)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// Exists checks whether a user with the email exists.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.tm.GetQuerier(ctx).QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// Update rewrites the mutable user columns.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	sql, args, err := r.builder().
		Update(usersTable).
		Set("name", user.Name).
		Set("role", user.Role).
		Set("is_active", user.IsActive).
		Set("last_login_at", user.LastLoginAt).
		Set("failed_login_attempts", user.FailedLoginAttempts).
		Set("locked_until", user.LockedUntil).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID)
	}
	return nil
}

// ListByOrg lists the organization's accounts.
func (r *UserRepo) ListByOrg(ctx context.Context, orgID id.ID) ([]auth.User, error) {
	sql, args, err := r.builder().
		Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"org_id": orgID}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var users []auth.User
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &users, sql, args...); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}

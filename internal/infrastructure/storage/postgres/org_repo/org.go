// Package org_repo provides the PostgreSQL implementation of the
// organization repository.
package org_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/domain/org"
	"vyapari/internal/infrastructure/storage/postgres"
)

const orgTable = "organizations"

var orgColumns = postgres.ExtractDBColumns[org.Organization]()

// OrgRepo implements org.Repository.
type OrgRepo struct {
	tm *postgres.TxManager
}

// NewOrgRepo creates a new organization repository.
func NewOrgRepo(tm *postgres.TxManager) *OrgRepo {
	return &OrgRepo{tm: tm}
}

func (r *OrgRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts an organization.
func (r *OrgRepo) Create(ctx context.Context, o *org.Organization) error {
	sql, args, err := r.builder().
		Insert(orgTable).
		SetMap(postgres.StructToMap(o)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID retrieves an organization.
func (r *OrgRepo) GetByID(ctx context.Context, orgID id.ID) (org.Organization, error) {
	sql, args, err := r.builder().
		Select(orgColumns...).
		From(orgTable).
		Where(squirrel.Eq{"id": orgID}).
		ToSql()
	if err != nil {
		return org.Organization{}, fmt.Errorf("build select: %w", err)
	}

	var o org.Organization
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &o, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return org.Organization{}, apperror.NewNotFound("organization", orgID)
		}
		return org.Organization{}, fmt.Errorf("query organization: %w", err)
	}
	return o, nil
}

// ListIDs returns every organization id, ordered by creation.
func (r *OrgRepo) ListIDs(ctx context.Context) ([]id.ID, error) {
	var ids []id.ID
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &ids,
		"SELECT id FROM organizations ORDER BY created_at"); err != nil {
		return nil, fmt.Errorf("list organization ids: %w", err)
	}
	return ids, nil
}

// Update rewrites the organization's settings.
func (r *OrgRepo) Update(ctx context.Context, o *org.Organization) error {
	data := postgres.StructToMap(o)
	delete(data, "id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update(orgTable).
		SetMap(data).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("organization", o.ID)
	}
	return nil
}

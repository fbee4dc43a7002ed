package org

import (
	"context"
	"fmt"
	"time"

	"vyapari/internal/core/id"
	"vyapari/internal/domain/tax"
	"vyapari/pkg/logger"
)

// Repository defines persistence operations for organizations.
type Repository interface {
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, orgID id.ID) (Organization, error)
	Update(ctx context.Context, o *Organization) error

	// ListIDs returns every organization id. Used by background jobs that
	// walk all shops.
	ListIDs(ctx context.Context) ([]id.ID, error)
}

// Service manages organizations.
type Service struct {
	repo Repository
}

// NewService creates a new org service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput holds the fields of a new organization.
type CreateInput struct {
	Name     string
	GSTIN    *string
	Phone    *string
	Timezone string
}

// Create registers an organization with default tax settings.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Organization, error) {
	now := time.Now().UTC()
	o := &Organization{
		ID:              id.New(),
		Name:            in.Name,
		GSTIN:           in.GSTIN,
		Phone:           in.Phone,
		TaxMode:         tax.ModeExclusive,
		TaxJurisdiction: tax.JurisdictionIntra,
		Timezone:        in.Timezone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if o.Timezone == "" {
		o.Timezone = DefaultTimezone
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	logger.Info(ctx, "organization created", "org_id", o.ID, "name", o.Name)
	return o, nil
}

// GetByID retrieves an organization.
func (s *Service) GetByID(ctx context.Context, orgID id.ID) (Organization, error) {
	return s.repo.GetByID(ctx, orgID)
}

// UpdateSettingsInput carries the mutable organization settings.
type UpdateSettingsInput struct {
	Name            string
	GSTIN           *string
	Phone           *string
	TaxMode         tax.Mode
	TaxJurisdiction tax.Jurisdiction
	Timezone        string
}

// UpdateSettings rewrites the organization's settings. Changing tax settings
// only affects sales recorded afterwards.
func (s *Service) UpdateSettings(ctx context.Context, orgID id.ID, in UpdateSettingsInput) (Organization, error) {
	o, err := s.repo.GetByID(ctx, orgID)
	if err != nil {
		return Organization{}, err
	}

	o.Name = in.Name
	o.GSTIN = in.GSTIN
	o.Phone = in.Phone
	o.TaxMode = in.TaxMode
	o.TaxJurisdiction = in.TaxJurisdiction
	o.Timezone = in.Timezone
	o.UpdatedAt = time.Now().UTC()

	if err := o.Validate(); err != nil {
		return Organization{}, err
	}
	if err := s.repo.Update(ctx, &o); err != nil {
		return Organization{}, fmt.Errorf("update organization: %w", err)
	}

	logger.Info(ctx, "organization settings updated", "org_id", orgID)
	return o, nil
}

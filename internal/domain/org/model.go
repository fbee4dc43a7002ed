// Package org manages organizations, the tenancy unit. Every other table is
// scoped by an organization id.
package org

import (
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/domain/tax"
)

// Organization is a registered shop.
type Organization struct {
	ID    id.ID   `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	GSTIN *string `db:"gstin" json:"gstin,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`

	// TaxMode selects exclusive or inclusive pricing for new sales.
	TaxMode tax.Mode `db:"tax_mode" json:"taxMode"`
	// TaxJurisdiction selects the intra/inter state GST split.
	TaxJurisdiction tax.Jurisdiction `db:"tax_jurisdiction" json:"taxJurisdiction"`

	// Timezone is an IANA zone name; daily reports fold on local calendar
	// days in this zone.
	Timezone string `db:"timezone" json:"timezone"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DefaultTimezone is used when an organization does not set one.
const DefaultTimezone = "Asia/Kolkata"

// TaxConfig returns the tax configuration snapshot for this org. Callers
// pass it explicitly into tax computation so historical invoices stay
// reproducible after settings change.
func (o *Organization) TaxConfig() tax.Config {
	cfg := tax.Config{Mode: o.TaxMode, Jurisdiction: o.TaxJurisdiction}
	if cfg.Mode == "" {
		cfg.Mode = tax.ModeExclusive
	}
	if cfg.Jurisdiction == "" {
		cfg.Jurisdiction = tax.JurisdictionIntra
	}
	return cfg
}

// Location resolves the org's timezone.
func (o *Organization) Location() (*time.Location, error) {
	name := o.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperror.NewValidation("invalid timezone").
			WithDetail("timezone", name).WithCause(err)
	}
	return loc, nil
}

// Validate checks the organization's fields.
func (o *Organization) Validate() error {
	if o.Name == "" {
		return apperror.NewValidation("organization name is required")
	}
	if err := o.TaxConfig().Validate(); err != nil {
		return err
	}
	if _, err := o.Location(); err != nil {
		return err
	}
	return nil
}

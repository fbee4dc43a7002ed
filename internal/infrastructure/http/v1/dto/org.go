package dto

import (
	"vyapari/internal/core/types"
	"vyapari/internal/domain/org"
	"vyapari/internal/domain/tax"
)

// UpdateOrgSettingsRequest rewrites the shop's settings.
type UpdateOrgSettingsRequest struct {
	Name            string  `json:"name" binding:"required"`
	GSTIN           *string `json:"gstin,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	TaxMode         string  `json:"taxMode" binding:"required,oneof=exclusive inclusive"`
	TaxJurisdiction string  `json:"taxJurisdiction" binding:"required,oneof=intra inter"`
	Timezone        string  `json:"timezone" binding:"required"`
}

// ToInput converts to the domain input.
func (r *UpdateOrgSettingsRequest) ToInput() org.UpdateSettingsInput {
	return org.UpdateSettingsInput{
		Name:            r.Name,
		GSTIN:           r.GSTIN,
		Phone:           r.Phone,
		TaxMode:         tax.Mode(r.TaxMode),
		TaxJurisdiction: tax.Jurisdiction(r.TaxJurisdiction),
		Timezone:        r.Timezone,
	}
}

// TaxPreviewRequest computes a tax breakup without recording anything.
// Either ratePercent or hsnCode must be supplied.
type TaxPreviewRequest struct {
	Amount      types.Money  `json:"amount" binding:"required"`
	RatePercent *types.Money `json:"ratePercent,omitempty"`
	HSNCode     *string      `json:"hsnCode,omitempty"`
}

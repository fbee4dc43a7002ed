package tax

import (
	"strings"

	"github.com/shopspring/decimal"

	"vyapari/internal/core/apperror"
)

// hsnRates maps 4-digit HSN/SAC headings to GST rate percentages.
// The table covers the headings a retail shop routinely bills against.
// Lookups for unknown codes fail loudly: defaulting a rate silently would
// produce a wrong statutory filing, which is worse than a rejected sale.
var hsnRates = map[string]decimal.Decimal{
	// Nil-rated essentials
	"0401": decimal.NewFromInt(0),  // fresh milk
	"0701": decimal.NewFromInt(0),  // potatoes
	"0713": decimal.NewFromInt(0),  // dried legumes
	"1001": decimal.NewFromInt(0),  // wheat
	"1006": decimal.NewFromInt(0),  // rice (unbranded)

	// 5% slab
	"0902": decimal.NewFromInt(5),  // tea
	"0901": decimal.NewFromInt(5),  // coffee
	"1507": decimal.NewFromInt(5),  // soya-bean oil
	"1517": decimal.NewFromInt(5),  // edible oil blends
	"1701": decimal.NewFromInt(5),  // cane sugar
	"1902": decimal.NewFromInt(5),  // pasta, noodles
	"2106": decimal.NewFromInt(5),  // packaged namkeen
	"0405": decimal.NewFromInt(5),  // butter, ghee

	// 12% slab
	"0402": decimal.NewFromInt(12), // condensed milk
	"2002": decimal.NewFromInt(12), // processed tomatoes
	"6403": decimal.NewFromInt(12), // footwear
	"9503": decimal.NewFromInt(12), // toys
	"4202": decimal.NewFromInt(12), // bags, cases

	// 18% slab
	"1905": decimal.NewFromInt(18), // biscuits, wafers
	"2101": decimal.NewFromInt(18), // instant coffee
	"3304": decimal.NewFromInt(18), // cosmetics
	"3306": decimal.NewFromInt(18), // toothpaste
	"3401": decimal.NewFromInt(18), // soap
	"3402": decimal.NewFromInt(18), // detergents
	"4817": decimal.NewFromInt(18), // stationery (envelopes etc.)
	"8506": decimal.NewFromInt(18), // batteries
	"8517": decimal.NewFromInt(18), // phones
	"9603": decimal.NewFromInt(18), // brooms, brushes

	// 28% slab
	"2202": decimal.NewFromInt(28), // aerated drinks
	"2402": decimal.NewFromInt(28), // cigarettes
	"3303": decimal.NewFromInt(28), // perfumes
}

// LookupRate resolves the GST rate for an HSN/SAC code.
// Codes longer than 4 digits (6 and 8 digit classifications) resolve
// through their 4-digit heading. Unknown codes return UnknownHSNCode.
func LookupRate(hsnCode string) (decimal.Decimal, error) {
	code := strings.TrimSpace(hsnCode)
	if code == "" {
		return decimal.Zero, apperror.NewUnknownHSNCode(hsnCode)
	}

	if rate, ok := hsnRates[code]; ok {
		return rate, nil
	}
	if len(code) > 4 {
		if rate, ok := hsnRates[code[:4]]; ok {
			return rate, nil
		}
	}

	return decimal.Zero, apperror.NewUnknownHSNCode(hsnCode)
}

// KnownHSN reports whether a code resolves against the rate table.
func KnownHSN(hsnCode string) bool {
	_, err := LookupRate(hsnCode)
	return err == nil
}

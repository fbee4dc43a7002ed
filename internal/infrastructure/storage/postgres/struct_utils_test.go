package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/inventory"
)

// BaseRow is exported: StructToMap reads embedded fields via reflection,
// and reflect cannot Interface() values reached through unexported fields.
type BaseRow struct {
	ID        id.ID     `db:"id" json:"id"`
	OrgID     id.ID     `db:"org_id" json:"orgId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type mockRow struct {
	BaseRow
	SKU  string `db:"sku" json:"sku"`
	Name string `db:"name" json:"name"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockRow]()

	expected := []string{"id", "org_id", "created_at", "sku", "name"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	now := time.Now().UTC()
	row := mockRow{
		BaseRow: BaseRow{
			ID:        id.New(),
			OrgID:     id.New(),
			CreatedAt: now,
		},
		SKU:  "SOAP-100",
		Name: "Toilet Soap 100g",
	}

	m := StructToMap(row)

	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, row.OrgID, m["org_id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "SOAP-100", m["sku"])
	assert.Equal(t, "Toilet Soap 100g", m["name"])
}

func TestStructToMap_DomainItem(t *testing.T) {
	item := inventory.NewItem(id.New(), "RICE-5KG", "Basmati Rice 5kg", types.MustMoney("380"))
	item.Stock = 40

	m := StructToMap(item)

	assert.Equal(t, "RICE-5KG", m["sku"])
	assert.Equal(t, int64(40), m["stock"])
	// Nil pointers still surface as columns so inserts stay shape-stable.
	assert.Contains(t, m, "sell_price")
	assert.Contains(t, m, "hsn_code")
}

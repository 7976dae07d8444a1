package models

import (
	"encoding/json"
	"time"
)

// Product is a catalog entry. Inactive products stay in the store so that
// historical sale items keep resolving.
type Product struct {
	ID       int64           `json:"id" db:"id"`
	Name     string          `json:"name" db:"name"`
	Price    float64         `json:"price" db:"price"`
	TaxRate  TaxRate         `json:"tax_rate" db:"tax_rate"`
	Category ProductCategory `json:"category" db:"category"`
	ImageURI *string         `json:"image_uri,omitempty" db:"image_uri"`
	IsActive bool            `json:"is_active" db:"is_active"`
}

// InventoryItem is the stock level of exactly one product. Quantity may go negative.
type InventoryItem struct {
	ProductID    int64 `json:"product_id" db:"product_id"`
	Quantity     int   `json:"quantity" db:"quantity"`
	ReorderLevel int   `json:"reorder_level" db:"reorder_level"`
}

// InventorySnapshot joins a product with its stock record.
type InventorySnapshot struct {
	Product   Product       `json:"product"`
	Inventory InventoryItem `json:"inventory"`
}

// LowStock reports whether the product is at or below its reorder level.
func (s InventorySnapshot) LowStock() bool {
	return s.Inventory.Quantity <= s.Inventory.ReorderLevel
}

// MarshalJSON adds the derived low_stock flag.
func (s InventorySnapshot) MarshalJSON() ([]byte, error) {
	type snapshot InventorySnapshot
	return json.Marshal(struct {
		snapshot
		LowStock bool `json:"low_stock"`
	}{snapshot: snapshot(s), LowStock: s.LowStock()})
}

// Purchase is a goods receipt from a supplier.
type Purchase struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	Quantity    int       `json:"quantity"`
	Supplier    string    `json:"supplier"`
	CostPerUnit float64   `json:"cost_per_unit"`
	Timestamp   time.Time `json:"timestamp"`
}

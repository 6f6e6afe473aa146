package domain

import "time"

// MaterialType is the kind of raw material being purchased
type MaterialType string

const (
	MaterialTypeFabric  MaterialType = "fabric"
	MaterialTypeLeather MaterialType = "leather"
	MaterialTypeCotton  MaterialType = "cotton"
)

// Material represents a purchasable material in the catalog
type Material struct {
	ID         int64        `json:"id" db:"id"`
	Name       string       `json:"name" db:"name"`
	Code       string       `json:"code" db:"code"`
	Type       MaterialType `json:"type" db:"type"`
	BuyPrice   float64      `json:"buy_price" db:"buy_price"`
	SupplierID int64        `json:"supplier_id" db:"supplier_id"`
	CreatedAt  time.Time    `json:"-" db:"created_at"`
	UpdatedAt  time.Time    `json:"-" db:"updated_at"`
}

// Supplier represents a vendor that materials are bought from
type Supplier struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

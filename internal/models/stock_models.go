package models

import "time"

// Derived stock level labels. Computed from quantity vs min_quantity,
// never stored.
const (
	StockStatusOut    = "Sem estoque"
	StockStatusLow    = "Estoque baixo"
	StockStatusNormal = "Estoque normal"
)

// DeriveStockStatus computes the stock level label for a non-negative
// quantity pair. Zero quantity always reads as out of stock, even when
// min_quantity is also zero.
func DeriveStockStatus(quantity, minQuantity int) string {
	if quantity == 0 {
		return StockStatusOut
	}
	if quantity < minQuantity {
		return StockStatusLow
	}
	return StockStatusNormal
}

// StockItem represents one tracked inventory item.
type StockItem struct {
	ID                  int64     `json:"id" db:"id"`
	Name                string    `json:"name" db:"name" binding:"required"`
	SKU                 *string   `json:"sku,omitempty" db:"sku"`
	Quantity            int       `json:"quantity" db:"quantity"`
	MinQuantity         int       `json:"min_quantity" db:"min_quantity"`
	LocationID          *int64    `json:"location_id,omitempty" db:"location_id"`
	GroupID             *int64    `json:"group_id,omitempty" db:"group_id"`
	UnitOfMeasurementID *int64    `json:"unit_of_measurement_id,omitempty" db:"unit_of_measurement_id"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	Status              string    `json:"status"` // derived, not a column
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
	Location            *StockLocation     `json:"location,omitempty"`
	Group               *StockGroup        `json:"group,omitempty"`
	Unit                *UnitOfMeasurement `json:"unit,omitempty"`
}

// StockLocation is a physical storage location.
type StockLocation struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// StockGroup is a grouping of stock items (e.g. cleaning, packaging).
type StockGroup struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UnitOfMeasurement is a unit lookup row (un, kg, L...).
type UnitOfMeasurement struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Abbreviation string    `json:"abbreviation" db:"abbreviation" binding:"required"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// StockItemFilters defines the available filters for querying stock items.
type StockItemFilters struct {
	Search     *string `form:"search"`
	LocationID *int64  `form:"location_id"`
	GroupID    *int64  `form:"group_id"`
	IsActive   *bool   `form:"is_active"`
	LowStock   bool    `form:"low_stock"` // only items below min_quantity (or out)
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}

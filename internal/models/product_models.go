package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the root of the product aggregate. Components, options and
// variants are child rows owned by the product and saved wholesale with it.
type Product struct {
	ID            int64            `json:"id" db:"id"`
	Name          string           `json:"name" db:"name" binding:"required"`
	SKU           *string          `json:"sku,omitempty" db:"sku"`
	CategoryID    int64            `json:"category_id" db:"category_id"`
	Price         *decimal.Decimal `json:"price,omitempty" db:"price"`
	Cost          *decimal.Decimal `json:"cost,omitempty" db:"cost"`
	StockQuantity int              `json:"stock_quantity" db:"stock_quantity"`
	Status        string           `json:"status" db:"status"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
	Components    []ProductComponent `json:"components,omitempty"`
	Options       []ProductOption    `json:"options,omitempty"`
	Variants      []ProductVariant   `json:"variants,omitempty"`
	Category      *ProductCategory   `json:"category,omitempty"`
}

// ProductCategory is a lookup for product classification.
type ProductCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProductComponent is a bill-of-materials line referencing a stock item.
type ProductComponent struct {
	ID          int64   `json:"id" db:"id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	StockItemID int64   `json:"stock_item_id" db:"stock_item_id" binding:"required"`
	Quantity    float64 `json:"quantity" db:"quantity" binding:"required,gt=0"`
	StockItem   *StockItem `json:"stock_item,omitempty"`
}

// ProductOption is a named variation axis (e.g. Color) with an ordered
// list of values. Option order is the declaration order used when
// generating variants.
type ProductOption struct {
	ID        int64                `json:"id" db:"id"`
	ProductID int64                `json:"product_id" db:"product_id"`
	Name      string               `json:"name" db:"name" binding:"required"`
	SortOrder int                  `json:"sort_order" db:"sort_order"`
	Values    []ProductOptionValue `json:"values"`
}

// ProductOptionValue is one selectable value of an option.
type ProductOptionValue struct {
	ID        int64  `json:"id" db:"id"`
	OptionID  int64  `json:"option_id" db:"option_id"`
	Value     string `json:"value" db:"value" binding:"required"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
}

// ProductVariant is one concrete combination of option values. Price, cost,
// stock and image stay blank after generation until filled in manually.
type ProductVariant struct {
	ID        int64            `json:"id" db:"id"`
	ProductID int64            `json:"product_id" db:"product_id"`
	SKU       *string          `json:"sku,omitempty" db:"sku"`
	Price     *decimal.Decimal `json:"price,omitempty" db:"price"`
	Cost      *decimal.Decimal `json:"cost,omitempty" db:"cost"`
	Stock     *int             `json:"stock,omitempty" db:"stock"`
	ImageURL  *string          `json:"image_url,omitempty" db:"image_url"`
	Options   []VariantOption  `json:"options"`
}

// VariantOption records one contributing {option, value} pair of a variant,
// in option-declaration order.
type VariantOption struct {
	ID          int64  `json:"id" db:"id"`
	VariantID   int64  `json:"variant_id" db:"variant_id"`
	OptionName  string `json:"option_name" db:"option_name"`
	OptionValue string `json:"option_value" db:"option_value"`
}

// ProductFilters defines the available filters for querying products.
type ProductFilters struct {
	Search     *string `form:"search"`
	CategoryID *int64  `form:"category_id"`
	Status     *string `form:"status"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}

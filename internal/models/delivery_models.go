package models

import "time"

// Delivery represents one outbound delivery tied to an order reference.
// Its status is a foreign key into global_statuses (module "deliveries").
type Delivery struct {
	ID           int64     `json:"id" db:"id"`
	OrderRef     string    `json:"order_ref" db:"order_ref" binding:"required"`
	DriverID     *int64    `json:"driver_id,omitempty" db:"driver_id"`
	StatusID     int64     `json:"status_id" db:"status_id"`
	DeliveryDate time.Time `json:"delivery_date" db:"delivery_date"`
	Address      *string   `json:"address,omitempty" db:"address"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	Status       *GlobalStatus `json:"status,omitempty"`
	Driver       *Employee     `json:"driver,omitempty"`
}

// DeliveryStatusHistory is an append-only log of status changes.
type DeliveryStatusHistory struct {
	ID           int64     `json:"id" db:"id"`
	DeliveryID   int64     `json:"delivery_id" db:"delivery_id"`
	FromStatusID *int64    `json:"from_status_id,omitempty" db:"from_status_id"`
	ToStatusID   int64     `json:"to_status_id" db:"to_status_id"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	ActorUserID  *int64    `json:"actor_user_id,omitempty" db:"actor_user_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DeliveryFilters defines the available filters for querying deliveries.
type DeliveryFilters struct {
	StatusID *int64  `form:"status_id"`
	DriverID *int64  `form:"driver_id"`
	DateFrom *string `form:"date_from"` // YYYY-MM-DD
	DateTo   *string `form:"date_to"`   // YYYY-MM-DD
	Search   *string `form:"search"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

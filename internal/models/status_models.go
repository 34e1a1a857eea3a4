package models

import "time"

// GlobalStatus is a shared lookup of named, colored status values referenced
// by foreign key from deliveries, orders and other workflow entities. The
// module column scopes the status to one workflow.
type GlobalStatus struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Color     *string   `json:"color,omitempty" db:"color"`
	Module    string    `json:"module" db:"module" binding:"required"`
	IsFinal   bool      `json:"is_final" db:"is_final"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StatusTransition is one allowed edge of a module's status machine.
// A module with no configured transitions accepts any move out of a
// non-final status.
type StatusTransition struct {
	ID           int64     `json:"id" db:"id"`
	Module       string    `json:"module" db:"module" binding:"required"`
	FromStatusID int64     `json:"from_status_id" db:"from_status_id" binding:"required"`
	ToStatusID   int64     `json:"to_status_id" db:"to_status_id" binding:"required"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

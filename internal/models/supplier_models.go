package models

import "time"

// Supplier represents a goods or services provider.
// Status is free-form by design; there is no supplier state machine.
type Supplier struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	FantasyName *string   `json:"fantasy_name,omitempty" db:"fantasy_name"`
	CNPJ        *string   `json:"cnpj,omitempty" db:"cnpj"`
	Email       *string   `json:"email,omitempty" db:"email"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	Status      string    `json:"status" db:"status"`
	Street      *string   `json:"street,omitempty" db:"street"`
	Number      *string   `json:"number,omitempty" db:"number"`
	Complement  *string   `json:"complement,omitempty" db:"complement"`
	District    *string   `json:"district,omitempty" db:"district"`
	City        *string   `json:"city,omitempty" db:"city"`
	State       *string   `json:"state,omitempty" db:"state"`
	ZipCode     *string   `json:"zip_code,omitempty" db:"zip_code"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SupplierFilters defines the available filters for querying suppliers.
type SupplierFilters struct {
	Search   *string `form:"search"`
	Status   *string `form:"status"`
	City     *string `form:"city"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type values.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// IsValidTransactionType checks if the provided type string is valid.
func IsValidTransactionType(t string) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// FinancialTransaction is one ledger entry. Amounts are decimals; no
// double-entry invariant is enforced across entries.
type FinancialTransaction struct {
	ID              int64           `json:"id" db:"id"`
	Date            time.Time       `json:"date" db:"date"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Type            string          `json:"type" db:"type" binding:"required"`
	Description     *string         `json:"description,omitempty" db:"description"`
	CategoryID      int64           `json:"category_id" db:"category_id" binding:"required"`
	PaymentMethodID int64           `json:"payment_method_id" db:"payment_method_id" binding:"required"`
	DivisionID      *int64          `json:"division_id,omitempty" db:"division_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	Category        *FinanceCategory `json:"category,omitempty"`
	PaymentMethod   *PaymentMethod   `json:"payment_method,omitempty"`
}

// FinanceCategory classifies transactions (e.g. Vendas, Aluguel).
type FinanceCategory struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Type      string    `json:"type" db:"type" binding:"required"` // income or expense
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PaymentMethod is a lookup (pix, boleto, cartão...).
type PaymentMethod struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Division is an optional cost center a transaction can be attributed to.
type Division struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TransactionFilters defines the available filters for querying transactions.
type TransactionFilters struct {
	Type       *string `form:"type"`
	CategoryID *int64  `form:"category_id"`
	DivisionID *int64  `form:"division_id"`
	DateFrom   *string `form:"date_from"` // YYYY-MM-DD
	DateTo     *string `form:"date_to"`   // YYYY-MM-DD
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}

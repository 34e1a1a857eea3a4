package models

import "github.com/shopspring/decimal"

// DashboardSummary holds the headline metrics of the landing dashboard.
type DashboardSummary struct {
	LowStockItemsCount     int             `json:"low_stock_items_count"`
	OutOfStockItemsCount   int             `json:"out_of_stock_items_count"`
	PendingDeliveriesCount int             `json:"pending_deliveries_count"`
	PendingTimeOffCount    int             `json:"pending_time_off_count"`
	ActiveSuppliersCount   int             `json:"active_suppliers_count"`
	MonthIncomeTotal       decimal.Decimal `json:"month_income_total"`
	MonthExpenseTotal      decimal.Decimal `json:"month_expense_total"`
}

// MonthlyFinanceBucket is one month of aggregated income/expense.
type MonthlyFinanceBucket struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CategorySum is the aggregated amount for one finance category.
type CategorySum struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Type         string          `json:"type"`
	Total        decimal.Decimal `json:"total"`
}

// FinancialReport is the month-bucketed series plus per-category sums over
// a date range.
type FinancialReport struct {
	StartDate  string                 `json:"start_date"`
	EndDate    string                 `json:"end_date"`
	Months     []MonthlyFinanceBucket `json:"months"`
	Categories []CategorySum          `json:"categories"`
}

// ReportRequestParams holds common parameters for requesting reports.
type ReportRequestParams struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
}

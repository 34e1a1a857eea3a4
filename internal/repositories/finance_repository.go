package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"erp_backoffice/internal/models"
)

// FinanceRepository defines the interface for financial transaction and
// finance lookup database operations. Amounts are scanned into
// decimal.Decimal via its sql.Scanner implementation.
type FinanceRepository interface {
	CreateTransaction(executor SQLExecutor, tx *models.FinancialTransaction) (int64, error)
	GetTransactionByID(id int64) (*models.FinancialTransaction, error)
	GetTransactions(filters models.TransactionFilters) ([]models.FinancialTransaction, int, error)
	UpdateTransaction(executor SQLExecutor, tx *models.FinancialTransaction) error
	DeleteTransaction(executor SQLExecutor, id int64) error

	GetCategories() ([]models.FinanceCategory, error)
	GetPaymentMethods() ([]models.PaymentMethod, error)
	GetDivisions() ([]models.Division, error)

	SumByTypeBetween(txType string, from, to time.Time) (decimal.Decimal, error)
	MonthlyBuckets(from, to time.Time) ([]models.MonthlyFinanceBucket, error)
	SumsByCategory(from, to time.Time) ([]models.CategorySum, error)
}

type financeRepository struct {
	db *sql.DB
}

// NewFinanceRepository creates a new instance of FinanceRepository.
func NewFinanceRepository(db *sql.DB) FinanceRepository {
	return &financeRepository{db: db}
}

// CreateTransaction inserts a new financial transaction.
func (r *financeRepository) CreateTransaction(executor SQLExecutor, tx *models.FinancialTransaction) (int64, error) {
	query := `INSERT INTO financial_transactions (date, amount, type, description, category_id, payment_method_id, division_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	          RETURNING id`

	err := executor.QueryRow(query,
		tx.Date, tx.Amount, tx.Type, tx.Description,
		tx.CategoryID, tx.PaymentMethodID, tx.DivisionID, time.Now(),
	).Scan(&tx.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: transaction references missing category, payment method or division (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating financial transaction: %v", ErrDatabaseError, err)
	}
	return tx.ID, nil
}

// GetTransactionByID retrieves a transaction with its joined category and
// payment method.
func (r *financeRepository) GetTransactionByID(id int64) (*models.FinancialTransaction, error) {
	tx := &models.FinancialTransaction{}
	category := models.FinanceCategory{}
	method := models.PaymentMethod{}
	query := `SELECT t.id, t.date, t.amount, t.type, t.description, t.category_id, t.payment_method_id, t.division_id, t.created_at, t.updated_at,
	                 c.id, c.name, c.type, m.id, m.name
	          FROM financial_transactions t
	          JOIN finance_categories c ON c.id = t.category_id
	          JOIN payment_methods m ON m.id = t.payment_method_id
	          WHERE t.id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&tx.ID, &tx.Date, &tx.Amount, &tx.Type, &tx.Description,
		&tx.CategoryID, &tx.PaymentMethodID, &tx.DivisionID,
		&tx.CreatedAt, &tx.UpdatedAt,
		&category.ID, &category.Name, &category.Type,
		&method.ID, &method.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting financial transaction by ID %d: %v", ErrDatabaseError, id, err)
	}
	tx.Category = &category
	tx.PaymentMethod = &method
	return tx, nil
}

// GetTransactions retrieves transactions with pagination and optional filters.
func (r *financeRepository) GetTransactions(filters models.TransactionFilters) ([]models.FinancialTransaction, int, error) {
	transactions := []models.FinancialTransaction{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT t.id, t.date, t.amount, t.type, t.description, t.category_id, t.payment_method_id, t.division_id, t.created_at, t.updated_at,
	                                 c.name, COUNT(*) OVER() as total_count
	                          FROM financial_transactions t
	                          JOIN finance_categories c ON c.id = t.category_id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Type != nil && *filters.Type != "" {
		conditions = append(conditions, fmt.Sprintf("t.type = $%d", argCount))
		args = append(args, *filters.Type)
		argCount++
	}
	if filters.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("t.category_id = $%d", argCount))
		args = append(args, *filters.CategoryID)
		argCount++
	}
	if filters.DivisionID != nil {
		conditions = append(conditions, fmt.Sprintf("t.division_id = $%d", argCount))
		args = append(args, *filters.DivisionID)
		argCount++
	}
	if filters.DateFrom != nil && *filters.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("t.date >= $%d", argCount))
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil && *filters.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("t.date < ($%d::date + INTERVAL '1 day')", argCount))
		args = append(args, *filters.DateTo)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY t.date DESC, t.id DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying financial transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.FinancialTransaction
		var categoryName string
		if err := rows.Scan(
			&t.ID, &t.Date, &t.Amount, &t.Type, &t.Description,
			&t.CategoryID, &t.PaymentMethodID, &t.DivisionID,
			&t.CreatedAt, &t.UpdatedAt, &categoryName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning financial transaction: %v", ErrDatabaseError, err)
		}
		t.Category = &models.FinanceCategory{ID: t.CategoryID, Name: categoryName}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating financial transaction rows: %v", ErrDatabaseError, err)
	}
	return transactions, totalCount, nil
}

// UpdateTransaction updates an existing transaction.
func (r *financeRepository) UpdateTransaction(executor SQLExecutor, tx *models.FinancialTransaction) error {
	query := `UPDATE financial_transactions SET
	            date = $1, amount = $2, type = $3, description = $4,
	            category_id = $5, payment_method_id = $6, division_id = $7, updated_at = $8
	          WHERE id = $9`

	tx.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		tx.Date, tx.Amount, tx.Type, tx.Description,
		tx.CategoryID, tx.PaymentMethodID, tx.DivisionID, tx.UpdatedAt, tx.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: transaction references missing lookup row (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating financial transaction ID %d: %v", ErrDatabaseError, tx.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for financial transaction ID %d: %v", ErrDatabaseError, tx.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction.
func (r *financeRepository) DeleteTransaction(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM financial_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting financial transaction ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting financial transaction ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCategories lists all finance categories.
func (r *financeRepository) GetCategories() ([]models.FinanceCategory, error) {
	rows, err := r.db.Query(`SELECT id, name, type, created_at, updated_at FROM finance_categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying finance categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	categories := []models.FinanceCategory{}
	for rows.Next() {
		var c models.FinanceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning finance category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetPaymentMethods lists all payment methods.
func (r *financeRepository) GetPaymentMethods() ([]models.PaymentMethod, error) {
	rows, err := r.db.Query(`SELECT id, name, created_at, updated_at FROM payment_methods ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying payment methods: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	methods := []models.PaymentMethod{}
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning payment method: %v", ErrDatabaseError, err)
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

// GetDivisions lists all divisions.
func (r *financeRepository) GetDivisions() ([]models.Division, error) {
	rows, err := r.db.Query(`SELECT id, name, created_at, updated_at FROM divisions ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying divisions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	divisions := []models.Division{}
	for rows.Next() {
		var d models.Division
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning division: %v", ErrDatabaseError, err)
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

// SumByTypeBetween totals the amounts of one transaction type in [from, to).
func (r *financeRepository) SumByTypeBetween(txType string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM financial_transactions WHERE type = $1 AND date >= $2 AND date < $3`
	if err := r.db.QueryRow(query, txType, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%w: summing %s transactions: %v", ErrDatabaseError, txType, err)
	}
	return total, nil
}

// MonthlyBuckets aggregates income and expense per calendar month in [from, to).
func (r *financeRepository) MonthlyBuckets(from, to time.Time) ([]models.MonthlyFinanceBucket, error) {
	query := `SELECT to_char(date_trunc('month', date), 'YYYY-MM') as month,
	                 COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0) as income,
	                 COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) as expense
	          FROM financial_transactions
	          WHERE date >= $1 AND date < $2
	          GROUP BY date_trunc('month', date)
	          ORDER BY date_trunc('month', date) ASC`

	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: querying monthly finance buckets: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	buckets := []models.MonthlyFinanceBucket{}
	for rows.Next() {
		var b models.MonthlyFinanceBucket
		if err := rows.Scan(&b.Month, &b.Income, &b.Expense); err != nil {
			return nil, fmt.Errorf("%w: scanning monthly finance bucket: %v", ErrDatabaseError, err)
		}
		b.Net = b.Income.Sub(b.Expense)
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// SumsByCategory aggregates amounts per category in [from, to).
func (r *financeRepository) SumsByCategory(from, to time.Time) ([]models.CategorySum, error) {
	query := `SELECT c.id, c.name, c.type, COALESCE(SUM(t.amount), 0) as total
	          FROM finance_categories c
	          JOIN financial_transactions t ON t.category_id = c.id
	          WHERE t.date >= $1 AND t.date < $2
	          GROUP BY c.id, c.name, c.type
	          ORDER BY total DESC`

	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: querying category sums: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	sums := []models.CategorySum{}
	for rows.Next() {
		var s models.CategorySum
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.Type, &s.Total); err != nil {
			return nil, fmt.Errorf("%w: scanning category sum: %v", ErrDatabaseError, err)
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

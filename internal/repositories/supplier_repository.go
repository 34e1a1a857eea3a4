package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"erp_backoffice/internal/models"
)

// SupplierRepository defines the interface for supplier database operations.
type SupplierRepository interface {
	CreateSupplier(executor SQLExecutor, supplier *models.Supplier) (int64, error)
	GetSupplierByID(id int64) (*models.Supplier, error)
	GetSupplierByCNPJ(cnpj string) (*models.Supplier, error)
	GetSuppliers(filters models.SupplierFilters) ([]models.Supplier, int, error)
	UpdateSupplier(executor SQLExecutor, supplier *models.Supplier) error
	DeleteSupplier(executor SQLExecutor, id int64) error
	UpsertSupplierByCNPJ(executor SQLExecutor, supplier *models.Supplier) (int64, error)
	CountByStatus(status string) (int, error)
}

type supplierRepository struct {
	db *sql.DB
}

// NewSupplierRepository creates a new instance of SupplierRepository.
func NewSupplierRepository(db *sql.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

const supplierColumns = `id, name, fantasy_name, cnpj, email, phone, status, street, number, complement, district, city, state, zip_code, created_at, updated_at`

func scanSupplier(row interface{ Scan(...interface{}) error }, s *models.Supplier) error {
	return row.Scan(
		&s.ID, &s.Name, &s.FantasyName, &s.CNPJ, &s.Email, &s.Phone, &s.Status,
		&s.Street, &s.Number, &s.Complement, &s.District, &s.City, &s.State, &s.ZipCode,
		&s.CreatedAt, &s.UpdatedAt,
	)
}

// CreateSupplier inserts a new supplier.
func (r *supplierRepository) CreateSupplier(executor SQLExecutor, supplier *models.Supplier) (int64, error) {
	query := `INSERT INTO suppliers (name, fantasy_name, cnpj, email, phone, status, street, number, complement, district, city, state, zip_code, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	          RETURNING id`

	err := executor.QueryRow(query,
		supplier.Name, supplier.FantasyName, supplier.CNPJ, supplier.Email, supplier.Phone,
		supplier.Status, supplier.Street, supplier.Number, supplier.Complement,
		supplier.District, supplier.City, supplier.State, supplier.ZipCode, time.Now(),
	).Scan(&supplier.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating supplier: %v", ErrDatabaseError, err)
	}
	return supplier.ID, nil
}

// GetSupplierByID retrieves a supplier by ID.
func (r *supplierRepository) GetSupplierByID(id int64) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	if err := scanSupplier(r.db.QueryRow(query, id), supplier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting supplier by ID %d: %v", ErrDatabaseError, id, err)
	}
	return supplier, nil
}

// GetSupplierByCNPJ retrieves a supplier by its CNPJ.
func (r *supplierRepository) GetSupplierByCNPJ(cnpj string) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE cnpj = $1`
	if err := scanSupplier(r.db.QueryRow(query, cnpj), supplier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting supplier by CNPJ %s: %v", ErrDatabaseError, cnpj, err)
	}
	return supplier, nil
}

// GetSuppliers retrieves suppliers with pagination and optional filters.
func (r *supplierRepository) GetSuppliers(filters models.SupplierFilters) ([]models.Supplier, int, error) {
	suppliers := []models.Supplier{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + supplierColumns + `, COUNT(*) OVER() as total_count FROM suppliers`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) ILIKE $%d OR LOWER(COALESCE(fantasy_name, '')) ILIKE $%d OR COALESCE(cnpj, '') ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.City != nil && *filters.City != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(COALESCE(city, '')) = LOWER($%d)", argCount))
		args = append(args, *filters.City)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY name ASC")

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
		return nil, 0, fmt.Errorf("%w: querying suppliers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Supplier
		if err := rows.Scan(
			&s.ID, &s.Name, &s.FantasyName, &s.CNPJ, &s.Email, &s.Phone, &s.Status,
			&s.Street, &s.Number, &s.Complement, &s.District, &s.City, &s.State, &s.ZipCode,
			&s.CreatedAt, &s.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning supplier: %v", ErrDatabaseError, err)
		}
		suppliers = append(suppliers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating supplier rows: %v", ErrDatabaseError, err)
	}
	return suppliers, totalCount, nil
}

// UpdateSupplier updates an existing supplier.
func (r *supplierRepository) UpdateSupplier(executor SQLExecutor, supplier *models.Supplier) error {
	query := `UPDATE suppliers SET
	            name = $1, fantasy_name = $2, cnpj = $3, email = $4, phone = $5, status = $6,
	            street = $7, number = $8, complement = $9, district = $10, city = $11,
	            state = $12, zip_code = $13, updated_at = $14
	          WHERE id = $15`

	supplier.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		supplier.Name, supplier.FantasyName, supplier.CNPJ, supplier.Email, supplier.Phone,
		supplier.Status, supplier.Street, supplier.Number, supplier.Complement,
		supplier.District, supplier.City, supplier.State, supplier.ZipCode,
		supplier.UpdatedAt, supplier.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating supplier ID %d: %v", ErrDatabaseError, supplier.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for supplier ID %d: %v", ErrDatabaseError, supplier.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSupplier removes a supplier.
func (r *supplierRepository) DeleteSupplier(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: supplier ID %d (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting supplier ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting supplier ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertSupplierByCNPJ inserts a supplier or updates the existing row with
// the same CNPJ. Used by the CSV import pipeline.
func (r *supplierRepository) UpsertSupplierByCNPJ(executor SQLExecutor, supplier *models.Supplier) (int64, error) {
	query := `INSERT INTO suppliers (name, fantasy_name, cnpj, email, phone, status, city, state, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	          ON CONFLICT (cnpj) DO UPDATE SET
	            name = EXCLUDED.name,
	            fantasy_name = EXCLUDED.fantasy_name,
	            email = EXCLUDED.email,
	            phone = EXCLUDED.phone,
	            status = EXCLUDED.status,
	            updated_at = EXCLUDED.updated_at
	          RETURNING id`

	err := executor.QueryRow(query,
		supplier.Name, supplier.FantasyName, supplier.CNPJ, supplier.Email,
		supplier.Phone, supplier.Status, supplier.City, supplier.State, time.Now(),
	).Scan(&supplier.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: upserting supplier by CNPJ: %v", ErrDatabaseError, err)
	}
	return supplier.ID, nil
}

// CountByStatus counts suppliers holding the given status value.
func (r *supplierRepository) CountByStatus(status string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM suppliers WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting suppliers by status: %v", ErrDatabaseError, err)
	}
	return count, nil
}

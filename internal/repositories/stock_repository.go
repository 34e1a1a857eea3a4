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

// StockRepository defines the interface for stock item and stock lookup
// database operations.
type StockRepository interface {
	CreateItem(executor SQLExecutor, item *models.StockItem) (int64, error)
	GetItemByID(id int64) (*models.StockItem, error)
	GetItemBySKU(sku string) (*models.StockItem, error)
	GetItems(filters models.StockItemFilters) ([]models.StockItem, int, error)
	UpdateItem(executor SQLExecutor, item *models.StockItem) error
	DeleteItem(executor SQLExecutor, id int64) error
	UpsertItemBySKU(executor SQLExecutor, item *models.StockItem) (int64, error)

	CountLowStock() (int, error)
	CountOutOfStock() (int, error)

	GetLocations() ([]models.StockLocation, error)
	GetGroups() ([]models.StockGroup, error)
	GetUnits() ([]models.UnitOfMeasurement, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

const stockItemColumns = `id, name, sku, quantity, min_quantity, location_id, group_id, unit_of_measurement_id, is_active, created_at, updated_at`

func scanStockItem(row interface{ Scan(...interface{}) error }, item *models.StockItem) error {
	return row.Scan(
		&item.ID, &item.Name, &item.SKU, &item.Quantity, &item.MinQuantity,
		&item.LocationID, &item.GroupID, &item.UnitOfMeasurementID,
		&item.IsActive, &item.CreatedAt, &item.UpdatedAt,
	)
}

// CreateItem inserts a new stock item.
func (r *stockRepository) CreateItem(executor SQLExecutor, item *models.StockItem) (int64, error) {
	query := `INSERT INTO stock_items (name, sku, quantity, min_quantity, location_id, group_id, unit_of_measurement_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	currentTime := time.Now()
	err := executor.QueryRow(query,
		item.Name, item.SKU, item.Quantity, item.MinQuantity,
		item.LocationID, item.GroupID, item.UnitOfMeasurementID,
		item.IsActive, currentTime, currentTime,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating stock item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

// GetItemByID retrieves a stock item by ID.
func (r *stockRepository) GetItemByID(id int64) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	if err := scanStockItem(r.db.QueryRow(query, id), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock item by ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

// GetItemBySKU retrieves a stock item by its SKU.
func (r *stockRepository) GetItemBySKU(sku string) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE sku = $1`
	if err := scanStockItem(r.db.QueryRow(query, sku), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock item by SKU %s: %v", ErrDatabaseError, sku, err)
	}
	return item, nil
}

// GetItems retrieves stock items with pagination and optional filters.
func (r *stockRepository) GetItems(filters models.StockItemFilters) ([]models.StockItem, int, error) {
	items := []models.StockItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + stockItemColumns + `, COUNT(*) OVER() as total_count FROM stock_items`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) ILIKE $%d OR LOWER(COALESCE(sku, '')) ILIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	if filters.LocationID != nil {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", argCount))
		args = append(args, *filters.LocationID)
		argCount++
	}
	if filters.GroupID != nil {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", argCount))
		args = append(args, *filters.GroupID)
		argCount++
	}
	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *filters.IsActive)
		argCount++
	}
	if filters.LowStock {
		conditions = append(conditions, "quantity < min_quantity")
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
		return nil, 0, fmt.Errorf("%w: querying stock items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.StockItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.SKU, &item.Quantity, &item.MinQuantity,
			&item.LocationID, &item.GroupID, &item.UnitOfMeasurementID,
			&item.IsActive, &item.CreatedAt, &item.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock item rows: %v", ErrDatabaseError, err)
	}
	return items, totalCount, nil
}

// UpdateItem updates an existing stock item.
func (r *stockRepository) UpdateItem(executor SQLExecutor, item *models.StockItem) error {
	query := `UPDATE stock_items SET
	            name = $1, sku = $2, quantity = $3, min_quantity = $4,
	            location_id = $5, group_id = $6, unit_of_measurement_id = $7,
	            is_active = $8, updated_at = $9
	          WHERE id = $10`

	item.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		item.Name, item.SKU, item.Quantity, item.MinQuantity,
		item.LocationID, item.GroupID, item.UnitOfMeasurementID,
		item.IsActive, item.UpdatedAt, item.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating stock item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for stock item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes a stock item.
func (r *stockRepository) DeleteItem(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: stock item ID %d (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting stock item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting stock item ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertItemBySKU inserts a stock item or, when the SKU already exists,
// updates the existing row. Used by the CSV import pipeline.
func (r *stockRepository) UpsertItemBySKU(executor SQLExecutor, item *models.StockItem) (int64, error) {
	query := `INSERT INTO stock_items (name, sku, quantity, min_quantity, location_id, group_id, unit_of_measurement_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	          ON CONFLICT (sku) DO UPDATE SET
	            name = EXCLUDED.name,
	            quantity = EXCLUDED.quantity,
	            min_quantity = EXCLUDED.min_quantity,
	            is_active = EXCLUDED.is_active,
	            updated_at = EXCLUDED.updated_at
	          RETURNING id`

	err := executor.QueryRow(query,
		item.Name, item.SKU, item.Quantity, item.MinQuantity,
		item.LocationID, item.GroupID, item.UnitOfMeasurementID,
		item.IsActive, time.Now(),
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: upserting stock item by SKU: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

// CountLowStock counts active items below their minimum but not empty.
func (r *stockRepository) CountLowStock() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM stock_items WHERE is_active = TRUE AND quantity > 0 AND quantity < min_quantity`
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting low stock items: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// CountOutOfStock counts active items with zero quantity.
func (r *stockRepository) CountOutOfStock() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM stock_items WHERE is_active = TRUE AND quantity = 0`
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting out of stock items: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// GetLocations lists all stock locations.
func (r *stockRepository) GetLocations() ([]models.StockLocation, error) {
	rows, err := r.db.Query(`SELECT id, name, description, created_at, updated_at FROM stock_locations ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stock locations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	locations := []models.StockLocation{}
	for rows.Next() {
		var l models.StockLocation
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning stock location: %v", ErrDatabaseError, err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// GetGroups lists all stock groups.
func (r *stockRepository) GetGroups() ([]models.StockGroup, error) {
	rows, err := r.db.Query(`SELECT id, name, description, created_at, updated_at FROM stock_groups ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stock groups: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	groups := []models.StockGroup{}
	for rows.Next() {
		var g models.StockGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning stock group: %v", ErrDatabaseError, err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GetUnits lists all units of measurement.
func (r *stockRepository) GetUnits() ([]models.UnitOfMeasurement, error) {
	rows, err := r.db.Query(`SELECT id, name, abbreviation, created_at, updated_at FROM units_of_measurement ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying units of measurement: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	units := []models.UnitOfMeasurement{}
	for rows.Next() {
		var u models.UnitOfMeasurement
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning unit of measurement: %v", ErrDatabaseError, err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

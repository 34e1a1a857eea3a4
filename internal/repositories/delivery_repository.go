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

// DeliveryRepository defines the interface for delivery database operations.
// Status changes go through an executor so the FK swap and the history
// insert commit together.
type DeliveryRepository interface {
	CreateDelivery(executor SQLExecutor, delivery *models.Delivery) (int64, error)
	GetDeliveryByID(id int64) (*models.Delivery, error)
	GetDeliveries(filters models.DeliveryFilters) ([]models.Delivery, int, error)
	UpdateDelivery(executor SQLExecutor, delivery *models.Delivery) error
	DeleteDelivery(executor SQLExecutor, id int64) error

	UpdateDeliveryStatus(executor SQLExecutor, deliveryID, statusID int64, updatedAt time.Time) error
	InsertStatusHistory(executor SQLExecutor, entry *models.DeliveryStatusHistory) (int64, error)
	GetStatusHistory(deliveryID int64) ([]models.DeliveryStatusHistory, error)
	CountByStatusFinal(isFinal bool) (int, error)
}

type deliveryRepository struct {
	db *sql.DB
}

// NewDeliveryRepository creates a new instance of DeliveryRepository.
func NewDeliveryRepository(db *sql.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

// CreateDelivery inserts a new delivery.
func (r *deliveryRepository) CreateDelivery(executor SQLExecutor, delivery *models.Delivery) (int64, error) {
	query := `INSERT INTO deliveries (order_ref, driver_id, status_id, delivery_date, address, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          RETURNING id`

	err := executor.QueryRow(query,
		delivery.OrderRef, delivery.DriverID, delivery.StatusID,
		delivery.DeliveryDate, delivery.Address, delivery.Notes, time.Now(),
	).Scan(&delivery.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: delivery references missing status or driver (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating delivery: %v", ErrDatabaseError, err)
	}
	return delivery.ID, nil
}

// GetDeliveryByID retrieves a delivery with its joined status row.
func (r *deliveryRepository) GetDeliveryByID(id int64) (*models.Delivery, error) {
	delivery := &models.Delivery{}
	status := models.GlobalStatus{}
	query := `SELECT d.id, d.order_ref, d.driver_id, d.status_id, d.delivery_date, d.address, d.notes, d.created_at, d.updated_at,
	                 s.id, s.name, s.color, s.module, s.is_final
	          FROM deliveries d
	          JOIN global_statuses s ON s.id = d.status_id
	          WHERE d.id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&delivery.ID, &delivery.OrderRef, &delivery.DriverID, &delivery.StatusID,
		&delivery.DeliveryDate, &delivery.Address, &delivery.Notes,
		&delivery.CreatedAt, &delivery.UpdatedAt,
		&status.ID, &status.Name, &status.Color, &status.Module, &status.IsFinal,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting delivery by ID %d: %v", ErrDatabaseError, id, err)
	}
	delivery.Status = &status
	return delivery, nil
}

// GetDeliveries retrieves deliveries with pagination and optional filters.
func (r *deliveryRepository) GetDeliveries(filters models.DeliveryFilters) ([]models.Delivery, int, error) {
	deliveries := []models.Delivery{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT d.id, d.order_ref, d.driver_id, d.status_id, d.delivery_date, d.address, d.notes, d.created_at, d.updated_at,
	                                 s.id, s.name, s.color, s.module, s.is_final, COUNT(*) OVER() as total_count
	                          FROM deliveries d
	                          JOIN global_statuses s ON s.id = d.status_id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.StatusID != nil {
		conditions = append(conditions, fmt.Sprintf("d.status_id = $%d", argCount))
		args = append(args, *filters.StatusID)
		argCount++
	}
	if filters.DriverID != nil {
		conditions = append(conditions, fmt.Sprintf("d.driver_id = $%d", argCount))
		args = append(args, *filters.DriverID)
		argCount++
	}
	if filters.DateFrom != nil && *filters.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("d.delivery_date >= $%d", argCount))
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil && *filters.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("d.delivery_date < ($%d::date + INTERVAL '1 day')", argCount))
		args = append(args, *filters.DateTo)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(d.order_ref) ILIKE $%d OR LOWER(COALESCE(d.address, '')) ILIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY d.delivery_date DESC, d.id DESC")

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
		return nil, 0, fmt.Errorf("%w: querying deliveries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.Delivery
		var s models.GlobalStatus
		if err := rows.Scan(
			&d.ID, &d.OrderRef, &d.DriverID, &d.StatusID, &d.DeliveryDate,
			&d.Address, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&s.ID, &s.Name, &s.Color, &s.Module, &s.IsFinal, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning delivery: %v", ErrDatabaseError, err)
		}
		d.Status = &s
		deliveries = append(deliveries, d)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating delivery rows: %v", ErrDatabaseError, err)
	}
	return deliveries, totalCount, nil
}

// UpdateDelivery updates a delivery's editable fields (not its status; use
// UpdateDeliveryStatus for that).
func (r *deliveryRepository) UpdateDelivery(executor SQLExecutor, delivery *models.Delivery) error {
	query := `UPDATE deliveries SET order_ref = $1, driver_id = $2, delivery_date = $3, address = $4, notes = $5, updated_at = $6 WHERE id = $7`

	delivery.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		delivery.OrderRef, delivery.DriverID, delivery.DeliveryDate,
		delivery.Address, delivery.Notes, delivery.UpdatedAt, delivery.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating delivery ID %d: %v", ErrDatabaseError, delivery.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for delivery ID %d: %v", ErrDatabaseError, delivery.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDelivery removes a delivery and its history.
func (r *deliveryRepository) DeleteDelivery(executor SQLExecutor, id int64) error {
	if _, err := executor.Exec(`DELETE FROM delivery_status_history WHERE delivery_id = $1`, id); err != nil {
		return fmt.Errorf("%w: deleting delivery history for ID %d: %v", ErrDatabaseError, id, err)
	}
	result, err := executor.Exec(`DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting delivery ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting delivery ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDeliveryStatus swaps the status foreign key.
func (r *deliveryRepository) UpdateDeliveryStatus(executor SQLExecutor, deliveryID, statusID int64, updatedAt time.Time) error {
	result, err := executor.Exec(`UPDATE deliveries SET status_id = $1, updated_at = $2 WHERE id = $3`, statusID, updatedAt, deliveryID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: status %d does not exist (constraint: %s)", ErrForeignKeyViolation, statusID, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating delivery %d status: %v", ErrDatabaseError, deliveryID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for delivery %d status update: %v", ErrDatabaseError, deliveryID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertStatusHistory appends one status-change log entry.
func (r *deliveryRepository) InsertStatusHistory(executor SQLExecutor, entry *models.DeliveryStatusHistory) (int64, error) {
	query := `INSERT INTO delivery_status_history (delivery_id, from_status_id, to_status_id, notes, actor_user_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	err := executor.QueryRow(query,
		entry.DeliveryID, entry.FromStatusID, entry.ToStatusID,
		entry.Notes, entry.ActorUserID, time.Now(),
	).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting delivery status history: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}

// GetStatusHistory lists the status changes of a delivery, oldest first.
func (r *deliveryRepository) GetStatusHistory(deliveryID int64) ([]models.DeliveryStatusHistory, error) {
	query := `SELECT id, delivery_id, from_status_id, to_status_id, notes, actor_user_id, created_at
	          FROM delivery_status_history WHERE delivery_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying delivery status history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	history := []models.DeliveryStatusHistory{}
	for rows.Next() {
		var h models.DeliveryStatusHistory
		if err := rows.Scan(&h.ID, &h.DeliveryID, &h.FromStatusID, &h.ToStatusID, &h.Notes, &h.ActorUserID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning delivery status history: %v", ErrDatabaseError, err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// CountByStatusFinal counts deliveries whose current status is (or is not) final.
func (r *deliveryRepository) CountByStatusFinal(isFinal bool) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM deliveries d JOIN global_statuses s ON s.id = d.status_id WHERE s.is_final = $1`
	if err := r.db.QueryRow(query, isFinal).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting deliveries by final status: %v", ErrDatabaseError, err)
	}
	return count, nil
}

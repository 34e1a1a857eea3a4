package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"erp_backoffice/internal/models"
)

// StatusRepository defines the interface for the shared status lookup and
// its transition table.
type StatusRepository interface {
	CreateStatus(executor SQLExecutor, status *models.GlobalStatus) (int64, error)
	GetStatusByID(id int64) (*models.GlobalStatus, error)
	GetStatusesByModule(module string) ([]models.GlobalStatus, error)
	UpdateStatus(executor SQLExecutor, status *models.GlobalStatus) error
	DeleteStatus(executor SQLExecutor, id int64) error

	CreateTransition(executor SQLExecutor, transition *models.StatusTransition) (int64, error)
	GetTransitionsByModule(module string) ([]models.StatusTransition, error)
	DeleteTransition(executor SQLExecutor, id int64) error
}

type statusRepository struct {
	db *sql.DB
}

// NewStatusRepository creates a new instance of StatusRepository.
func NewStatusRepository(db *sql.DB) StatusRepository {
	return &statusRepository{db: db}
}

// CreateStatus inserts a new global status.
func (r *statusRepository) CreateStatus(executor SQLExecutor, status *models.GlobalStatus) (int64, error) {
	query := `INSERT INTO global_statuses (name, color, module, is_final, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          RETURNING id`

	err := executor.QueryRow(query, status.Name, status.Color, status.Module, status.IsFinal, time.Now()).Scan(&status.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating global status: %v", ErrDatabaseError, err)
	}
	return status.ID, nil
}

// GetStatusByID retrieves a global status by ID.
func (r *statusRepository) GetStatusByID(id int64) (*models.GlobalStatus, error) {
	status := &models.GlobalStatus{}
	query := `SELECT id, name, color, module, is_final, created_at, updated_at FROM global_statuses WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&status.ID, &status.Name, &status.Color, &status.Module, &status.IsFinal,
		&status.CreatedAt, &status.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting global status by ID %d: %v", ErrDatabaseError, id, err)
	}
	return status, nil
}

// GetStatusesByModule lists the statuses of one workflow module, or all
// statuses when module is empty.
func (r *statusRepository) GetStatusesByModule(module string) ([]models.GlobalStatus, error) {
	query := `SELECT id, name, color, module, is_final, created_at, updated_at FROM global_statuses`
	var args []interface{}
	if module != "" {
		query += ` WHERE module = $1`
		args = append(args, module)
	}
	query += ` ORDER BY module ASC, name ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying global statuses: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	statuses := []models.GlobalStatus{}
	for rows.Next() {
		var s models.GlobalStatus
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.Module, &s.IsFinal, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning global status: %v", ErrDatabaseError, err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// UpdateStatus updates an existing global status.
func (r *statusRepository) UpdateStatus(executor SQLExecutor, status *models.GlobalStatus) error {
	query := `UPDATE global_statuses SET name = $1, color = $2, module = $3, is_final = $4, updated_at = $5 WHERE id = $6`

	status.UpdatedAt = time.Now()
	result, err := executor.Exec(query, status.Name, status.Color, status.Module, status.IsFinal, status.UpdatedAt, status.ID)
	if err != nil {
		return fmt.Errorf("%w: updating global status ID %d: %v", ErrDatabaseError, status.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for global status ID %d: %v", ErrDatabaseError, status.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStatus removes a global status. Fails when rows still reference it.
func (r *statusRepository) DeleteStatus(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM global_statuses WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: global status ID %d (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting global status ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting global status ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTransition inserts an allowed-transition edge for a module.
func (r *statusRepository) CreateTransition(executor SQLExecutor, transition *models.StatusTransition) (int64, error) {
	query := `INSERT INTO status_transitions (module, from_status_id, to_status_id, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`

	err := executor.QueryRow(query, transition.Module, transition.FromStatusID, transition.ToStatusID, time.Now()).Scan(&transition.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: transition references missing status (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating status transition: %v", ErrDatabaseError, err)
	}
	return transition.ID, nil
}

// GetTransitionsByModule lists the configured transitions of a module.
func (r *statusRepository) GetTransitionsByModule(module string) ([]models.StatusTransition, error) {
	query := `SELECT id, module, from_status_id, to_status_id, created_at FROM status_transitions WHERE module = $1 ORDER BY id ASC`

	rows, err := r.db.Query(query, module)
	if err != nil {
		return nil, fmt.Errorf("%w: querying status transitions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	transitions := []models.StatusTransition{}
	for rows.Next() {
		var t models.StatusTransition
		if err := rows.Scan(&t.ID, &t.Module, &t.FromStatusID, &t.ToStatusID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning status transition: %v", ErrDatabaseError, err)
		}
		transitions = append(transitions, t)
	}
	return transitions, rows.Err()
}

// DeleteTransition removes a transition edge.
func (r *statusRepository) DeleteTransition(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM status_transitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting status transition ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting status transition ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

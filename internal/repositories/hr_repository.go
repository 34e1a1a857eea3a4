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

// HRRepository defines the interface for employee and time-off database
// operations.
type HRRepository interface {
	CreateEmployee(executor SQLExecutor, employee *models.Employee) (int64, error)
	GetEmployeeByID(id int64) (*models.Employee, error)
	GetEmployees(filters models.EmployeeFilters) ([]models.Employee, int, error)
	UpdateEmployee(executor SQLExecutor, employee *models.Employee) error
	DeleteEmployee(executor SQLExecutor, id int64) error

	CreateTimeOffRequest(executor SQLExecutor, request *models.TimeOffRequest) (int64, error)
	GetTimeOffRequestByID(id int64) (*models.TimeOffRequest, error)
	GetTimeOffRequests(filters models.TimeOffFilters) ([]models.TimeOffRequest, int, error)
	// DecideTimeOffRequest flips a pending request to approved or rejected.
	// The WHERE clause guards on pending so a terminal request is never
	// re-decided even under concurrent reviewers; returns ErrNotFound when
	// no pending row matched.
	DecideTimeOffRequest(executor SQLExecutor, requestID int64, status models.TimeOffStatus, reviewerID int64, notes *string) error
	CountTimeOffByStatus(status models.TimeOffStatus) (int, error)
}

type hrRepository struct {
	db *sql.DB
}

// NewHRRepository creates a new instance of HRRepository.
func NewHRRepository(db *sql.DB) HRRepository {
	return &hrRepository{db: db}
}

// CreateEmployee inserts a new employee.
func (r *hrRepository) CreateEmployee(executor SQLExecutor, employee *models.Employee) (int64, error) {
	query := `INSERT INTO employees (user_id, full_name, email, phone, position, hire_date, salary, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	          RETURNING id`

	err := executor.QueryRow(query,
		employee.UserID, employee.FullName, employee.Email, employee.Phone,
		employee.Position, employee.HireDate, employee.Salary, employee.IsActive, time.Now(),
	).Scan(&employee.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: employee references missing user (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating employee: %v", ErrDatabaseError, err)
	}
	return employee.ID, nil
}

// GetEmployeeByID retrieves an employee by ID.
func (r *hrRepository) GetEmployeeByID(id int64) (*models.Employee, error) {
	employee := &models.Employee{}
	query := `SELECT id, user_id, full_name, email, phone, position, hire_date, salary, is_active, created_at, updated_at
	          FROM employees WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&employee.ID, &employee.UserID, &employee.FullName, &employee.Email,
		&employee.Phone, &employee.Position, &employee.HireDate, &employee.Salary,
		&employee.IsActive, &employee.CreatedAt, &employee.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting employee by ID %d: %v", ErrDatabaseError, id, err)
	}
	return employee, nil
}

// GetEmployees retrieves employees with pagination and optional search.
func (r *hrRepository) GetEmployees(filters models.EmployeeFilters) ([]models.Employee, int, error) {
	employees := []models.Employee{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, user_id, full_name, email, phone, position, hire_date, salary, is_active, created_at, updated_at, COUNT(*) OVER() as total_count
	                          FROM employees`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) ILIKE $%d OR LOWER(COALESCE(email, '')) ILIKE $%d OR LOWER(COALESCE(position, '')) ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *filters.IsActive)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY full_name ASC")

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
		return nil, 0, fmt.Errorf("%w: querying employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.FullName, &e.Email, &e.Phone, &e.Position,
			&e.HireDate, &e.Salary, &e.IsActive, &e.CreatedAt, &e.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning employee: %v", ErrDatabaseError, err)
		}
		employees = append(employees, e)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating employee rows: %v", ErrDatabaseError, err)
	}
	return employees, totalCount, nil
}

// UpdateEmployee updates an existing employee.
func (r *hrRepository) UpdateEmployee(executor SQLExecutor, employee *models.Employee) error {
	query := `UPDATE employees SET
	            user_id = $1, full_name = $2, email = $3, phone = $4, position = $5,
	            hire_date = $6, salary = $7, is_active = $8, updated_at = $9
	          WHERE id = $10`

	employee.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		employee.UserID, employee.FullName, employee.Email, employee.Phone,
		employee.Position, employee.HireDate, employee.Salary, employee.IsActive,
		employee.UpdatedAt, employee.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating employee ID %d: %v", ErrDatabaseError, employee.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for employee ID %d: %v", ErrDatabaseError, employee.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEmployee removes an employee.
func (r *hrRepository) DeleteEmployee(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: employee ID %d (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting employee ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting employee ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTimeOffRequest inserts a new request in pending status.
func (r *hrRepository) CreateTimeOffRequest(executor SQLExecutor, request *models.TimeOffRequest) (int64, error) {
	query := `INSERT INTO time_off_requests (employee_id, start_date, end_date, reason, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)
	          RETURNING id`

	err := executor.QueryRow(query,
		request.EmployeeID, request.StartDate, request.EndDate,
		request.Reason, models.TimeOffStatusPending, time.Now(),
	).Scan(&request.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: time-off request references missing employee (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating time-off request: %v", ErrDatabaseError, err)
	}
	request.Status = models.TimeOffStatusPending
	return request.ID, nil
}

// GetTimeOffRequestByID retrieves a request with its employee name.
func (r *hrRepository) GetTimeOffRequestByID(id int64) (*models.TimeOffRequest, error) {
	request := &models.TimeOffRequest{}
	employee := models.Employee{}
	query := `SELECT t.id, t.employee_id, t.start_date, t.end_date, t.reason, t.status,
	                 t.reviewed_by, t.review_notes, t.reviewed_at, t.created_at, t.updated_at,
	                 e.id, e.full_name
	          FROM time_off_requests t
	          JOIN employees e ON e.id = t.employee_id
	          WHERE t.id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&request.ID, &request.EmployeeID, &request.StartDate, &request.EndDate,
		&request.Reason, &request.Status, &request.ReviewedBy, &request.ReviewNotes,
		&request.ReviewedAt, &request.CreatedAt, &request.UpdatedAt,
		&employee.ID, &employee.FullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting time-off request by ID %d: %v", ErrDatabaseError, id, err)
	}
	request.Employee = &employee
	return request, nil
}

// GetTimeOffRequests retrieves requests with pagination and optional filters.
func (r *hrRepository) GetTimeOffRequests(filters models.TimeOffFilters) ([]models.TimeOffRequest, int, error) {
	requests := []models.TimeOffRequest{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT t.id, t.employee_id, t.start_date, t.end_date, t.reason, t.status,
	                                 t.reviewed_by, t.review_notes, t.reviewed_at, t.created_at, t.updated_at,
	                                 e.full_name, COUNT(*) OVER() as total_count
	                          FROM time_off_requests t
	                          JOIN employees e ON e.id = t.employee_id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("t.employee_id = $%d", argCount))
		args = append(args, *filters.EmployeeID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY t.created_at DESC, t.id DESC")

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
		return nil, 0, fmt.Errorf("%w: querying time-off requests: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.TimeOffRequest
		var employeeName string
		if err := rows.Scan(
			&t.ID, &t.EmployeeID, &t.StartDate, &t.EndDate, &t.Reason, &t.Status,
			&t.ReviewedBy, &t.ReviewNotes, &t.ReviewedAt, &t.CreatedAt, &t.UpdatedAt,
			&employeeName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning time-off request: %v", ErrDatabaseError, err)
		}
		t.Employee = &models.Employee{ID: t.EmployeeID, FullName: employeeName}
		requests = append(requests, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating time-off request rows: %v", ErrDatabaseError, err)
	}
	return requests, totalCount, nil
}

// DecideTimeOffRequest applies an approve/reject decision. See interface doc
// for the pending guard semantics.
func (r *hrRepository) DecideTimeOffRequest(executor SQLExecutor, requestID int64, status models.TimeOffStatus, reviewerID int64, notes *string) error {
	query := `UPDATE time_off_requests SET
	            status = $1, reviewed_by = $2, review_notes = $3, reviewed_at = $4, updated_at = $4
	          WHERE id = $5 AND status = $6`

	result, err := executor.Exec(query, status, reviewerID, notes, time.Now(), requestID, models.TimeOffStatusPending)
	if err != nil {
		return fmt.Errorf("%w: deciding time-off request ID %d: %v", ErrDatabaseError, requestID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for time-off decision ID %d: %v", ErrDatabaseError, requestID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountTimeOffByStatus counts requests in the given status.
func (r *hrRepository) CountTimeOffByStatus(status models.TimeOffStatus) (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM time_off_requests WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting time-off requests by status: %v", ErrDatabaseError, err)
	}
	return count, nil
}

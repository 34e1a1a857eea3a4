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

// TrainingRepository defines the interface for course, enrollment and
// certificate database operations.
type TrainingRepository interface {
	CreateCourse(executor SQLExecutor, course *models.Course) (int64, error)
	GetCourseByID(id int64) (*models.Course, error)
	GetCourses(isActive *bool, page, pageSize int) ([]models.Course, int, error)
	UpdateCourse(executor SQLExecutor, course *models.Course) error
	DeleteCourse(executor SQLExecutor, id int64) error

	CreateEnrollment(executor SQLExecutor, enrollment *models.Enrollment) (int64, error)
	GetEnrollmentByID(id int64) (*models.Enrollment, error)
	GetEnrollments(filters models.EnrollmentFilters) ([]models.Enrollment, int, error)
	UpdateEnrollmentStatus(executor SQLExecutor, enrollmentID int64, status models.EnrollmentStatus, completedAt *time.Time) error

	CreateCertificate(executor SQLExecutor, certificate *models.Certificate) (int64, error)
	GetCertificateByEnrollment(enrollmentID int64) (*models.Certificate, error)
	GetCertificateByCode(code string) (*models.Certificate, error)
}

type trainingRepository struct {
	db *sql.DB
}

// NewTrainingRepository creates a new instance of TrainingRepository.
func NewTrainingRepository(db *sql.DB) TrainingRepository {
	return &trainingRepository{db: db}
}

// CreateCourse inserts a new course.
func (r *trainingRepository) CreateCourse(executor SQLExecutor, course *models.Course) (int64, error) {
	query := `INSERT INTO courses (name, description, workload_hours, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          RETURNING id`

	err := executor.QueryRow(query,
		course.Name, course.Description, course.WorkloadHrs, course.IsActive, time.Now(),
	).Scan(&course.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating course: %v", ErrDatabaseError, err)
	}
	return course.ID, nil
}

// GetCourseByID retrieves a course by ID.
func (r *trainingRepository) GetCourseByID(id int64) (*models.Course, error) {
	course := &models.Course{}
	query := `SELECT id, name, description, workload_hours, is_active, created_at, updated_at
	          FROM courses WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&course.ID, &course.Name, &course.Description, &course.WorkloadHrs,
		&course.IsActive, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting course by ID %d: %v", ErrDatabaseError, id, err)
	}
	return course, nil
}

// GetCourses retrieves courses with pagination.
func (r *trainingRepository) GetCourses(isActive *bool, page, pageSize int) ([]models.Course, int, error) {
	courses := []models.Course{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, name, description, workload_hours, is_active, created_at, updated_at, COUNT(*) OVER() as total_count
	                          FROM courses`)

	var args []interface{}
	argCount := 1
	if isActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE is_active = $%d", argCount))
		args = append(args, *isActive)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY name ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying courses: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.WorkloadHrs,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning course: %v", ErrDatabaseError, err)
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating course rows: %v", ErrDatabaseError, err)
	}
	return courses, totalCount, nil
}

// UpdateCourse updates an existing course.
func (r *trainingRepository) UpdateCourse(executor SQLExecutor, course *models.Course) error {
	query := `UPDATE courses SET name = $1, description = $2, workload_hours = $3, is_active = $4, updated_at = $5
	          WHERE id = $6`

	course.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		course.Name, course.Description, course.WorkloadHrs,
		course.IsActive, course.UpdatedAt, course.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating course ID %d: %v", ErrDatabaseError, course.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for course ID %d: %v", ErrDatabaseError, course.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCourse removes a course. Fails when enrollments reference it.
func (r *trainingRepository) DeleteCourse(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: course ID %d (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting course ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting course ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateEnrollment inserts a new enrollment in enrolled status.
func (r *trainingRepository) CreateEnrollment(executor SQLExecutor, enrollment *models.Enrollment) (int64, error) {
	query := `INSERT INTO enrollments (course_id, employee_id, status, enrolled_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4, $4)
	          RETURNING id, enrolled_at`

	err := executor.QueryRow(query,
		enrollment.CourseID, enrollment.EmployeeID, models.EnrollmentStatusEnrolled, time.Now(),
	).Scan(&enrollment.ID, &enrollment.EnrolledAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: employee already enrolled (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: enrollment references missing course or employee (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating enrollment: %v", ErrDatabaseError, err)
	}
	enrollment.Status = models.EnrollmentStatusEnrolled
	return enrollment.ID, nil
}

// GetEnrollmentByID retrieves an enrollment with its course and employee.
func (r *trainingRepository) GetEnrollmentByID(id int64) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{}
	course := models.Course{}
	employee := models.Employee{}
	query := `SELECT en.id, en.course_id, en.employee_id, en.status, en.enrolled_at, en.completed_at,
	                 en.created_at, en.updated_at, c.id, c.name, e.id, e.full_name
	          FROM enrollments en
	          JOIN courses c ON c.id = en.course_id
	          JOIN employees e ON e.id = en.employee_id
	          WHERE en.id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&enrollment.ID, &enrollment.CourseID, &enrollment.EmployeeID, &enrollment.Status,
		&enrollment.EnrolledAt, &enrollment.CompletedAt, &enrollment.CreatedAt, &enrollment.UpdatedAt,
		&course.ID, &course.Name, &employee.ID, &employee.FullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting enrollment by ID %d: %v", ErrDatabaseError, id, err)
	}
	enrollment.Course = &course
	enrollment.Employee = &employee
	return enrollment, nil
}

// GetEnrollments retrieves enrollments with pagination and optional filters.
func (r *trainingRepository) GetEnrollments(filters models.EnrollmentFilters) ([]models.Enrollment, int, error) {
	enrollments := []models.Enrollment{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT en.id, en.course_id, en.employee_id, en.status, en.enrolled_at, en.completed_at,
	                                 en.created_at, en.updated_at, c.name, e.full_name, COUNT(*) OVER() as total_count
	                          FROM enrollments en
	                          JOIN courses c ON c.id = en.course_id
	                          JOIN employees e ON e.id = en.employee_id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.CourseID != nil {
		conditions = append(conditions, fmt.Sprintf("en.course_id = $%d", argCount))
		args = append(args, *filters.CourseID)
		argCount++
	}
	if filters.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("en.employee_id = $%d", argCount))
		args = append(args, *filters.EmployeeID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("en.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY en.enrolled_at DESC, en.id DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (filters.Page-1)*filters.PageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying enrollments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var en models.Enrollment
		var courseName, employeeName string
		if err := rows.Scan(
			&en.ID, &en.CourseID, &en.EmployeeID, &en.Status, &en.EnrolledAt, &en.CompletedAt,
			&en.CreatedAt, &en.UpdatedAt, &courseName, &employeeName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning enrollment: %v", ErrDatabaseError, err)
		}
		en.Course = &models.Course{ID: en.CourseID, Name: courseName}
		en.Employee = &models.Employee{ID: en.EmployeeID, FullName: employeeName}
		enrollments = append(enrollments, en)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating enrollment rows: %v", ErrDatabaseError, err)
	}
	return enrollments, totalCount, nil
}

// UpdateEnrollmentStatus changes an enrollment status. completedAt is stored
// only for completions and cleared otherwise.
func (r *trainingRepository) UpdateEnrollmentStatus(executor SQLExecutor, enrollmentID int64, status models.EnrollmentStatus, completedAt *time.Time) error {
	query := `UPDATE enrollments SET status = $1, completed_at = $2, updated_at = $3 WHERE id = $4`

	result, err := executor.Exec(query, status, completedAt, time.Now(), enrollmentID)
	if err != nil {
		return fmt.Errorf("%w: updating enrollment status ID %d: %v", ErrDatabaseError, enrollmentID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for enrollment ID %d: %v", ErrDatabaseError, enrollmentID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateCertificate inserts a certificate for a completed enrollment.
func (r *trainingRepository) CreateCertificate(executor SQLExecutor, certificate *models.Certificate) (int64, error) {
	query := `INSERT INTO certificates (enrollment_id, code, issued_at, created_at)
	          VALUES ($1, $2, $3, $3)
	          RETURNING id, created_at`

	err := executor.QueryRow(query, certificate.EnrollmentID, certificate.Code, certificate.IssuedAt).Scan(&certificate.ID, &certificate.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: certificate already issued (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: certificate references missing enrollment (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating certificate: %v", ErrDatabaseError, err)
	}
	return certificate.ID, nil
}

// GetCertificateByEnrollment retrieves the certificate of an enrollment.
func (r *trainingRepository) GetCertificateByEnrollment(enrollmentID int64) (*models.Certificate, error) {
	certificate := &models.Certificate{}
	query := `SELECT id, enrollment_id, code, issued_at, created_at FROM certificates WHERE enrollment_id = $1`

	err := r.db.QueryRow(query, enrollmentID).Scan(
		&certificate.ID, &certificate.EnrollmentID, &certificate.Code, &certificate.IssuedAt, &certificate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting certificate for enrollment ID %d: %v", ErrDatabaseError, enrollmentID, err)
	}
	return certificate, nil
}

// GetCertificateByCode retrieves a certificate by its public code.
func (r *trainingRepository) GetCertificateByCode(code string) (*models.Certificate, error) {
	certificate := &models.Certificate{}
	query := `SELECT id, enrollment_id, code, issued_at, created_at FROM certificates WHERE code = $1`

	err := r.db.QueryRow(query, code).Scan(
		&certificate.ID, &certificate.EnrollmentID, &certificate.Code, &certificate.IssuedAt, &certificate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting certificate by code: %v", ErrDatabaseError, err)
	}
	return certificate, nil
}

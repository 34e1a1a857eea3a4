package models

import "time"

// EnrollmentStatus defines the type for training enrollment statuses.
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// IsValidEnrollmentStatus checks if the provided status string is valid.
func IsValidEnrollmentStatus(status string) bool {
	switch EnrollmentStatus(status) {
	case EnrollmentStatusEnrolled, EnrollmentStatusCompleted, EnrollmentStatusCancelled:
		return true
	default:
		return false
	}
}

// Course is a training course offered to employees.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	WorkloadHrs *int      `json:"workload_hours,omitempty" db:"workload_hours"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Enrollment links an employee to a course. Completing an enrollment
// issues a certificate.
type Enrollment struct {
	ID          int64            `json:"id" db:"id"`
	CourseID    int64            `json:"course_id" db:"course_id" binding:"required"`
	EmployeeID  int64            `json:"employee_id" db:"employee_id" binding:"required"`
	Status      EnrollmentStatus `json:"status" db:"status"`
	EnrolledAt  time.Time        `json:"enrolled_at" db:"enrolled_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
	Course      *Course          `json:"course,omitempty"`
	Employee    *Employee        `json:"employee,omitempty"`
}

// Certificate records course completion for an employee.
type Certificate struct {
	ID           int64     `json:"id" db:"id"`
	EnrollmentID int64     `json:"enrollment_id" db:"enrollment_id"`
	Code         string    `json:"code" db:"code"`
	IssuedAt     time.Time `json:"issued_at" db:"issued_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// EnrollmentFilters defines the available filters for querying enrollments.
type EnrollmentFilters struct {
	CourseID   *int64  `form:"course_id"`
	EmployeeID *int64  `form:"employee_id"`
	Status     *string `form:"status"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}

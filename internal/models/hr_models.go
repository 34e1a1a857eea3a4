package models

import "time"

// TimeOffStatus defines the type for time-off request statuses.
type TimeOffStatus string

const (
	TimeOffStatusPending  TimeOffStatus = "pending"
	TimeOffStatusApproved TimeOffStatus = "approved"
	TimeOffStatusRejected TimeOffStatus = "rejected"
)

// IsTerminalTimeOffStatus reports whether a status admits no further
// transitions. Approve/reject are only valid from pending.
func IsTerminalTimeOffStatus(status TimeOffStatus) bool {
	return status == TimeOffStatusApproved || status == TimeOffStatusRejected
}

// Employee represents a staff member.
type Employee struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"user_id,omitempty" db:"user_id"` // link to users table for login
	FullName  string    `json:"full_name" db:"full_name" binding:"required"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Position  *string   `json:"position,omitempty" db:"position"`
	HireDate  *string   `json:"hire_date,omitempty" db:"hire_date"` // YYYY-MM-DD
	Salary    *float64  `json:"salary,omitempty" db:"salary"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	User      *User     `json:"user,omitempty"`
}

// TimeOffRequest is a leave request with a pending → approved|rejected
// lifecycle. Decisions record the reviewing user.
type TimeOffRequest struct {
	ID             int64         `json:"id" db:"id"`
	EmployeeID     int64         `json:"employee_id" db:"employee_id" binding:"required"`
	StartDate      string        `json:"start_date" db:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate        string        `json:"end_date" db:"end_date" binding:"required"`     // YYYY-MM-DD
	Reason         *string       `json:"reason,omitempty" db:"reason"`
	Status         TimeOffStatus `json:"status" db:"status"`
	ReviewedBy     *int64        `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewNotes    *string       `json:"review_notes,omitempty" db:"review_notes"`
	ReviewedAt     *time.Time    `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
	Employee       *Employee     `json:"employee,omitempty"`
}

// EmployeeFilters defines the available filters for querying employees.
type EmployeeFilters struct {
	Search   *string `form:"search"`
	IsActive *bool   `form:"is_active"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// TimeOffFilters defines the available filters for querying time-off requests.
type TimeOffFilters struct {
	EmployeeID *int64  `form:"employee_id"`
	Status     *string `form:"status"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}

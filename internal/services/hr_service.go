package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
	"erp_backoffice/pkg/utils"
)

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrTimeOffNotFound     = errors.New("time-off request not found")
	ErrTimeOffAlreadyFinal = errors.New("time-off request already decided")
	ErrHRValidation        = errors.New("hr data validation error")
)

// --- HR DTOs ---

type CreateEmployeeRequest struct {
	UserID   *int64   `json:"user_id"`
	FullName string   `json:"full_name" binding:"required"`
	Email    *string  `json:"email" binding:"omitempty,email"`
	Phone    *string  `json:"phone"`
	Position *string  `json:"position"`
	HireDate *string  `json:"hire_date"` // YYYY-MM-DD
	Salary   *float64 `json:"salary" binding:"omitempty,gte=0"`
	IsActive *bool    `json:"is_active"`
}

type UpdateEmployeeRequest struct {
	UserID   *int64   `json:"user_id"`
	FullName *string  `json:"full_name"`
	Email    *string  `json:"email" binding:"omitempty,email"`
	Phone    *string  `json:"phone"`
	Position *string  `json:"position"`
	HireDate *string  `json:"hire_date"`
	Salary   *float64 `json:"salary" binding:"omitempty,gte=0"`
	IsActive *bool    `json:"is_active"`
}

type CreateTimeOffRequestInput struct {
	EmployeeID int64   `json:"employee_id" binding:"required"`
	StartDate  string  `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate    string  `json:"end_date" binding:"required"`   // YYYY-MM-DD
	Reason     *string `json:"reason"`
}

type DecideTimeOffInput struct {
	Notes *string `json:"notes"`
}

// --- HRService Interface ---
type HRService interface {
	CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error)
	GetEmployeeByID(employeeID int64) (*models.Employee, error)
	GetEmployees(filters models.EmployeeFilters) ([]models.Employee, int, error)
	UpdateEmployee(employeeID int64, req UpdateEmployeeRequest) (*models.Employee, error)
	DeleteEmployee(employeeID int64) error

	CreateTimeOffRequest(input CreateTimeOffRequestInput) (*models.TimeOffRequest, error)
	GetTimeOffRequestByID(requestID int64) (*models.TimeOffRequest, error)
	GetTimeOffRequests(filters models.TimeOffFilters) ([]models.TimeOffRequest, int, error)

	// ApproveTimeOff and RejectTimeOff decide a pending request. A request
	// already approved or rejected is terminal: deciding it again fails with
	// ErrTimeOffAlreadyFinal, never silently re-decides.
	ApproveTimeOff(requestID, reviewerUserID int64, input DecideTimeOffInput) (*models.TimeOffRequest, error)
	RejectTimeOff(requestID, reviewerUserID int64, input DecideTimeOffInput) (*models.TimeOffRequest, error)
}

// --- hrService Implementation ---
type hrService struct {
	hrRepo       repositories.HRRepository
	notifService NotificationService
	db           *sql.DB
}

// NewHRService creates a new instance of HRService.
func NewHRService(hrRepo repositories.HRRepository, notifService NotificationService, db *sql.DB) HRService {
	return &hrService{hrRepo: hrRepo, notifService: notifService, db: db}
}

func validateDateString(value, field string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrHRValidation, field)
	}
	return nil
}

func (s *hrService) CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrHRValidation)
	}
	if req.HireDate != nil {
		if err := validateDateString(*req.HireDate, "hire_date"); err != nil {
			return nil, err
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	employee := &models.Employee{
		UserID:   req.UserID,
		FullName: fullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Position: req.Position,
		HireDate: req.HireDate,
		Salary:   req.Salary,
		IsActive: isActive,
	}

	if _, err := s.hrRepo.CreateEmployee(s.db, employee); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: email already in use", ErrHRValidation)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: linked user does not exist", ErrHRValidation)
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return s.GetEmployeeByID(employee.ID)
}

func (s *hrService) GetEmployeeByID(employeeID int64) (*models.Employee, error) {
	employee, err := s.hrRepo.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (s *hrService) GetEmployees(filters models.EmployeeFilters) ([]models.Employee, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	employees, totalCount, err := s.hrRepo.GetEmployees(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get employees: %w", err)
	}
	return employees, totalCount, nil
}

func (s *hrService) UpdateEmployee(employeeID int64, req UpdateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.hrRepo.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee for update: %w", err)
	}

	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, fmt.Errorf("%w: full_name cannot be empty", ErrHRValidation)
		}
		employee.FullName = fullName
	}
	if req.HireDate != nil {
		if err := validateDateString(*req.HireDate, "hire_date"); err != nil {
			return nil, err
		}
		employee.HireDate = req.HireDate
	}
	if req.UserID != nil {
		employee.UserID = req.UserID
	}
	if req.Email != nil {
		employee.Email = req.Email
	}
	if req.Phone != nil {
		employee.Phone = req.Phone
	}
	if req.Position != nil {
		employee.Position = req.Position
	}
	if req.Salary != nil {
		employee.Salary = req.Salary
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := s.hrRepo.UpdateEmployee(s.db, employee); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return s.GetEmployeeByID(employeeID)
}

func (s *hrService) DeleteEmployee(employeeID int64) error {
	if err := s.hrRepo.DeleteEmployee(s.db, employeeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: employee is referenced by other records", ErrHRValidation)
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func (s *hrService) CreateTimeOffRequest(input CreateTimeOffRequestInput) (*models.TimeOffRequest, error) {
	if err := validateDateString(input.StartDate, "start_date"); err != nil {
		return nil, err
	}
	if err := validateDateString(input.EndDate, "end_date"); err != nil {
		return nil, err
	}
	if strings.Compare(input.EndDate, input.StartDate) < 0 {
		return nil, fmt.Errorf("%w: end_date cannot be before start_date", ErrHRValidation)
	}
	if _, err := s.hrRepo.GetEmployeeByID(input.EmployeeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to validate employee for time-off: %w", err)
	}

	request := &models.TimeOffRequest{
		EmployeeID: input.EmployeeID,
		StartDate:  strings.TrimSpace(input.StartDate),
		EndDate:    strings.TrimSpace(input.EndDate),
		Reason:     input.Reason,
	}
	if _, err := s.hrRepo.CreateTimeOffRequest(s.db, request); err != nil {
		return nil, fmt.Errorf("failed to create time-off request: %w", err)
	}
	return s.GetTimeOffRequestByID(request.ID)
}

func (s *hrService) GetTimeOffRequestByID(requestID int64) (*models.TimeOffRequest, error) {
	request, err := s.hrRepo.GetTimeOffRequestByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTimeOffNotFound
		}
		return nil, fmt.Errorf("failed to get time-off request: %w", err)
	}
	return request, nil
}

func (s *hrService) GetTimeOffRequests(filters models.TimeOffFilters) ([]models.TimeOffRequest, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	requests, totalCount, err := s.hrRepo.GetTimeOffRequests(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get time-off requests: %w", err)
	}
	return requests, totalCount, nil
}

func (s *hrService) ApproveTimeOff(requestID, reviewerUserID int64, input DecideTimeOffInput) (*models.TimeOffRequest, error) {
	return s.decideTimeOff(requestID, reviewerUserID, models.TimeOffStatusApproved, input.Notes)
}

func (s *hrService) RejectTimeOff(requestID, reviewerUserID int64, input DecideTimeOffInput) (*models.TimeOffRequest, error) {
	return s.decideTimeOff(requestID, reviewerUserID, models.TimeOffStatusRejected, input.Notes)
}

func (s *hrService) decideTimeOff(requestID, reviewerUserID int64, status models.TimeOffStatus, notes *string) (*models.TimeOffRequest, error) {
	request, err := s.hrRepo.GetTimeOffRequestByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTimeOffNotFound
		}
		return nil, fmt.Errorf("failed to find time-off request for decision: %w", err)
	}
	if models.IsTerminalTimeOffStatus(request.Status) {
		return nil, fmt.Errorf("%w: request is '%s'", ErrTimeOffAlreadyFinal, request.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for time-off decision: %w", err)
	}
	defer tx.Rollback()

	if err := s.hrRepo.DecideTimeOffRequest(tx, requestID, status, reviewerUserID, notes); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// a concurrent reviewer got there first
			return nil, fmt.Errorf("%w: request was decided concurrently", ErrTimeOffAlreadyFinal)
		}
		return nil, fmt.Errorf("failed to decide time-off request: %w", err)
	}

	s.notifyRequester(tx, request, status)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit time-off decision: %w", err)
	}
	return s.GetTimeOffRequestByID(requestID)
}

// notifyRequester notifies the employee's user account about the decision,
// if the employee is linked to one.
func (s *hrService) notifyRequester(tx *sql.Tx, request *models.TimeOffRequest, status models.TimeOffStatus) {
	employee, err := s.hrRepo.GetEmployeeByID(request.EmployeeID)
	if err != nil {
		utils.LogError(err, fmt.Sprintf("time-off %d: could not resolve employee %d for notification", request.ID, request.EmployeeID))
		return
	}
	if employee.UserID == nil {
		return
	}
	verb := "approved"
	if status == models.TimeOffStatusRejected {
		verb = "rejected"
	}
	body := fmt.Sprintf("Your time-off request for %s to %s was %s.", request.StartDate, request.EndDate, verb)
	if _, err := s.notifService.Notify(tx, *employee.UserID, "Time-off request "+verb, &body, "time_off_decision"); err != nil {
		utils.LogError(err, fmt.Sprintf("time-off %d: failed to notify user %d", request.ID, *employee.UserID))
	}
}

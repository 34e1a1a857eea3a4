package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
)

var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrAlreadyEnrolled      = errors.New("employee already enrolled in course")
	ErrEnrollmentTransition = errors.New("enrollment status transition not allowed")
	ErrTrainingValidation   = errors.New("training data validation error")
)

// --- Training DTOs ---

type CreateCourseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	WorkloadHrs *int    `json:"workload_hours" binding:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	WorkloadHrs *int    `json:"workload_hours" binding:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

type CreateEnrollmentRequest struct {
	CourseID   int64 `json:"course_id" binding:"required"`
	EmployeeID int64 `json:"employee_id" binding:"required"`
}

// --- TrainingService Interface ---
type TrainingService interface {
	CreateCourse(req CreateCourseRequest) (*models.Course, error)
	GetCourseByID(courseID int64) (*models.Course, error)
	GetCourses(isActive *bool, page, pageSize int) ([]models.Course, int, error)
	UpdateCourse(courseID int64, req UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(courseID int64) error

	Enroll(req CreateEnrollmentRequest) (*models.Enrollment, error)
	GetEnrollmentByID(enrollmentID int64) (*models.Enrollment, error)
	GetEnrollments(filters models.EnrollmentFilters) ([]models.Enrollment, int, error)

	// CompleteEnrollment moves enrolled → completed and issues the
	// certificate in the same transaction. CancelEnrollment moves
	// enrolled → cancelled. Completed and cancelled are terminal.
	CompleteEnrollment(enrollmentID int64) (*models.Enrollment, error)
	CancelEnrollment(enrollmentID int64) (*models.Enrollment, error)

	GetCertificateByEnrollment(enrollmentID int64) (*models.Certificate, error)
	GetCertificateByCode(code string) (*models.Certificate, error)
}

// --- trainingService Implementation ---
type trainingService struct {
	trainingRepo repositories.TrainingRepository
	db           *sql.DB
}

// NewTrainingService creates a new instance of TrainingService.
func NewTrainingService(trainingRepo repositories.TrainingRepository, db *sql.DB) TrainingService {
	return &trainingService{trainingRepo: trainingRepo, db: db}
}

func (s *trainingService) CreateCourse(req CreateCourseRequest) (*models.Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrTrainingValidation)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	course := &models.Course{
		Name:        name,
		Description: req.Description,
		WorkloadHrs: req.WorkloadHrs,
		IsActive:    isActive,
	}
	if _, err := s.trainingRepo.CreateCourse(s.db, course); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: course '%s' already exists", ErrTrainingValidation, name)
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return s.GetCourseByID(course.ID)
}

func (s *trainingService) GetCourseByID(courseID int64) (*models.Course, error) {
	course, err := s.trainingRepo.GetCourseByID(courseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *trainingService) GetCourses(isActive *bool, page, pageSize int) ([]models.Course, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	courses, totalCount, err := s.trainingRepo.GetCourses(isActive, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get courses: %w", err)
	}
	return courses, totalCount, nil
}

func (s *trainingService) UpdateCourse(courseID int64, req UpdateCourseRequest) (*models.Course, error) {
	course, err := s.trainingRepo.GetCourseByID(courseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to find course for update: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrTrainingValidation)
		}
		course.Name = name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.WorkloadHrs != nil {
		course.WorkloadHrs = req.WorkloadHrs
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.trainingRepo.UpdateCourse(s.db, course); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return s.GetCourseByID(courseID)
}

func (s *trainingService) DeleteCourse(courseID int64) error {
	if err := s.trainingRepo.DeleteCourse(s.db, courseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCourseNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: course has enrollments", ErrTrainingValidation)
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

func (s *trainingService) Enroll(req CreateEnrollmentRequest) (*models.Enrollment, error) {
	course, err := s.GetCourseByID(req.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, fmt.Errorf("%w: course '%s' is inactive", ErrTrainingValidation, course.Name)
	}

	enrollment := &models.Enrollment{
		CourseID:   req.CourseID,
		EmployeeID: req.EmployeeID,
	}
	if _, err := s.trainingRepo.CreateEnrollment(s.db, enrollment); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrAlreadyEnrolled
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: course or employee does not exist", ErrTrainingValidation)
		}
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}
	return s.GetEnrollmentByID(enrollment.ID)
}

func (s *trainingService) GetEnrollmentByID(enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.trainingRepo.GetEnrollmentByID(enrollmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *trainingService) GetEnrollments(filters models.EnrollmentFilters) ([]models.Enrollment, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	if filters.Status != nil && *filters.Status != "" && !models.IsValidEnrollmentStatus(*filters.Status) {
		return nil, 0, fmt.Errorf("%w: unknown status '%s'", ErrTrainingValidation, *filters.Status)
	}

	enrollments, totalCount, err := s.trainingRepo.GetEnrollments(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get enrollments: %w", err)
	}
	return enrollments, totalCount, nil
}

// certificateCode builds a random, URL-safe certificate code.
func certificateCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate certificate code: %w", err)
	}
	return "CERT-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (s *trainingService) CompleteEnrollment(enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.GetEnrollmentByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentStatusEnrolled {
		return nil, fmt.Errorf("%w: cannot complete a '%s' enrollment", ErrEnrollmentTransition, enrollment.Status)
	}

	code, err := certificateCode()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for enrollment completion: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if err := s.trainingRepo.UpdateEnrollmentStatus(tx, enrollmentID, models.EnrollmentStatusCompleted, &now); err != nil {
		return nil, fmt.Errorf("failed to complete enrollment: %w", err)
	}

	certificate := &models.Certificate{
		EnrollmentID: enrollmentID,
		Code:         code,
		IssuedAt:     now,
	}
	if _, err := s.trainingRepo.CreateCertificate(tx, certificate); err != nil {
		return nil, fmt.Errorf("failed to issue certificate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit enrollment completion: %w", err)
	}
	return s.GetEnrollmentByID(enrollmentID)
}

func (s *trainingService) CancelEnrollment(enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.GetEnrollmentByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentStatusEnrolled {
		return nil, fmt.Errorf("%w: cannot cancel a '%s' enrollment", ErrEnrollmentTransition, enrollment.Status)
	}

	if err := s.trainingRepo.UpdateEnrollmentStatus(s.db, enrollmentID, models.EnrollmentStatusCancelled, nil); err != nil {
		return nil, fmt.Errorf("failed to cancel enrollment: %w", err)
	}
	return s.GetEnrollmentByID(enrollmentID)
}

func (s *trainingService) GetCertificateByEnrollment(enrollmentID int64) (*models.Certificate, error) {
	certificate, err := s.trainingRepo.GetCertificateByEnrollment(enrollmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return certificate, nil
}

func (s *trainingService) GetCertificateByCode(code string) (*models.Certificate, error) {
	certificate, err := s.trainingRepo.GetCertificateByCode(strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to get certificate by code: %w", err)
	}
	return certificate, nil
}

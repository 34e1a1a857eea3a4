package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
)

var (
	ErrStatusNotFound      = errors.New("status not found")
	ErrStatusValidation    = errors.New("status data validation error")
	ErrStatusInUse         = errors.New("status is referenced by existing records")
	ErrTransitionNotFound  = errors.New("status transition not found")
	ErrTransitionForbidden = errors.New("status transition not allowed")
)

// --- Status DTOs ---

type CreateStatusRequest struct {
	Name    string  `json:"name" binding:"required"`
	Color   *string `json:"color"`
	Module  string  `json:"module" binding:"required"`
	IsFinal bool    `json:"is_final"`
}

type UpdateStatusRequest struct {
	Name    *string `json:"name"`
	Color   *string `json:"color"`
	IsFinal *bool   `json:"is_final"`
}

type CreateTransitionRequest struct {
	Module       string `json:"module" binding:"required"`
	FromStatusID int64  `json:"from_status_id" binding:"required"`
	ToStatusID   int64  `json:"to_status_id" binding:"required"`
}

// --- StatusService Interface ---
type StatusService interface {
	CreateStatus(req CreateStatusRequest) (*models.GlobalStatus, error)
	GetStatusByID(statusID int64) (*models.GlobalStatus, error)
	GetStatusesByModule(module string) ([]models.GlobalStatus, error)
	UpdateStatus(statusID int64, req UpdateStatusRequest) (*models.GlobalStatus, error)
	DeleteStatus(statusID int64) error

	CreateTransition(req CreateTransitionRequest) (*models.StatusTransition, error)
	GetTransitionsByModule(module string) ([]models.StatusTransition, error)
	DeleteTransition(transitionID int64) error

	// CheckTransition validates a from→to move for a module against the
	// configured transition table. See ValidateTransition for the rules.
	CheckTransition(module string, from, to *models.GlobalStatus) error
}

// ValidateTransition applies the workflow rules:
//   - a final status admits no outbound transition at all;
//   - a module with at least one configured edge allows exactly the
//     configured edges;
//   - a module with zero configured edges allows any non-final → any move.
func ValidateTransition(transitions []models.StatusTransition, from, to *models.GlobalStatus) error {
	if from.ID == to.ID {
		return fmt.Errorf("%w: already in status '%s'", ErrTransitionForbidden, from.Name)
	}
	if from.IsFinal {
		return fmt.Errorf("%w: '%s' is a final status", ErrTransitionForbidden, from.Name)
	}
	if len(transitions) == 0 {
		return nil
	}
	for _, t := range transitions {
		if t.FromStatusID == from.ID && t.ToStatusID == to.ID {
			return nil
		}
	}
	return fmt.Errorf("%w: '%s' → '%s' is not a configured transition", ErrTransitionForbidden, from.Name, to.Name)
}

// --- statusService Implementation ---
type statusService struct {
	statusRepo repositories.StatusRepository
	db         *sql.DB
}

// NewStatusService creates a new instance of StatusService.
func NewStatusService(statusRepo repositories.StatusRepository, db *sql.DB) StatusService {
	return &statusService{statusRepo: statusRepo, db: db}
}

func (s *statusService) CreateStatus(req CreateStatusRequest) (*models.GlobalStatus, error) {
	name := strings.TrimSpace(req.Name)
	module := strings.TrimSpace(req.Module)
	if name == "" || module == "" {
		return nil, fmt.Errorf("%w: name and module are required", ErrStatusValidation)
	}

	status := &models.GlobalStatus{
		Name:    name,
		Color:   req.Color,
		Module:  module,
		IsFinal: req.IsFinal,
	}
	if _, err := s.statusRepo.CreateStatus(s.db, status); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: status '%s' already exists in module '%s'", ErrStatusValidation, name, module)
		}
		return nil, fmt.Errorf("failed to create status: %w", err)
	}
	return s.statusRepo.GetStatusByID(status.ID)
}

func (s *statusService) GetStatusByID(statusID int64) (*models.GlobalStatus, error) {
	status, err := s.statusRepo.GetStatusByID(statusID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return status, nil
}

func (s *statusService) GetStatusesByModule(module string) ([]models.GlobalStatus, error) {
	statuses, err := s.statusRepo.GetStatusesByModule(strings.TrimSpace(module))
	if err != nil {
		return nil, fmt.Errorf("failed to get statuses: %w", err)
	}
	return statuses, nil
}

func (s *statusService) UpdateStatus(statusID int64, req UpdateStatusRequest) (*models.GlobalStatus, error) {
	status, err := s.statusRepo.GetStatusByID(statusID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to find status for update: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrStatusValidation)
		}
		status.Name = name
	}
	if req.Color != nil {
		status.Color = req.Color
	}
	if req.IsFinal != nil {
		status.IsFinal = *req.IsFinal
	}

	if err := s.statusRepo.UpdateStatus(s.db, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return s.statusRepo.GetStatusByID(statusID)
}

func (s *statusService) DeleteStatus(statusID int64) error {
	if err := s.statusRepo.DeleteStatus(s.db, statusID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStatusNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrStatusInUse
		}
		return fmt.Errorf("failed to delete status: %w", err)
	}
	return nil
}

func (s *statusService) CreateTransition(req CreateTransitionRequest) (*models.StatusTransition, error) {
	module := strings.TrimSpace(req.Module)
	if module == "" {
		return nil, fmt.Errorf("%w: module is required", ErrStatusValidation)
	}
	if req.FromStatusID == req.ToStatusID {
		return nil, fmt.Errorf("%w: transition cannot loop onto the same status", ErrStatusValidation)
	}

	// Both endpoints must exist and belong to the module.
	for _, id := range []int64{req.FromStatusID, req.ToStatusID} {
		status, err := s.statusRepo.GetStatusByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: status ID %d", ErrStatusNotFound, id)
			}
			return nil, fmt.Errorf("failed to validate transition endpoint: %w", err)
		}
		if status.Module != module {
			return nil, fmt.Errorf("%w: status '%s' belongs to module '%s'", ErrStatusValidation, status.Name, status.Module)
		}
	}

	transition := &models.StatusTransition{
		Module:       module,
		FromStatusID: req.FromStatusID,
		ToStatusID:   req.ToStatusID,
	}
	if _, err := s.statusRepo.CreateTransition(s.db, transition); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: transition already configured", ErrStatusValidation)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to create transition: %w", err)
	}
	return transition, nil
}

func (s *statusService) GetTransitionsByModule(module string) ([]models.StatusTransition, error) {
	transitions, err := s.statusRepo.GetTransitionsByModule(strings.TrimSpace(module))
	if err != nil {
		return nil, fmt.Errorf("failed to get transitions: %w", err)
	}
	return transitions, nil
}

func (s *statusService) DeleteTransition(transitionID int64) error {
	if err := s.statusRepo.DeleteTransition(s.db, transitionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTransitionNotFound
		}
		return fmt.Errorf("failed to delete transition: %w", err)
	}
	return nil
}

func (s *statusService) CheckTransition(module string, from, to *models.GlobalStatus) error {
	transitions, err := s.statusRepo.GetTransitionsByModule(module)
	if err != nil {
		return fmt.Errorf("failed to load transitions for module '%s': %w", module, err)
	}
	return ValidateTransition(transitions, from, to)
}

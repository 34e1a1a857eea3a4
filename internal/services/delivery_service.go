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

const deliveryStatusModule = "deliveries"

var (
	ErrDeliveryNotFound   = errors.New("delivery not found")
	ErrDeliveryValidation = errors.New("delivery data validation error")
)

// --- Delivery DTOs ---

type CreateDeliveryRequest struct {
	OrderRef     string  `json:"order_ref" binding:"required"`
	DriverID     *int64  `json:"driver_id"`
	StatusID     int64   `json:"status_id" binding:"required"`
	DeliveryDate string  `json:"delivery_date" binding:"required"` // YYYY-MM-DD
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}

type UpdateDeliveryRequest struct {
	OrderRef     *string `json:"order_ref"`
	DriverID     *int64  `json:"driver_id"`
	DeliveryDate *string `json:"delivery_date"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}

type ChangeDeliveryStatusRequest struct {
	ToStatusID int64   `json:"to_status_id" binding:"required"`
	Notes      *string `json:"notes"`
}

// --- DeliveryService Interface ---
type DeliveryService interface {
	CreateDelivery(req CreateDeliveryRequest) (*models.Delivery, error)
	GetDeliveryByID(deliveryID int64) (*models.Delivery, error)
	GetDeliveries(filters models.DeliveryFilters) ([]models.Delivery, int, error)
	UpdateDelivery(deliveryID int64, req UpdateDeliveryRequest) (*models.Delivery, error)
	DeleteDelivery(deliveryID int64) error

	// ChangeStatus validates the move against the "deliveries" transition
	// table, then commits the status swap and the history entry in one
	// transaction. The driver, when linked to a user, gets a notification.
	ChangeStatus(deliveryID int64, actorUserID int64, req ChangeDeliveryStatusRequest) (*models.Delivery, error)
	GetStatusHistory(deliveryID int64) ([]models.DeliveryStatusHistory, error)
}

// --- deliveryService Implementation ---
type deliveryService struct {
	deliveryRepo  repositories.DeliveryRepository
	statusService StatusService
	notifService  NotificationService
	hrRepo        repositories.HRRepository
	db            *sql.DB
}

// NewDeliveryService creates a new instance of DeliveryService.
func NewDeliveryService(
	deliveryRepo repositories.DeliveryRepository,
	statusService StatusService,
	notifService NotificationService,
	hrRepo repositories.HRRepository,
	db *sql.DB,
) DeliveryService {
	return &deliveryService{
		deliveryRepo:  deliveryRepo,
		statusService: statusService,
		notifService:  notifService,
		hrRepo:        hrRepo,
		db:            db,
	}
}

func parseDeliveryDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: delivery_date must be YYYY-MM-DD", ErrDeliveryValidation)
	}
	return t, nil
}

func (s *deliveryService) CreateDelivery(req CreateDeliveryRequest) (*models.Delivery, error) {
	deliveryDate, err := parseDeliveryDate(req.DeliveryDate)
	if err != nil {
		return nil, err
	}

	// The initial status must exist and belong to the deliveries module.
	status, err := s.statusService.GetStatusByID(req.StatusID)
	if err != nil {
		if errors.Is(err, ErrStatusNotFound) {
			return nil, fmt.Errorf("%w: status ID %d", ErrStatusNotFound, req.StatusID)
		}
		return nil, err
	}
	if status.Module != deliveryStatusModule {
		return nil, fmt.Errorf("%w: status '%s' belongs to module '%s'", ErrDeliveryValidation, status.Name, status.Module)
	}

	delivery := &models.Delivery{
		OrderRef:     strings.TrimSpace(req.OrderRef),
		DriverID:     req.DriverID,
		StatusID:     req.StatusID,
		DeliveryDate: deliveryDate,
		Address:      req.Address,
		Notes:        req.Notes,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for delivery create: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.deliveryRepo.CreateDelivery(tx, delivery); err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: status or driver does not exist", ErrDeliveryValidation)
		}
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}

	// The creation itself opens the history log.
	entry := &models.DeliveryStatusHistory{
		DeliveryID: delivery.ID,
		ToStatusID: delivery.StatusID,
	}
	if _, err := s.deliveryRepo.InsertStatusHistory(tx, entry); err != nil {
		return nil, fmt.Errorf("failed to record initial delivery status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delivery create: %w", err)
	}
	return s.GetDeliveryByID(delivery.ID)
}

func (s *deliveryService) GetDeliveryByID(deliveryID int64) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetDeliveryByID(deliveryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	return delivery, nil
}

func (s *deliveryService) GetDeliveries(filters models.DeliveryFilters) ([]models.Delivery, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	deliveries, totalCount, err := s.deliveryRepo.GetDeliveries(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get deliveries: %w", err)
	}
	return deliveries, totalCount, nil
}

func (s *deliveryService) UpdateDelivery(deliveryID int64, req UpdateDeliveryRequest) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetDeliveryByID(deliveryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("failed to find delivery for update: %w", err)
	}

	if req.OrderRef != nil {
		orderRef := strings.TrimSpace(*req.OrderRef)
		if orderRef == "" {
			return nil, fmt.Errorf("%w: order_ref cannot be empty", ErrDeliveryValidation)
		}
		delivery.OrderRef = orderRef
	}
	if req.DriverID != nil {
		delivery.DriverID = req.DriverID
	}
	if req.DeliveryDate != nil {
		deliveryDate, err := parseDeliveryDate(*req.DeliveryDate)
		if err != nil {
			return nil, err
		}
		delivery.DeliveryDate = deliveryDate
	}
	if req.Address != nil {
		delivery.Address = req.Address
	}
	if req.Notes != nil {
		delivery.Notes = req.Notes
	}

	if err := s.deliveryRepo.UpdateDelivery(s.db, delivery); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDeliveryNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: driver does not exist", ErrDeliveryValidation)
		}
		return nil, fmt.Errorf("failed to update delivery: %w", err)
	}
	return s.GetDeliveryByID(deliveryID)
}

func (s *deliveryService) DeleteDelivery(deliveryID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for delivery delete: %w", err)
	}
	defer tx.Rollback()

	if err := s.deliveryRepo.DeleteDelivery(tx, deliveryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDeliveryNotFound
		}
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delivery delete: %w", err)
	}
	return nil
}

func (s *deliveryService) ChangeStatus(deliveryID int64, actorUserID int64, req ChangeDeliveryStatusRequest) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetDeliveryByID(deliveryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("failed to find delivery for status change: %w", err)
	}

	fromStatus, err := s.statusService.GetStatusByID(delivery.StatusID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current delivery status: %w", err)
	}
	toStatus, err := s.statusService.GetStatusByID(req.ToStatusID)
	if err != nil {
		if errors.Is(err, ErrStatusNotFound) {
			return nil, fmt.Errorf("%w: status ID %d", ErrStatusNotFound, req.ToStatusID)
		}
		return nil, err
	}
	if toStatus.Module != deliveryStatusModule {
		return nil, fmt.Errorf("%w: status '%s' belongs to module '%s'", ErrDeliveryValidation, toStatus.Name, toStatus.Module)
	}

	if err := s.statusService.CheckTransition(deliveryStatusModule, fromStatus, toStatus); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for status change: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if err := s.deliveryRepo.UpdateDeliveryStatus(tx, deliveryID, toStatus.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update delivery status: %w", err)
	}

	fromID := fromStatus.ID
	entry := &models.DeliveryStatusHistory{
		DeliveryID:   deliveryID,
		FromStatusID: &fromID,
		ToStatusID:   toStatus.ID,
		Notes:        req.Notes,
		ActorUserID:  &actorUserID,
	}
	if _, err := s.deliveryRepo.InsertStatusHistory(tx, entry); err != nil {
		return nil, fmt.Errorf("failed to record delivery status history: %w", err)
	}

	s.notifyDriver(tx, delivery, fromStatus, toStatus)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delivery status change: %w", err)
	}
	return s.GetDeliveryByID(deliveryID)
}

// notifyDriver notifies the assigned driver's user account, if any. The
// notification row joins the surrounding transaction; failure to resolve the
// driver is logged and does not abort the status change.
func (s *deliveryService) notifyDriver(tx *sql.Tx, delivery *models.Delivery, from, to *models.GlobalStatus) {
	if delivery.DriverID == nil {
		return
	}
	driver, err := s.hrRepo.GetEmployeeByID(*delivery.DriverID)
	if err != nil {
		utils.LogError(err, fmt.Sprintf("delivery %d: could not resolve driver %d for notification", delivery.ID, *delivery.DriverID))
		return
	}
	if driver.UserID == nil {
		return
	}
	body := fmt.Sprintf("Delivery %s moved from '%s' to '%s'.", delivery.OrderRef, from.Name, to.Name)
	if _, err := s.notifService.Notify(tx, *driver.UserID, "Delivery status changed", &body, "status_change"); err != nil {
		utils.LogError(err, fmt.Sprintf("delivery %d: failed to notify driver user %d", delivery.ID, *driver.UserID))
	}
}

func (s *deliveryService) GetStatusHistory(deliveryID int64) ([]models.DeliveryStatusHistory, error) {
	if _, err := s.deliveryRepo.GetDeliveryByID(deliveryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	history, err := s.deliveryRepo.GetStatusHistory(deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery status history: %w", err)
	}
	return history, nil
}

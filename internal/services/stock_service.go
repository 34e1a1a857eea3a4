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
	ErrStockItemNotFound = errors.New("stock item not found")
	ErrSKUExists         = errors.New("sku already in use")
	ErrStockValidation   = errors.New("stock item data validation error")
)

// --- Stock DTOs ---

type CreateStockItemRequest struct {
	Name                string  `json:"name" binding:"required"`
	SKU                 *string `json:"sku"`
	Quantity            int     `json:"quantity" binding:"gte=0"`
	MinQuantity         int     `json:"min_quantity" binding:"gte=0"`
	LocationID          *int64  `json:"location_id"`
	GroupID             *int64  `json:"group_id"`
	UnitOfMeasurementID *int64  `json:"unit_of_measurement_id"`
	IsActive            *bool   `json:"is_active"`
}

type UpdateStockItemRequest struct {
	Name                *string `json:"name"`
	SKU                 *string `json:"sku"`
	Quantity            *int    `json:"quantity" binding:"omitempty,gte=0"`
	MinQuantity         *int    `json:"min_quantity" binding:"omitempty,gte=0"`
	LocationID          *int64  `json:"location_id"`
	GroupID             *int64  `json:"group_id"`
	UnitOfMeasurementID *int64  `json:"unit_of_measurement_id"`
	IsActive            *bool   `json:"is_active"`
}

// --- StockService Interface ---
type StockService interface {
	CreateItem(req CreateStockItemRequest) (*models.StockItem, error)
	GetItemByID(itemID int64) (*models.StockItem, error)
	GetItems(filters models.StockItemFilters) ([]models.StockItem, int, error)
	UpdateItem(itemID int64, req UpdateStockItemRequest) (*models.StockItem, error)
	DeleteItem(itemID int64) error

	GetLocations() ([]models.StockLocation, error)
	GetGroups() ([]models.StockGroup, error)
	GetUnits() ([]models.UnitOfMeasurement, error)
}

// --- stockService Implementation ---
type stockService struct {
	stockRepo repositories.StockRepository
	db        *sql.DB
}

// NewStockService creates a new instance of StockService.
func NewStockService(stockRepo repositories.StockRepository, db *sql.DB) StockService {
	return &stockService{stockRepo: stockRepo, db: db}
}

// decorate fills the derived status label on an item.
func decorateStockItem(item *models.StockItem) {
	item.Status = models.DeriveStockStatus(item.Quantity, item.MinQuantity)
}

func (s *stockService) CreateItem(req CreateStockItemRequest) (*models.StockItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrStockValidation)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	item := &models.StockItem{
		Name:                name,
		SKU:                 req.SKU,
		Quantity:            req.Quantity,
		MinQuantity:         req.MinQuantity,
		LocationID:          req.LocationID,
		GroupID:             req.GroupID,
		UnitOfMeasurementID: req.UnitOfMeasurementID,
		IsActive:            isActive,
	}

	if _, err := s.stockRepo.CreateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrSKUExists
		}
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}

	created, err := s.stockRepo.GetItemByID(item.ID)
	if err != nil {
		return nil, fmt.Errorf("stock item created but failed to retrieve: %w", err)
	}
	decorateStockItem(created)
	return created, nil
}

func (s *stockService) GetItemByID(itemID int64) (*models.StockItem, error) {
	item, err := s.stockRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}
	decorateStockItem(item)
	return item, nil
}

func (s *stockService) GetItems(filters models.StockItemFilters) ([]models.StockItem, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	items, totalCount, err := s.stockRepo.GetItems(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock items: %w", err)
	}
	for i := range items {
		decorateStockItem(&items[i])
	}
	return items, totalCount, nil
}

func (s *stockService) UpdateItem(itemID int64, req UpdateStockItemRequest) (*models.StockItem, error) {
	item, err := s.stockRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to find stock item for update: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrStockValidation)
		}
		item.Name = name
	}
	if req.SKU != nil {
		item.SKU = req.SKU
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity cannot be negative", ErrStockValidation)
		}
		item.Quantity = *req.Quantity
	}
	if req.MinQuantity != nil {
		if *req.MinQuantity < 0 {
			return nil, fmt.Errorf("%w: min_quantity cannot be negative", ErrStockValidation)
		}
		item.MinQuantity = *req.MinQuantity
	}
	if req.LocationID != nil {
		item.LocationID = req.LocationID
	}
	if req.GroupID != nil {
		item.GroupID = req.GroupID
	}
	if req.UnitOfMeasurementID != nil {
		item.UnitOfMeasurementID = req.UnitOfMeasurementID
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.stockRepo.UpdateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrSKUExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to update stock item: %w", err)
	}

	updated, err := s.stockRepo.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("stock item updated but failed to retrieve: %w", err)
	}
	decorateStockItem(updated)
	return updated, nil
}

func (s *stockService) DeleteItem(itemID int64) error {
	if err := s.stockRepo.DeleteItem(s.db, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStockItemNotFound
		}
		return fmt.Errorf("failed to delete stock item: %w", err)
	}
	return nil
}

func (s *stockService) GetLocations() ([]models.StockLocation, error) {
	locations, err := s.stockRepo.GetLocations()
	if err != nil {
		return nil, fmt.Errorf("failed to get stock locations: %w", err)
	}
	return locations, nil
}

func (s *stockService) GetGroups() ([]models.StockGroup, error) {
	groups, err := s.stockRepo.GetGroups()
	if err != nil {
		return nil, fmt.Errorf("failed to get stock groups: %w", err)
	}
	return groups, nil
}

func (s *stockService) GetUnits() ([]models.UnitOfMeasurement, error) {
	units, err := s.stockRepo.GetUnits()
	if err != nil {
		return nil, fmt.Errorf("failed to get units of measurement: %w", err)
	}
	return units, nil
}

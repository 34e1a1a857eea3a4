package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
	"erp_backoffice/pkg/utils"
)

var (
	ErrSupplierNotFound   = errors.New("supplier not found")
	ErrCNPJExists         = errors.New("cnpj already registered")
	ErrSupplierValidation = errors.New("supplier data validation error")
)

// --- Supplier DTOs ---

type CreateSupplierRequest struct {
	Name        string  `json:"name" binding:"required"`
	FantasyName *string `json:"fantasy_name"`
	CNPJ        *string `json:"cnpj"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Status      *string `json:"status"`
	Street      *string `json:"street"`
	Number      *string `json:"number"`
	Complement  *string `json:"complement"`
	District    *string `json:"district"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zip_code"`
}

type UpdateSupplierRequest struct {
	Name        *string `json:"name"`
	FantasyName *string `json:"fantasy_name"`
	CNPJ        *string `json:"cnpj"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Status      *string `json:"status"`
	Street      *string `json:"street"`
	Number      *string `json:"number"`
	Complement  *string `json:"complement"`
	District    *string `json:"district"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zip_code"`
}

// --- SupplierService Interface ---
type SupplierService interface {
	CreateSupplier(req CreateSupplierRequest) (*models.Supplier, error)
	GetSupplierByID(supplierID int64) (*models.Supplier, error)
	GetSuppliers(filters models.SupplierFilters) ([]models.Supplier, int, error)
	UpdateSupplier(supplierID int64, req UpdateSupplierRequest) (*models.Supplier, error)
	DeleteSupplier(supplierID int64) error
}

// --- supplierService Implementation ---
type supplierService struct {
	supplierRepo repositories.SupplierRepository
	db           *sql.DB
}

// NewSupplierService creates a new instance of SupplierService.
func NewSupplierService(supplierRepo repositories.SupplierRepository, db *sql.DB) SupplierService {
	return &supplierService{supplierRepo: supplierRepo, db: db}
}

func (s *supplierService) validateCNPJ(cnpj *string) error {
	if cnpj == nil || strings.TrimSpace(*cnpj) == "" {
		return nil
	}
	if !utils.IsValidCNPJ(*cnpj) {
		return fmt.Errorf("%w: invalid cnpj '%s'", ErrSupplierValidation, *cnpj)
	}
	return nil
}

func (s *supplierService) CreateSupplier(req CreateSupplierRequest) (*models.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrSupplierValidation)
	}
	if err := s.validateCNPJ(req.CNPJ); err != nil {
		return nil, err
	}

	status := "Ativo"
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status = strings.TrimSpace(*req.Status)
	}

	supplier := &models.Supplier{
		Name:        name,
		FantasyName: req.FantasyName,
		CNPJ:        req.CNPJ,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      status,
		Street:      req.Street,
		Number:      req.Number,
		Complement:  req.Complement,
		District:    req.District,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
	}

	if _, err := s.supplierRepo.CreateSupplier(s.db, supplier); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCNPJExists
		}
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	created, err := s.supplierRepo.GetSupplierByID(supplier.ID)
	if err != nil {
		return nil, fmt.Errorf("supplier created but failed to retrieve: %w", err)
	}
	return created, nil
}

func (s *supplierService) GetSupplierByID(supplierID int64) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetSupplierByID(supplierID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) GetSuppliers(filters models.SupplierFilters) ([]models.Supplier, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	suppliers, totalCount, err := s.supplierRepo.GetSuppliers(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get suppliers: %w", err)
	}
	return suppliers, totalCount, nil
}

func (s *supplierService) UpdateSupplier(supplierID int64, req UpdateSupplierRequest) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetSupplierByID(supplierID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to find supplier for update: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrSupplierValidation)
		}
		supplier.Name = name
	}
	if req.CNPJ != nil {
		if err := s.validateCNPJ(req.CNPJ); err != nil {
			return nil, err
		}
		supplier.CNPJ = req.CNPJ
	}
	if req.FantasyName != nil {
		supplier.FantasyName = req.FantasyName
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if req.Phone != nil {
		supplier.Phone = req.Phone
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		supplier.Status = strings.TrimSpace(*req.Status)
	}
	if req.Street != nil {
		supplier.Street = req.Street
	}
	if req.Number != nil {
		supplier.Number = req.Number
	}
	if req.Complement != nil {
		supplier.Complement = req.Complement
	}
	if req.District != nil {
		supplier.District = req.District
	}
	if req.City != nil {
		supplier.City = req.City
	}
	if req.State != nil {
		supplier.State = req.State
	}
	if req.ZipCode != nil {
		supplier.ZipCode = req.ZipCode
	}

	if err := s.supplierRepo.UpdateSupplier(s.db, supplier); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCNPJExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	updated, err := s.supplierRepo.GetSupplierByID(supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier updated but failed to retrieve: %w", err)
	}
	return updated, nil
}

func (s *supplierService) DeleteSupplier(supplierID int64) error {
	if err := s.supplierRepo.DeleteSupplier(s.db, supplierID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplierNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: supplier is referenced by other records", ErrSupplierValidation)
		}
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return nil
}

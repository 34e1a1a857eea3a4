package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
)

var (
	ErrTransactionNotFound = errors.New("financial transaction not found")
	ErrFinanceValidation   = errors.New("financial transaction data validation error")
)

// --- Finance DTOs ---

type CreateTransactionRequest struct {
	Date            string          `json:"date" binding:"required"` // YYYY-MM-DD
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Type            string          `json:"type" binding:"required"`
	Description     *string         `json:"description"`
	CategoryID      int64           `json:"category_id" binding:"required"`
	PaymentMethodID int64           `json:"payment_method_id" binding:"required"`
	DivisionID      *int64          `json:"division_id"`
}

type UpdateTransactionRequest struct {
	Date            *string          `json:"date"`
	Amount          *decimal.Decimal `json:"amount"`
	Type            *string          `json:"type"`
	Description     *string          `json:"description"`
	CategoryID      *int64           `json:"category_id"`
	PaymentMethodID *int64           `json:"payment_method_id"`
	DivisionID      *int64           `json:"division_id"`
}

// --- FinanceService Interface ---
type FinanceService interface {
	CreateTransaction(req CreateTransactionRequest) (*models.FinancialTransaction, error)
	GetTransactionByID(transactionID int64) (*models.FinancialTransaction, error)
	GetTransactions(filters models.TransactionFilters) ([]models.FinancialTransaction, int, error)
	UpdateTransaction(transactionID int64, req UpdateTransactionRequest) (*models.FinancialTransaction, error)
	DeleteTransaction(transactionID int64) error

	GetCategories() ([]models.FinanceCategory, error)
	GetPaymentMethods() ([]models.PaymentMethod, error)
	GetDivisions() ([]models.Division, error)
}

// --- financeService Implementation ---
type financeService struct {
	financeRepo repositories.FinanceRepository
	db          *sql.DB
}

// NewFinanceService creates a new instance of FinanceService.
func NewFinanceService(financeRepo repositories.FinanceRepository, db *sql.DB) FinanceService {
	return &financeService{financeRepo: financeRepo, db: db}
}

func parseTransactionDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrFinanceValidation)
	}
	return t, nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", ErrFinanceValidation)
	}
	return nil
}

func (s *financeService) CreateTransaction(req CreateTransactionRequest) (*models.FinancialTransaction, error) {
	date, err := parseTransactionDate(req.Date)
	if err != nil {
		return nil, err
	}
	if !models.IsValidTransactionType(req.Type) {
		return nil, fmt.Errorf("%w: type must be '%s' or '%s'", ErrFinanceValidation, models.TransactionTypeIncome, models.TransactionTypeExpense)
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	transaction := &models.FinancialTransaction{
		Date:            date,
		Amount:          req.Amount,
		Type:            req.Type,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		PaymentMethodID: req.PaymentMethodID,
		DivisionID:      req.DivisionID,
	}

	if _, err := s.financeRepo.CreateTransaction(s.db, transaction); err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: category, payment method or division does not exist", ErrFinanceValidation)
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return s.GetTransactionByID(transaction.ID)
}

func (s *financeService) GetTransactionByID(transactionID int64) (*models.FinancialTransaction, error) {
	transaction, err := s.financeRepo.GetTransactionByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

func (s *financeService) GetTransactions(filters models.TransactionFilters) ([]models.FinancialTransaction, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	if filters.Type != nil && *filters.Type != "" && !models.IsValidTransactionType(*filters.Type) {
		return nil, 0, fmt.Errorf("%w: unknown type '%s'", ErrFinanceValidation, *filters.Type)
	}

	transactions, totalCount, err := s.financeRepo.GetTransactions(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, totalCount, nil
}

func (s *financeService) UpdateTransaction(transactionID int64, req UpdateTransactionRequest) (*models.FinancialTransaction, error) {
	transaction, err := s.financeRepo.GetTransactionByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction for update: %w", err)
	}

	if req.Date != nil {
		date, err := parseTransactionDate(*req.Date)
		if err != nil {
			return nil, err
		}
		transaction.Date = date
	}
	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *req.Amount
	}
	if req.Type != nil {
		if !models.IsValidTransactionType(*req.Type) {
			return nil, fmt.Errorf("%w: unknown type '%s'", ErrFinanceValidation, *req.Type)
		}
		transaction.Type = *req.Type
	}
	if req.Description != nil {
		transaction.Description = req.Description
	}
	if req.CategoryID != nil {
		transaction.CategoryID = *req.CategoryID
	}
	if req.PaymentMethodID != nil {
		transaction.PaymentMethodID = *req.PaymentMethodID
	}
	if req.DivisionID != nil {
		transaction.DivisionID = req.DivisionID
	}

	if err := s.financeRepo.UpdateTransaction(s.db, transaction); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: category, payment method or division does not exist", ErrFinanceValidation)
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return s.GetTransactionByID(transactionID)
}

func (s *financeService) DeleteTransaction(transactionID int64) error {
	if err := s.financeRepo.DeleteTransaction(s.db, transactionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *financeService) GetCategories() ([]models.FinanceCategory, error) {
	categories, err := s.financeRepo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to get finance categories: %w", err)
	}
	return categories, nil
}

func (s *financeService) GetPaymentMethods() ([]models.PaymentMethod, error) {
	methods, err := s.financeRepo.GetPaymentMethods()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment methods: %w", err)
	}
	return methods, nil
}

func (s *financeService) GetDivisions() ([]models.Division, error) {
	divisions, err := s.financeRepo.GetDivisions()
	if err != nil {
		return nil, fmt.Errorf("failed to get divisions: %w", err)
	}
	return divisions, nil
}

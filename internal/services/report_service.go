package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
	"erp_backoffice/pkg/utils"
)

var ErrReportValidation = errors.New("report parameters validation error")

// activeSupplierStatus is the conventional label counted on the dashboard.
const activeSupplierStatus = "Ativo"

// --- ReportService Interface ---
type ReportService interface {
	// GetDashboardSummary aggregates the headline counts. A failing counter
	// logs and reports zero instead of failing the whole dashboard.
	GetDashboardSummary() (*models.DashboardSummary, error)
	GetFinancialReport(params models.ReportRequestParams) (*models.FinancialReport, error)
}

// --- reportService Implementation ---
type reportService struct {
	stockRepo    repositories.StockRepository
	supplierRepo repositories.SupplierRepository
	deliveryRepo repositories.DeliveryRepository
	hrRepo       repositories.HRRepository
	financeRepo  repositories.FinanceRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	stockRepo repositories.StockRepository,
	supplierRepo repositories.SupplierRepository,
	deliveryRepo repositories.DeliveryRepository,
	hrRepo repositories.HRRepository,
	financeRepo repositories.FinanceRepository,
) ReportService {
	return &reportService{
		stockRepo:    stockRepo,
		supplierRepo: supplierRepo,
		deliveryRepo: deliveryRepo,
		hrRepo:       hrRepo,
		financeRepo:  financeRepo,
	}
}

func (s *reportService) GetDashboardSummary() (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}

	count, err := s.stockRepo.CountLowStock()
	if err != nil {
		utils.LogError(err, "dashboard: low stock count failed, reporting zero")
	} else {
		summary.LowStockItemsCount = count
	}

	count, err = s.stockRepo.CountOutOfStock()
	if err != nil {
		utils.LogError(err, "dashboard: out of stock count failed, reporting zero")
	} else {
		summary.OutOfStockItemsCount = count
	}

	count, err = s.deliveryRepo.CountByStatusFinal(false)
	if err != nil {
		utils.LogError(err, "dashboard: pending deliveries count failed, reporting zero")
	} else {
		summary.PendingDeliveriesCount = count
	}

	count, err = s.hrRepo.CountTimeOffByStatus(models.TimeOffStatusPending)
	if err != nil {
		utils.LogError(err, "dashboard: pending time-off count failed, reporting zero")
	} else {
		summary.PendingTimeOffCount = count
	}

	count, err = s.supplierRepo.CountByStatus(activeSupplierStatus)
	if err != nil {
		utils.LogError(err, "dashboard: active suppliers count failed, reporting zero")
	} else {
		summary.ActiveSuppliersCount = count
	}

	monthStart, monthEnd := currentMonthRange(time.Now())
	income, err := s.financeRepo.SumByTypeBetween(models.TransactionTypeIncome, monthStart, monthEnd)
	if err != nil {
		utils.LogError(err, "dashboard: month income sum failed, reporting zero")
	} else {
		summary.MonthIncomeTotal = income
	}

	expense, err := s.financeRepo.SumByTypeBetween(models.TransactionTypeExpense, monthStart, monthEnd)
	if err != nil {
		utils.LogError(err, "dashboard: month expense sum failed, reporting zero")
	} else {
		summary.MonthExpenseTotal = expense
	}

	return summary, nil
}

// currentMonthRange returns [first day of month, first day of next month).
func currentMonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

func (s *reportService) GetFinancialReport(params models.ReportRequestParams) (*models.FinancialReport, error) {
	startStr := strings.TrimSpace(params.StartDate)
	endStr := strings.TrimSpace(params.EndDate)

	// Default to the last six months when no range is given.
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)
	end := now
	var err error
	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrReportValidation)
		}
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrReportValidation)
		}
		// inclusive end day
		end = end.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrReportValidation)
	}

	months, err := s.financeRepo.MonthlyBuckets(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly buckets: %w", err)
	}
	categories, err := s.financeRepo.SumsByCategory(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build category sums: %w", err)
	}

	return &models.FinancialReport{
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.AddDate(0, 0, -1).Format("2006-01-02"),
		Months:     months,
		Categories: categories,
	}, nil
}

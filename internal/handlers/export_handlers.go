package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/export"
	"erp_backoffice/pkg/utils"
)

// exportPageSize caps how many rows one export pulls.
const exportPageSize = 10000

// ExportHandler renders listing data as downloadable files.
type ExportHandler struct {
	stockService    services.StockService
	supplierService services.SupplierService
	financeService  services.FinanceService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(stockService services.StockService, supplierService services.SupplierService, financeService services.FinanceService) *ExportHandler {
	return &ExportHandler{
		stockService:    stockService,
		supplierService: supplierService,
		financeService:  financeService,
	}
}

// render writes the dataset in the requested format with the download
// headers set. Unknown formats fall back to CSV.
func render(c *gin.Context, ds export.Dataset, baseName string) {
	format := c.DefaultQuery("format", "csv")

	var (
		contentType string
		extension   string
		write       func() error
	)
	switch format {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		extension = "xlsx"
		write = func() error { return export.WriteXLSX(c.Writer, ds) }
	case "html":
		contentType = "text/html; charset=utf-8"
		extension = "html"
		write = func() error { return export.WriteHTML(c.Writer, ds) }
	case "csv":
		contentType = "text/csv; charset=utf-8"
		extension = "csv"
		write = func() error { return export.WriteCSV(c.Writer, ds) }
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown export format. Use csv, xlsx or html.", ""))
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", baseName, time.Now().Format("20060102"), extension)
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := write(); err != nil {
		// headers are already out; log and drop the connection
		utils.LogError(err, "export: failed to render "+filename)
	}
}

func formatOptString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// ExportStock downloads the stock listing.
func (h *ExportHandler) ExportStock(c *gin.Context) {
	var filters models.StockItemFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}
	filters.Page = 1
	filters.PageSize = exportPageSize

	items, _, err := h.stockService.GetItems(filters)
	if err != nil {
		utils.LogError(err, "ExportStock: Error from stockService.GetItems")
		respondInternal(c, "Failed to export stock items.")
		return
	}

	ds := export.Dataset{
		Title: "Stock items",
		Columns: []export.Column{
			{Key: "name", Label: "Name"},
			{Key: "sku", Label: "SKU"},
			{Key: "quantity", Label: "Quantity"},
			{Key: "min_quantity", Label: "Min quantity"},
			{Key: "status", Label: "Status"},
		},
	}
	for _, item := range items {
		ds.Rows = append(ds.Rows, map[string]string{
			"name":         item.Name,
			"sku":          formatOptString(item.SKU),
			"quantity":     strconv.Itoa(item.Quantity),
			"min_quantity": strconv.Itoa(item.MinQuantity),
			"status":       item.Status,
		})
	}
	render(c, ds, "stock_items")
}

// ExportSuppliers downloads the supplier listing.
func (h *ExportHandler) ExportSuppliers(c *gin.Context) {
	var filters models.SupplierFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}
	filters.Page = 1
	filters.PageSize = exportPageSize

	suppliers, _, err := h.supplierService.GetSuppliers(filters)
	if err != nil {
		utils.LogError(err, "ExportSuppliers: Error from supplierService.GetSuppliers")
		respondInternal(c, "Failed to export suppliers.")
		return
	}

	ds := export.Dataset{
		Title: "Suppliers",
		Columns: []export.Column{
			{Key: "name", Label: "Name"},
			{Key: "cnpj", Label: "CNPJ"},
			{Key: "email", Label: "Email"},
			{Key: "phone", Label: "Phone"},
			{Key: "city", Label: "City"},
			{Key: "status", Label: "Status"},
		},
	}
	for _, supplier := range suppliers {
		ds.Rows = append(ds.Rows, map[string]string{
			"name":   supplier.Name,
			"cnpj":   formatOptString(supplier.CNPJ),
			"email":  formatOptString(supplier.Email),
			"phone":  formatOptString(supplier.Phone),
			"city":   formatOptString(supplier.City),
			"status": supplier.Status,
		})
	}
	render(c, ds, "suppliers")
}

// ExportTransactions downloads the financial transaction listing.
func (h *ExportHandler) ExportTransactions(c *gin.Context) {
	var filters models.TransactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}
	filters.Page = 1
	filters.PageSize = exportPageSize

	transactions, _, err := h.financeService.GetTransactions(filters)
	if err != nil {
		if errors.Is(err, services.ErrFinanceValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
			return
		}
		utils.LogError(err, "ExportTransactions: Error from financeService.GetTransactions")
		respondInternal(c, "Failed to export transactions.")
		return
	}

	ds := export.Dataset{
		Title: "Financial transactions",
		Columns: []export.Column{
			{Key: "date", Label: "Date"},
			{Key: "type", Label: "Type"},
			{Key: "amount", Label: "Amount"},
			{Key: "category", Label: "Category"},
			{Key: "payment_method", Label: "Payment method"},
			{Key: "description", Label: "Description"},
		},
	}
	for _, transaction := range transactions {
		row := map[string]string{
			"date":        transaction.Date.Format("2006-01-02"),
			"type":        transaction.Type,
			"amount":      transaction.Amount.StringFixed(2),
			"description": formatOptString(transaction.Description),
		}
		if transaction.Category != nil {
			row["category"] = transaction.Category.Name
		}
		if transaction.PaymentMethod != nil {
			row["payment_method"] = transaction.PaymentMethod.Name
		}
		ds.Rows = append(ds.Rows, row)
	}
	render(c, ds, "transactions")
}

package services

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
	"erp_backoffice/pkg/utils"
)

var (
	ErrImportEmptyFile = errors.New("import file is empty")
	ErrImportBadHeader = errors.New("import file header does not match the expected columns")
)

// RowError points at one rejected CSV line. Row numbers are 1-based and
// count the header, matching what the user sees in a spreadsheet.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes one import run. When Errors is non-empty the run
// was rolled back and ImportedCount is zero: imports are all-or-nothing.
type ImportResult struct {
	BatchID       string     `json:"batch_id"`
	TotalRows     int        `json:"total_rows"`
	ImportedCount int        `json:"imported_count"`
	Errors        []RowError `json:"errors,omitempty"`
}

// --- ImportService Interface ---
type ImportService interface {
	ImportStockItems(r io.Reader) (*ImportResult, error)
	ImportSuppliers(r io.Reader) (*ImportResult, error)
}

// --- importService Implementation ---
type importService struct {
	stockRepo    repositories.StockRepository
	supplierRepo repositories.SupplierRepository
	db           *sql.DB
}

// NewImportService creates a new instance of ImportService.
func NewImportService(stockRepo repositories.StockRepository, supplierRepo repositories.SupplierRepository, db *sql.DB) ImportService {
	return &importService{stockRepo: stockRepo, supplierRepo: supplierRepo, db: db}
}

var stockImportHeader = []string{"name", "sku", "quantity", "min_quantity"}

// ImportStockItems reads a CSV with columns name,sku,quantity,min_quantity
// and upserts each row by SKU. Parse and validation errors are collected
// per row; any error aborts the whole batch.
func (s *importService) ImportStockItems(r io.Reader) (*ImportResult, error) {
	records, result, err := s.readCSV(r, stockImportHeader)
	if err != nil {
		return nil, err
	}

	type stockRow struct {
		row  int
		item models.StockItem
	}
	rows := make([]stockRow, 0, len(records))

	for i, record := range records {
		rowNum := i + 2 // 1-based, after the header
		name := strings.TrimSpace(record[0])
		sku := strings.TrimSpace(record[1])

		if name == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "name is required"})
			continue
		}
		if sku == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "sku is required for upsert matching"})
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil || quantity < 0 {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "quantity must be a non-negative integer"})
			continue
		}
		minQuantity, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil || minQuantity < 0 {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "min_quantity must be a non-negative integer"})
			continue
		}

		skuCopy := sku
		rows = append(rows, stockRow{
			row: rowNum,
			item: models.StockItem{
				Name:        name,
				SKU:         &skuCopy,
				Quantity:    quantity,
				MinQuantity: minQuantity,
				IsActive:    true,
			},
		})
	}

	if len(result.Errors) > 0 {
		return result, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for stock import: %w", err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		if _, err := s.stockRepo.UpsertItemBySKU(tx, &row.item); err != nil {
			result.Errors = append(result.Errors, RowError{Row: row.row, Message: fmt.Sprintf("upsert failed: %v", err)})
			return result, nil
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock import: %w", err)
	}
	result.ImportedCount = len(rows)
	utils.LogInfo("stock import committed", map[string]interface{}{
		"batch_id": result.BatchID,
		"rows":     result.ImportedCount,
	})
	return result, nil
}

var supplierImportHeader = []string{"name", "cnpj", "email", "phone", "city", "status"}

// ImportSuppliers reads a CSV with columns name,cnpj,email,phone,city,status
// and upserts each row by CNPJ.
func (s *importService) ImportSuppliers(r io.Reader) (*ImportResult, error) {
	records, result, err := s.readCSV(r, supplierImportHeader)
	if err != nil {
		return nil, err
	}

	type supplierRow struct {
		row      int
		supplier models.Supplier
	}
	rows := make([]supplierRow, 0, len(records))

	for i, record := range records {
		rowNum := i + 2
		name := strings.TrimSpace(record[0])
		cnpj := strings.TrimSpace(record[1])

		if name == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "name is required"})
			continue
		}
		if cnpj == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "cnpj is required for upsert matching"})
			continue
		}
		if !utils.IsValidCNPJ(cnpj) {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: fmt.Sprintf("invalid cnpj '%s'", cnpj)})
			continue
		}

		status := strings.TrimSpace(record[5])
		if status == "" {
			status = activeSupplierStatus
		}

		cnpjCopy := cnpj
		supplier := models.Supplier{
			Name:   name,
			CNPJ:   &cnpjCopy,
			Status: status,
		}
		if email := strings.TrimSpace(record[2]); email != "" {
			if !utils.IsValidEmail(email) {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Message: fmt.Sprintf("invalid email '%s'", email)})
				continue
			}
			supplier.Email = &email
		}
		if phone := strings.TrimSpace(record[3]); phone != "" {
			supplier.Phone = &phone
		}
		if city := strings.TrimSpace(record[4]); city != "" {
			supplier.City = &city
		}

		rows = append(rows, supplierRow{row: rowNum, supplier: supplier})
	}

	if len(result.Errors) > 0 {
		return result, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for supplier import: %w", err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		if _, err := s.supplierRepo.UpsertSupplierByCNPJ(tx, &row.supplier); err != nil {
			result.Errors = append(result.Errors, RowError{Row: row.row, Message: fmt.Sprintf("upsert failed: %v", err)})
			return result, nil
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit supplier import: %w", err)
	}
	result.ImportedCount = len(rows)
	utils.LogInfo("supplier import committed", map[string]interface{}{
		"batch_id": result.BatchID,
		"rows":     result.ImportedCount,
	})
	return result, nil
}

// readCSV parses the file, checks the header, and returns the data records
// along with a fresh result carrying the batch id.
func (s *importService) readCSV(r io.Reader, expectedHeader []string) ([][]string, *ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrImportEmptyFile
	}

	header := records[0]
	if len(header) != len(expectedHeader) {
		return nil, nil, fmt.Errorf("%w: expected %v", ErrImportBadHeader, expectedHeader)
	}
	for i, col := range expectedHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, nil, fmt.Errorf("%w: expected %v", ErrImportBadHeader, expectedHeader)
		}
	}

	result := &ImportResult{
		BatchID:   uuid.NewString(),
		TotalRows: len(records) - 1,
	}
	return records[1:], result, nil
}

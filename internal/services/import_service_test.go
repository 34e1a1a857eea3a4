package services

import (
	"errors"
	"strings"
	"testing"
)

func newTestImportService() *importService {
	return &importService{}
}

func TestImportStockItemsEmptyFile(t *testing.T) {
	svc := newTestImportService()

	_, err := svc.ImportStockItems(strings.NewReader(""))
	if !errors.Is(err, ErrImportEmptyFile) {
		t.Errorf("expected ErrImportEmptyFile, got %v", err)
	}
}

func TestImportStockItemsBadHeader(t *testing.T) {
	svc := newTestImportService()

	tests := []struct {
		name string
		csv  string
	}{
		{"wrong column name", "name,code,quantity,min_quantity\n"},
		{"missing column", "name,sku,quantity\n"},
		{"extra column", "name,sku,quantity,min_quantity,price\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ImportStockItems(strings.NewReader(tt.csv))
			if !errors.Is(err, ErrImportBadHeader) {
				t.Errorf("expected ErrImportBadHeader, got %v", err)
			}
		})
	}
}

func TestImportStockItemsHeaderCaseInsensitive(t *testing.T) {
	svc := newTestImportService()

	// header matches case-insensitively; no data rows means nothing to import
	result, err := svc.ImportStockItems(strings.NewReader("Name,SKU,Quantity,Min_Quantity\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalRows != 0 || result.ImportedCount != 0 || len(result.Errors) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.BatchID == "" {
		t.Error("expected a batch id even for an empty run")
	}
}

func TestImportStockItemsRowValidation(t *testing.T) {
	svc := newTestImportService()

	csv := strings.Join([]string{
		"name,sku,quantity,min_quantity",
		"Detergente,SKU-1,10,5", // valid
		",SKU-2,10,5",           // missing name
		"Sabão,,10,5",           // missing sku
		"Esponja,SKU-4,abc,5",   // bad quantity
		"Luvas,SKU-5,10,-1",     // negative min
	}, "\n")

	result, err := svc.ImportStockItems(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalRows != 5 {
		t.Errorf("expected 5 data rows, got %d", result.TotalRows)
	}
	if result.ImportedCount != 0 {
		t.Errorf("a batch with errors must import nothing, got %d", result.ImportedCount)
	}
	if len(result.Errors) != 4 {
		t.Fatalf("expected 4 row errors, got %d: %+v", len(result.Errors), result.Errors)
	}

	// row numbers are 1-based and count the header
	wantRows := []int{3, 4, 5, 6}
	for i, re := range result.Errors {
		if re.Row != wantRows[i] {
			t.Errorf("error %d at row %d, want %d", i, re.Row, wantRows[i])
		}
	}
}

func TestImportSuppliersRowValidation(t *testing.T) {
	svc := newTestImportService()

	csv := strings.Join([]string{
		"name,cnpj,email,phone,city,status",
		"Fornecedor A,123,,,,",                       // bad cnpj
		"Fornecedor B,12.345.678/0001-95,nope,,,",    // bad email
		",12345678000195,,,,",                        // missing name
	}, "\n")

	result, err := svc.ImportSuppliers(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ImportedCount != 0 {
		t.Errorf("a batch with errors must import nothing, got %d", result.ImportedCount)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %+v", len(result.Errors), result.Errors)
	}
}

package services

import (
	"errors"
	"testing"
	"time"

	"erp_backoffice/internal/models"
)

func TestCurrentMonthRange(t *testing.T) {
	now := time.Date(2026, time.February, 17, 15, 30, 0, 0, time.UTC)
	start, end := currentMonthRange(now)

	if !start.Equal(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected month start: %v", start)
	}
	if !end.Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected month end: %v", end)
	}
}

func TestGetFinancialReportParamValidation(t *testing.T) {
	svc := &reportService{}

	tests := []struct {
		name   string
		params models.ReportRequestParams
	}{
		{"malformed start date", models.ReportRequestParams{StartDate: "01-01-2026", EndDate: "2026-02-01"}},
		{"malformed end date", models.ReportRequestParams{StartDate: "2026-01-01", EndDate: "2026.02.01"}},
		{"end before start", models.ReportRequestParams{StartDate: "2026-03-01", EndDate: "2026-01-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetFinancialReport(tt.params)
			if !errors.Is(err, ErrReportValidation) {
				t.Errorf("expected ErrReportValidation, got %v", err)
			}
		})
	}
}

func TestCertificateCodeFormat(t *testing.T) {
	code, err := certificateCode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != len("CERT-")+16 {
		t.Errorf("unexpected code length: %q", code)
	}
	if code[:5] != "CERT-" {
		t.Errorf("code must carry the CERT- prefix, got %q", code)
	}

	other, err := certificateCode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code == other {
		t.Error("two generated codes must differ")
	}
}

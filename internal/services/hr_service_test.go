package services

import (
	"errors"
	"testing"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
)

// fakeHRRepo serves a single canned time-off request. Methods beyond the
// ones overridden here panic via the embedded nil interface, which is fine:
// the guard under test must return before touching them.
type fakeHRRepo struct {
	repositories.HRRepository
	request *models.TimeOffRequest
}

func (f *fakeHRRepo) GetTimeOffRequestByID(id int64) (*models.TimeOffRequest, error) {
	if f.request == nil || f.request.ID != id {
		return nil, repositories.ErrNotFound
	}
	req := *f.request
	return &req, nil
}

func TestDecideTimeOffTerminalGuard(t *testing.T) {
	tests := []struct {
		name   string
		status models.TimeOffStatus
	}{
		{"approved request cannot be re-decided", models.TimeOffStatusApproved},
		{"rejected request cannot be re-decided", models.TimeOffStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeHRRepo{request: &models.TimeOffRequest{ID: 1, EmployeeID: 2, Status: tt.status}}
			svc := &hrService{hrRepo: repo}

			_, err := svc.ApproveTimeOff(1, 9, DecideTimeOffInput{})
			if !errors.Is(err, ErrTimeOffAlreadyFinal) {
				t.Errorf("ApproveTimeOff on %s request: expected ErrTimeOffAlreadyFinal, got %v", tt.status, err)
			}

			_, err = svc.RejectTimeOff(1, 9, DecideTimeOffInput{})
			if !errors.Is(err, ErrTimeOffAlreadyFinal) {
				t.Errorf("RejectTimeOff on %s request: expected ErrTimeOffAlreadyFinal, got %v", tt.status, err)
			}
		})
	}
}

func TestDecideTimeOffUnknownRequest(t *testing.T) {
	svc := &hrService{hrRepo: &fakeHRRepo{}}

	_, err := svc.ApproveTimeOff(42, 9, DecideTimeOffInput{})
	if !errors.Is(err, ErrTimeOffNotFound) {
		t.Errorf("expected ErrTimeOffNotFound, got %v", err)
	}
}

func TestCreateTimeOffRequestDateValidation(t *testing.T) {
	repo := &fakeHRRepo{}
	svc := &hrService{hrRepo: repo}

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"malformed start date", "2026/01/01", "2026-01-05"},
		{"malformed end date", "2026-01-01", "05-01-2026"},
		{"end before start", "2026-01-10", "2026-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTimeOffRequest(CreateTimeOffRequestInput{
				EmployeeID: 1,
				StartDate:  tt.start,
				EndDate:    tt.end,
			})
			if !errors.Is(err, ErrHRValidation) {
				t.Errorf("expected ErrHRValidation, got %v", err)
			}
		})
	}
}

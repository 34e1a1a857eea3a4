package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/middleware"
	"erp_backoffice/internal/models"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// HRHandler holds the HR service.
type HRHandler struct {
	hrService services.HRService
}

// NewHRHandler creates a new HRHandler.
func NewHRHandler(hs services.HRService) *HRHandler {
	return &HRHandler{hrService: hs}
}

// CreateEmployee handles creating an employee record.
func (h *HRHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	employee, err := h.hrService.CreateEmployee(req)
	if err != nil {
		if errors.Is(err, services.ErrHRValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else {
			utils.LogError(err, "CreateEmployee: Error from hrService.CreateEmployee")
			respondInternal(c, "Failed to create employee.")
		}
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// GetEmployees handles fetching employees with filters and pagination.
func (h *HRHandler) GetEmployees(c *gin.Context) {
	var filters models.EmployeeFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	employees, total, err := h.hrService.GetEmployees(filters)
	if err != nil {
		utils.LogError(err, "GetEmployees: Error from hrService.GetEmployees")
		respondInternal(c, "Failed to fetch employees.")
		return
	}
	respondList(c, employees, total, filters.Page, filters.PageSize)
}

// GetEmployeeByID handles fetching a single employee.
func (h *HRHandler) GetEmployeeByID(c *gin.Context) {
	employeeID, ok := idParam(c)
	if !ok {
		return
	}

	employee, err := h.hrService.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", ""))
		} else {
			utils.LogError(err, "GetEmployeeByID: Error from hrService.GetEmployeeByID")
			respondInternal(c, "Failed to fetch employee.")
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee handles updating an employee record.
func (h *HRHandler) UpdateEmployee(c *gin.Context) {
	employeeID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	employee, err := h.hrService.UpdateEmployee(employeeID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmployeeNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", ""))
		case errors.Is(err, services.ErrHRValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "UpdateEmployee: Error from hrService.UpdateEmployee")
			respondInternal(c, "Failed to update employee.")
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee handles deleting an employee.
func (h *HRHandler) DeleteEmployee(c *gin.Context) {
	employeeID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.hrService.DeleteEmployee(employeeID); err != nil {
		switch {
		case errors.Is(err, services.ErrEmployeeNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", ""))
		case errors.Is(err, services.ErrHRValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		default:
			utils.LogError(err, "DeleteEmployee: Error from hrService.DeleteEmployee")
			respondInternal(c, "Failed to delete employee.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateTimeOffRequest handles submitting a time-off request.
func (h *HRHandler) CreateTimeOffRequest(c *gin.Context) {
	var input services.CreateTimeOffRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	request, err := h.hrService.CreateTimeOffRequest(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmployeeNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Employee not found.", ""))
		case errors.Is(err, services.ErrHRValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "CreateTimeOffRequest: Error from hrService.CreateTimeOffRequest")
			respondInternal(c, "Failed to create time-off request.")
		}
		return
	}
	c.JSON(http.StatusCreated, request)
}

// GetTimeOffRequests handles fetching time-off requests with filters.
func (h *HRHandler) GetTimeOffRequests(c *gin.Context) {
	var filters models.TimeOffFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	requests, total, err := h.hrService.GetTimeOffRequests(filters)
	if err != nil {
		utils.LogError(err, "GetTimeOffRequests: Error from hrService.GetTimeOffRequests")
		respondInternal(c, "Failed to fetch time-off requests.")
		return
	}
	respondList(c, requests, total, filters.Page, filters.PageSize)
}

// GetTimeOffRequestByID handles fetching a single time-off request.
func (h *HRHandler) GetTimeOffRequestByID(c *gin.Context) {
	requestID, ok := idParam(c)
	if !ok {
		return
	}

	request, err := h.hrService.GetTimeOffRequestByID(requestID)
	if err != nil {
		if errors.Is(err, services.ErrTimeOffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Time-off request not found.", ""))
		} else {
			utils.LogError(err, "GetTimeOffRequestByID: Error from hrService.GetTimeOffRequestByID")
			respondInternal(c, "Failed to fetch time-off request.")
		}
		return
	}
	c.JSON(http.StatusOK, request)
}

// ApproveTimeOff handles approving a pending time-off request.
func (h *HRHandler) ApproveTimeOff(c *gin.Context) {
	h.decideTimeOff(c, h.hrService.ApproveTimeOff, "ApproveTimeOff")
}

// RejectTimeOff handles rejecting a pending time-off request.
func (h *HRHandler) RejectTimeOff(c *gin.Context) {
	h.decideTimeOff(c, h.hrService.RejectTimeOff, "RejectTimeOff")
}

func (h *HRHandler) decideTimeOff(c *gin.Context, decide func(int64, int64, services.DecideTimeOffInput) (*models.TimeOffRequest, error), action string) {
	requestID, ok := idParam(c)
	if !ok {
		return
	}

	reviewerUserID, err := middleware.UserIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	// notes are optional; tolerate an empty body
	var input services.DecideTimeOffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		input = services.DecideTimeOffInput{}
	}

	request, err := decide(requestID, reviewerUserID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTimeOffNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Time-off request not found.", ""))
		case errors.Is(err, services.ErrTimeOffAlreadyFinal):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		default:
			utils.LogError(err, action+": Error from hrService")
			respondInternal(c, "Failed to decide time-off request.")
		}
		return
	}
	c.JSON(http.StatusOK, request)
}

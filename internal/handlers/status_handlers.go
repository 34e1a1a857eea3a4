package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// StatusHandler holds the status service.
type StatusHandler struct {
	statusService services.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(ss services.StatusService) *StatusHandler {
	return &StatusHandler{statusService: ss}
}

// CreateStatus handles creating a workflow status.
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	var req services.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	status, err := h.statusService.CreateStatus(req)
	if err != nil {
		if errors.Is(err, services.ErrStatusValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else {
			utils.LogError(err, "CreateStatus: Error from statusService.CreateStatus")
			respondInternal(c, "Failed to create status.")
		}
		return
	}
	c.JSON(http.StatusCreated, status)
}

// GetStatuses lists statuses, optionally filtered by workflow module.
func (h *StatusHandler) GetStatuses(c *gin.Context) {
	statuses, err := h.statusService.GetStatusesByModule(c.Query("module"))
	if err != nil {
		utils.LogError(err, "GetStatuses: Error from statusService.GetStatusesByModule")
		respondInternal(c, "Failed to fetch statuses.")
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// UpdateStatus handles updating a status.
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	statusID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	status, err := h.statusService.UpdateStatus(statusID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStatusNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Status not found.", ""))
		case errors.Is(err, services.ErrStatusValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "UpdateStatus: Error from statusService.UpdateStatus")
			respondInternal(c, "Failed to update status.")
		}
		return
	}
	c.JSON(http.StatusOK, status)
}

// DeleteStatus handles deleting a status.
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	statusID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.statusService.DeleteStatus(statusID); err != nil {
		switch {
		case errors.Is(err, services.ErrStatusNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Status not found.", ""))
		case errors.Is(err, services.ErrStatusInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Status is referenced by existing records.", ""))
		default:
			utils.LogError(err, "DeleteStatus: Error from statusService.DeleteStatus")
			respondInternal(c, "Failed to delete status.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateTransition handles configuring an allowed status transition.
func (h *StatusHandler) CreateTransition(c *gin.Context) {
	var req services.CreateTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	transition, err := h.statusService.CreateTransition(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStatusNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		case errors.Is(err, services.ErrStatusValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "CreateTransition: Error from statusService.CreateTransition")
			respondInternal(c, "Failed to create transition.")
		}
		return
	}
	c.JSON(http.StatusCreated, transition)
}

// GetTransitions lists the configured transitions of a module.
func (h *StatusHandler) GetTransitions(c *gin.Context) {
	module := c.Query("module")
	if module == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Query parameter 'module' is required.", ""))
		return
	}

	transitions, err := h.statusService.GetTransitionsByModule(module)
	if err != nil {
		utils.LogError(err, "GetTransitions: Error from statusService.GetTransitionsByModule")
		respondInternal(c, "Failed to fetch transitions.")
		return
	}
	c.JSON(http.StatusOK, transitions)
}

// DeleteTransition handles removing a configured transition.
func (h *StatusHandler) DeleteTransition(c *gin.Context) {
	transitionID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.statusService.DeleteTransition(transitionID); err != nil {
		if errors.Is(err, services.ErrTransitionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Transition not found.", ""))
		} else {
			utils.LogError(err, "DeleteTransition: Error from statusService.DeleteTransition")
			respondInternal(c, "Failed to delete transition.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

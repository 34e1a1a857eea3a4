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

// DeliveryHandler holds the delivery service.
type DeliveryHandler struct {
	deliveryService services.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(ds services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: ds}
}

// CreateDelivery handles creating a delivery.
func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	var req services.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	delivery, err := h.deliveryService.CreateDelivery(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStatusNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		case errors.Is(err, services.ErrDeliveryValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "CreateDelivery: Error from deliveryService.CreateDelivery")
			respondInternal(c, "Failed to create delivery.")
		}
		return
	}
	c.JSON(http.StatusCreated, delivery)
}

// GetDeliveries handles fetching deliveries with filters and pagination.
func (h *DeliveryHandler) GetDeliveries(c *gin.Context) {
	var filters models.DeliveryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	deliveries, total, err := h.deliveryService.GetDeliveries(filters)
	if err != nil {
		utils.LogError(err, "GetDeliveries: Error from deliveryService.GetDeliveries")
		respondInternal(c, "Failed to fetch deliveries.")
		return
	}
	respondList(c, deliveries, total, filters.Page, filters.PageSize)
}

// GetDeliveryByID handles fetching a single delivery.
func (h *DeliveryHandler) GetDeliveryByID(c *gin.Context) {
	deliveryID, ok := idParam(c)
	if !ok {
		return
	}

	delivery, err := h.deliveryService.GetDeliveryByID(deliveryID)
	if err != nil {
		if errors.Is(err, services.ErrDeliveryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Delivery not found.", ""))
		} else {
			utils.LogError(err, "GetDeliveryByID: Error from deliveryService.GetDeliveryByID")
			respondInternal(c, "Failed to fetch delivery.")
		}
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// UpdateDelivery handles updating delivery fields other than status.
func (h *DeliveryHandler) UpdateDelivery(c *gin.Context) {
	deliveryID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	delivery, err := h.deliveryService.UpdateDelivery(deliveryID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDeliveryNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Delivery not found.", ""))
		case errors.Is(err, services.ErrDeliveryValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "UpdateDelivery: Error from deliveryService.UpdateDelivery")
			respondInternal(c, "Failed to update delivery.")
		}
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// DeleteDelivery handles deleting a delivery and its history.
func (h *DeliveryHandler) DeleteDelivery(c *gin.Context) {
	deliveryID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.deliveryService.DeleteDelivery(deliveryID); err != nil {
		if errors.Is(err, services.ErrDeliveryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Delivery not found.", ""))
		} else {
			utils.LogError(err, "DeleteDelivery: Error from deliveryService.DeleteDelivery")
			respondInternal(c, "Failed to delete delivery.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeStatus handles a workflow status move on a delivery.
func (h *DeliveryHandler) ChangeStatus(c *gin.Context) {
	deliveryID, ok := idParam(c)
	if !ok {
		return
	}

	actorUserID, err := middleware.UserIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	var req services.ChangeDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	delivery, err := h.deliveryService.ChangeStatus(deliveryID, actorUserID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDeliveryNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Delivery not found.", ""))
		case errors.Is(err, services.ErrStatusNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		case errors.Is(err, services.ErrTransitionForbidden):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		case errors.Is(err, services.ErrDeliveryValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "ChangeStatus: Error from deliveryService.ChangeStatus")
			respondInternal(c, "Failed to change delivery status.")
		}
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// GetStatusHistory lists the status change log of a delivery.
func (h *DeliveryHandler) GetStatusHistory(c *gin.Context) {
	deliveryID, ok := idParam(c)
	if !ok {
		return
	}

	history, err := h.deliveryService.GetStatusHistory(deliveryID)
	if err != nil {
		if errors.Is(err, services.ErrDeliveryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Delivery not found.", ""))
		} else {
			utils.LogError(err, "GetStatusHistory: Error from deliveryService.GetStatusHistory")
			respondInternal(c, "Failed to fetch delivery status history.")
		}
		return
	}
	c.JSON(http.StatusOK, history)
}

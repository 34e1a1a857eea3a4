package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// SupplierHandler holds the supplier service.
type SupplierHandler struct {
	supplierService services.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(ss services.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: ss}
}

// CreateSupplier handles the creation of a new supplier.
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req services.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	supplier, err := h.supplierService.CreateSupplier(req)
	if err != nil {
		utils.LogError(err, "CreateSupplier: Error from supplierService.CreateSupplier")
		switch {
		case errors.Is(err, services.ErrCNPJExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "CNPJ already registered.", err.Error()))
		case errors.Is(err, services.ErrSupplierValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			respondInternal(c, "Failed to create supplier.")
		}
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// GetSuppliers handles fetching suppliers with filters and pagination.
func (h *SupplierHandler) GetSuppliers(c *gin.Context) {
	var filters models.SupplierFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	suppliers, total, err := h.supplierService.GetSuppliers(filters)
	if err != nil {
		utils.LogError(err, "GetSuppliers: Error from supplierService.GetSuppliers")
		respondInternal(c, "Failed to fetch suppliers.")
		return
	}
	respondList(c, suppliers, total, filters.Page, filters.PageSize)
}

// GetSupplierByID handles fetching a single supplier.
func (h *SupplierHandler) GetSupplierByID(c *gin.Context) {
	supplierID, ok := idParam(c)
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetSupplierByID(supplierID)
	if err != nil {
		if errors.Is(err, services.ErrSupplierNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Supplier not found.", ""))
		} else {
			utils.LogError(err, "GetSupplierByID: Error from supplierService.GetSupplierByID")
			respondInternal(c, "Failed to fetch supplier.")
		}
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// UpdateSupplier handles updating a supplier.
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	supplierID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(supplierID, req)
	if err != nil {
		utils.LogError(err, "UpdateSupplier: Error from supplierService.UpdateSupplier")
		switch {
		case errors.Is(err, services.ErrSupplierNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Supplier not found.", ""))
		case errors.Is(err, services.ErrCNPJExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "CNPJ already registered.", err.Error()))
		case errors.Is(err, services.ErrSupplierValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			respondInternal(c, "Failed to update supplier.")
		}
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier handles deleting a supplier.
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	supplierID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.supplierService.DeleteSupplier(supplierID); err != nil {
		switch {
		case errors.Is(err, services.ErrSupplierNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Supplier not found.", ""))
		case errors.Is(err, services.ErrSupplierValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		default:
			utils.LogError(err, "DeleteSupplier: Error from supplierService.DeleteSupplier")
			respondInternal(c, "Failed to delete supplier.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// StockHandler holds the stock service.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// CreateItem handles the creation of a new stock item.
func (h *StockHandler) CreateItem(c *gin.Context) {
	var req services.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.stockService.CreateItem(req)
	if err != nil {
		utils.LogError(err, "CreateItem: Error from stockService.CreateItem")
		switch {
		case errors.Is(err, services.ErrSKUExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "SKU already in use.", err.Error()))
		case errors.Is(err, services.ErrStockValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			respondInternal(c, "Failed to create stock item.")
		}
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems handles fetching stock items with filters and pagination.
func (h *StockHandler) GetItems(c *gin.Context) {
	var filters models.StockItemFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	items, total, err := h.stockService.GetItems(filters)
	if err != nil {
		utils.LogError(err, "GetItems: Error from stockService.GetItems")
		respondInternal(c, "Failed to fetch stock items.")
		return
	}
	respondList(c, items, total, filters.Page, filters.PageSize)
}

// GetItemByID handles fetching a single stock item.
func (h *StockHandler) GetItemByID(c *gin.Context) {
	itemID, ok := idParam(c)
	if !ok {
		return
	}

	item, err := h.stockService.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, services.ErrStockItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Stock item not found.", ""))
		} else {
			utils.LogError(err, "GetItemByID: Error from stockService.GetItemByID")
			respondInternal(c, "Failed to fetch stock item.")
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem handles updating a stock item.
func (h *StockHandler) UpdateItem(c *gin.Context) {
	itemID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.stockService.UpdateItem(itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateItem: Error from stockService.UpdateItem")
		switch {
		case errors.Is(err, services.ErrStockItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Stock item not found.", ""))
		case errors.Is(err, services.ErrSKUExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "SKU already in use.", err.Error()))
		case errors.Is(err, services.ErrStockValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			respondInternal(c, "Failed to update stock item.")
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles deleting a stock item.
func (h *StockHandler) DeleteItem(c *gin.Context) {
	itemID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.stockService.DeleteItem(itemID); err != nil {
		if errors.Is(err, services.ErrStockItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Stock item not found.", ""))
		} else {
			utils.LogError(err, "DeleteItem: Error from stockService.DeleteItem")
			respondInternal(c, "Failed to delete stock item.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLocations lists stock locations.
func (h *StockHandler) GetLocations(c *gin.Context) {
	locations, err := h.stockService.GetLocations()
	if err != nil {
		utils.LogError(err, "GetLocations: Error from stockService.GetLocations")
		respondInternal(c, "Failed to fetch stock locations.")
		return
	}
	c.JSON(http.StatusOK, locations)
}

// GetGroups lists stock groups.
func (h *StockHandler) GetGroups(c *gin.Context) {
	groups, err := h.stockService.GetGroups()
	if err != nil {
		utils.LogError(err, "GetGroups: Error from stockService.GetGroups")
		respondInternal(c, "Failed to fetch stock groups.")
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetUnits lists units of measurement.
func (h *StockHandler) GetUnits(c *gin.Context) {
	units, err := h.stockService.GetUnits()
	if err != nil {
		utils.LogError(err, "GetUnits: Error from stockService.GetUnits")
		respondInternal(c, "Failed to fetch units of measurement.")
		return
	}
	c.JSON(http.StatusOK, units)
}

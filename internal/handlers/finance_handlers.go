package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// FinanceHandler holds the finance service.
type FinanceHandler struct {
	financeService services.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(fs services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: fs}
}

// CreateTransaction handles creating a financial transaction.
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var req services.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	transaction, err := h.financeService.CreateTransaction(req)
	if err != nil {
		if errors.Is(err, services.ErrFinanceValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else {
			utils.LogError(err, "CreateTransaction: Error from financeService.CreateTransaction")
			respondInternal(c, "Failed to create transaction.")
		}
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles fetching transactions with filters and pagination.
func (h *FinanceHandler) GetTransactions(c *gin.Context) {
	var filters models.TransactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	transactions, total, err := h.financeService.GetTransactions(filters)
	if err != nil {
		if errors.Is(err, services.ErrFinanceValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else {
			utils.LogError(err, "GetTransactions: Error from financeService.GetTransactions")
			respondInternal(c, "Failed to fetch transactions.")
		}
		return
	}
	respondList(c, transactions, total, filters.Page, filters.PageSize)
}

// GetTransactionByID handles fetching a single transaction.
func (h *FinanceHandler) GetTransactionByID(c *gin.Context) {
	transactionID, ok := idParam(c)
	if !ok {
		return
	}

	transaction, err := h.financeService.GetTransactionByID(transactionID)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Transaction not found.", ""))
		} else {
			utils.LogError(err, "GetTransactionByID: Error from financeService.GetTransactionByID")
			respondInternal(c, "Failed to fetch transaction.")
		}
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction handles updating a transaction.
func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	transactionID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	transaction, err := h.financeService.UpdateTransaction(transactionID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Transaction not found.", ""))
		case errors.Is(err, services.ErrFinanceValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "UpdateTransaction: Error from financeService.UpdateTransaction")
			respondInternal(c, "Failed to update transaction.")
		}
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction handles deleting a transaction.
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	transactionID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.financeService.DeleteTransaction(transactionID); err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Transaction not found.", ""))
		} else {
			utils.LogError(err, "DeleteTransaction: Error from financeService.DeleteTransaction")
			respondInternal(c, "Failed to delete transaction.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCategories lists finance categories.
func (h *FinanceHandler) GetCategories(c *gin.Context) {
	categories, err := h.financeService.GetCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: Error from financeService.GetCategories")
		respondInternal(c, "Failed to fetch finance categories.")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetPaymentMethods lists payment methods.
func (h *FinanceHandler) GetPaymentMethods(c *gin.Context) {
	methods, err := h.financeService.GetPaymentMethods()
	if err != nil {
		utils.LogError(err, "GetPaymentMethods: Error from financeService.GetPaymentMethods")
		respondInternal(c, "Failed to fetch payment methods.")
		return
	}
	c.JSON(http.StatusOK, methods)
}

// GetDivisions lists cost-center divisions.
func (h *FinanceHandler) GetDivisions(c *gin.Context) {
	divisions, err := h.financeService.GetDivisions()
	if err != nil {
		utils.LogError(err, "GetDivisions: Error from financeService.GetDivisions")
		respondInternal(c, "Failed to fetch divisions.")
		return
	}
	c.JSON(http.StatusOK, divisions)
}

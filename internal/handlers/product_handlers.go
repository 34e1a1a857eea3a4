package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// ProductHandler holds the product service.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

func respondProductError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
	case errors.Is(err, services.ErrCategoryNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Product category not found.", ""))
	case errors.Is(err, services.ErrProductSKUExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Product SKU already in use.", err.Error()))
	case errors.Is(err, services.ErrDuplicateOption), errors.Is(err, services.ErrDuplicateOptionVal), errors.Is(err, services.ErrProductValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
	default:
		utils.LogError(err, action)
		respondInternal(c, "Failed to process product.")
	}
}

// CreateProduct handles creating a product aggregate, generating its
// variants from the declared options.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(req)
	if err != nil {
		respondProductError(c, err, "CreateProduct: Error from productService.CreateProduct")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProducts handles fetching products with filters and pagination.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	products, total, err := h.productService.GetProducts(filters)
	if err != nil {
		utils.LogError(err, "GetProducts: Error from productService.GetProducts")
		respondInternal(c, "Failed to fetch products.")
		return
	}
	respondList(c, products, total, filters.Page, filters.PageSize)
}

// GetProductByID handles fetching one product with its full aggregate.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		respondProductError(c, err, "GetProductByID: Error from productService.GetProductByID")
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles the replace-on-save update of a product aggregate.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		return
	}

	var req services.SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(productID, req)
	if err != nil {
		respondProductError(c, err, "UpdateProduct: Error from productService.UpdateProduct")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product and its children.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(productID); err != nil {
		respondProductError(c, err, "DeleteProduct: Error from productService.DeleteProduct")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCategories lists product categories.
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.GetCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: Error from productService.GetCategories")
		respondInternal(c, "Failed to fetch product categories.")
		return
	}
	c.JSON(http.StatusOK, categories)
}

package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// ImportHandler receives CSV uploads and runs them through the import
// service.
type ImportHandler struct {
	importService services.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(is services.ImportService) *ImportHandler {
	return &ImportHandler{importService: is}
}

// ImportStock handles a stock CSV upload.
func (h *ImportHandler) ImportStock(c *gin.Context) {
	h.runImport(c, h.importService.ImportStockItems, "ImportStock")
}

// ImportSuppliers handles a supplier CSV upload.
func (h *ImportHandler) ImportSuppliers(c *gin.Context) {
	h.runImport(c, h.importService.ImportSuppliers, "ImportSuppliers")
}

func (h *ImportHandler) runImport(c *gin.Context, run func(io.Reader) (*services.ImportResult, error), action string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Multipart field 'file' is required.", err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.LogError(err, action+": failed to open uploaded file")
		respondInternal(c, "Failed to read uploaded file.")
		return
	}
	defer file.Close()

	result, err := run(file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImportEmptyFile):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "The uploaded file is empty.", ""))
		case errors.Is(err, services.ErrImportBadHeader):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, action+": Error from importService")
			respondInternal(c, "Failed to run import.")
		}
		return
	}

	// rejected rows roll the whole batch back
	if len(result.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

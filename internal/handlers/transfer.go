// internal/handlers/transfer.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artledger/registry-backend/internal/i18n"
	"github.com/artledger/registry-backend/internal/services"
	"github.com/artledger/registry-backend/internal/utils"
)

type TransferHandler struct {
	transferService *services.TransferService
}

func NewTransferHandler(transferService *services.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// POST /assets/:id/transfer
func (h *TransferHandler) TransferAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	var req services.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.transferService.TransferDirect(account, id, req.Recipient); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyTransferCompleted),
		"asset_id":  id,
		"recipient": req.Recipient,
	})
}

// POST /assets/:id/sale
func (h *TransferHandler) SellAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	var req services.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	transaction, err := h.transferService.TransferWithRoyalty(account, id, req.Recipient, req.SalePrice)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyTransferSaleCompleted),
		"transaction": transaction,
	})
}

// POST /transfers/bulk
func (h *TransferHandler) BulkTransfer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	var req services.BulkTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	results, err := h.transferService.BulkTransfer(account, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyTransferBulkCompleted),
		"transfers": results,
	})
}

// GET /assets/:id/royalty?sale_price=N
func (h *TransferHandler) CalculateRoyalty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	salePrice, err := strconv.ParseUint(c.Query("sale_price"), 10, 64)
	if err != nil || salePrice == 0 || salePrice > services.MaxSalePrice {
		utils.BadRequestResponse(c, "Invalid sale price", nil)
		return
	}

	breakdown, err := h.transferService.CalculateRoyalty(id, salePrice)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"royalty": breakdown,
	})
}

// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/artledger/registry-backend/internal/i18n"
	"github.com/artledger/registry-backend/internal/services"
	"github.com/artledger/registry-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /payments/deposit-intent
func (h *PaymentHandler) CreateDepositIntent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	var req services.CreateDepositIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	response, err := h.paymentService.CreateDepositIntent(account, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, response)
}

// POST /payments/deposit/confirm
func (h *PaymentHandler) ConfirmDeposit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	var req services.ConfirmDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	deposit, err := h.paymentService.ConfirmDeposit(account, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentDepositCompleted),
		"deposit": deposit,
	})
}

// GET /payments/balance
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	balance, err := h.paymentService.Balance(account)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account": account,
		"balance": balance,
	})
}

// GET /payments/history
func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	transactions, total, err := h.paymentService.History(account, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(transactions, total, params)
	utils.PaginatedResponse(c, result)
}

// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/artledger/registry-backend/internal/i18n"
	"github.com/artledger/registry-backend/internal/services"
	"github.com/artledger/registry-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// PUT /admin/registry/pause
func (h *AdminHandler) SetPaused(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	var req services.SetPausedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	counters, err := h.adminService.SetPaused(account, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	messageKey := i18n.KeyAdminRegistryResumed
	if counters.Paused {
		messageKey = i18n.KeyAdminRegistryPaused
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"paused":  counters.Paused,
	})
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	stats, err := h.adminService.DashboardStats(account)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	filter := services.AuditLogFilter{
		PaginationParams: params,
		Account:          c.Query("account"),
		Action:           c.Query("action"),
		ResourceType:     c.Query("resource_type"),
	}

	logs, total, err := h.adminService.ListAuditLogs(account, filter)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/transactions
func (h *AdminHandler) GetTransactions(c *gin.Context) {
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	filter := services.AdminTransactionFilter{
		PaginationParams: params,
		TransactionType:  c.Query("transaction_type"),
		Account:          c.Query("account"),
	}

	transactions, total, err := h.adminService.ListTransactions(account, filter)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(transactions, total, params)
	utils.PaginatedResponse(c, result)
}

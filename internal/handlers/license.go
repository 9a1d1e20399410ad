// internal/handlers/license.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artledger/registry-backend/internal/i18n"
	"github.com/artledger/registry-backend/internal/services"
	"github.com/artledger/registry-backend/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// POST /assets/:id/license/purchase
func (h *LicenseHandler) PurchaseLicense(c *gin.Context) {
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

	var req services.PurchaseLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	grant, err := h.licenseService.PurchaseLicense(account, id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicensePurchased),
		"license": grant,
	})
}

// GET /assets/:id/license/:account
func (h *LicenseHandler) GetLicenseGrant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	licensee := c.Param("account")
	if licensee == "" {
		utils.BadRequestResponse(c, "Invalid account", nil)
		return
	}

	grant, err := h.licenseService.GetLicenseGrant(id, licensee)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if grant == nil {
		utils.NotFoundResponse(c, "license")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"license": grant,
	})
}

// GET /assets/:id/license/:account/valid
func (h *LicenseHandler) CheckLicenseValidity(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	licensee := c.Param("account")
	if licensee == "" {
		utils.BadRequestResponse(c, "Invalid account", nil)
		return
	}

	valid, err := h.licenseService.HasValidLicense(id, licensee)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset_id": id,
		"licensee": licensee,
		"valid":    valid,
	})
}

// GET /assets/:id/licensing-terms
func (h *LicenseHandler) GetLicensingTerms(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	terms, err := h.licenseService.GetLicensingTerms(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if terms == nil {
		utils.NotFoundResponse(c, "asset")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"licensing_terms": terms,
	})
}

// PUT /assets/:id/licensing-terms
func (h *LicenseHandler) UpdateLicensingTerms(c *gin.Context) {
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

	var req services.UpdateTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	terms, err := h.licenseService.UpdateLicensingTerms(account, id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":         i18n.T(lang, i18n.KeyLicenseTermsUpdated),
		"licensing_terms": terms,
	})
}

// GET /licenses
func (h *LicenseHandler) GetMyLicenses(c *gin.Context) {
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	grants, total, err := h.licenseService.ListLicenses(account, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(grants, total, params)
	utils.PaginatedResponse(c, result)
}

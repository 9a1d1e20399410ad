// internal/handlers/asset.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artledger/registry-backend/internal/i18n"
	"github.com/artledger/registry-backend/internal/services"
	"github.com/artledger/registry-backend/internal/utils"
)

type AssetHandler struct {
	registryService *services.RegistryService
	transferService *services.TransferService
	storageService  *services.StorageService
}

func NewAssetHandler(registryService *services.RegistryService, transferService *services.TransferService, storageService *services.StorageService) *AssetHandler {
	return &AssetHandler{
		registryService: registryService,
		transferService: transferService,
		storageService:  storageService,
	}
}

// GET /assets
func (h *AssetHandler) GetAssets(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.AssetSearchParams{
		PaginationParams: params,
		Creator:          c.Query("creator"),
		Owner:            c.Query("owner"),
		Category:         c.Query("category"),
	}

	assets, total, err := h.registryService.SearchAssets(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(assets, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /assets
func (h *AssetHandler) MintAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	var req services.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	asset, err := h.registryService.Mint(account, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetMinted),
		"asset":   asset,
	})
}

// POST /assets/batch
func (h *AssetHandler) BatchMintAssets(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	account, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	var req services.BatchMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	assets, err := h.registryService.BatchMint(account, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetBatchMinted),
		"assets":  assets,
	})
}

// GET /assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	asset, err := h.registryService.AssetMetadata(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if asset == nil {
		utils.NotFoundResponse(c, "asset")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset": asset,
	})
}

// GET /assets/:id/record
//
// Same lookup as GET /assets/:id, but a missing asset is a 200 with
// found=false so callers can probe without handling 404s.
func (h *AssetHandler) GetAssetRecord(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	asset, found, err := h.registryService.AssetRecord(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"found": found,
		"asset": asset,
	})
}

// GET /assets/:id/owner
func (h *AssetHandler) GetAssetOwner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	owner, err := h.transferService.OwnerOf(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset_id": id,
		"owner":    owner,
	})
}

// GET /assets/:id/owner/record
func (h *AssetHandler) GetAssetOwnerRecord(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	owner, found, err := h.transferService.OwnerRecord(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset_id": id,
		"found":    found,
		"owner":    owner,
	})
}

// GET /assets/:id/media-uri
func (h *AssetHandler) GetAssetMediaURI(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	uri, found, err := h.registryService.MediaURI(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if !found {
		utils.NotFoundResponse(c, "asset")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset_id":  id,
		"media_uri": uri,
	})
}

// GET /creators/:account/earnings
func (h *AssetHandler) GetCreatorEarnings(c *gin.Context) {
	account := c.Param("account")
	if account == "" {
		utils.BadRequestResponse(c, "Invalid account", nil)
		return
	}

	earnings, err := h.registryService.EarningsOf(account)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"creator":      account,
		"total_earned": earnings,
	})
}

// GET /stats/registry
func (h *AssetHandler) GetRegistryStats(c *gin.Context) {
	stats, err := h.registryService.Stats(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// POST /assets/media
func (h *AssetHandler) UploadMedia(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	_, exists := utils.GetAccountFromContext(c)
	if !exists {
		utils.UnauthenticatedResponse(c, "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadMedia(file, fileHeader)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetMediaUploaded),
		"media":   result,
	})
}

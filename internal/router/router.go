// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/artledger/registry-backend/internal/cache"
	"github.com/artledger/registry-backend/internal/clock"
	"github.com/artledger/registry-backend/internal/config"
	"github.com/artledger/registry-backend/internal/handlers"
	"github.com/artledger/registry-backend/internal/metrics"
	"github.com/artledger/registry-backend/internal/middleware"
	"github.com/artledger/registry-backend/internal/services"
	"github.com/artledger/registry-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, clk clock.Clock, m *metrics.Metrics, ch *cache.Cache) *gin.Engine {
	// Initialize services
	ledgerService := services.NewLedgerService(db)
	storageService, _ := services.NewStorageService(cfg)

	registryService := services.NewRegistryService(db, clk, m, ch, cfg)
	transferService := services.NewTransferService(db, ledgerService, m)
	licenseService := services.NewLicenseService(db, ledgerService, clk, m)
	paymentService := services.NewPaymentService(db, ledgerService, m, cfg)
	adminService := services.NewAdminService(db, m, ch)

	// Initialize handlers
	assetHandler := handlers.NewAssetHandler(registryService, transferService, storageService)
	transferHandler := handlers.NewTransferHandler(transferService)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.RequestMetrics(m))
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := "healthy"
		if err := ch.Health(c.Request.Context()); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"version": "1.0.0",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Asset routes
		assets := v1.Group("/assets")
		{
			assets.GET("", middleware.OptionalAuth(), assetHandler.GetAssets)
			assets.GET("/:id", middleware.OptionalAuth(), assetHandler.GetAsset)
			assets.GET("/:id/record", assetHandler.GetAssetRecord)
			assets.GET("/:id/owner", assetHandler.GetAssetOwner)
			assets.GET("/:id/owner/record", assetHandler.GetAssetOwnerRecord)
			assets.GET("/:id/media-uri", assetHandler.GetAssetMediaURI)
			assets.GET("/:id/royalty", transferHandler.CalculateRoyalty)
			assets.GET("/:id/licensing-terms", licenseHandler.GetLicensingTerms)
			assets.GET("/:id/license/:account", licenseHandler.GetLicenseGrant)
			assets.GET("/:id/license/:account/valid", licenseHandler.CheckLicenseValidity)

			// Authenticated routes
			protected := assets.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.MintRateLimit(), assetHandler.MintAsset)
				protected.POST("/batch", middleware.MintRateLimit(), assetHandler.BatchMintAssets)
				protected.POST("/media", middleware.UploadRateLimit(), assetHandler.UploadMedia)
				protected.POST("/:id/transfer", middleware.TransferRateLimit(), transferHandler.TransferAsset)
				protected.POST("/:id/sale", middleware.TransferRateLimit(), transferHandler.SellAsset)
				protected.POST("/:id/license/purchase", licenseHandler.PurchaseLicense)
				protected.PUT("/:id/licensing-terms", licenseHandler.UpdateLicensingTerms)
			}
		}

		// Bulk transfer route
		transfers := v1.Group("/transfers")
		transfers.Use(middleware.AuthRequired())
		{
			transfers.POST("/bulk", middleware.TransferRateLimit(), transferHandler.BulkTransfer)
		}

		// License listing for the caller
		licenses := v1.Group("/licenses")
		licenses.Use(middleware.AuthRequired())
		{
			licenses.GET("", licenseHandler.GetMyLicenses)
		}

		// Creator routes (public)
		creators := v1.Group("/creators")
		{
			creators.GET("/:account/earnings", assetHandler.GetCreatorEarnings)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/deposit-intent", middleware.PaymentRateLimit(), paymentHandler.CreateDepositIntent)
			payments.POST("/deposit/confirm", middleware.PaymentRateLimit(), paymentHandler.ConfirmDeposit)
			payments.GET("/balance", paymentHandler.GetBalance)
			payments.GET("/history", paymentHandler.GetPaymentHistory)
		}

		// Admin routes. Authorization against the registry admin account
		// happens in the service layer.
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		{
			admin.PUT("/registry/pause", adminHandler.SetPaused)

			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", adminHandler.GetDashboardStats)
			}

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
			admin.GET("/transactions", adminHandler.GetTransactions)
		}

		// Statistics routes (public)
		stats := v1.Group("/stats")
		{
			stats.GET("/registry", assetHandler.GetRegistryStats)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}

// internal/handlers/api_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/artledger/registry-backend/internal/clock"
	"github.com/artledger/registry-backend/internal/config"
	"github.com/artledger/registry-backend/internal/middleware"
	"github.com/artledger/registry-backend/internal/models"
	"github.com/artledger/registry-backend/internal/services"
	"github.com/artledger/registry-backend/internal/utils"
)

const (
	apiAdmin = "admin"
	apiStart = int64(1_700_000_000)
)

// APISuite drives the JSON API end to end over an in-memory database. The
// routes mirror the production router without the per-IP rate limiters:
// every httptest request reports the same client address, so the shared
// buckets would throttle unrelated cases.
type APISuite struct {
	suite.Suite
	db       *gorm.DB
	clk      *clock.Manual
	ledger   *services.LedgerService
	registry *services.RegistryService
	router   *gin.Engine
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("api-test-secret")
}

func (s *APISuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	// A single connection keeps every session on the same memory database.
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(
		&models.Asset{},
		&models.OwnershipRecord{},
		&models.LicensingTerms{},
		&models.LicenseGrant{},
		&models.CreatorEarnings{},
		&models.RegistryCounters{},
		&models.Account{},
		&models.Transaction{},
		&models.AuditLog{},
	))
	s.Require().NoError(db.Create(&models.RegistryCounters{
		ID:           models.CountersID,
		NextAssetID:  1,
		TotalSupply:  0,
		Paused:       false,
		AdminAccount: apiAdmin,
	}).Error)

	cfg := &config.Config{
		Registry: config.RegistryConfig{
			AdminAccount:  apiAdmin,
			MediaBaseURL:  "https://media.example.com",
			StatsCacheTTL: 10,
		},
	}

	s.db = db
	s.clk = clock.NewManual(apiStart)
	s.ledger = services.NewLedgerService(db)
	s.registry = services.NewRegistryService(db, s.clk, nil, nil, cfg)

	transfer := services.NewTransferService(db, s.ledger, nil)
	license := services.NewLicenseService(db, s.ledger, s.clk, nil)
	admin := services.NewAdminService(db, nil, nil)
	payment := services.NewPaymentService(db, s.ledger, nil, cfg)
	storage, err := services.NewStorageService(cfg)
	s.Require().NoError(err)

	assetHandler := NewAssetHandler(s.registry, transfer, storage)
	transferHandler := NewTransferHandler(transfer)
	licenseHandler := NewLicenseHandler(license)
	adminHandler := NewAdminHandler(admin)
	paymentHandler := NewPaymentHandler(payment)

	r := gin.New()
	v1 := r.Group("/v1")

	assets := v1.Group("/assets")
	{
		assets.GET("", assetHandler.GetAssets)
		assets.GET("/:id", assetHandler.GetAsset)
		assets.GET("/:id/record", assetHandler.GetAssetRecord)
		assets.GET("/:id/owner", assetHandler.GetAssetOwner)
		assets.GET("/:id/owner/record", assetHandler.GetAssetOwnerRecord)
		assets.GET("/:id/media-uri", assetHandler.GetAssetMediaURI)
		assets.GET("/:id/royalty", transferHandler.CalculateRoyalty)
		assets.GET("/:id/licensing-terms", licenseHandler.GetLicensingTerms)
		assets.GET("/:id/license/:account", licenseHandler.GetLicenseGrant)
		assets.GET("/:id/license/:account/valid", licenseHandler.CheckLicenseValidity)

		protected := assets.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("", assetHandler.MintAsset)
			protected.POST("/batch", assetHandler.BatchMintAssets)
			protected.POST("/media", assetHandler.UploadMedia)
			protected.POST("/:id/transfer", transferHandler.TransferAsset)
			protected.POST("/:id/sale", transferHandler.SellAsset)
			protected.POST("/:id/license/purchase", licenseHandler.PurchaseLicense)
			protected.PUT("/:id/licensing-terms", licenseHandler.UpdateLicensingTerms)
		}
	}

	transfers := v1.Group("/transfers")
	transfers.Use(middleware.AuthRequired())
	transfers.POST("/bulk", transferHandler.BulkTransfer)

	licenses := v1.Group("/licenses")
	licenses.Use(middleware.AuthRequired())
	licenses.GET("", licenseHandler.GetMyLicenses)

	v1.GET("/creators/:account/earnings", assetHandler.GetCreatorEarnings)

	payments := v1.Group("/payments")
	payments.Use(middleware.AuthRequired())
	payments.GET("/balance", paymentHandler.GetBalance)
	payments.GET("/history", paymentHandler.GetPaymentHistory)

	adminGroup := v1.Group("/admin")
	adminGroup.Use(middleware.AuthRequired())
	adminGroup.PUT("/registry/pause", adminHandler.SetPaused)
	adminGroup.GET("/dashboard/stats", adminHandler.GetDashboardStats)
	adminGroup.GET("/audit-logs", adminHandler.GetAuditLogs)
	adminGroup.GET("/transactions", adminHandler.GetTransactions)

	v1.GET("/stats/registry", assetHandler.GetRegistryStats)

	s.router = r
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
	Meta    json.RawMessage `json:"meta"`
}

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

func (s *APISuite) token(account string) string {
	token, err := utils.GenerateJWT(account, 1)
	s.Require().NoError(err)
	return token
}

// request performs one API call. An empty account sends no Authorization
// header; a nil body sends no payload.
func (s *APISuite) request(method, path, account string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if account != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(account))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decode(w *httptest.ResponseRecorder) apiEnvelope {
	var env apiEnvelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// dataField unmarshals one key of the response data object into out.
func (s *APISuite) dataField(env apiEnvelope, key string, out interface{}) {
	fields := map[string]json.RawMessage{}
	s.Require().NoError(json.Unmarshal(env.Data, &fields))
	raw, ok := fields[key]
	s.Require().True(ok, "missing data field %q", key)
	s.Require().NoError(json.Unmarshal(raw, out))
}

func (s *APISuite) requireError(w *httptest.ResponseRecorder, status int, code string) apiEnvelope {
	s.Require().Equal(status, w.Code, w.Body.String())
	env := s.decode(w)
	s.False(env.Success)
	s.Require().NotNil(env.Error)
	s.Equal(code, env.Error.Code)
	return env
}

func (s *APISuite) fund(account string, amount uint64) {
	s.Require().NoError(s.ledger.Credit(s.db, account, amount))
}

// seedAsset mints directly through the service for tests whose subject is a
// later operation.
func (s *APISuite) seedAsset(creator string, royaltyBps uint32) *models.Asset {
	asset, err := s.registry.Mint(creator, &services.MintRequest{
		Title:      "Seed Asset",
		RoyaltyBps: royaltyBps,
	})
	s.Require().NoError(err)
	return asset
}

func (s *APISuite) seedLicensedAsset(creator string, fee, maxDuration uint64) *models.Asset {
	asset, err := s.registry.Mint(creator, &services.MintRequest{
		Title:      "Licensed Seed Asset",
		RoyaltyBps: 500,
		LicensingTerms: services.MintTermsRequest{
			CommercialUse:      true,
			LicenseFee:         fee,
			MaxLicenseDuration: maxDuration,
		},
	})
	s.Require().NoError(err)
	return asset
}

func (s *APISuite) TestMint() {
	w := s.request(http.MethodPost, "/v1/assets", "carol", gin.H{
		"title":       "Sunset Over Harbor",
		"description": "Oil on canvas, 2024",
		"category":    "painting",
		"royalty_bps": 500,
		"licensing_terms": gin.H{
			"commercial_use": true,
			"license_fee":    10_000,
		},
	})

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	env := s.decode(w)
	s.True(env.Success)

	var asset models.Asset
	s.dataField(env, "asset", &asset)
	s.Equal(uint64(1), asset.ID)
	s.Equal("carol", asset.Creator)
	s.Equal("Sunset Over Harbor", asset.Title)
	s.Equal(uint32(500), asset.RoyaltyBps)
	s.Equal(apiStart, asset.MintTimestamp)

	w = s.request(http.MethodGet, "/v1/assets/1", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var fetched models.Asset
	s.dataField(s.decode(w), "asset", &fetched)
	s.Equal("Sunset Over Harbor", fetched.Title)
}

func (s *APISuite) TestMintRequiresAuth() {
	w := s.request(http.MethodPost, "/v1/assets", "", gin.H{"title": "No Token"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "error")
}

func (s *APISuite) TestMintRejectsExcessiveRoyalty() {
	w := s.request(http.MethodPost, "/v1/assets", "carol", gin.H{
		"title":       "Greedy",
		"royalty_bps": 2000,
	})
	s.requireError(w, http.StatusBadRequest, "INVALID_ROYALTY")
}

func (s *APISuite) TestMintValidationErrors() {
	w := s.request(http.MethodPost, "/v1/assets", "carol", gin.H{
		"title": "",
	})
	env := s.requireError(w, http.StatusBadRequest, "VALIDATION_ERROR")

	var details []map[string]interface{}
	s.Require().NoError(json.Unmarshal(env.Error.Details, &details))
	s.NotEmpty(details)
}

func (s *APISuite) TestBatchMint() {
	w := s.request(http.MethodPost, "/v1/assets/batch", "carol", gin.H{
		"assets": []gin.H{
			{"title": "First", "royalty_bps": 100},
			{"title": "Second", "royalty_bps": 200},
		},
	})

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var assets []models.Asset
	s.dataField(s.decode(w), "assets", &assets)
	s.Require().Len(assets, 2)
	s.Equal(uint64(1), assets[0].ID)
	s.Equal(uint64(2), assets[1].ID)
	s.Equal("Second", assets[1].Title)
}

func (s *APISuite) TestGetAssetErrors() {
	w := s.request(http.MethodGet, "/v1/assets/999", "", nil)
	s.requireError(w, http.StatusNotFound, "NOT_FOUND")

	w = s.request(http.MethodGet, "/v1/assets/abc", "", nil)
	s.requireError(w, http.StatusBadRequest, "BAD_REQUEST")
}

func (s *APISuite) TestAssetRecordProbe() {
	probe := struct {
		Found bool          `json:"found"`
		Asset *models.Asset `json:"asset"`
	}{}

	w := s.request(http.MethodGet, "/v1/assets/999/record", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	env := s.decode(w)
	s.Require().NoError(json.Unmarshal(env.Data, &probe))
	s.False(probe.Found)
	s.Nil(probe.Asset)

	s.seedAsset("carol", 250)
	w = s.request(http.MethodGet, "/v1/assets/1/record", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	env = s.decode(w)
	s.Require().NoError(json.Unmarshal(env.Data, &probe))
	s.True(probe.Found)
	s.Require().NotNil(probe.Asset)
	s.Equal("carol", probe.Asset.Creator)
}

func (s *APISuite) TestListAssetsFiltersByCreator() {
	s.seedAsset("carol", 100)
	s.seedAsset("carol", 200)
	s.seedAsset("dave", 300)

	w := s.request(http.MethodGet, "/v1/assets?creator=carol", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("2", w.Header().Get("X-Total-Count"))

	env := s.decode(w)
	var assets []models.Asset
	s.Require().NoError(json.Unmarshal(env.Data, &assets))
	s.Require().Len(assets, 2)
	for _, asset := range assets {
		s.Equal("carol", asset.Creator)
	}

	meta := struct {
		Pagination struct {
			Page  int   `json:"page"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}{}
	s.Require().NoError(json.Unmarshal(env.Meta, &meta))
	s.Equal(1, meta.Pagination.Page)
	s.Equal(int64(2), meta.Pagination.Total)
}

func (s *APISuite) TestTransferAndOwnerLookup() {
	s.seedAsset("carol", 0)

	w := s.request(http.MethodPost, "/v1/assets/1/transfer", "carol", gin.H{
		"recipient": "dave",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request(http.MethodGet, "/v1/assets/1/owner", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var owner string
	s.dataField(s.decode(w), "owner", &owner)
	s.Equal("dave", owner)

	probe := struct {
		Found bool   `json:"found"`
		Owner string `json:"owner"`
	}{}
	w = s.request(http.MethodGet, "/v1/assets/999/owner/record", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(s.decode(w).Data, &probe))
	s.False(probe.Found)
	s.Empty(probe.Owner)
}

func (s *APISuite) TestTransferErrors() {
	s.seedAsset("carol", 0)

	w := s.request(http.MethodPost, "/v1/assets/1/transfer", "mallory", gin.H{
		"recipient": "dave",
	})
	s.requireError(w, http.StatusForbidden, "NOT_OWNER")

	w = s.request(http.MethodPost, "/v1/assets/1/transfer", "carol", gin.H{
		"recipient": "carol",
	})
	s.requireError(w, http.StatusBadRequest, "INVALID_RECIPIENT")

	w = s.request(http.MethodPost, "/v1/assets/999/transfer", "carol", gin.H{
		"recipient": "dave",
	})
	s.requireError(w, http.StatusNotFound, "TOKEN_NOT_FOUND")
}

func (s *APISuite) TestSellAsset() {
	s.seedAsset("carol", 750)
	w := s.request(http.MethodPost, "/v1/assets/1/transfer", "carol", gin.H{
		"recipient": "sam",
	})
	s.Require().Equal(http.StatusOK, w.Code)

	s.fund("sam", 100_000)
	s.fund("bob", 1_000_000)

	w = s.request(http.MethodPost, "/v1/assets/1/sale", "sam", gin.H{
		"recipient":  "bob",
		"sale_price": 1_000_000,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var txn models.Transaction
	s.dataField(s.decode(w), "transaction", &txn)
	s.Equal(models.TransactionTypeAssetSale, txn.TransactionType)
	s.Equal("sam", txn.FromAccount)
	s.Equal("bob", txn.ToAccount)
	s.Equal(uint64(1_000_000), txn.Amount)
	s.Equal(uint64(75_000), txn.RoyaltyPaid)
	s.Equal("carol", txn.Creator)
	s.Equal(models.TransactionStatusCompleted, txn.Status)

	balance := struct {
		Account string `json:"account"`
		Balance uint64 `json:"balance"`
	}{}
	w = s.request(http.MethodGet, "/v1/payments/balance", "sam", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(s.decode(w).Data, &balance))
	s.Equal(uint64(100_000-75_000+1_000_000-75_000), balance.Balance)

	w = s.request(http.MethodGet, "/v1/assets/1/owner", "", nil)
	var owner string
	s.dataField(s.decode(w), "owner", &owner)
	s.Equal("bob", owner)
}

func (s *APISuite) TestSellAssetInsufficientFunds() {
	s.seedAsset("carol", 0)

	w := s.request(http.MethodPost, "/v1/assets/1/sale", "carol", gin.H{
		"recipient":  "bob",
		"sale_price": 500,
	})
	s.requireError(w, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS")
}

func (s *APISuite) TestBulkTransfer() {
	s.seedAsset("carol", 0)
	s.seedAsset("carol", 500)
	s.fund("dave", 100_000)

	w := s.request(http.MethodPost, "/v1/transfers/bulk", "carol", gin.H{
		"transfers": []gin.H{
			{"asset_id": 1, "recipient": "dave"},
			{"asset_id": 2, "recipient": "dave", "sale_price": 100_000},
		},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var results []services.BulkTransferResult
	s.dataField(s.decode(w), "transfers", &results)
	s.Require().Len(results, 2)
	s.Equal("direct", results[0].Kind)
	s.Nil(results[0].Transaction)
	s.Equal("sale", results[1].Kind)
	s.Require().NotNil(results[1].Transaction)
	s.Equal(uint64(100_000), results[1].Transaction.Amount)
}

func (s *APISuite) TestRoyaltyQuote() {
	s.seedAsset("carol", 750)

	w := s.request(http.MethodGet, "/v1/assets/1/royalty?sale_price=1000000", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var breakdown services.RoyaltyBreakdown
	s.dataField(s.decode(w), "royalty", &breakdown)
	s.Equal(uint64(75_000), breakdown.RoyaltyAmount)
	s.Equal(uint64(925_000), breakdown.SellerAmount)
	s.Equal("carol", breakdown.Creator)

	w = s.request(http.MethodGet, "/v1/assets/1/royalty", "", nil)
	s.requireError(w, http.StatusBadRequest, "BAD_REQUEST")

	w = s.request(http.MethodGet, "/v1/assets/1/royalty?sale_price=0", "", nil)
	s.requireError(w, http.StatusBadRequest, "BAD_REQUEST")
}

func (s *APISuite) TestLicenseLifecycle() {
	s.seedLicensedAsset("carol", 50_000, 100_000)
	s.fund("dave", 60_000)

	w := s.request(http.MethodPost, "/v1/assets/1/license/purchase", "dave", gin.H{
		"duration": 86_400,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var grant models.LicenseGrant
	s.dataField(s.decode(w), "license", &grant)
	s.Equal("dave", grant.Licensee)
	s.Equal(apiStart, grant.StartTime)
	s.Equal(apiStart+86_400, grant.EndTime)
	s.Equal(uint64(50_000), grant.FeePaid)
	s.True(grant.Accepted)

	w = s.request(http.MethodGet, "/v1/assets/1/license/dave", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.dataField(s.decode(w), "license", &grant)
	s.Equal(apiStart+86_400, grant.EndTime)

	var valid bool
	w = s.request(http.MethodGet, "/v1/assets/1/license/dave/valid", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.dataField(s.decode(w), "valid", &valid)
	s.True(valid)

	w = s.request(http.MethodGet, "/v1/assets/1/license/erin", "", nil)
	s.requireError(w, http.StatusNotFound, "NOT_FOUND")

	w = s.request(http.MethodGet, "/v1/assets/1/license/erin/valid", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.dataField(s.decode(w), "valid", &valid)
	s.False(valid)

	w = s.request(http.MethodGet, "/v1/licenses", "dave", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var grants []models.LicenseGrant
	s.Require().NoError(json.Unmarshal(s.decode(w).Data, &grants))
	s.Require().Len(grants, 1)
	s.Equal(uint64(1), grants[0].AssetID)
}

func (s *APISuite) TestLicensingTermsUpdate() {
	s.seedLicensedAsset("carol", 50_000, 100_000)

	w := s.request(http.MethodGet, "/v1/assets/1/licensing-terms", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var terms models.LicensingTerms
	s.dataField(s.decode(w), "licensing_terms", &terms)
	s.Equal(uint64(50_000), terms.LicenseFee)

	w = s.request(http.MethodPut, "/v1/assets/1/licensing-terms", "dave", gin.H{
		"license_fee": 1,
	})
	s.requireError(w, http.StatusForbidden, "UNAUTHORIZED")

	w = s.request(http.MethodPut, "/v1/assets/1/licensing-terms", "carol", gin.H{
		"commercial_use":       true,
		"derivative_works":     true,
		"license_fee":          75_000,
		"max_license_duration": 200_000,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.dataField(s.decode(w), "licensing_terms", &terms)
	s.Equal(uint64(75_000), terms.LicenseFee)
	s.True(terms.DerivativeWorks)
}

func (s *APISuite) TestPauseLifecycle() {
	w := s.request(http.MethodPut, "/v1/admin/registry/pause", "carol", gin.H{
		"paused": true,
	})
	s.requireError(w, http.StatusForbidden, "UNAUTHORIZED")

	w = s.request(http.MethodPut, "/v1/admin/registry/pause", apiAdmin, gin.H{
		"paused": true,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var paused bool
	s.dataField(s.decode(w), "paused", &paused)
	s.True(paused)

	w = s.request(http.MethodPost, "/v1/assets", "carol", gin.H{
		"title": "While Paused",
	})
	s.requireError(w, http.StatusConflict, "REGISTRY_PAUSED")

	w = s.request(http.MethodPut, "/v1/admin/registry/pause", apiAdmin, gin.H{
		"paused": false,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPost, "/v1/assets", "carol", gin.H{
		"title": "After Resume",
	})
	s.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *APISuite) TestAdminEndpoints() {
	s.seedAsset("carol", 500)

	w := s.request(http.MethodGet, "/v1/admin/dashboard/stats", "carol", nil)
	s.requireError(w, http.StatusForbidden, "UNAUTHORIZED")

	w = s.request(http.MethodGet, "/v1/admin/dashboard/stats", apiAdmin, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var stats services.AdminDashboardStats
	s.dataField(s.decode(w), "stats", &stats)
	s.Equal(uint64(1), stats.TotalSupply)
	s.Equal(uint64(2), stats.NextAssetID)

	w = s.request(http.MethodGet, "/v1/admin/transactions", "carol", nil)
	s.requireError(w, http.StatusForbidden, "UNAUTHORIZED")

	w = s.request(http.MethodGet, "/v1/admin/transactions", apiAdmin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
}

func (s *APISuite) TestCreatorEarnings() {
	s.seedAsset("carol", 750)
	s.fund("bob", 1_000_000)
	w := s.request(http.MethodPost, "/v1/assets/1/sale", "carol", gin.H{
		"recipient":  "bob",
		"sale_price": 1_000_000,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	earnings := struct {
		Creator     string `json:"creator"`
		TotalEarned uint64 `json:"total_earned"`
	}{}
	w = s.request(http.MethodGet, "/v1/creators/carol/earnings", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(s.decode(w).Data, &earnings))
	s.Equal("carol", earnings.Creator)
	s.Equal(uint64(75_000), earnings.TotalEarned)
}

func (s *APISuite) TestRegistryStats() {
	s.seedAsset("carol", 0)
	s.seedAsset("dave", 0)

	w := s.request(http.MethodGet, "/v1/stats/registry", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var stats services.RegistryStats
	s.dataField(s.decode(w), "stats", &stats)
	s.Equal(uint64(2), stats.TotalSupply)
	s.Equal(uint64(3), stats.NextAssetID)
	s.False(stats.Paused)
}

func (s *APISuite) TestPaymentHistory() {
	s.seedLicensedAsset("carol", 20_000, 100_000)
	s.fund("dave", 50_000)

	w := s.request(http.MethodPost, "/v1/assets/1/license/purchase", "dave", gin.H{
		"duration": 100,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.request(http.MethodGet, "/v1/payments/history", "dave", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var history []models.Transaction
	s.Require().NoError(json.Unmarshal(s.decode(w).Data, &history))
	s.Require().Len(history, 1)
	s.Equal(models.TransactionTypeLicenseFee, history[0].TransactionType)
	s.Equal(uint64(20_000), history[0].Amount)
}

func (s *APISuite) uploadRequest(account, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/assets/media", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if account != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(account))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) TestMediaUpload() {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

	w := s.uploadRequest("carol", "cover.png", "image/png", png)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var media services.UploadResult
	s.dataField(s.decode(w), "media", &media)
	s.True(len(media.Key) > 0)
	s.Contains(media.Key, "asset-media/")
	s.Equal(utils.HashBytes(png), media.ContentHash)

	w = s.uploadRequest("carol", "tool.exe", "application/octet-stream", []byte("MZ"))
	s.requireError(w, http.StatusBadRequest, "BAD_REQUEST")

	w = s.uploadRequest("", "cover.png", "image/png", png)
	s.Equal(http.StatusUnauthorized, w.Code)
}

// internal/services/testutil_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/artledger/registry-backend/internal/clock"
	"github.com/artledger/registry-backend/internal/config"
	"github.com/artledger/registry-backend/internal/models"
	"github.com/artledger/registry-backend/internal/utils"
)

const (
	testAdmin = "admin"
	testStart = int64(1_700_000_000)
)

// openTestDB returns a fresh in-memory database with the full schema and the
// seeded counters row.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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

	require.NoError(t, db.Create(&models.RegistryCounters{
		ID:           models.CountersID,
		NextAssetID:  1,
		TotalSupply:  0,
		Paused:       false,
		AdminAccount: testAdmin,
	}).Error)

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Registry: config.RegistryConfig{
			AdminAccount:  testAdmin,
			MediaBaseURL:  "https://media.example.com",
			StatsCacheTTL: 10,
		},
	}
}

// testEnv bundles the service stack over one test database. Metrics and
// cache are nil; both degrade to no-ops.
type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	clock    *clock.Manual
	ledger   *LedgerService
	registry *RegistryService
	transfer *TransferService
	license  *LicenseService
	admin    *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := openTestDB(t)
	clk := clock.NewManual(testStart)
	ledger := NewLedgerService(db)

	return &testEnv{
		t:        t,
		db:       db,
		clock:    clk,
		ledger:   ledger,
		registry: NewRegistryService(db, clk, nil, nil, testConfig()),
		transfer: NewTransferService(db, ledger, nil),
		license:  NewLicenseService(db, ledger, clk, nil),
		admin:    NewAdminService(db, nil, nil),
	}
}

func (e *testEnv) fund(account string, amount uint64) {
	e.t.Helper()
	require.NoError(e.t, e.ledger.Credit(e.db, account, amount))
}

func (e *testEnv) balance(account string) uint64 {
	e.t.Helper()
	bal, err := e.ledger.Balance(account)
	require.NoError(e.t, err)
	return bal
}

func (e *testEnv) mint(creator string, royaltyBps uint32) *models.Asset {
	e.t.Helper()
	asset, err := e.registry.Mint(creator, &MintRequest{
		Title:      "Test Asset",
		RoyaltyBps: royaltyBps,
	})
	require.NoError(e.t, err)
	return asset
}

func (e *testEnv) mintWithTerms(creator string, royaltyBps uint32, terms MintTermsRequest) *models.Asset {
	e.t.Helper()
	asset, err := e.registry.Mint(creator, &MintRequest{
		Title:          "Licensed Asset",
		RoyaltyBps:     royaltyBps,
		LicensingTerms: terms,
	})
	require.NoError(e.t, err)
	return asset
}

func (e *testEnv) owner(assetID uint64) string {
	e.t.Helper()
	owner, err := e.transfer.OwnerOf(assetID)
	require.NoError(e.t, err)
	return owner
}

func (e *testEnv) earnings(creator string) uint64 {
	e.t.Helper()
	earned, err := e.registry.EarningsOf(creator)
	require.NoError(e.t, err)
	return earned
}

func (e *testEnv) counters() *models.RegistryCounters {
	e.t.Helper()
	counters, err := loadCounters(e.db)
	require.NoError(e.t, err)
	return counters
}

func (e *testEnv) setPaused(paused bool) {
	e.t.Helper()
	_, err := e.admin.SetPaused(testAdmin, &SetPausedRequest{Paused: &paused})
	require.NoError(e.t, err)
}

func (e *testEnv) transactionCount() int64 {
	e.t.Helper()
	var count int64
	require.NoError(e.t, e.db.Model(&models.Transaction{}).Count(&count).Error)
	return count
}

// testPage mirrors the defaults GetPaginationParams applies to requests.
func testPage() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

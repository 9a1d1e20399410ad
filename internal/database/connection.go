// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/artledger/registry-backend/internal/config"
	"github.com/artledger/registry-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Asset{},
		&models.OwnershipRecord{},
		&models.LicensingTerms{},
		&models.LicenseGrant{},
		&models.CreatorEarnings{},
		&models.RegistryCounters{},
		&models.Account{},
		&models.Transaction{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Asset indexes
		"CREATE INDEX IF NOT EXISTS idx_assets_creator ON assets(creator)",
		"CREATE INDEX IF NOT EXISTS idx_assets_category ON assets(category)",
		"CREATE INDEX IF NOT EXISTS idx_assets_created_at ON assets(created_at DESC)",

		// Ownership indexes
		"CREATE INDEX IF NOT EXISTS idx_ownership_records_owner ON ownership_records(owner)",

		// License grant indexes
		"CREATE INDEX IF NOT EXISTS idx_license_grants_licensee ON license_grants(licensee)",
		"CREATE INDEX IF NOT EXISTS idx_license_grants_end_time ON license_grants(end_time)",

		// Transaction indexes
		"CREATE INDEX IF NOT EXISTS idx_transactions_from_account ON transactions(from_account)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_to_account ON transactions(to_account)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_type_status ON transactions(transaction_type, status)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_reference ON transactions(reference)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_account_action ON audit_logs(account, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the singleton counters row binding the admin
// account. The id allocator starts at 1 and the registry starts unpaused.
func SeedInitialData(db *gorm.DB, adminAccount string) error {
	log.Println("Seeding initial data...")

	var counters models.RegistryCounters
	err := db.First(&counters, "id = ?", models.CountersID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counters = models.RegistryCounters{
			ID:           models.CountersID,
			NextAssetID:  1,
			TotalSupply:  0,
			Paused:       false,
			AdminAccount: adminAccount,
		}
		if err := db.Create(&counters).Error; err != nil {
			return fmt.Errorf("failed to create registry counters: %w", err)
		}
		log.Println("Registry counters initialized")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load registry counters: %w", err)
	}

	// Re-bind the admin account if the configuration changed.
	if counters.AdminAccount != adminAccount {
		if err := db.Model(&models.RegistryCounters{}).
			Where("id = ?", models.CountersID).
			Update("admin_account", adminAccount).Error; err != nil {
			return fmt.Errorf("failed to update admin account binding: %w", err)
		}
		log.Printf("Registry admin account re-bound to %s", adminAccount)
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/artledger/registry-backend/internal/apperrors"
	"github.com/artledger/registry-backend/internal/cache"
	"github.com/artledger/registry-backend/internal/metrics"
	"github.com/artledger/registry-backend/internal/models"
	"github.com/artledger/registry-backend/internal/utils"
)

type AdminService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	cache   *cache.Cache
}

type SetPausedRequest struct {
	Paused *bool `json:"paused" validate:"required"`
}

type AdminDashboardStats struct {
	TotalSupply      uint64 `json:"total_supply"`
	NextAssetID      uint64 `json:"next_asset_id"`
	Paused           bool   `json:"paused"`
	TotalHolders     int64  `json:"total_holders"`
	TotalAccounts    int64  `json:"total_accounts"`
	LicensesSold     int64  `json:"licenses_sold"`
	SaleVolume       int64  `json:"sale_volume"`
	RoyaltyVolume    int64  `json:"royalty_volume"`
	LicenseFeeVolume int64  `json:"license_fee_volume"`
	DepositVolume    int64  `json:"deposit_volume"`
	MintsThisMonth   int64  `json:"mints_this_month"`
	SalesThisMonth   int64  `json:"sales_this_month"`
}

type AuditLogFilter struct {
	utils.PaginationParams
	Account      string `json:"account,omitempty"`
	Action       string `json:"action,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

type AdminTransactionFilter struct {
	utils.PaginationParams
	TransactionType string `json:"transaction_type,omitempty"`
	Account         string `json:"account,omitempty"`
}

func NewAdminService(db *gorm.DB, m *metrics.Metrics, c *cache.Cache) *AdminService {
	return &AdminService{
		db:      db,
		metrics: m,
		cache:   c,
	}
}

// SetPaused flips the registry-wide pause flag. Only the admin account
// may call it, and it stays callable while paused so the registry can be
// resumed.
func (s *AdminService) SetPaused(caller string, req *SetPausedRequest) (*models.RegistryCounters, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "invalid pause request", err)
	}
	paused := *req.Paused

	var counters *models.RegistryCounters
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		counters, err = loadCounters(tx)
		if err != nil {
			return err
		}

		if counters.AdminAccount != caller {
			return apperrors.ErrUnauthorized
		}

		if err := tx.Model(&models.RegistryCounters{}).
			Where("id = ?", models.CountersID).
			Update("paused", paused).Error; err != nil {
			return fmt.Errorf("failed to update pause flag: %w", err)
		}

		counters.Paused = paused
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SetPaused(paused)
	s.cache.Delete(context.Background(), statsCacheKey)
	return counters, nil
}

// IsAdmin reports whether account is the configured admin.
func (s *AdminService) IsAdmin(account string) (bool, error) {
	counters, err := loadCounters(s.db)
	if err != nil {
		return false, err
	}
	return counters.AdminAccount == account, nil
}

func (s *AdminService) ensureAdmin(caller string) error {
	ok, err := s.IsAdmin(caller)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// DashboardStats aggregates registry-wide counts and volumes for the
// admin dashboard.
func (s *AdminService) DashboardStats(caller string) (*AdminDashboardStats, error) {
	if err := s.ensureAdmin(caller); err != nil {
		return nil, err
	}

	counters, err := loadCounters(s.db)
	if err != nil {
		return nil, err
	}

	stats := &AdminDashboardStats{
		TotalSupply: counters.TotalSupply,
		NextAssetID: counters.NextAssetID,
		Paused:      counters.Paused,
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.db.Model(&models.OwnershipRecord{}).Distinct("owner").Count(&stats.TotalHolders)
	s.db.Model(&models.Account{}).Count(&stats.TotalAccounts)
	s.db.Model(&models.LicenseGrant{}).Count(&stats.LicensesSold)

	s.db.Model(&models.Transaction{}).
		Where("transaction_type = ? AND status = ?",
			models.TransactionTypeAssetSale, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.SaleVolume)

	s.db.Model(&models.Transaction{}).
		Where("transaction_type = ? AND status = ?",
			models.TransactionTypeAssetSale, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(royalty_paid), 0)").Scan(&stats.RoyaltyVolume)

	s.db.Model(&models.Transaction{}).
		Where("transaction_type = ? AND status = ?",
			models.TransactionTypeLicenseFee, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.LicenseFeeVolume)

	s.db.Model(&models.Transaction{}).
		Where("transaction_type = ? AND status = ?",
			models.TransactionTypeDeposit, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.DepositVolume)

	s.db.Model(&models.Asset{}).
		Where("created_at >= ?", monthStart).
		Count(&stats.MintsThisMonth)

	s.db.Model(&models.Transaction{}).
		Where("transaction_type = ? AND created_at >= ?",
			models.TransactionTypeAssetSale, monthStart).
		Count(&stats.SalesThisMonth)

	return stats, nil
}

// ListAuditLogs pages through the request audit trail, admin only.
func (s *AdminService) ListAuditLogs(caller string, filter AuditLogFilter) ([]models.AuditLog, int64, error) {
	if err := s.ensureAdmin(caller); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.AuditLog{})

	if filter.Account != "" {
		query = query.Where("account = ?", filter.Account)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("LOWER(action) LIKE LOWER(?) OR LOWER(resource_id) LIKE LOWER(?)", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action", "status_code"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

// ListTransactions pages through every value movement, admin only.
func (s *AdminService) ListTransactions(caller string, filter AdminTransactionFilter) ([]models.Transaction, int64, error) {
	if err := s.ensureAdmin(caller); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Transaction{})

	if filter.TransactionType != "" {
		query = query.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Account != "" {
		query = query.Where("from_account = ? OR to_account = ?", filter.Account, filter.Account)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status", "processed_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

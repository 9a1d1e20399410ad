// internal/services/license_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artledger/registry-backend/internal/apperrors"
	"github.com/artledger/registry-backend/internal/clock"
	"github.com/artledger/registry-backend/internal/metrics"
	"github.com/artledger/registry-backend/internal/models"
	"github.com/artledger/registry-backend/internal/utils"
)

type LicenseService struct {
	db      *gorm.DB
	ledger  ValueTransfer
	clock   clock.Clock
	metrics *metrics.Metrics
}

type PurchaseLicenseRequest struct {
	Duration uint64 `json:"duration" validate:"required,gt=0,lte=3153600000"`
}

type UpdateTermsRequest struct {
	CommercialUse      bool   `json:"commercial_use"`
	DerivativeWorks    bool   `json:"derivative_works"`
	LicenseFee         uint64 `json:"license_fee" validate:"lte=1000000000000000"`
	MaxLicenseDuration uint64 `json:"max_license_duration" validate:"lte=3153600000"`
}

func NewLicenseService(db *gorm.DB, ledger ValueTransfer, clk clock.Clock, m *metrics.Metrics) *LicenseService {
	return &LicenseService{
		db:      db,
		ledger:  ledger,
		clock:   clk,
		metrics: m,
	}
}

// PurchaseLicense buys a usage license on an asset for the caller. The fee
// payment, the grant row, the creator earnings credit and the fee record
// commit or roll back together. Purchasing again replaces the previous
// grant window rather than extending it.
func (s *LicenseService) PurchaseLicense(caller string, assetID uint64, req *PurchaseLicenseRequest) (*models.LicenseGrant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "invalid license purchase request", err)
	}

	var grant *models.LicenseGrant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireActive(tx); err != nil {
			return err
		}

		var terms models.LicensingTerms
		if err := tx.First(&terms, "asset_id = ?", assetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTokenNotFound
			}
			return fmt.Errorf("failed to load licensing terms: %w", err)
		}

		// Durations beyond the creator's cap surface the same bound
		// violation the royalty cap uses.
		if req.Duration > terms.MaxLicenseDuration {
			return apperrors.ErrInvalidRoyalty
		}

		var asset models.Asset
		if err := tx.First(&asset, "id = ?", assetID).Error; err != nil {
			return fmt.Errorf("failed to load asset: %w", err)
		}

		if terms.LicenseFee > 0 {
			if err := s.ledger.Move(tx, caller, asset.Creator, terms.LicenseFee); err != nil {
				return err
			}
		}

		now := s.clock.Now()
		grant = &models.LicenseGrant{
			AssetID:   assetID,
			Licensee:  caller,
			StartTime: now,
			EndTime:   now + int64(req.Duration),
			FeePaid:   terms.LicenseFee,
			Accepted:  true,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "asset_id"}, {Name: "licensee"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"start_time": grant.StartTime,
				"end_time":   grant.EndTime,
				"fee_paid":   grant.FeePaid,
				"accepted":   true,
				"updated_at": time.Now(),
			}),
		}).Create(grant).Error
		if err != nil {
			return fmt.Errorf("failed to store license grant: %w", err)
		}

		if err := creditEarnings(tx, asset.Creator, terms.LicenseFee); err != nil {
			return err
		}

		processed := time.Now()
		record := &models.Transaction{
			TransactionType: models.TransactionTypeLicenseFee,
			AssetID:         &asset.ID,
			FromAccount:     caller,
			ToAccount:       asset.Creator,
			Amount:          terms.LicenseFee,
			Creator:         asset.Creator,
			Status:          models.TransactionStatusCompleted,
			ProcessedAt:     &processed,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to record license fee: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementLicense(grant.FeePaid)
	return grant, nil
}

// HasValidLicense reports whether licensee holds an accepted grant whose
// window contains the current tick. Both window ends are inclusive, so a
// grant is still valid at exactly its end time.
func (s *LicenseService) HasValidLicense(assetID uint64, licensee string) (bool, error) {
	grant, err := s.GetLicenseGrant(assetID, licensee)
	if err != nil {
		return false, err
	}
	if grant == nil {
		return false, nil
	}

	now := s.clock.Now()
	return grant.Accepted && grant.StartTime <= now && now <= grant.EndTime, nil
}

// GetLicenseGrant returns the grant held by licensee, or nil when none
// exists. Expired grants are returned as-is; validity is a separate check.
func (s *LicenseService) GetLicenseGrant(assetID uint64, licensee string) (*models.LicenseGrant, error) {
	var grant models.LicenseGrant
	err := s.db.First(&grant, "asset_id = ? AND licensee = ?", assetID, licensee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load license grant: %w", err)
	}
	return &grant, nil
}

// GetLicensingTerms returns the asset's current terms, or nil when the
// asset does not exist.
func (s *LicenseService) GetLicensingTerms(assetID uint64) (*models.LicensingTerms, error) {
	var terms models.LicensingTerms
	if err := s.db.First(&terms, "asset_id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load licensing terms: %w", err)
	}
	return &terms, nil
}

// UpdateLicensingTerms replaces the asset's terms wholesale. Only the
// creator may update, and previously purchased grants keep the windows
// they were sold with.
func (s *LicenseService) UpdateLicensingTerms(caller string, assetID uint64, req *UpdateTermsRequest) (*models.LicensingTerms, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "invalid terms update request", err)
	}

	var terms *models.LicensingTerms
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireActive(tx); err != nil {
			return err
		}

		var asset models.Asset
		if err := tx.First(&asset, "id = ?", assetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTokenNotFound
			}
			return fmt.Errorf("failed to load asset: %w", err)
		}

		if asset.Creator != caller {
			return apperrors.ErrUnauthorized
		}

		updates := map[string]interface{}{
			"commercial_use":       req.CommercialUse,
			"derivative_works":     req.DerivativeWorks,
			"license_fee":          req.LicenseFee,
			"max_license_duration": req.MaxLicenseDuration,
		}
		if err := tx.Model(&models.LicensingTerms{}).
			Where("asset_id = ?", assetID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update licensing terms: %w", err)
		}

		terms = &models.LicensingTerms{
			AssetID:            assetID,
			CommercialUse:      req.CommercialUse,
			DerivativeWorks:    req.DerivativeWorks,
			LicenseFee:         req.LicenseFee,
			MaxLicenseDuration: req.MaxLicenseDuration,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return terms, nil
}

// ListLicenses returns every grant held by licensee, most recent first.
func (s *LicenseService) ListLicenses(licensee string, params utils.PaginationParams) ([]models.LicenseGrant, int64, error) {
	query := s.db.Model(&models.LicenseGrant{}).Where("licensee = ?", licensee)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count license grants: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "end_time", "asset_id"})
	query = utils.ApplyPagination(query, params)

	var grants []models.LicenseGrant
	if err := query.Find(&grants).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch license grants: %w", err)
	}

	return grants, total, nil
}

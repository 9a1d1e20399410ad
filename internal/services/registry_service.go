// internal/services/registry_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artledger/registry-backend/internal/apperrors"
	"github.com/artledger/registry-backend/internal/cache"
	"github.com/artledger/registry-backend/internal/clock"
	"github.com/artledger/registry-backend/internal/config"
	"github.com/artledger/registry-backend/internal/metrics"
	"github.com/artledger/registry-backend/internal/models"
	"github.com/artledger/registry-backend/internal/utils"
)

const (
	// MaxRoyaltyBps caps creator royalties at 10% of the sale price.
	MaxRoyaltyBps = 1000

	// RoyaltyDenominator converts basis points to a fraction.
	RoyaltyDenominator = 10000

	// MaxBatchMint bounds the number of assets in one batch mint.
	MaxBatchMint = 10

	statsCacheKey = "registry:stats"
)

type RegistryService struct {
	db           *gorm.DB
	clock        clock.Clock
	metrics      *metrics.Metrics
	cache        *cache.Cache
	mediaBaseURL string
	statsTTL     time.Duration
}

type MintTermsRequest struct {
	CommercialUse      bool   `json:"commercial_use"`
	DerivativeWorks    bool   `json:"derivative_works"`
	LicenseFee         uint64 `json:"license_fee" validate:"lte=1000000000000000"`
	MaxLicenseDuration uint64 `json:"max_license_duration" validate:"lte=3153600000"`
}

type MintRequest struct {
	Title          string           `json:"title" validate:"required,min=1,max=255"`
	Description    string           `json:"description" validate:"max=4000"`
	MediaURL       string           `json:"media_url" validate:"max=512"`
	Category       string           `json:"category" validate:"max=100"`
	RoyaltyBps     uint32           `json:"royalty_bps"`
	LicensingTerms MintTermsRequest `json:"licensing_terms"`
}

type BatchMintRequest struct {
	Assets []MintRequest `json:"assets" validate:"required,min=1,max=10,dive"`
}

type RegistryStats struct {
	TotalSupply uint64 `json:"total_supply"`
	NextAssetID uint64 `json:"next_asset_id"`
	Paused      bool   `json:"paused"`
}

type AssetSearchParams struct {
	utils.PaginationParams
	Creator  string `json:"creator,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Category string `json:"category,omitempty"`
}

func NewRegistryService(db *gorm.DB, clk clock.Clock, m *metrics.Metrics, c *cache.Cache, cfg *config.Config) *RegistryService {
	return &RegistryService{
		db:           db,
		clock:        clk,
		metrics:      m,
		cache:        c,
		mediaBaseURL: cfg.Registry.MediaBaseURL,
		statsTTL:     time.Duration(cfg.Registry.StatsCacheTTL) * time.Second,
	}
}

// Shared helpers used by all registry mutations.

func loadCounters(tx *gorm.DB) (*models.RegistryCounters, error) {
	var counters models.RegistryCounters
	if err := tx.First(&counters, "id = ?", models.CountersID).Error; err != nil {
		return nil, fmt.Errorf("failed to load registry counters: %w", err)
	}
	return &counters, nil
}

// requireActive rejects mutating operations while the registry is paused.
// Read queries never call this.
func requireActive(tx *gorm.DB) error {
	counters, err := loadCounters(tx)
	if err != nil {
		return err
	}
	if counters.Paused {
		return apperrors.ErrRegistryPaused
	}
	return nil
}

// allocateAssetID increments the id allocator and supply count, then reads
// back the assigned id. The counter update serializes concurrent mints on
// the singleton row.
func allocateAssetID(tx *gorm.DB) (uint64, error) {
	res := tx.Model(&models.RegistryCounters{}).
		Where("id = ?", models.CountersID).
		UpdateColumns(map[string]interface{}{
			"next_asset_id": gorm.Expr("next_asset_id + 1"),
			"total_supply":  gorm.Expr("total_supply + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to advance asset counter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, errors.New("registry counters row is missing")
	}

	counters, err := loadCounters(tx)
	if err != nil {
		return 0, err
	}
	return counters.NextAssetID - 1, nil
}

// ensureEarningsRow creates the creator's earnings row at zero if absent.
func ensureEarningsRow(tx *gorm.DB, creator string) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "creator"}},
		DoNothing: true,
	}).Create(&models.CreatorEarnings{Creator: creator, TotalEarned: 0}).Error
	if err != nil {
		return fmt.Errorf("failed to ensure earnings row: %w", err)
	}
	return nil
}

// creditEarnings adds amount to the creator's lifetime earnings.
func creditEarnings(tx *gorm.DB, creator string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "creator"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_earned": gorm.Expr("creator_earnings.total_earned + ?", amount),
			"updated_at":   time.Now(),
		}),
	}).Create(&models.CreatorEarnings{Creator: creator, TotalEarned: amount}).Error
	if err != nil {
		return fmt.Errorf("failed to credit earnings: %w", err)
	}
	return nil
}

// Mint registers a new asset. The asset row, ownership record, licensing
// terms, earnings row and counter update commit or roll back together.
func (s *RegistryService) Mint(caller string, req *MintRequest) (*models.Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "mint request is invalid", err)
	}

	var asset *models.Asset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireActive(tx); err != nil {
			return err
		}
		var err error
		asset, err = s.mintInTx(tx, caller, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementMinted(1)
	s.invalidateStats()
	return asset, nil
}

// BatchMint registers up to MaxBatchMint assets atomically. The first
// failure rolls back every asset in the batch; on success the returned
// slice matches the request order.
func (s *RegistryService) BatchMint(caller string, req *BatchMintRequest) ([]*models.Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "batch mint request is invalid", err)
	}

	assets := make([]*models.Asset, 0, len(req.Assets))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireActive(tx); err != nil {
			return err
		}
		for i := range req.Assets {
			asset, err := s.mintInTx(tx, caller, &req.Assets[i])
			if err != nil {
				return err
			}
			assets = append(assets, asset)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementMinted(len(assets))
	s.invalidateStats()
	return assets, nil
}

func (s *RegistryService) mintInTx(tx *gorm.DB, caller string, req *MintRequest) (*models.Asset, error) {
	if req.RoyaltyBps > MaxRoyaltyBps {
		return nil, apperrors.ErrInvalidRoyalty
	}

	id, err := allocateAssetID(tx)
	if err != nil {
		return nil, err
	}

	asset := &models.Asset{
		ID:            id,
		Creator:       caller,
		Title:         req.Title,
		Description:   req.Description,
		MediaURL:      req.MediaURL,
		Category:      req.Category,
		RoyaltyBps:    req.RoyaltyBps,
		MintTimestamp: s.clock.Now(),
	}
	if err := tx.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	ownership := &models.OwnershipRecord{AssetID: id, Owner: caller}
	if err := tx.Create(ownership).Error; err != nil {
		return nil, fmt.Errorf("failed to create ownership record: %w", err)
	}

	terms := &models.LicensingTerms{
		AssetID:            id,
		CommercialUse:      req.LicensingTerms.CommercialUse,
		DerivativeWorks:    req.LicensingTerms.DerivativeWorks,
		LicenseFee:         req.LicensingTerms.LicenseFee,
		MaxLicenseDuration: req.LicensingTerms.MaxLicenseDuration,
	}
	if err := tx.Create(terms).Error; err != nil {
		return nil, fmt.Errorf("failed to create licensing terms: %w", err)
	}

	if err := ensureEarningsRow(tx, caller); err != nil {
		return nil, err
	}

	return asset, nil
}

// AssetMetadata returns the asset or nil when it does not exist.
func (s *RegistryService) AssetMetadata(id uint64) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}
	return &asset, nil
}

// AssetRecord is the found-flag form of AssetMetadata.
func (s *RegistryService) AssetRecord(id uint64) (*models.Asset, bool, error) {
	asset, err := s.AssetMetadata(id)
	if err != nil {
		return nil, false, err
	}
	return asset, asset != nil, nil
}

// MediaURI derives the asset's media URI. Relative stored values are
// resolved against the configured media base URL.
func (s *RegistryService) MediaURI(id uint64) (string, bool, error) {
	asset, err := s.AssetMetadata(id)
	if err != nil {
		return "", false, err
	}
	if asset == nil {
		return "", false, nil
	}

	uri := asset.MediaURL
	if uri != "" && !strings.Contains(uri, "://") && s.mediaBaseURL != "" {
		uri = strings.TrimSuffix(s.mediaBaseURL, "/") + "/" + strings.TrimPrefix(uri, "/")
	}
	return uri, true, nil
}

// EarningsOf returns the creator's lifetime earnings; unknown creators have
// earned zero.
func (s *RegistryService) EarningsOf(creator string) (uint64, error) {
	var earnings models.CreatorEarnings
	if err := s.db.First(&earnings, "creator = ?", creator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load earnings: %w", err)
	}
	return earnings.TotalEarned, nil
}

// Stats reports supply, the next id and the pause flag. Served from cache
// when Redis is configured; mutations invalidate the entry.
func (s *RegistryService) Stats(ctx context.Context) (*RegistryStats, error) {
	var stats RegistryStats
	if found, err := s.cache.GetJSON(ctx, statsCacheKey, &stats); err == nil && found {
		return &stats, nil
	}

	counters, err := loadCounters(s.db)
	if err != nil {
		return nil, err
	}

	stats = RegistryStats{
		TotalSupply: counters.TotalSupply,
		NextAssetID: counters.NextAssetID,
		Paused:      counters.Paused,
	}
	s.cache.SetJSON(ctx, statsCacheKey, stats, s.statsTTL)
	return &stats, nil
}

func (s *RegistryService) invalidateStats() {
	s.cache.Delete(context.Background(), statsCacheKey)
}

// SearchAssets lists assets with optional creator, owner and category
// filters.
func (s *RegistryService) SearchAssets(params AssetSearchParams) ([]models.Asset, int64, error) {
	query := s.db.Model(&models.Asset{})

	if params.Creator != "" {
		query = query.Where("assets.creator = ?", params.Creator)
	}

	if params.Owner != "" {
		query = query.Joins("JOIN ownership_records ON ownership_records.asset_id = assets.id").
			Where("ownership_records.owner = ?", params.Owner)
	}

	if params.Category != "" {
		query = query.Where("assets.category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(assets.title) LIKE ? OR LOWER(assets.description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	allowedSortFields := []string{"id", "created_at", "title", "category", "mint_timestamp"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var assets []models.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}

	return assets, total, nil
}

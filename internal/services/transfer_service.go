// internal/services/transfer_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/artledger/registry-backend/internal/apperrors"
	"github.com/artledger/registry-backend/internal/metrics"
	"github.com/artledger/registry-backend/internal/models"
	"github.com/artledger/registry-backend/internal/utils"
)

const (
	// MaxBulkTransfer bounds the number of entries in one bulk transfer.
	MaxBulkTransfer = 20

	// MaxSalePrice keeps royalty math clear of uint64 overflow. Request
	// validation enforces the same bound.
	MaxSalePrice = 1_000_000_000_000_000
)

type TransferService struct {
	db      *gorm.DB
	ledger  ValueTransfer
	metrics *metrics.Metrics
}

type TransferRequest struct {
	Recipient string `json:"recipient" validate:"required,account_id"`
}

type SaleRequest struct {
	Recipient string `json:"recipient" validate:"required,account_id"`
	SalePrice uint64 `json:"sale_price" validate:"required,gt=0,lte=1000000000000000"`
}

type BulkTransferEntry struct {
	AssetID   uint64 `json:"asset_id" validate:"required"`
	Recipient string `json:"recipient" validate:"required,account_id"`
	SalePrice uint64 `json:"sale_price" validate:"lte=1000000000000000"`
}

type BulkTransferRequest struct {
	Transfers []BulkTransferEntry `json:"transfers" validate:"required,min=1,max=20,dive"`
}

// BulkTransferResult reports the outcome of one bulk entry. Sale entries
// carry the persisted sale record; direct entries do not move value.
type BulkTransferResult struct {
	AssetID     uint64              `json:"asset_id"`
	Recipient   string              `json:"recipient"`
	Kind        string              `json:"kind"` // "direct" or "sale"
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// RoyaltyBreakdown is the read-only royalty computation for a prospective
// sale.
type RoyaltyBreakdown struct {
	AssetID       uint64 `json:"asset_id"`
	SalePrice     uint64 `json:"sale_price"`
	RoyaltyBps    uint32 `json:"royalty_bps"`
	RoyaltyAmount uint64 `json:"royalty_amount"`
	SellerAmount  uint64 `json:"seller_amount"`
	Creator       string `json:"creator"`
}

func NewTransferService(db *gorm.DB, ledger ValueTransfer, m *metrics.Metrics) *TransferService {
	return &TransferService{
		db:      db,
		ledger:  ledger,
		metrics: m,
	}
}

// royaltyFor computes floor(salePrice * bps / 10000). Bounds enforced at
// mint keep the product well inside uint64 range.
func royaltyFor(salePrice uint64, royaltyBps uint32) uint64 {
	return salePrice * uint64(royaltyBps) / RoyaltyDenominator
}

// TransferDirect reassigns ownership without moving value.
func (s *TransferService) TransferDirect(caller string, assetID uint64, recipient string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireActive(tx); err != nil {
			return err
		}
		return s.transferDirectInTx(tx, caller, assetID, recipient)
	})
	if err != nil {
		return err
	}

	s.metrics.IncrementTransfer("direct")
	return nil
}

// TransferWithRoyalty performs a sale: the royalty portion moves from the
// seller to the creator, the remainder moves from the buyer to the seller,
// and ownership reassigns. Everything commits or rolls back together.
func (s *TransferService) TransferWithRoyalty(caller string, assetID uint64, recipient string, salePrice uint64) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireActive(tx); err != nil {
			return err
		}
		var err error
		txn, err = s.transferWithRoyaltyInTx(tx, caller, assetID, recipient, salePrice)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementTransfer("sale")
	s.metrics.ObserveRoyalty(txn.RoyaltyPaid)
	return txn, nil
}

// BulkTransfer applies up to MaxBulkTransfer entries atomically. Entries
// with a positive sale price run as royalty sales, the rest as direct
// transfers. The first failure rolls back every entry.
func (s *TransferService) BulkTransfer(caller string, req *BulkTransferRequest) ([]BulkTransferResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "bulk transfer request is invalid", err)
	}

	results := make([]BulkTransferResult, 0, len(req.Transfers))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireActive(tx); err != nil {
			return err
		}
		for _, entry := range req.Transfers {
			if entry.SalePrice > 0 {
				txn, err := s.transferWithRoyaltyInTx(tx, caller, entry.AssetID, entry.Recipient, entry.SalePrice)
				if err != nil {
					return err
				}
				results = append(results, BulkTransferResult{
					AssetID:     entry.AssetID,
					Recipient:   entry.Recipient,
					Kind:        "sale",
					Transaction: txn,
				})
				continue
			}

			if err := s.transferDirectInTx(tx, caller, entry.AssetID, entry.Recipient); err != nil {
				return err
			}
			results = append(results, BulkTransferResult{
				AssetID:   entry.AssetID,
				Recipient: entry.Recipient,
				Kind:      "direct",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		s.metrics.IncrementTransfer(r.Kind)
		if r.Transaction != nil {
			s.metrics.ObserveRoyalty(r.Transaction.RoyaltyPaid)
		}
	}
	return results, nil
}

// CalculateRoyalty is the read-only sale breakdown for an existing asset.
func (s *TransferService) CalculateRoyalty(assetID uint64, salePrice uint64) (*RoyaltyBreakdown, error) {
	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}

	royalty := royaltyFor(salePrice, asset.RoyaltyBps)
	return &RoyaltyBreakdown{
		AssetID:       assetID,
		SalePrice:     salePrice,
		RoyaltyBps:    asset.RoyaltyBps,
		RoyaltyAmount: royalty,
		SellerAmount:  salePrice - royalty,
		Creator:       asset.Creator,
	}, nil
}

// OwnerOf returns the current owner, failing when the asset does not
// exist. OwnerRecord is the non-failing form.
func (s *TransferService) OwnerOf(assetID uint64) (string, error) {
	owner, found, err := s.OwnerRecord(assetID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", apperrors.ErrTokenNotFound
	}
	return owner, nil
}

// OwnerRecord is the found-flag form of OwnerOf.
func (s *TransferService) OwnerRecord(assetID uint64) (string, bool, error) {
	var ownership models.OwnershipRecord
	if err := s.db.First(&ownership, "asset_id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load ownership record: %w", err)
	}
	return ownership.Owner, true, nil
}

// checkTransferPreconditions loads the ownership row and enforces the
// shared transfer rules: the asset exists, the caller owns it, and the
// recipient is someone else.
func (s *TransferService) checkTransferPreconditions(tx *gorm.DB, caller string, assetID uint64, recipient string) error {
	var ownership models.OwnershipRecord
	if err := tx.First(&ownership, "asset_id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTokenNotFound
		}
		return fmt.Errorf("failed to load ownership record: %w", err)
	}

	if ownership.Owner != caller {
		return apperrors.ErrNotOwner
	}

	if recipient == caller {
		return apperrors.ErrInvalidRecipient
	}

	return nil
}

// reassignOwner performs the guarded ownership update. The owner guard makes
// concurrent transfers of the same asset lose cleanly.
func (s *TransferService) reassignOwner(tx *gorm.DB, caller string, assetID uint64, recipient string) error {
	res := tx.Model(&models.OwnershipRecord{}).
		Where("asset_id = ? AND owner = ?", assetID, caller).
		Update("owner", recipient)
	if res.Error != nil {
		return fmt.Errorf("failed to reassign owner: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotOwner
	}
	return nil
}

func (s *TransferService) transferDirectInTx(tx *gorm.DB, caller string, assetID uint64, recipient string) error {
	if err := s.checkTransferPreconditions(tx, caller, assetID, recipient); err != nil {
		return err
	}
	return s.reassignOwner(tx, caller, assetID, recipient)
}

func (s *TransferService) transferWithRoyaltyInTx(tx *gorm.DB, caller string, assetID uint64, recipient string, salePrice uint64) (*models.Transaction, error) {
	if err := s.checkTransferPreconditions(tx, caller, assetID, recipient); err != nil {
		return nil, err
	}

	var asset models.Asset
	if err := tx.First(&asset, "id = ?", assetID).Error; err != nil {
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}

	royalty := royaltyFor(salePrice, asset.RoyaltyBps)
	if salePrice < royalty {
		return nil, apperrors.ErrInsufficientPayment
	}
	sellerAmount := salePrice - royalty

	// The royalty leg is skipped when the seller is the creator; the
	// earnings credit below still happens and the sale record still
	// reports the computed royalty.
	if asset.Creator != caller {
		if err := s.ledger.Move(tx, caller, asset.Creator, royalty); err != nil {
			return nil, err
		}
	}

	// The buyer funds the seller with the remainder.
	if err := s.ledger.Move(tx, recipient, caller, sellerAmount); err != nil {
		return nil, err
	}

	if err := s.reassignOwner(tx, caller, assetID, recipient); err != nil {
		return nil, err
	}

	if err := creditEarnings(tx, asset.Creator, royalty); err != nil {
		return nil, err
	}

	now := time.Now()
	txn := &models.Transaction{
		TransactionType: models.TransactionTypeAssetSale,
		AssetID:         &asset.ID,
		FromAccount:     caller,
		ToAccount:       recipient,
		Amount:          salePrice,
		RoyaltyPaid:     royalty,
		Creator:         asset.Creator,
		Status:          models.TransactionStatusCompleted,
		ProcessedAt:     &now,
	}
	if err := tx.Create(txn).Error; err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	return txn, nil
}

// internal/services/ledger_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artledger/registry-backend/internal/apperrors"
	"github.com/artledger/registry-backend/internal/models"
)

// ValueTransfer moves credits between accounts inside the caller's database
// transaction, so a failed registry operation rolls the money back with it.
type ValueTransfer interface {
	Move(tx *gorm.DB, from, to string, amount uint64) error
}

// LedgerService implements the credit ledger backing all value movement.
// Accounts are created lazily on first credit; debits never overdraw.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// Move debits from and credits to atomically within tx. A zero amount or a
// self-move is a no-op. Fails with the insufficient-funds kind when the
// source balance does not cover the amount.
func (s *LedgerService) Move(tx *gorm.DB, from, to string, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}

	res := tx.Model(&models.Account{}).
		Where("id = ? AND balance >= ?", from, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to debit account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInsufficientFunds
	}

	if err := s.Credit(tx, to, amount); err != nil {
		return err
	}

	return nil
}

// Credit adds amount to an account, creating the row if needed.
func (s *LedgerService) Credit(tx *gorm.DB, account string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":    gorm.Expr("accounts.balance + ?", amount),
			"updated_at": time.Now(),
		}),
	}).Create(&models.Account{ID: account, Balance: amount}).Error
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	return nil
}

// Balance returns the current balance. Unknown accounts hold zero.
func (s *LedgerService) Balance(account string) (uint64, error) {
	var acct models.Account
	if err := s.db.First(&acct, "id = ?", account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load account: %w", err)
	}
	return acct.Balance, nil
}

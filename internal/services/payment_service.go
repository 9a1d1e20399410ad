// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/artledger/registry-backend/internal/apperrors"
	"github.com/artledger/registry-backend/internal/config"
	"github.com/artledger/registry-backend/internal/database"
	"github.com/artledger/registry-backend/internal/metrics"
	"github.com/artledger/registry-backend/internal/models"
	"github.com/artledger/registry-backend/internal/utils"
)

// PaymentService funds ledger accounts from card payments. Stripe holds
// the real money; a confirmed payment intent credits the same amount of
// ledger units to the depositing account.
type PaymentService struct {
	db      *gorm.DB
	ledger  *LedgerService
	metrics *metrics.Metrics
	config  *config.Config
}

type CreateDepositIntentRequest struct {
	Amount uint64 `json:"amount" validate:"required,gt=0,lte=1000000000000000"`
}

type DepositIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Amount       uint64 `json:"amount"`
	Status       string `json:"status"`
}

type ConfirmDepositRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, ledger *LedgerService, m *metrics.Metrics, cfg *config.Config) *PaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		db:      db,
		ledger:  ledger,
		metrics: m,
		config:  cfg,
	}
}

// CreateDepositIntent opens a Stripe payment intent for account and
// records a pending deposit keyed by the intent id. Ledger units map
// one-to-one onto the payment currency's minor units.
func (s *PaymentService) CreateDepositIntent(account string, req *CreateDepositIntentRequest) (*DepositIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "invalid deposit request", err)
	}

	if req.Amount < s.config.Payment.MinimumDeposit {
		return nil, apperrors.New(apperrors.CodeValidationError,
			fmt.Sprintf("minimum deposit is %d", s.config.Payment.MinimumDeposit))
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount)),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("account", account)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePaymentFailed, "failed to create payment intent", err)
	}

	deposit := &models.Transaction{
		TransactionType: models.TransactionTypeDeposit,
		ToAccount:       account,
		Amount:          req.Amount,
		Reference:       pi.ID,
		Status:          models.TransactionStatusPending,
	}
	if err := s.db.Create(deposit).Error; err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	return &DepositIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Amount:       req.Amount,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmDeposit checks the intent with Stripe and credits the pending
// deposit to the caller's ledger account. Confirming an already settled
// deposit is a no-op, so clients may retry safely.
func (s *PaymentService) ConfirmDeposit(account string, req *ConfirmDepositRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "invalid deposit confirmation", err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePaymentFailed, "failed to get payment intent", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, apperrors.New(apperrors.CodePaymentFailed,
			fmt.Sprintf("payment intent is %s, not succeeded", pi.Status))
	}

	var deposit models.Transaction
	var credited bool
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		err := tx.Where("reference = ? AND transaction_type = ?",
			req.PaymentIntentID, models.TransactionTypeDeposit).
			First(&deposit).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.CodeNotFound, "deposit not found")
			}
			return fmt.Errorf("failed to load deposit: %w", err)
		}

		if deposit.ToAccount != account {
			return apperrors.ErrUnauthorized
		}

		if deposit.Status == models.TransactionStatusCompleted {
			return nil
		}

		if err := s.ledger.Credit(tx, deposit.ToAccount, deposit.Amount); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.TransactionStatusCompleted,
			"processed_at": &now,
		}
		if err := tx.Model(&deposit).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to settle deposit: %w", err)
		}

		credited = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if credited {
		s.metrics.IncrementDeposits(deposit.Amount)
	}
	return &deposit, nil
}

// Balance returns the caller's spendable ledger balance.
func (s *PaymentService) Balance(account string) (uint64, error) {
	return s.ledger.Balance(account)
}

// History returns every transaction touching account, sales and license
// fees included, most recent first by default.
func (s *PaymentService) History(account string, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{}).
		Where("from_account = ? OR to_account = ?", account, account)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount", "transaction_type", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

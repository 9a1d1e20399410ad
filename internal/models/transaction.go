// internal/models/transaction.go
package models

import "time"

// Transaction is the persisted history of value-bearing operations: royalty
// sales, license fee payments, and ledger deposits. For an asset_sale row,
// Amount is the sale price and RoyaltyPaid the computed royalty portion.
type Transaction struct {
	BaseModel
	TransactionType TransactionType   `json:"transaction_type" gorm:"type:varchar(20);not null;index"`
	AssetID         *uint64           `json:"asset_id,omitempty" gorm:"index"`
	FromAccount     string            `json:"from_account" gorm:"size:128;index"`
	ToAccount       string            `json:"to_account" gorm:"size:128;not null;index"`
	Amount          uint64            `json:"amount" gorm:"not null"`
	RoyaltyPaid     uint64            `json:"royalty_paid"`
	Creator         string            `json:"creator,omitempty" gorm:"size:128"`
	Reference       string            `json:"reference,omitempty" gorm:"size:255;index"`
	Metadata        JSONB             `json:"metadata,omitempty" gorm:"type:jsonb"`
	Status          TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt     *time.Time        `json:"processed_at"`
}

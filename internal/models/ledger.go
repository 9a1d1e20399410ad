// internal/models/ledger.go
package models

import "time"

// Account is a credit-ledger balance keyed by the opaque account identifier
// carried in the auth token. Rows are created lazily on first credit.
type Account struct {
	ID        string    `json:"id" gorm:"primaryKey;size:128"`
	Balance   uint64    `json:"balance" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// internal/models/registry.go
package models

import "time"

// CountersID is the id of the singleton registry_counters row.
const CountersID = 1

// RegistryCounters is the singleton row carrying the id allocator, the
// supply count, the pause flag and the bound admin account.
type RegistryCounters struct {
	ID           uint32    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	NextAssetID  uint64    `json:"next_asset_id" gorm:"not null"`
	TotalSupply  uint64    `json:"total_supply" gorm:"not null"`
	Paused       bool      `json:"paused" gorm:"not null"`
	AdminAccount string    `json:"admin_account" gorm:"size:128;not null"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreatorEarnings accumulates royalty and license income per creator.
// TotalEarned only ever grows.
type CreatorEarnings struct {
	Creator     string    `json:"creator" gorm:"primaryKey;size:128"`
	TotalEarned uint64    `json:"total_earned" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at"`
}

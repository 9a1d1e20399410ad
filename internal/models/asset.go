// internal/models/asset.go
package models

import "time"

// Asset is the permanent record of a registered work. Rows are created with
// sequentially assigned ids and are never deleted.
type Asset struct {
	ID            uint64    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Creator       string    `json:"creator" gorm:"size:128;not null;index"`
	Title         string    `json:"title" gorm:"size:255;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	MediaURL      string    `json:"media_url" gorm:"size:512"`
	Category      string    `json:"category" gorm:"size:100;index"`
	RoyaltyBps    uint32    `json:"royalty_bps" gorm:"not null"`
	MintTimestamp int64     `json:"mint_timestamp" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OwnershipRecord tracks the single current owner of an asset. A row exists
// for every minted asset; absence means the asset does not exist.
type OwnershipRecord struct {
	AssetID   uint64    `json:"asset_id" gorm:"primaryKey;autoIncrement:false"`
	Owner     string    `json:"owner" gorm:"size:128;not null;index"`
	UpdatedAt time.Time `json:"updated_at"`
}

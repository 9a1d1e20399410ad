// internal/models/license.go
package models

import "time"

// LicensingTerms holds the license parameters a creator sets for one asset.
// A row is created at mint and replaced wholesale on update.
type LicensingTerms struct {
	AssetID            uint64    `json:"asset_id" gorm:"primaryKey;autoIncrement:false"`
	CommercialUse      bool      `json:"commercial_use"`
	DerivativeWorks    bool      `json:"derivative_works"`
	LicenseFee         uint64    `json:"license_fee" gorm:"not null"`
	MaxLicenseDuration uint64    `json:"max_license_duration" gorm:"not null"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// LicenseGrant is a purchased usage license. At most one grant exists per
// (asset, licensee); a repurchase overwrites the previous window.
type LicenseGrant struct {
	AssetID   uint64    `json:"asset_id" gorm:"primaryKey;autoIncrement:false"`
	Licensee  string    `json:"licensee" gorm:"primaryKey;size:128"`
	StartTime int64     `json:"start_time" gorm:"not null"`
	EndTime   int64     `json:"end_time" gorm:"not null"`
	FeePaid   uint64    `json:"fee_paid" gorm:"not null"`
	Accepted  bool      `json:"accepted" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

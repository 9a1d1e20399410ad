// internal/models/admin.go
package models

// AuditLog records mutating API requests for the admin trail. Account is the
// token subject of the caller; unauthenticated requests leave it empty.
type AuditLog struct {
	BaseModel
	Account      string `json:"account" gorm:"size:128;index"`
	Action       string `json:"action" gorm:"size:100;not null;index"`
	ResourceType string `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string `json:"resource_id,omitempty" gorm:"size:64;index"`
	Details      JSONB  `json:"details" gorm:"type:jsonb"`
	StatusCode   int    `json:"status_code"`
	IPAddress    string `json:"ip_address" gorm:"size:45"`
	UserAgent    string `json:"user_agent" gorm:"type:text"`
}

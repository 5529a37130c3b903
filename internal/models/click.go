package models

import (
	"time"
)

// ClickEvent is one recorded observation of a successful redirect.
// Rows are append-only and never updated. Every classification field is
// independently nullable: an undetectable value is stored as NULL, not as a
// placeholder string.
type ClickEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	LinkID        string    `gorm:"size:36;not null;index" json:"link_id"`
	OccurredAt    time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"occurred_at"`
	Country       *string   `gorm:"size:8" json:"country,omitempty"`
	Device        *string   `gorm:"size:16" json:"device,omitempty"`
	Browser       *string   `gorm:"size:16" json:"browser,omitempty"`
	OS            *string   `gorm:"size:16" json:"os,omitempty"`
	RefererDomain *string   `gorm:"size:255" json:"referer_domain,omitempty"`
	IdentityHash  *string   `gorm:"size:16" json:"identity_hash,omitempty"`
}

func (ClickEvent) TableName() string {
	return "clicks"
}

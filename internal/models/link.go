package models

import (
	"time"
)

// Link is the unit being redirected. The redirect path never deletes links
// and only ever mutates TotalClicks, via an atomic store-level increment.
type Link struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID        string     `gorm:"size:36;not null;index" json:"owner_id"`
	ShortCode      string     `gorm:"unique;not null;size:20;index" json:"short_code"`
	DestinationURL string     `gorm:"not null;type:text" json:"destination_url"`
	IsActive       bool       `gorm:"default:true;index" json:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	ClickLimit     *int       `json:"click_limit,omitempty"`
	TotalClicks    int64      `gorm:"default:0" json:"total_clicks"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Link) TableName() string {
	return "links"
}

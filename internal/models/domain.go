package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Domain is a domain-for-sale listing shown as a card on the public profile.
type Domain struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	ProfileID   string          `gorm:"index;size:36;not null" json:"profile_id"`
	DomainName  string          `gorm:"size:253;not null" json:"domain_name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description *string         `json:"description"`
	BuyURL      *string         `json:"buy_url"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (d *Domain) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link représente un lien affiché sur le profil public de son propriétaire.
// OrderIndex is the zero-based display position inside the owner's list.
type Link struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ProfileID  string    `gorm:"index;size:36;not null" json:"profile_id"`
	Title      string    `gorm:"size:120;not null" json:"title"`
	URL        string    `gorm:"not null" json:"url"`
	Icon       *string   `gorm:"size:32" json:"icon"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

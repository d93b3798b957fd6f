package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ButtonStyle is the shape used to render link buttons on the public page.
type ButtonStyle string

const (
	ButtonSolid   ButtonStyle = "solid"
	ButtonOutline ButtonStyle = "outline"
	ButtonRounded ButtonStyle = "rounded"
)

// Theme is stored as a JSON column on the profile.
type Theme struct {
	BackgroundColor string      `json:"backgroundColor"`
	TextColor       string      `json:"textColor"`
	AccentColor     string      `json:"accentColor"`
	ButtonStyle     ButtonStyle `json:"buttonStyle"`
}

// Profile is the owner of a public page. Email and PasswordHash never leave the server.
type Profile struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:254;not null" json:"-"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Username     string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	AvatarURL    *string   `json:"avatar_url"`
	Bio          *string   `gorm:"size:500" json:"bio"`
	Theme        *Theme    `gorm:"serializer:json;type:text" json:"theme"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// All lists every model managed by migrations.
func All() []any {
	return []any{&Profile{}, &Link{}, &Domain{}, &ClickEvent{}}
}

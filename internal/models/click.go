package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClickKind tells which kind of card a visitor interacted with.
type ClickKind string

const (
	ClickKindLink   ClickKind = "link"
	ClickKindDomain ClickKind = "domain"
)

// ClickEvent is an append-only record of one visitor interaction with exactly
// one link or one domain listing.
type ClickEvent struct {
	// ID is a UUID assigned on insert
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// LinkID and DomainID are mutually exclusive; exactly one is set on a well-formed event
	LinkID   *string `gorm:"index;size:36" json:"link_id"`
	DomainID *string `gorm:"index;size:36" json:"domain_id"`

	// Referrer is the page the visitor came from, when the browser sent one
	Referrer *string `gorm:"size:2048" json:"referrer"`

	// IPHash is a truncated SHA-256 of the client IP; the raw address is never stored
	IPHash *string `gorm:"size:64" json:"ip_hash"`

	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

// BeforeCreate assigns a UUID and a timestamp when the caller left them empty.
func (e *ClickEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return nil
}

// Target returns the kind and identifier the event is attributed to.
// ok is false for malformed events that reference neither or both targets.
func (e ClickEvent) Target() (kind ClickKind, id string, ok bool) {
	hasLink := e.LinkID != nil && *e.LinkID != ""
	hasDomain := e.DomainID != nil && *e.DomainID != ""
	switch {
	case hasLink && !hasDomain:
		return ClickKindLink, *e.LinkID, true
	case hasDomain && !hasLink:
		return ClickKindDomain, *e.DomainID, true
	default:
		return "", "", false
	}
}

// NewLinkClick builds an event attributed to a link.
func NewLinkClick(linkID string, referrer, ipHash *string) ClickEvent {
	return ClickEvent{LinkID: &linkID, Referrer: referrer, IPHash: ipHash, Timestamp: time.Now()}
}

// NewDomainClick builds an event attributed to a domain listing.
func NewDomainClick(domainID string, referrer, ipHash *string) ClickEvent {
	return ClickEvent{DomainID: &domainID, Referrer: referrer, IPHash: ipHash, Timestamp: time.Now()}
}

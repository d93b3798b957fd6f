package repository

import (
	"context"
	"fmt"

	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// ClickRepository est une interface qui définit les méthodes d'accès aux événements de clic
type ClickRepository interface {
	CreateClick(ctx context.Context, click *models.ClickEvent) error
	FetchClickEvents(ctx context.Context, linkIDs, domainIDs []string) ([]models.ClickEvent, error)
}

// GormClickRepository est l'implémentation de l'interface ClickRepository utilisant GORM.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository crée et retourne une nouvelle instance de GormClickRepository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// CreateClick insère un nouvel événement de clic dans la base de données.
func (r *GormClickRepository) CreateClick(ctx context.Context, click *models.ClickEvent) error {
	if err := r.db.WithContext(ctx).Create(click).Error; err != nil {
		return fmt.Errorf("failed to create click: %w", err)
	}
	return nil
}

// FetchClickEvents returns the events referencing any of linkIDs or domainIDs, oldest first.
// With no ids at all it returns an empty result without querying.
func (r *GormClickRepository) FetchClickEvents(ctx context.Context, linkIDs, domainIDs []string) ([]models.ClickEvent, error) {
	events := []models.ClickEvent{}

	q := r.db.WithContext(ctx).Model(&models.ClickEvent{})
	switch {
	case len(linkIDs) > 0 && len(domainIDs) > 0:
		q = q.Where("link_id IN ? OR domain_id IN ?", linkIDs, domainIDs)
	case len(linkIDs) > 0:
		q = q.Where("link_id IN ?", linkIDs)
	case len(domainIDs) > 0:
		q = q.Where("domain_id IN ?", domainIDs)
	default:
		return events, nil
	}

	if err := q.Order("timestamp ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch click events: %w", err)
	}
	return events, nil
}

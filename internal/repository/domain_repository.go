package repository

import (
	"context"
	"fmt"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// DomainRepository defines data access for domain-for-sale listings.
type DomainRepository interface {
	CreateDomain(ctx context.Context, domain *models.Domain) error
	GetDomain(ctx context.Context, id string) (*models.Domain, error)
	ListDomainsByProfile(ctx context.Context, profileID string) ([]models.Domain, error)
	UpdateDomain(ctx context.Context, domain *models.Domain) error
	DeleteDomain(ctx context.Context, id string) error
	GetAllDomains(ctx context.Context) ([]models.Domain, error)
}

type GormDomainRepository struct {
	db *gorm.DB
}

func NewDomainRepository(db *gorm.DB) *GormDomainRepository {
	return &GormDomainRepository{db: db}
}

func (r *GormDomainRepository) CreateDomain(ctx context.Context, domain *models.Domain) error {
	if err := r.db.WithContext(ctx).Create(domain).Error; err != nil {
		return fmt.Errorf("failed to create domain: %w", err)
	}
	return nil
}

func (r *GormDomainRepository) GetDomain(ctx context.Context, id string) (*models.Domain, error) {
	var domain models.Domain
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&domain).Error; err != nil {
		return nil, notFound(err, "domain "+id)
	}
	return &domain, nil
}

// ListDomainsByProfile returns a profile's listings, newest first.
func (r *GormDomainRepository) ListDomainsByProfile(ctx context.Context, profileID string) ([]models.Domain, error) {
	var domains []models.Domain
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").Order("id ASC").
		Find(&domains).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list domains for profile %s: %w", profileID, err)
	}
	return domains, nil
}

func (r *GormDomainRepository) UpdateDomain(ctx context.Context, domain *models.Domain) error {
	res := r.db.WithContext(ctx).Model(&models.Domain{}).
		Where("id = ?", domain.ID).
		Updates(map[string]any{
			"domain_name": domain.DomainName,
			"price":       domain.Price,
			"description": domain.Description,
			"buy_url":     domain.BuyURL,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update domain %s: %w", domain.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("domain %s: %w", domain.ID, customerrors.ErrNotFound)
	}
	return nil
}

func (r *GormDomainRepository) DeleteDomain(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Domain{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete domain %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("domain %s: %w", id, customerrors.ErrNotFound)
	}
	return nil
}

// GetAllDomains is used by the URL monitor.
func (r *GormDomainRepository) GetAllDomains(ctx context.Context) ([]models.Domain, error) {
	var domains []models.Domain
	if err := r.db.WithContext(ctx).Find(&domains).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve all domains: %w", err)
	}
	return domains, nil
}

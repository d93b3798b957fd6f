package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// LinkRepository est une interface qui définit les méthodes d'accès aux données des liens
type LinkRepository interface {
	CreateLink(ctx context.Context, link *models.Link) error
	GetLink(ctx context.Context, id string) (*models.Link, error)
	ListLinksByProfile(ctx context.Context, profileID string) ([]models.Link, error)
	MaxOrderIndex(ctx context.Context, profileID string) (int, error)
	UpdateLink(ctx context.Context, link *models.Link) error
	UpdateLinkOrder(ctx context.Context, linkID string, orderIndex int) error
	DeleteLink(ctx context.Context, id string) error
	GetAllLinks(ctx context.Context) ([]models.Link, error)
}

// GormLinkRepository est l'implémentation de LinkRepository utilisant GORM.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository crée et retourne une nouvelle instance de GormLinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// CreateLink insère un nouveau lien dans la base de données.
func (r *GormLinkRepository) CreateLink(ctx context.Context, link *models.Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

// GetLink récupère un lien par son identifiant.
func (r *GormLinkRepository) GetLink(ctx context.Context, id string) (*models.Link, error) {
	var link models.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		return nil, notFound(err, "link "+id)
	}
	return &link, nil
}

// ListLinksByProfile returns a profile's links in display order.
// Ties on order_index (legacy rows) fall back to creation time, then id.
func (r *GormLinkRepository) ListLinksByProfile(ctx context.Context, profileID string) ([]models.Link, error) {
	var links []models.Link
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("order_index ASC").Order("created_at ASC").Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list links for profile %s: %w", profileID, err)
	}
	return links, nil
}

// MaxOrderIndex returns the highest order key of a profile, or -1 when it has no links.
func (r *GormLinkRepository) MaxOrderIndex(ctx context.Context, profileID string) (int, error) {
	var maxIndex sql.NullInt64
	row := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("profile_id = ?", profileID).
		Select("MAX(order_index)").
		Row()
	if err := row.Scan(&maxIndex); err != nil {
		return 0, fmt.Errorf("failed to read max order for profile %s: %w", profileID, err)
	}
	if !maxIndex.Valid {
		return -1, nil
	}
	return int(maxIndex.Int64), nil
}

// UpdateLink met à jour le titre, l'URL et l'icône d'un lien.
func (r *GormLinkRepository) UpdateLink(ctx context.Context, link *models.Link) error {
	res := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("id = ?", link.ID).
		Updates(map[string]any{"title": link.Title, "url": link.URL, "icon": link.Icon})
	if res.Error != nil {
		return fmt.Errorf("failed to update link %s: %w", link.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("link %s: %w", link.ID, customerrors.ErrNotFound)
	}
	return nil
}

// UpdateLinkOrder writes a single link's order key.
func (r *GormLinkRepository) UpdateLinkOrder(ctx context.Context, linkID string, orderIndex int) error {
	res := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("id = ?", linkID).
		Update("order_index", orderIndex)
	if res.Error != nil {
		return fmt.Errorf("failed to update order of link %s: %w", linkID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("link %s: %w", linkID, customerrors.ErrNotFound)
	}
	return nil
}

// DeleteLink supprime un lien.
func (r *GormLinkRepository) DeleteLink(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Link{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete link %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("link %s: %w", id, customerrors.ErrNotFound)
	}
	return nil
}

// GetAllLinks récupère tous les liens de la base de données.
func (r *GormLinkRepository) GetAllLinks(ctx context.Context) ([]models.Link, error) {
	var links []models.Link
	if err := r.db.WithContext(ctx).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve all links: %w", err)
	}
	return links, nil
}

// notFound translates gorm.ErrRecordNotFound into ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, customerrors.ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines data access for profiles (accounts).
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}

type GormProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// CreateProfile inserts a profile. A username or email clash yields ErrUsernameTaken.
func (r *GormProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueViolation(err) {
			return customerrors.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *GormProfileRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormProfileRepository) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return r.first(ctx, "username = ?", strings.ToLower(username))
}

func (r *GormProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.first(ctx, "email = ?", strings.ToLower(email))
}

func (r *GormProfileRepository) first(ctx context.Context, query string, arg string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where(query, arg).First(&profile).Error; err != nil {
		return nil, notFound(err, "profile "+arg)
	}
	return &profile, nil
}

// UpdateProfile writes username, bio, avatar and theme.
func (r *GormProfileRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	res := r.db.WithContext(ctx).Model(profile).
		Select("Username", "Bio", "AvatarURL", "Theme").
		Updates(profile)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return customerrors.ErrUsernameTaken
		}
		return fmt.Errorf("failed to update profile %s: %w", profile.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile %s: %w", profile.ID, customerrors.ErrNotFound)
	}
	return nil
}

// isUniqueViolation recognises SQLite's constraint message; the pure-Go driver
// does not expose a typed error through gorm.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package services

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/axellelanca/linkbio/internal/auth"
	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
	"github.com/axellelanca/linkbio/internal/storage"
	"github.com/axellelanca/linkbio/internal/themes"
)

// SignUpInput carries the fields of the registration form.
type SignUpInput struct {
	Email    string
	Password string
	Username string
}

// SettingsInput is a partial update: nil fields are left unchanged.
// Preset, when set, is applied before Theme.
type SettingsInput struct {
	Username *string
	Bio      *string
	Preset   *string
	Theme    *models.Theme
}

// PublicProfile is everything a visitor sees on /:username.
type PublicProfile struct {
	Profile *models.Profile `json:"profile"`
	Theme   models.Theme    `json:"theme"`
	Links   []models.Link   `json:"links"`
	Domains []models.Domain `json:"domains"`
}

// ProfileService handles accounts, settings and the public page.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	linkRepo    repository.LinkRepository
	domainRepo  repository.DomainRepository
	tokens      *auth.TokenService
	avatars     *storage.AvatarStore
	log         *zap.Logger
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	linkRepo repository.LinkRepository,
	domainRepo repository.DomainRepository,
	tokens *auth.TokenService,
	avatars *storage.AvatarStore,
	log *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		linkRepo:    linkRepo,
		domainRepo:  domainRepo,
		tokens:      tokens,
		avatars:     avatars,
		log:         log,
	}
}

// SignUp creates a profile with the default theme and returns it with a session token.
func (s *ProfileService) SignUp(ctx context.Context, in SignUpInput) (*models.Profile, string, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, "", err
	}
	username, err := NormalizeUsername(in.Username)
	if err != nil {
		return nil, "", err
	}
	if len(in.Password) < minPasswordLen {
		return nil, "", customerrors.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	theme := themes.Default()
	profile := &models.Profile{
		Email:        email,
		PasswordHash: hash,
		Username:     username,
		Theme:        &theme,
	}
	if err := s.profileRepo.CreateProfile(ctx, profile); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("Profile created", zap.String("profile_id", profile.ID), zap.String("username", username))
	return profile, token, nil
}

// LogIn checks the credentials and returns a fresh token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *ProfileService) LogIn(ctx context.Context, email, password string) (*models.Profile, string, error) {
	profile, err := s.profileRepo.GetProfileByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if IsNotFound(err) {
			return nil, "", customerrors.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(profile.PasswordHash, password) {
		return nil, "", customerrors.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	return s.profileRepo.GetProfile(ctx, profileID)
}

// UpdateSettings applies the non-nil fields of in.
func (s *ProfileService) UpdateSettings(ctx context.Context, profileID string, in SettingsInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username, err := NormalizeUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		profile.Username = username
	}
	if in.Bio != nil {
		bio, err := optionalText("bio", *in.Bio, maxBioLen)
		if err != nil {
			return nil, err
		}
		profile.Bio = bio
	}
	if in.Preset != nil {
		theme, ok := themes.Lookup(*in.Preset)
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q", customerrors.ErrInvalidTheme, *in.Preset)
		}
		profile.Theme = &theme
	}
	if in.Theme != nil {
		if err := themes.Validate(*in.Theme); err != nil {
			return nil, err
		}
		theme := *in.Theme
		profile.Theme = &theme
	}

	if err := s.profileRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar stores the image and points the profile at it.
// The previous avatar file is removed once the profile is updated.
func (s *ProfileService) UploadAvatar(ctx context.Context, profileID string, r io.Reader) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	name, publicURL, err := s.avatars.Save(profileID, r)
	if err != nil {
		return nil, err
	}

	previous := profile.AvatarURL
	profile.AvatarURL = &publicURL
	if err := s.profileRepo.UpdateProfile(ctx, profile); err != nil {
		if rmErr := s.avatars.Remove(name); rmErr != nil {
			s.log.Warn("Failed to remove orphan avatar", zap.String("file", name), zap.Error(rmErr))
		}
		return nil, err
	}

	if previous != nil {
		if old, ok := s.avatars.NameFromURL(*previous); ok {
			if err := s.avatars.Remove(old); err != nil {
				s.log.Warn("Failed to remove previous avatar", zap.String("file", old), zap.Error(err))
			}
		}
	}
	return profile, nil
}

// PublicProfile loads the page for username: links in order, domains newest first,
// and the effective theme.
func (s *ProfileService) PublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	profile, err := s.profileRepo.GetProfileByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	links, err := s.linkRepo.ListLinksByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	domains, err := s.domainRepo.ListDomainsByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		Profile: profile,
		Theme:   themes.Effective(profile.Theme),
		Links:   links,
		Domains: domains,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Address != strings.TrimSpace(raw) {
		return "", customerrors.ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return strings.ToLower(addr.Address), nil
}

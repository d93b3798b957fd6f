// Package services contains the business logic layer for the link-in-bio application
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/metrics"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/ordering"
	"github.com/axellelanca/linkbio/internal/repository"
)

// LinkInput is the editable part of a link.
type LinkInput struct {
	Title string
	URL   string
	Icon  string
}

// LinkService provides business logic methods for managing an owner's links.
// It acts as an intermediary between the HTTP handlers and the data repository.
type LinkService struct {
	linkRepo repository.LinkRepository
	log      *zap.Logger
}

// NewLinkService creates and returns a new instance of LinkService.
func NewLinkService(linkRepo repository.LinkRepository, log *zap.Logger) *LinkService {
	return &LinkService{
		linkRepo: linkRepo,
		log:      log,
	}
}

// ListLinks returns the profile's links sorted by ascending order key.
func (s *LinkService) ListLinks(ctx context.Context, profileID string) ([]models.Link, error) {
	return s.linkRepo.ListLinksByProfile(ctx, profileID)
}

// GetLink retrieves a link by id, regardless of owner. Used by the public redirect.
func (s *LinkService) GetLink(ctx context.Context, linkID string) (*models.Link, error) {
	return s.linkRepo.GetLink(ctx, linkID)
}

// CreateLink appends a new link after the profile's last one.
func (s *LinkService) CreateLink(ctx context.Context, profileID string, in LinkInput) (*models.Link, error) {
	link := &models.Link{ProfileID: profileID}
	if err := applyLinkInput(link, in); err != nil {
		return nil, err
	}

	maxIndex, err := s.linkRepo.MaxOrderIndex(ctx, profileID)
	if err != nil {
		return nil, err
	}
	link.OrderIndex = maxIndex + 1

	if err := s.linkRepo.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	s.log.Info("Link created",
		zap.String("profile_id", profileID),
		zap.String("link_id", link.ID),
		zap.Int("order_index", link.OrderIndex),
	)
	return link, nil
}

// UpdateLink edits title, URL and icon of a link owned by profileID.
func (s *LinkService) UpdateLink(ctx context.Context, profileID, linkID string, in LinkInput) (*models.Link, error) {
	link, err := s.owned(ctx, profileID, linkID)
	if err != nil {
		return nil, err
	}
	if err := applyLinkInput(link, in); err != nil {
		return nil, err
	}
	if err := s.linkRepo.UpdateLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// DeleteLink removes a link, then compacts the remaining order keys so they
// stay dense. Compaction failures are logged, not returned: the link is gone.
func (s *LinkService) DeleteLink(ctx context.Context, profileID, linkID string) error {
	if _, err := s.owned(ctx, profileID, linkID); err != nil {
		return err
	}
	if err := s.linkRepo.DeleteLink(ctx, linkID); err != nil {
		return err
	}

	remaining, err := s.linkRepo.ListLinksByProfile(ctx, profileID)
	if err != nil {
		s.log.Warn("Could not reload links after delete", zap.String("profile_id", profileID), zap.Error(err))
		return nil
	}
	s.commit(ctx, profileID, remaining)
	return nil
}

// MoveLink moves movedID to the position of targetID and persists the new order.
//
// The result reflects the new order even when some order keys could not be
// written; callers inspect result.Failures. An unknown id returns ErrNotFound
// and nothing is written.
func (s *LinkService) MoveLink(ctx context.Context, profileID, movedID, targetID string) (ordering.CommitResult, error) {
	current, err := s.linkRepo.ListLinksByProfile(ctx, profileID)
	if err != nil {
		return ordering.CommitResult{}, err
	}

	reordered, err := ordering.Reorder(current, movedID, targetID)
	if err != nil {
		return ordering.CommitResult{Links: current}, err
	}

	return s.commit(ctx, profileID, reordered), nil
}

// commit persists dense order keys. It is detached from ctx cancellation:
// once started, every update is attempted.
func (s *LinkService) commit(ctx context.Context, profileID string, links []models.Link) ordering.CommitResult {
	res := ordering.Commit(context.WithoutCancel(ctx), links, s.linkRepo)

	for _, f := range res.Failures {
		metrics.OrderUpdateFailures.Inc()
		s.log.Error("Failed to persist link order",
			zap.String("profile_id", profileID),
			zap.String("link_id", f.ID),
			zap.Error(f.Err),
		)
	}
	if len(res.Updated) > 0 || len(res.Failures) > 0 {
		s.log.Info("Link order committed",
			zap.String("profile_id", profileID),
			zap.Int("updated", len(res.Updated)),
			zap.Int("failed", len(res.Failures)),
		)
	}
	return res
}

// owned loads linkID and checks it belongs to profileID.
// A link owned by someone else is reported as not found.
func (s *LinkService) owned(ctx context.Context, profileID, linkID string) (*models.Link, error) {
	link, err := s.linkRepo.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.ProfileID != profileID {
		return nil, fmt.Errorf("link %s: %w", linkID, customerrors.ErrNotFound)
	}
	return link, nil
}

func applyLinkInput(link *models.Link, in LinkInput) error {
	title, err := requireText("title", in.Title, maxTitleLen)
	if err != nil {
		return err
	}
	if err := ValidateURL(in.URL); err != nil {
		return err
	}
	icon, err := optionalText("icon", in.Icon, maxIconRunes)
	if err != nil {
		return err
	}
	link.Title = title
	link.URL = strings.TrimSpace(in.URL)
	link.Icon = icon
	return nil
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, customerrors.ErrNotFound)
}

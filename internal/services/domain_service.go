package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

// DomainInput is the editable part of a domain listing.
type DomainInput struct {
	DomainName  string
	Price       decimal.Decimal
	Description string
	BuyURL      string
}

// DomainService manages the domains an owner lists for sale.
type DomainService struct {
	domainRepo repository.DomainRepository
	log        *zap.Logger
}

func NewDomainService(domainRepo repository.DomainRepository, log *zap.Logger) *DomainService {
	return &DomainService{domainRepo: domainRepo, log: log}
}

// ListDomains returns the profile's domains, newest first.
func (s *DomainService) ListDomains(ctx context.Context, profileID string) ([]models.Domain, error) {
	return s.domainRepo.ListDomainsByProfile(ctx, profileID)
}

func (s *DomainService) GetDomain(ctx context.Context, domainID string) (*models.Domain, error) {
	return s.domainRepo.GetDomain(ctx, domainID)
}

func (s *DomainService) CreateDomain(ctx context.Context, profileID string, in DomainInput) (*models.Domain, error) {
	domain := &models.Domain{ProfileID: profileID}
	if err := applyDomainInput(domain, in); err != nil {
		return nil, err
	}
	if err := s.domainRepo.CreateDomain(ctx, domain); err != nil {
		return nil, err
	}
	s.log.Info("Domain listed",
		zap.String("profile_id", profileID),
		zap.String("domain_id", domain.ID),
		zap.String("domain_name", domain.DomainName),
	)
	return domain, nil
}

func (s *DomainService) UpdateDomain(ctx context.Context, profileID, domainID string, in DomainInput) (*models.Domain, error) {
	domain, err := s.owned(ctx, profileID, domainID)
	if err != nil {
		return nil, err
	}
	if err := applyDomainInput(domain, in); err != nil {
		return nil, err
	}
	if err := s.domainRepo.UpdateDomain(ctx, domain); err != nil {
		return nil, err
	}
	return domain, nil
}

func (s *DomainService) DeleteDomain(ctx context.Context, profileID, domainID string) error {
	if _, err := s.owned(ctx, profileID, domainID); err != nil {
		return err
	}
	return s.domainRepo.DeleteDomain(ctx, domainID)
}

func (s *DomainService) owned(ctx context.Context, profileID, domainID string) (*models.Domain, error) {
	domain, err := s.domainRepo.GetDomain(ctx, domainID)
	if err != nil {
		return nil, err
	}
	if domain.ProfileID != profileID {
		return nil, fmt.Errorf("domain %s: %w", domainID, customerrors.ErrNotFound)
	}
	return domain, nil
}

func applyDomainInput(domain *models.Domain, in DomainInput) error {
	name, err := NormalizeDomainName(in.DomainName)
	if err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return customerrors.ErrInvalidPrice
	}
	description, err := optionalText("description", in.Description, maxDescriptionLen)
	if err != nil {
		return err
	}
	buyURL, err := optionalURL(in.BuyURL)
	if err != nil {
		return err
	}
	domain.DomainName = name
	domain.Price = in.Price.Round(2)
	domain.Description = description
	domain.BuyURL = buyURL
	return nil
}

package services

import (
	"context"

	"github.com/axellelanca/linkbio/internal/analytics"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

// Report is the owner's analytics dashboard.
type Report struct {
	analytics.Summary
	TotalLinks   int `json:"total_links"`
	TotalDomains int `json:"total_domains"`
}

// AnalyticsService builds click reports from stored events.
type AnalyticsService struct {
	linkRepo   repository.LinkRepository
	domainRepo repository.DomainRepository
	clickRepo  repository.ClickRepository
}

func NewAnalyticsService(linkRepo repository.LinkRepository, domainRepo repository.DomainRepository, clickRepo repository.ClickRepository) *AnalyticsService {
	return &AnalyticsService{
		linkRepo:   linkRepo,
		domainRepo: domainRepo,
		clickRepo:  clickRepo,
	}
}

// Report counts clicks for every link and domain the profile owns.
func (s *AnalyticsService) Report(ctx context.Context, profileID string) (*Report, error) {
	links, err := s.linkRepo.ListLinksByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	domains, err := s.domainRepo.ListDomainsByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	events, err := s.clickRepo.FetchClickEvents(ctx, linkIDs(links), domainIDs(domains))
	if err != nil {
		return nil, err
	}

	return &Report{
		Summary:      analytics.Aggregate(links, domains, events),
		TotalLinks:   len(links),
		TotalDomains: len(domains),
	}, nil
}

func linkIDs(links []models.Link) []string {
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	return ids
}

func domainIDs(domains []models.Domain) []string {
	ids := make([]string, len(domains))
	for i, d := range domains {
		ids[i] = d.ID
	}
	return ids
}

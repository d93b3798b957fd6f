// Package analytics folds click events into per-link and per-domain counts.
package analytics

import "github.com/axellelanca/linkbio/internal/models"

// LinkCount is one bar of the link clicks chart.
type LinkCount struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Clicks int    `json:"clicks"`
}

// DomainCount is one slice of the domain clicks chart.
type DomainCount struct {
	ID         string `json:"id"`
	DomainName string `json:"domain_name"`
	Clicks     int    `json:"clicks"`
}

// Summary holds counts aligned with the links and domains passed to Aggregate.
// Total counts raw events, malformed ones included, so it can exceed the sum
// of attributed clicks.
type Summary struct {
	Links   []LinkCount   `json:"links"`
	Domains []DomainCount `json:"domains"`
	Total   int           `json:"total_clicks"`
}

// Attributed returns the number of clicks routed to a link or a domain.
func (s Summary) Attributed() int {
	n := 0
	for _, l := range s.Links {
		n += l.Clicks
	}
	for _, d := range s.Domains {
		n += d.Clicks
	}
	return n
}

// Aggregate counts events per link and per domain in a single pass.
// Events referencing neither or both targets are skipped for attribution.
// Every link and domain appears in the result, with zero when never clicked.
// Inputs are not modified.
func Aggregate(links []models.Link, domains []models.Domain, events []models.ClickEvent) Summary {
	linkClicks := make(map[string]int, len(links))
	domainClicks := make(map[string]int, len(domains))

	for _, event := range events {
		kind, id, ok := event.Target()
		if !ok {
			continue
		}
		switch kind {
		case models.ClickKindLink:
			linkClicks[id]++
		case models.ClickKindDomain:
			domainClicks[id]++
		}
	}

	summary := Summary{
		Links:   make([]LinkCount, len(links)),
		Domains: make([]DomainCount, len(domains)),
		Total:   len(events),
	}
	for i, link := range links {
		summary.Links[i] = LinkCount{ID: link.ID, Title: link.Title, Clicks: linkClicks[link.ID]}
	}
	for i, domain := range domains {
		summary.Domains[i] = DomainCount{ID: domain.ID, DomainName: domain.DomainName, Clicks: domainClicks[domain.ID]}
	}

	return summary
}

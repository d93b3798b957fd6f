package monitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/axellelanca/linkbio/internal/metrics"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

// requestTimeout bounds a single HEAD request.
const requestTimeout = 5 * time.Second

// target is one URL under watch: a link destination or a domain buy URL.
type target struct {
	key   string // kind:id
	kind  models.ClickKind
	id    string
	label string
	url   string
}

// UrlMonitor periodically checks that link destinations and domain buy URLs
// still answer, and logs when one changes state.
type UrlMonitor struct {
	linkRepo    repository.LinkRepository
	domainRepo  repository.DomainRepository
	interval    time.Duration
	knownStates map[string]bool // target key -> reachable
	mu          sync.Mutex
	httpClient  *http.Client
	log         *zap.Logger
}

// NewUrlMonitor creates a monitor that checks every interval.
func NewUrlMonitor(linkRepo repository.LinkRepository, domainRepo repository.DomainRepository, interval time.Duration, log *zap.Logger) *UrlMonitor {
	return &UrlMonitor{
		linkRepo:    linkRepo,
		domainRepo:  domainRepo,
		interval:    interval,
		knownStates: make(map[string]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

// WithHTTPClient replaces the client used for checks.
func (m *UrlMonitor) WithHTTPClient(client *http.Client) *UrlMonitor {
	m.httpClient = client
	return m
}

// Start runs a check immediately, then every interval, until ctx is done.
func (m *UrlMonitor) Start(ctx context.Context) {
	m.log.Info("Starting URL monitor", zap.Duration("interval", m.interval))
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckNow(ctx)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("URL monitor stopped")
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

// CheckNow checks every target once and returns how many are unreachable.
func (m *UrlMonitor) CheckNow(ctx context.Context) int {
	targets, err := m.targets(ctx)
	if err != nil {
		m.log.Error("Failed to load URLs for monitoring", zap.Error(err))
		return 0
	}

	unreachable := 0
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if ctx.Err() != nil {
			return unreachable
		}
		seen[t.key] = struct{}{}

		current := m.isUrlAccessible(ctx, t.url)
		if !current {
			unreachable++
		}

		m.mu.Lock()
		previous, exists := m.knownStates[t.key]
		m.knownStates[t.key] = current
		m.mu.Unlock()

		fields := []zap.Field{
			zap.String("kind", string(t.kind)),
			zap.String("id", t.id),
			zap.String("label", t.label),
			zap.String("url", t.url),
		}
		switch {
		case !exists:
			m.log.Debug("Initial URL state", append(fields, zap.String("state", formatState(current)))...)
		case current != previous:
			m.log.Warn("URL state changed", append(fields,
				zap.String("from", formatState(previous)),
				zap.String("to", formatState(current)),
			)...)
		}
	}

	// forget deleted targets
	m.mu.Lock()
	for key := range m.knownStates {
		if _, ok := seen[key]; !ok {
			delete(m.knownStates, key)
		}
	}
	m.mu.Unlock()

	metrics.UnreachableTargets.Set(float64(unreachable))
	m.log.Info("URL check completed", zap.Int("checked", len(targets)), zap.Int("unreachable", unreachable))
	return unreachable
}

// State returns the last known state of a link or domain target.
func (m *UrlMonitor) State(kind models.ClickKind, id string) (reachable, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reachable, known = m.knownStates[string(kind)+":"+id]
	return reachable, known
}

func (m *UrlMonitor) targets(ctx context.Context) ([]target, error) {
	links, err := m.linkRepo.GetAllLinks(ctx)
	if err != nil {
		return nil, err
	}
	domains, err := m.domainRepo.GetAllDomains(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]target, 0, len(links)+len(domains))
	for _, l := range links {
		out = append(out, target{
			key: string(models.ClickKindLink) + ":" + l.ID, kind: models.ClickKindLink,
			id: l.ID, label: l.Title, url: l.URL,
		})
	}
	for _, d := range domains {
		if d.BuyURL == nil || *d.BuyURL == "" {
			continue
		}
		out = append(out, target{
			key: string(models.ClickKindDomain) + ":" + d.ID, kind: models.ClickKindDomain,
			id: d.ID, label: d.DomainName, url: *d.BuyURL,
		})
	}
	return out, nil
}

// isUrlAccessible sends a HEAD request; 2xx and 3xx count as reachable.
func (m *UrlMonitor) isUrlAccessible(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		m.log.Debug("Invalid monitored URL", zap.String("url", url), zap.Error(err))
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.log.Debug("URL not reachable", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}

package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/services"
)

// ipHashLen is the number of hex characters kept from the SHA-256 of a client IP.
const ipHashLen = 16

// PublicProfileHandler serves the data of a public page by username.
func PublicProfileHandler(profiles *services.ProfileService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := profiles.PublicProfile(c.Request.Context(), c.Param("username"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// LinkRedirectHandler records a click on the link then redirects to its URL.
// Recording never delays or fails the redirect.
func LinkRedirectHandler(links *services.LinkService, clicks ClickRecorder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		link, err := links.GetLink(c.Request.Context(), c.Param("linkID"))
		if err != nil {
			respondError(c, log, err)
			return
		}

		if !c.GetBool(isBotKey) {
			record(c, clicks, models.NewLinkClick(link.ID, referrer(c), clientIPHash(c)), log)
		}
		c.Redirect(http.StatusFound, link.URL)
	}
}

// DomainRedirectHandler records a click on the domain then redirects to its
// buy URL. A domain without a buy URL is returned as JSON instead.
func DomainRedirectHandler(domains *services.DomainService, clicks ClickRecorder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain, err := domains.GetDomain(c.Request.Context(), c.Param("domainID"))
		if err != nil {
			respondError(c, log, err)
			return
		}

		if !c.GetBool(isBotKey) {
			record(c, clicks, models.NewDomainClick(domain.ID, referrer(c), clientIPHash(c)), log)
		}
		if domain.BuyURL == nil || *domain.BuyURL == "" {
			c.JSON(http.StatusOK, domain)
			return
		}
		c.Redirect(http.StatusFound, *domain.BuyURL)
	}
}

// ClickRequest is a click reported by the public page itself.
// Exactly one of LinkID and DomainID must be set.
type ClickRequest struct {
	LinkID   string `json:"link_id"`
	DomainID string `json:"domain_id"`
	Referrer string `json:"referrer"`
}

// RecordClickHandler accepts a click and answers 202 whether or not the event
// could be queued.
func RecordClickHandler(clicks ClickRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClickRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		ref := optional(req.Referrer)
		if ref == nil {
			ref = referrer(c)
		}
		event := models.ClickEvent{
			LinkID:   optional(req.LinkID),
			DomainID: optional(req.DomainID),
			Referrer: ref,
			IPHash:   clientIPHash(c),
		}
		if _, _, ok := event.Target(); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": customerrors.ErrMalformedEvent.Error()})
			return
		}

		if !c.GetBool(isBotKey) {
			_ = clicks.Record(event)
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
	}
}

func record(c *gin.Context, clicks ClickRecorder, event models.ClickEvent, log *zap.Logger) {
	if err := clicks.Record(event); err != nil && !errors.Is(err, customerrors.ErrClickDropped) {
		log.Warn("Click not recorded", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
}

func referrer(c *gin.Context) *string {
	return optional(c.Request.Referer())
}

// clientIPHash returns a truncated SHA-256 of the client IP; the address itself is never kept.
func clientIPHash(c *gin.Context) *string {
	ip := c.ClientIP()
	if ip == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(ip))
	h := hex.EncodeToString(sum[:])[:ipHashLen]
	return &h
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/services"
	"github.com/axellelanca/linkbio/internal/themes"
)

// SignUpRequest is the body of POST /api/v1/auth/signup.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// LogInRequest is the body of POST /api/v1/auth/login.
type LogInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is returned by sign-up and log-in.
type SessionResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

func SignUpHandler(profiles *services.ProfileService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		profile, token, err := profiles.SignUp(c.Request.Context(), services.SignUpInput{
			Email:    req.Email,
			Password: req.Password,
			Username: req.Username,
		})
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, SessionResponse{Token: token, Profile: profile})
	}
}

func LogInHandler(profiles *services.ProfileService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LogInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		profile, token, err := profiles.LogIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, SessionResponse{Token: token, Profile: profile})
	}
}

// ThemesHandler lists the built-in presets.
func ThemesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"themes": themes.Presets()})
}

func GetMeHandler(profiles *services.ProfileService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := profiles.GetProfile(c.Request.Context(), currentProfileID(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// SettingsRequest is a partial update of the profile; absent fields are unchanged.
type SettingsRequest struct {
	Username *string       `json:"username"`
	Bio      *string       `json:"bio"`
	Preset   *string       `json:"preset"`
	Theme    *models.Theme `json:"theme"`
}

func UpdateSettingsHandler(profiles *services.ProfileService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		profile, err := profiles.UpdateSettings(c.Request.Context(), currentProfileID(c), services.SettingsInput{
			Username: req.Username,
			Bio:      req.Bio,
			Preset:   req.Preset,
			Theme:    req.Theme,
		})
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UploadAvatarHandler expects a multipart form with an "avatar" file.
func UploadAvatarHandler(profiles *services.ProfileService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing avatar file"})
			return
		}
		file, err := header.Open()
		if err != nil {
			respondError(c, log, err)
			return
		}
		defer file.Close()

		profile, err := profiles.UploadAvatar(c.Request.Context(), currentProfileID(c), file)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// LinkRequest is the body for creating or updating a link.
type LinkRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required"`
	Icon  string `json:"icon"`
}

func (r LinkRequest) input() services.LinkInput {
	return services.LinkInput{Title: r.Title, URL: r.URL, Icon: r.Icon}
}

func ListLinksHandler(links *services.LinkService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := links.ListLinks(c.Request.Context(), currentProfileID(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"links": list})
	}
}

func CreateLinkHandler(links *services.LinkService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		link, err := links.CreateLink(c.Request.Context(), currentProfileID(c), req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}

func UpdateLinkHandler(links *services.LinkService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		link, err := links.UpdateLink(c.Request.Context(), currentProfileID(c), c.Param("id"), req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

func DeleteLinkHandler(links *services.LinkService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := links.DeleteLink(c.Request.Context(), currentProfileID(c), c.Param("id")); err != nil {
			respondError(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ReorderRequest moves one link to the slot currently held by another.
type ReorderRequest struct {
	MovedID  string `json:"moved_id" binding:"required"`
	TargetID string `json:"target_id" binding:"required"`
}

// ReorderResponse always carries the new order. FailedIDs lists links whose
// order key could not be saved; the response is then 207 Multi-Status.
type ReorderResponse struct {
	Links     []models.Link `json:"links"`
	FailedIDs []string      `json:"failed_ids,omitempty"`
}

func ReorderLinksHandler(links *services.LinkService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := links.MoveLink(c.Request.Context(), currentProfileID(c), req.MovedID, req.TargetID)
		if err != nil {
			respondError(c, log, err)
			return
		}

		status := http.StatusOK
		if !res.OK() {
			status = http.StatusMultiStatus
		}
		c.JSON(status, ReorderResponse{Links: res.Links, FailedIDs: res.FailedIDs()})
	}
}

// DomainRequest is the body for creating or updating a domain listing.
type DomainRequest struct {
	DomainName  string          `json:"domain_name" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	BuyURL      string          `json:"buy_url"`
}

func (r DomainRequest) input() services.DomainInput {
	return services.DomainInput{
		DomainName:  r.DomainName,
		Price:       r.Price,
		Description: r.Description,
		BuyURL:      r.BuyURL,
	}
}

func ListDomainsHandler(domains *services.DomainService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := domains.ListDomains(c.Request.Context(), currentProfileID(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"domains": list})
	}
}

func CreateDomainHandler(domains *services.DomainService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DomainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		domain, err := domains.CreateDomain(c.Request.Context(), currentProfileID(c), req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, domain)
	}
}

func UpdateDomainHandler(domains *services.DomainService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DomainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		domain, err := domains.UpdateDomain(c.Request.Context(), currentProfileID(c), c.Param("id"), req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, domain)
	}
}

func DeleteDomainHandler(domains *services.DomainService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domains.DeleteDomain(c.Request.Context(), currentProfileID(c), c.Param("id")); err != nil {
			respondError(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// AnalyticsHandler returns click totals for every link and domain of the caller.
func AnalyticsHandler(analytics *services.AnalyticsService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := analytics.Report(c.Request.Context(), currentProfileID(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

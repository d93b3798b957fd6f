package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/axellelanca/linkbio/internal/auth"
	"github.com/axellelanca/linkbio/internal/metrics"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/services"
)

// ClickRecorder accepts click events without blocking the request.
type ClickRecorder interface {
	Record(event models.ClickEvent) error
}

// Dependencies groups everything the handlers need.
type Dependencies struct {
	Profiles  *services.ProfileService
	Links     *services.LinkService
	Domains   *services.DomainService
	Analytics *services.AnalyticsService
	Clicks    ClickRecorder
	Tokens    *auth.TokenService
	AvatarFS  http.FileSystem
	Log       *zap.Logger
}

// SetupRoutes configures all Gin routes and injects the dependencies.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	metrics.Init()
	router.Use(RequestLogger(deps.Log), Metrics())

	router.GET("/health", HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.AvatarFS != nil {
		router.StaticFS("/avatars", deps.AvatarFS)
	}

	// Public redirects record a click, then send the visitor on.
	tracked := router.Group("/", BotFilter())
	{
		tracked.GET("/l/:linkID", LinkRedirectHandler(deps.Links, deps.Clicks, deps.Log))
		tracked.GET("/d/:domainID", DomainRedirectHandler(deps.Domains, deps.Clicks, deps.Log))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/signup", SignUpHandler(deps.Profiles, deps.Log))
		v1.POST("/auth/login", LogInHandler(deps.Profiles, deps.Log))
		v1.GET("/themes", ThemesHandler)

		public := v1.Group("/public")
		{
			public.GET("/:username", PublicProfileHandler(deps.Profiles, deps.Log))
			public.POST("/clicks", BotFilter(), RecordClickHandler(deps.Clicks))
		}

		owner := v1.Group("/", RequireAuth(deps.Tokens))
		{
			owner.GET("/me", GetMeHandler(deps.Profiles, deps.Log))
			owner.PUT("/me", UpdateSettingsHandler(deps.Profiles, deps.Log))
			owner.POST("/me/avatar", UploadAvatarHandler(deps.Profiles, deps.Log))

			owner.GET("/links", ListLinksHandler(deps.Links, deps.Log))
			owner.POST("/links", CreateLinkHandler(deps.Links, deps.Log))
			owner.POST("/links/reorder", ReorderLinksHandler(deps.Links, deps.Log))
			owner.PUT("/links/:id", UpdateLinkHandler(deps.Links, deps.Log))
			owner.DELETE("/links/:id", DeleteLinkHandler(deps.Links, deps.Log))

			owner.GET("/domains", ListDomainsHandler(deps.Domains, deps.Log))
			owner.POST("/domains", CreateDomainHandler(deps.Domains, deps.Log))
			owner.PUT("/domains/:id", UpdateDomainHandler(deps.Domains, deps.Log))
			owner.DELETE("/domains/:id", DeleteDomainHandler(deps.Domains, deps.Log))

			owner.GET("/analytics", AnalyticsHandler(deps.Analytics, deps.Log))
		}
	}
}

// HealthCheckHandler handles the /health route to verify service status.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

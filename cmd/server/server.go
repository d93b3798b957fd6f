package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/api"
	"github.com/axellelanca/linkbio/internal/auth"
	"github.com/axellelanca/linkbio/internal/database"
	"github.com/axellelanca/linkbio/internal/monitor"
	"github.com/axellelanca/linkbio/internal/repository"
	"github.com/axellelanca/linkbio/internal/services"
	"github.com/axellelanca/linkbio/internal/storage"
	"github.com/axellelanca/linkbio/internal/workers"
)

const shutdownTimeout = 10 * time.Second

// RunServerCmd starts the HTTP API together with the click workers and the URL monitor.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Start the API server and background workers",
	Long: `Opens and migrates the database, starts the click recording workers
and the URL monitor, then serves the HTTP API until SIGINT or SIGTERM.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServer()
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}

func runServer() error {
	cfg, log := cmd.Cfg, cmd.Log
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := cmd.OpenDatabase()
	if err != nil {
		return err
	}
	defer database.Close(db)

	linkRepo := repository.NewLinkRepository(db)
	domainRepo := repository.NewDomainRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	clickRepo := repository.NewClickRepository(db)
	log.Info("Repositories initialized")

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	avatars := storage.NewOSAvatarStore(cfg.Storage.AvatarDir, cfg.Storage.AvatarBaseURL, cfg.Storage.MaxAvatarBytes)

	recorder := workers.NewClickRecorder(cfg.Analytics.BufferSize, clickRepo, log.Named("clicks"))
	recorder.Start(cfg.Analytics.WorkerCount)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitorDone := make(chan struct{})
	if cfg.Monitor.Enabled {
		interval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
		urlMonitor := monitor.NewUrlMonitor(linkRepo, domainRepo, interval, log.Named("monitor"))
		go func() {
			defer close(monitorDone)
			urlMonitor.Start(ctx)
		}()
	} else {
		close(monitorDone)
	}

	gin.SetMode(gin.ReleaseMode)
	if cfg.Log.Development {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, api.Dependencies{
		Profiles:  services.NewProfileService(profileRepo, linkRepo, domainRepo, tokens, avatars, log),
		Links:     services.NewLinkService(linkRepo, log),
		Domains:   services.NewDomainService(domainRepo, log),
		Analytics: services.NewAnalyticsService(linkRepo, domainRepo, clickRepo),
		Clicks:    recorder,
		Tokens:    tokens,
		AvatarFS:  avatars.FileSystem(),
		Log:       log.Named("http"),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", srv.Addr), zap.String("base_url", cfg.Server.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			stop()
			recorder.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	// No request can enqueue anymore: drain pending clicks.
	recorder.Stop()
	<-monitorDone
	log.Info("Server stopped")
	return nil
}

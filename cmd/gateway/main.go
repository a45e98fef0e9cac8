package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openemr/gateway/internal/config"
	"github.com/openemr/gateway/internal/domain/fhirproxy"
	"github.com/openemr/gateway/internal/domain/nativeapi"
	"github.com/openemr/gateway/internal/domain/oauth"
	"github.com/openemr/gateway/internal/platform/middleware"
	"github.com/openemr/gateway/internal/platform/tokenstore"
	"github.com/openemr/gateway/internal/platform/upstream"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "openemr-gateway",
		Short: "API gateway for an OpenEMR instance",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Upstream client
	clientOpts := []upstream.Option{
		upstream.WithTimeout(time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second),
	}
	if cfg.UpstreamTLSSkipVerify {
		// OpenEMR ships with a self-signed certificate out of the box.
		clientOpts = append(clientOpts, upstream.WithInsecureTLS())
		logger.Warn().Msg("upstream TLS verification disabled")
	}
	client := upstream.NewClient(cfg.APIBase(), logger, clientOpts...)

	// Token store lives for the process lifetime only.
	store := tokenstore.NewMemoryStore()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Service info
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"name":        "OpenEMR API Gateway",
			"version":     version,
			"openemr_url": cfg.BaseURL,
		})
	})

	// Route groups
	oauthSvc := oauth.NewService(cfg, store, client, logger)
	oauth.NewHandler(oauthSvc).RegisterRoutes(e.Group("/oauth"))
	fhirproxy.NewHandler(client, logger).RegisterRoutes(e.Group("/fhir"))
	nativeapi.NewHandler(client, logger).RegisterRoutes(e.Group("/api"))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("openemr_url", cfg.BaseURL).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rxguard/rxguard/internal/config"
	"github.com/rxguard/rxguard/internal/domain/analysis"
	"github.com/rxguard/rxguard/internal/domain/drug"
	"github.com/rxguard/rxguard/internal/domain/patient"
	"github.com/rxguard/rxguard/internal/platform/auth"
	"github.com/rxguard/rxguard/internal/platform/extraction"
	"github.com/rxguard/rxguard/internal/platform/middleware"
	"github.com/rxguard/rxguard/internal/seed"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rxguard-server",
		Short: "Prescription safety analysis API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Inspect seed data",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the seed data into a scratch store and report integrity errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")

			data, err := seed.Load(path)
			if err != nil {
				return err
			}

			drugs := drug.NewService(drug.NewMemRepository())
			patients := patient.NewService(patient.NewMemRepository())
			if err := seed.Apply(context.Background(), data, drugs, patients); err != nil {
				return fmt.Errorf("seed data invalid: %w", err)
			}

			fmt.Printf("Seed data OK: %d drug(s), %d interaction(s), %d patient(s)\n",
				len(data.Drugs), len(data.Interactions), len(data.Patients))
			return nil
		},
	}
	validateCmd.Flags().String("file", "", "Path to a seed JSON file (built-in data when empty)")
	cmd.AddCommand(validateCmd)

	return cmd
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
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Stores and services
	drugSvc := drug.NewService(drug.NewMemRepository())
	patientSvc := patient.NewService(patient.NewMemRepository())

	// Knowledge base bootstrap. Integrity errors here are data-definition
	// bugs and must halt startup.
	ctx := context.Background()
	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load seed data")
	}
	if err := seed.Apply(ctx, data, drugSvc, patientSvc); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed knowledge base")
	}
	logger.Info().
		Int("drugs", len(data.Drugs)).
		Int("interactions", len(data.Interactions)).
		Int("patients", len(data.Patients)).
		Msg("knowledge base loaded")

	// Extraction collaborator: the hosted model when an API key is
	// configured, the offline rule-based parser otherwise.
	var extractor extraction.Extractor
	if cfg.ExtractorAPIKey != "" {
		opts := []extraction.GeminiOption{}
		if cfg.ExtractorURL != "" {
			opts = append(opts, extraction.WithBaseURL(cfg.ExtractorURL))
		}
		extractor = extraction.NewGeminiExtractor(cfg.ExtractorAPIKey, cfg.ExtractorModel, cfg.ExtractionTimeout(), opts...)
		logger.Info().Str("model", cfg.ExtractorModel).Msg("using hosted extraction model")
	} else {
		extractor = extraction.NewRuleExtractor()
		logger.Warn().Msg("no EXTRACTOR_API_KEY set, falling back to rule-based extraction")
	}

	analysisSvc := analysis.NewService(drugSvc, patientSvc, extractor, analysis.NewMemRepository())

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

	// Auth middleware
	switch cfg.ResolvedAuthMode() {
	case "development":
		e.Use(auth.DevAuthMiddleware())
	default:
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.JWTSigningKey),
		}))
	}

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Domain handlers
	drug.NewHandler(drugSvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	analysis.NewHandler(analysisSvc).RegisterRoutes(apiV1)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

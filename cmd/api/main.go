package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/care-portal/cmd/mainconfig"
	"github.com/wolfman30/care-portal/internal/analysis"
	"github.com/wolfman30/care-portal/internal/api/router"
	appconfig "github.com/wolfman30/care-portal/internal/config"
	"github.com/wolfman30/care-portal/internal/doctors"
	"github.com/wolfman30/care-portal/internal/facilities"
	"github.com/wolfman30/care-portal/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/care-portal/internal/http/middleware"
	"github.com/wolfman30/care-portal/internal/notify"
	"github.com/wolfman30/care-portal/internal/observability/metrics"
	"github.com/wolfman30/care-portal/internal/symptoms"
	"github.com/wolfman30/care-portal/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting care-portal API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx := context.Background()
	metricsHandler, analysisMetrics, facilityMetrics := setupMetrics()

	llm, closeLLM, err := setupLLM(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize LLM client", "error", err)
		os.Exit(1)
	}
	defer closeLLM()

	mailer := notify.NewReportMailer(setupEmailSender(ctx, cfg, logger), cfg.EmailCopyAllowedDomains, logger)
	symptomService := symptoms.NewService(llm, symptomsConfig(cfg), logger,
		symptoms.WithReportSender(mailer),
		symptoms.WithMetrics(analysisMetrics),
	)

	redisClient := connectRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	finder := setupFinder(cfg, redisClient, facilityMetrics, logger)

	directory := loadDirectory(cfg.DoctorDirectoryPath, logger)

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stopEvict := make(chan struct{})
	go limiter.Run(time.Minute, stopEvict)
	defer close(stopEvict)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		SymptomChecker:     handlers.NewSymptomCheckerHandler(symptomService, cfg.MaxImageBytes, logger),
		AnalysisRender:     handlers.NewAnalysisRenderHandler(emptySectionPolicy(cfg.EmptySectionPolicy), analysisMetrics, logger),
		Facilities:         handlers.NewFacilitiesHandler(finder, logger),
		Doctors:            handlers.NewDoctorsHandler(directory, logger),
		Scheduling:         handlers.NewSchedulingHandler(directory, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})

	// Create HTTP server. Model calls can take most of the analysis timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.AnalysisTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.AnalysisMetrics, *metrics.FacilityMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return handler, metrics.NewAnalysisMetrics(reg), metrics.NewFacilityMetrics(reg)
}

// setupLLM builds the client for the configured provider. The returned func
// releases it.
func setupLLM(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (symptoms.LLMClient, func(), error) {
	switch cfg.LLMProvider {
	case "gemini":
		client, err := symptoms.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiTextModel)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close gemini client", "error", err)
			}
		}, nil
	case "bedrock":
		if cfg.BedrockModelID == "" {
			return nil, nil, errors.New("BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		return symptoms.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func symptomsConfig(cfg *appconfig.Config) symptoms.Config {
	sc := symptoms.Config{
		Provider:      cfg.LLMProvider,
		MaxTokens:     2048,
		Temperature:   -1,
		MaxImageBytes: cfg.MaxImageBytes,
		Timeout:       cfg.AnalysisTimeout,
		EmptySection:  emptySectionPolicy(cfg.EmptySectionPolicy),
	}
	if cfg.LLMProvider == "bedrock" {
		sc.TextModel = cfg.BedrockModelID
		sc.VisionModel = cfg.BedrockModelID
	} else {
		sc.TextModel = cfg.GeminiTextModel
		sc.VisionModel = cfg.GeminiVisionModel
	}
	return sc
}

func emptySectionPolicy(name string) analysis.EmptySectionPolicy {
	if name == "placeholder" {
		return analysis.EmptySectionsPlaceholder
	}
	return analysis.EmptySectionsDrop
}

// setupEmailSender returns nil when no provider is configured; the report
// mailer then logs instead of sending.
func setupEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but SENDGRID_API_KEY is empty; email copies disabled")
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("failed to load aws config for SES; email copies disabled", "error", err)
			return nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.EmailFromName,
		}, logger)
	case "":
	default:
		logger.Warn("unknown EMAIL_PROVIDER; email copies disabled", "provider", cfg.EmailProvider)
	}
	return nil
}

// connectRedis returns nil when no address is configured or the server is
// unreachable; geocoding then runs uncached.
func connectRedis(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable; geocode cache disabled", "error", err, "addr", cfg.RedisAddr)
		_ = client.Close()
		return nil
	}
	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	return client
}

func setupFinder(cfg *appconfig.Config, redisClient *redis.Client, m *metrics.FacilityMetrics, logger *logging.Logger) *facilities.Finder {
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	var cache facilities.GeocodeCache
	if redisClient != nil {
		cache = facilities.NewRedisGeocodeCache(redisClient, cfg.GeocodeCacheTTL)
	}
	geocoder := facilities.NewNominatimGeocoder(facilities.NominatimConfig{
		Endpoint:          cfg.NominatimURL,
		UserAgent:         cfg.NominatimUserAgent,
		RequestsPerSecond: cfg.NominatimRPS,
	}, httpClient, cache, m, logger)
	overpass := facilities.NewOverpassClient(cfg.OverpassURL, httpClient, m)
	return facilities.NewFinder(overpass, geocoder, cfg.FacilityRadiusMeters, logger)
}

// loadDirectory reads the doctor directory. A missing path serves an empty
// directory so the rest of the portal still works.
func loadDirectory(path string, logger *logging.Logger) *doctors.Directory {
	if path == "" {
		logger.Warn("DOCTOR_DIRECTORY_PATH not set; doctor finder is empty")
		return doctors.NewDirectory(nil)
	}
	dir, err := doctors.LoadFile(path)
	if err != nil {
		logger.Error("failed to load doctor directory", "error", err, "path", path)
		return doctors.NewDirectory(nil)
	}
	logger.Info("loaded doctor directory", "doctors", dir.Len())
	return dir
}

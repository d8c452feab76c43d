package main

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/oceanbreeze-dev/orgcert-backend/config"
	"github.com/oceanbreeze-dev/orgcert-backend/handlers"
	"github.com/oceanbreeze-dev/orgcert-backend/services"
	"github.com/oceanbreeze-dev/orgcert-backend/shared"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", cfg.LogLevel)
	}

	if cfg.CertKey == "" {
		logrus.Fatal("NFQS_CERT_KEY is required")
	}

	metrics := shared.NewMetrics()

	// Upstream fetcher with pooled HTTP client and bounded timeout
	fetcherConfig := config.DefaultFetcherConfig()
	fetcherConfig.BaseURL = cfg.UpstreamURL
	fetcherConfig.CertKey = cfg.CertKey
	fetcherConfig.HTTPTimeout = cfg.GetHTTPTimeout()

	clientFactory := shared.NewHTTPClientFactory(fetcherConfig.HTTPTimeout)
	defer clientFactory.CleanupAllClients()
	fetcher := services.NewNFQSFetcher(fetcherConfig, clientFactory)

	// Snapshot cache in front of the upstream; refresh is lazy, driven only
	// by incoming queries
	store := services.NewRecordStore(fetcher, cfg.GetCacheTTL(), metrics)
	queryService := services.NewQueryService()

	certHandler := handlers.NewCertHandler(store, queryService, metrics)

	logrus.WithFields(logrus.Fields{
		"upstream":  fetcherConfig.BaseURL,
		"cache_ttl": cfg.GetCacheTTL(),
		"timeout":   fetcherConfig.HTTPTimeout,
	}).Info("Certification query backend initialized")

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok": true,
		})
	})

	// Routes
	app.Get("/search", certHandler.Search)
	app.Get("/expiry", certHandler.Expiry)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Start server
	logrus.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}

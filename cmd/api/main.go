package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocktracker/internal/cache"
	"stocktracker/internal/config"
	"stocktracker/internal/database"
	"stocktracker/internal/handlers"
	"stocktracker/internal/jobs"
	"stocktracker/internal/logger"
	"stocktracker/internal/middleware"
	"stocktracker/internal/notify"
	"stocktracker/internal/quotes"
	"stocktracker/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Quote cache: Redis when reachable, in-process otherwise
	var quoteCache cache.Cache
	redisCache := cache.NewRedisCache(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.Warnw("Redis unreachable, falling back to in-process cache",
			"addr", appConfig.RedisAddr, "error", err)
		quoteCache = cache.NewMemoryCache()
	} else {
		quoteCache = redisCache
		defer func() { _ = redisCache.Close() }()
	}
	cancel()

	// Quote provider and notifier
	provider := quotes.NewAlphaVantageProvider(&http.Client{Timeout: appConfig.QuoteTimeout}, appConfig.AlphaVantageKey)
	notifier := notify.NewSMTPNotifier(
		appConfig.SMTPHost, appConfig.SMTPPort,
		appConfig.SMTPUser, appConfig.SMTPPassword, appConfig.SMTPFrom,
	)

	// Initialize services
	db := dbManager.DB()
	portfolioService := services.NewPortfolioService(db)
	holdingService := services.NewHoldingService(db)
	alertService := services.NewAlertService(db)
	priceService := services.NewPriceService(db, quoteCache, provider, services.PriceConfig{
		QuoteTimeout: appConfig.QuoteTimeout,
		QuoteTTL:     appConfig.QuoteCacheTTL,
		SyntheticTTL: appConfig.SyntheticCacheTTL,
	})
	valuationService := services.NewValuationService(priceService)
	riskService := services.NewRiskService(
		quoteCache, valuationService, priceService,
		services.NewStaticBetaSource(), appConfig.RiskCacheTTL,
	)

	// Background jobs
	alertMonitor := jobs.NewAlertMonitor(alertService, priceService, notifier)
	alertMonitor.AutoDeactivate = appConfig.AlertAutoDeactivate
	if err := alertMonitor.Start(appConfig.AlertCheckInterval); err != nil {
		return fmt.Errorf("failed to start alert monitor: %w", err)
	}
	defer alertMonitor.Stop()

	pricePump := jobs.NewPriceUpdatePump(priceService, appConfig.PriceUpdateSymbols, appConfig.PriceFetchDelay)
	if err := pricePump.Start(appConfig.PriceUpdateInterval); err != nil {
		return fmt.Errorf("failed to start price update pump: %w", err)
	}
	defer pricePump.Stop()

	// Initialize handlers
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	holdingHandler := handlers.NewHoldingHandler(holdingService)
	alertHandler := handlers.NewAlertHandler(alertService)
	stockHandler := handlers.NewStockHandler(priceService)
	analyticsHandler := handlers.NewAnalyticsHandler(portfolioService, holdingService, valuationService, riskService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Portfolio routes
	portfolios := v1.Group("/portfolios")
	portfolios.POST("", portfolioHandler.CreatePortfolio)
	portfolios.GET("", portfolioHandler.GetPortfolios)
	portfolios.GET("/:id", portfolioHandler.GetPortfolio)
	portfolios.PUT("/:id", portfolioHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)

	// Holdings nested under portfolios
	portfolios.POST("/:id/holdings", holdingHandler.CreateHolding)
	portfolios.GET("/:id/holdings", holdingHandler.GetHoldings)

	// Alerts nested under portfolios
	portfolios.POST("/:id/alerts", alertHandler.CreateAlert)
	portfolios.GET("/:id/alerts", alertHandler.GetAlerts)

	// Analytics
	portfolios.GET("/:id/valuation", analyticsHandler.GetValuation)
	portfolios.GET("/:id/risk/beta", analyticsHandler.GetBeta)
	portfolios.GET("/:id/risk/var", analyticsHandler.GetVaR)
	portfolios.GET("/:id/risk/sectors", analyticsHandler.GetSectorConcentration)

	// Holding routes
	holdings := v1.Group("/holdings")
	holdings.GET("/:id", holdingHandler.GetHolding)
	holdings.PUT("/:id", holdingHandler.UpdateHolding)
	holdings.DELETE("/:id", holdingHandler.DeleteHolding)

	// Alert routes
	alerts := v1.Group("/alerts")
	alerts.POST("/:id/deactivate", alertHandler.DeactivateAlert)
	alerts.DELETE("/:id", alertHandler.DeleteAlert)

	// Stock routes
	stocks := v1.Group("/stocks")
	stocks.GET("/:symbol/price", stockHandler.GetPrice)
	stocks.POST("/prices", stockHandler.GetPrices)
	stocks.GET("/:symbol/history", stockHandler.GetHistory)

	srv := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting stocktracker backend server on port %s", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Infow("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

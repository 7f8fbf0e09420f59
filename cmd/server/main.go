package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ambudispatch/internal/config"
	"ambudispatch/internal/handlers"
	"ambudispatch/internal/middleware"
	"ambudispatch/internal/repositories/mongodb"
	"ambudispatch/internal/services"
	"ambudispatch/internal/tracking"
	"ambudispatch/internal/utils"
	"ambudispatch/pkg/cache"
	"ambudispatch/pkg/database"
	"ambudispatch/pkg/logger"
	"ambudispatch/pkg/routing"
	"ambudispatch/pkg/sms"
	"ambudispatch/routes"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Infrastructure
	mongo, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongo.Close()

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	smsProvider := sms.NewTwilioProvider(
		cfg.SMS.Twilio.AccountSID,
		cfg.SMS.Twilio.AuthToken,
		cfg.SMS.Twilio.FromNumber,
	)
	routeProvider := routing.NewOSRMProvider(
		cfg.Routing.BaseURL,
		cfg.Routing.Profile,
		cfg.Routing.Timeout,
		appLogger,
	)

	// Repositories
	ambulanceRepo := mongodb.NewAmbulanceRepository(mongo.Database)
	sosRepo := mongodb.NewSOSRepository(mongo.Database)
	bookingRepo := mongodb.NewBookingRepository(mongo.Database)
	userDirectory := mongodb.NewUserDirectory(mongo.Database)

	// Live tracking
	hub := tracking.NewHub(appLogger)
	simulator := tracking.NewSimulator(hub, routeProvider, bookingRepo, sosRepo, cfg.Tracking, appLogger)

	// Services
	otpService := services.NewOTPService(
		redisCache,
		smsProvider,
		cfg.App.Name,
		cfg.Security.OTPLength,
		cfg.Security.OTPExpiry,
		cfg.SMS.Enabled,
		cfg.App.IsDevelopment(),
		appLogger,
	)
	fleetService := services.NewFleetService(ambulanceRepo, appLogger)
	sosService := services.NewSOSService(sosRepo, bookingRepo, userDirectory, fleetService, otpService, hub, appLogger)

	// Handlers
	sosHandler := handlers.NewSOSHandler(sosService)
	trackingHandler := handlers.NewTrackingHandler(hub, simulator, cfg.App, cfg.Tracking, appLogger)
	fleetHandler := handlers.NewFleetHandler(fleetService)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupSOSRoutes(v1, sosHandler)
		routes.SetupTrackingRoutes(v1, trackingHandler)
		routes.SetupFleetRoutes(v1, fleetHandler)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": utils.AppName,
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting %s on %s", cfg.App.Name, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}

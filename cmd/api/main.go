package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/config"
	"SensorHubAPI/internal/database"
	"SensorHubAPI/internal/evaluator"
	"SensorHubAPI/internal/handler"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/middleware"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/mqtt"
	"SensorHubAPI/internal/notification"
	"SensorHubAPI/internal/ratelimit"
	"SensorHubAPI/internal/repository"
	"SensorHubAPI/internal/server"
	"SensorHubAPI/internal/service"
	"SensorHubAPI/internal/websocket"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		// Fallback logger since main logger isn't ready
		panic("Failed to load configuration: " + err.Error())
	}

	// 2. Initialize Logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Mode:        cfg.Logging.Mode,
		LogFilePath: cfg.Logging.FilePath,
		UseColors:   cfg.Logging.UseColors,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: %v", err)
	}

	cfg.Print()
	log.Info("Starting SensorHub API Server")

	// 3. Database Connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Info("Database connected successfully")

	ctx := context.Background()
	if err := db.Health(ctx); err != nil {
		log.Fatal("Database health check failed: %v", err)
	}

	if cfg.Database.AutoMigrate {
		applied, err := db.Migrate(ctx)
		if err != nil {
			log.Fatal("Database migration failed: %v", err)
		}
		log.Info("Applied %d migrations", len(applied))
	}

	// 4. Initialize Repositories
	deviceRepo := repository.NewDeviceRepository(db.DB)
	deviceTypeRepo := repository.NewDeviceTypeRepository(db.DB)
	ruleRepo := repository.NewRuleRepository(db.DB)
	alertRepo := repository.NewAlertRepository(db.DB)
	telemetryRepo := repository.NewTelemetryRepository(db.DB)
	commandRepo := repository.NewCommandRepository(db.DB)
	tenantRepo := repository.NewTenantRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	apiKeyRepo := repository.NewAPIKeyRepository(db.DB)

	// 5. Realtime Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	hub := websocket.NewHub(log)
	go hub.Run(hubCtx)

	// 6. Notification Dispatcher
	channels, err := notification.LoadChannels(cfg.Notification.ChannelsFile)
	if err != nil {
		log.Fatal("Failed to load notification channels: %v", err)
	}

	dispatcher := notification.NewDispatcher(notification.Config{
		Workers:      cfg.Notification.Workers,
		QueueSize:    cfg.Notification.QueueSize,
		MaxAttempts:  cfg.Notification.MaxAttempts,
		RetryBackoff: cfg.Notification.RetryBackoff,
		RatePerSec:   cfg.Notification.RatePerSec,
	}, notification.NewTenantRecipients(tenantRepo, cfg.Monitor.AdminEmails), log)

	dispatcher.Register(models.ChannelEmail, notification.NewEmailSender(cfg.Notification.SMTP))
	dispatcher.Register(models.ChannelSMS, notification.NewSMSSender(ctx, cfg.Notification.SMS))
	dispatcher.Register(models.ChannelRealtime, notification.NewRealtimeSender(hub))
	if len(channels.Webhooks) > 0 {
		dispatcher.Register(models.ChannelWebhook, notification.NewWebhookSender(channels.Webhooks))
	}
	dispatcher.Start()

	// 7. MQTT Client (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.NewClient(mqtt.ClientConfig{
			MQTT:   &cfg.MQTT,
			Logger: log,
		})
		if err != nil {
			log.Fatal("Failed to create MQTT client: %v", err)
		}
		if err := mqttClient.Connect(); err != nil {
			log.Fatal("Failed to connect to MQTT broker: %v", err)
		}
	} else {
		log.Warn("MQTT disabled, device commands are unavailable")
	}

	// 8. Initialize Services
	var verifier auth.PasswordVerifier = auth.LocalVerifier{}
	if cfg.LDAP.Enabled {
		verifier = auth.NewLDAPVerifier(cfg.LDAP)
		log.Info("Using LDAP authentication at %s", cfg.LDAP.URL)
	}
	tokens := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, time.Duration(cfg.Security.JWTExpirationHours)*time.Hour)

	var publisher service.CommandPublisher
	if mqttClient != nil {
		publisher = mqttClient
	}

	ruleEvaluator := evaluator.New(ruleRepo, alertRepo, log)
	telemetryService := service.NewTelemetryService(deviceRepo, deviceTypeRepo, telemetryRepo, ruleEvaluator, dispatcher, hub, log)
	ruleService := service.NewRuleService(ruleRepo, deviceTypeRepo, log)
	alertService := service.NewAlertService(alertRepo, hub, log)
	deviceService := service.NewDeviceService(deviceRepo, deviceTypeRepo, log)
	commandService := service.NewCommandService(commandRepo, deviceRepo, publisher, log)
	reportService := service.NewReportService(deviceRepo, deviceTypeRepo, telemetryRepo, alertRepo, service.ReportConfig{
		DefaultWindow: cfg.Reports.DefaultWindow,
		MaxWindow:     cfg.Reports.MaxWindow,
	}, log)
	authService := service.NewAuthService(userRepo, apiKeyRepo, tokens, verifier, service.AuthConfig{
		TOTPIssuer:  cfg.Security.TOTPIssuer,
		RequireTOTP: cfg.Security.RequireTOTP,
	}, log)

	monitor := service.NewDeviceMonitor(deviceRepo, alertRepo, dispatcher, hub, service.MonitorConfig{
		Threshold:      cfg.Monitor.OfflineThreshold,
		Interval:       cfg.Monitor.Interval,
		AlertRetention: cfg.Monitor.AlertRetention,
	}, log)
	monitor.Start()

	// 9. MQTT Subscriptions
	if mqttClient != nil {
		if err := mqttClient.Route(telemetryService, commandService); err != nil {
			log.Fatal("Failed to subscribe to device topics: %v", err)
		}
		log.Info("MQTT subscriptions active")
	}

	// 10. Initialize Handlers
	authn := middleware.NewAuthenticator(tokens, apiKeyRepo, cfg.Security.APIKeyHeader, log)

	var broker handler.BrokerStatus
	if mqttClient != nil {
		broker = mqttClient
	}

	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		Telemetry: handler.NewTelemetryHandler(telemetryService, log),
		Rules:     handler.NewRuleHandler(ruleService, log),
		Alerts:    handler.NewAlertHandler(alertService, log),
		Devices:   handler.NewDeviceHandler(deviceService, telemetryService, log),
		Commands:  handler.NewCommandHandler(commandService, log),
		Reports:   handler.NewReportHandler(reportService, log),
		Health:    handler.NewHealthHandler(db, broker, monitor, log),
		Realtime:  handler.NewRealtimeHandler(hub, authn, log),
	}

	var limiter *ratelimit.MemoryStore
	var limitStore ratelimit.Store
	if cfg.Security.EnableRateLimit {
		limiter = ratelimit.NewMemoryStore(cfg.Security.RateLimitPerMinute, cfg.Security.RateLimitBurst, 10*time.Minute)
		limiter.StartCleanup(time.Minute)
		limitStore = limiter
	}

	// 11. Start HTTP Server
	srv := server.New(cfg, log)
	srv.RegisterHandlers(handlers, authn, limitStore)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Server failed: %v", err)
		}
	}()

	log.Info("API server ready on http://%s:%d", cfg.Server.Host, cfg.Server.Port)

	// 12. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error: %v", err)
	}

	monitor.Shutdown()
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error("Notification dispatcher shutdown error: %v", err)
	}
	if limiter != nil {
		limiter.Stop()
	}
	stopHub()

	log.Info("Shutdown complete")
}

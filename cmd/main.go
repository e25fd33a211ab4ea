package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"quoting-service/internal/config"
	"quoting-service/internal/database/postgres"
	"quoting-service/internal/database/redis"
	"quoting-service/internal/event"
	"quoting-service/internal/handlers"
	"quoting-service/internal/repository"
	"quoting-service/internal/services"
	"quoting-service/internal/worker"
	"quoting-service/utils"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/quoting", "log", "quoting_service")
	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	// Submission audit log. The external proposal endpoint is the system of
	// record, so a missing database delays auditing instead of blocking boot.
	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)
	db, err := postgres.Connect(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connecting to database: %s", err)
		go postgres.RetryOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// Notification pipeline is optional: without the broker, submissions
	// still succeed and only the event is lost.
	var publisher *event.ProposalPublisher
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("error connecting to RabbitMQ, proposal events disabled: %s", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewProposalPublisher(rabbitConn)
	}

	// repositories
	formStateRepository := repository.NewFormStateRepository(redisClient.GetClient())
	var proposalRepository repository.ProposalRepository
	if db != nil {
		proposalRepository = repository.NewProposalRepository(db)
	}

	// services
	insurerClient := services.NewInsurerClient(cfg.InsurerCfg)
	addressService := services.NewAddressService(cfg.AddressCfg)
	wizardService := services.NewWizardService(formStateRepository)
	coverageService := services.NewCoverageService()
	quoteService := services.NewQuoteService(insurerClient, coverageService, cfg.InsurerCfg.PreferredProductID)
	widgetBridge := services.NewWidgetBridge(cfg.WidgetCfg, insurerClient, wizardService, coverageService)
	proposalService := services.NewProposalService(insurerClient, coverageService, proposalRepository, publisher)

	// background workers
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	janitor := worker.NewSessionJanitor(wizardService, coverageService, 10*time.Minute, 2*time.Hour)
	go janitor.Run(janitorCtx)

	app := fiber.New()

	app.Get("/checkhealth", func(c fiber.Ctx) error {
		health := map[string]interface{}{
			"service": "quoting-service",
			"redis":   true,
		}
		health["postgres"] = db != nil && db.Ping() == nil
		if publisher != nil {
			health["publisher"] = publisher.HealthCheck()
		}
		return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(health))
	})

	// handlers
	handlers.NewWizardHandler(wizardService).Register(app)
	handlers.NewCoverageHandler(wizardService, quoteService, coverageService).Register(app)
	handlers.NewWidgetHandler(wizardService, widgetBridge).Register(app)
	handlers.NewProposalHandler(wizardService, proposalService).Register(app)
	handlers.NewLookupHandler(insurerClient, addressService).Register(app)

	log.Printf("Starting quoting-service on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

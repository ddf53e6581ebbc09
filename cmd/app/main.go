package main

import (
	"fmt"
	"log/slog"
	"os"

	"mealmatch/cmd"
	"mealmatch/internal/adapters/in/http"
	"mealmatch/internal/adapters/out/postgres/assignmentrepo"
	"mealmatch/internal/adapters/out/postgres/orderrepo"
	"mealmatch/internal/adapters/out/postgres/providerrepo"
	"mealmatch/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustOpenDatabase(configs)

	app := cmd.NewCompositionRoot(configs, gormDB)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := jobs.NewJobManager(app.CreateAssignOrderCommandHandler(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatalf("Error loading .env file")
	}

	return cmd.Config{
		HTTPPort:          os.Getenv("HTTP_PORT"),
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            os.Getenv("DB_PORT"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBSslMode:         os.Getenv("DB_SSLMODE"),
		RedisHost:         os.Getenv("REDIS_HOST"),
		RedisEventChannel: os.Getenv("REDIS_EVENT_CHANNEL"),
	}
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&providerrepo.ProviderDTO{},
		&orderrepo.OrderDTO{},
		&assignmentrepo.AssignmentDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	return gormDB
}

func startWebServer(app cmd.CompositionRoot, port string) {
	e := echo.New()

	server := http.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateAssignOrderCommandHandler(),
		app.CreateAssignManuallyCommandHandler(),
		app.CreateReassignOrderCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateConfirmOrderCommandHandler(),
		app.CreateCompleteOrderCommandHandler(),
		app.CreateRegisterProviderCommandHandler(),
		app.CreateSetProviderAvailabilityCommandHandler(),
		app.CreateGetPendingOrdersQueryHandler(),
		app.CreateGetProvidersQueryHandler(),
		app.CreateGetOrderAssignmentQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}

package main

import (
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/stream"
	"fulfillment/internal/adapters/out/postgres/eventrepo"
	"fulfillment/internal/adapters/out/postgres/manifestrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/verificationrepo"
	"fulfillment/internal/adapters/out/postgres/webhookrepo"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := gorm.Open(postgres.Open(makeDSN(configs)), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = migrateSchema(gormDB); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB)

	jobManager := jobs.NewJobManager(
		app.CreateResolveVerificationsCommandHandler(logger),
		app.CreateExpireConfirmationsCommandHandler(),
		app.CreateDispatchWebhooksCommandHandler(),
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:        goDotEnvVariable("HTTP_PORT"),
		DBHost:          goDotEnvVariable("DB_HOST"),
		DBPort:          goDotEnvVariable("DB_PORT"),
		DBUser:          goDotEnvVariable("DB_USER"),
		DBPassword:      goDotEnvVariable("DB_PASSWORD"),
		DBName:          goDotEnvVariable("DB_NAME"),
		DBSslMode:       goDotEnvVariable("DB_SSLMODE"),
		RegistryBaseURL: goDotEnvVariable("REGISTRY_BASE_URL"),
		RegistryAPIKey:  goDotEnvVariable("REGISTRY_API_KEY"),
		WhatsAppBaseURL: goDotEnvVariable("WHATSAPP_BASE_URL"),
		WhatsAppToken:   goDotEnvVariable("WHATSAPP_TOKEN"),
		ConfirmationTTL: goDotEnvVariable("CONFIRMATION_TTL"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func migrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.PickLineDTO{},
		&orderrepo.PackTaskDTO{},
		&verificationrepo.AttemptDTO{},
		&webhookrepo.SubscriptionDTO{},
		&webhookrepo.DeliveryRecordDTO{},
		&eventrepo.EventDTO{},
		&manifestrepo.ManifestDTO{},
		&manifestrepo.ManifestItemDTO{},
		&manifestrepo.RouteDTO{},
		&manifestrepo.RouteStopDTO{},
	)
}

func makeDSN(configs cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})
	e.GET("/events/stream", stream.SSEHandler(app.Hub()))

	server := httpin.NewServer(
		app.CreateIngestOrderCommandHandler(),
		app.CreateRequestVerificationCommandHandler(),
		app.CreateConfirmAddressCommandHandler(),
		app.CreateApplyScanCommandHandler(),
		app.CreateMarkExceptionCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateMarkDeliveredCommandHandler(),
		app.CreateCreateManifestCommandHandler(),
		app.CreateHandOverManifestCommandHandler(),
		app.CreateCreateRouteCommandHandler(),
		app.CreateRegisterSubscriptionCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetOrderTimelineQueryHandler(),
		app.CreateGetPendingConfirmationsQueryHandler(),
		app.CreateGetFailedDeliveriesQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chris-kechagias/retail-inventory-api/internal/handlers"
	"github.com/chris-kechagias/retail-inventory-api/internal/models"
	"github.com/chris-kechagias/retail-inventory-api/internal/repositories"
	"github.com/chris-kechagias/retail-inventory-api/internal/services"
	"github.com/chris-kechagias/retail-inventory-api/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Viper reads configuration from environment variables, falling
	// back to defaults suitable for local development.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("STORE_BACKEND", "sqlite")
	viper.SetDefault("DATABASE_DSN", "inventory.db")
	viper.SetDefault("INVENTORY_FILE", "products.json")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Initialize the Record Store ---
	productRepo, err := newProductRepository()
	if err != nil {
		log.Fatalf("Failed to initialize product repository: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// Event publishing is best-effort; an empty RABBITMQ_URL runs the
	// service without it.
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set; inventory events disabled.")
	}

	// --- Initialize Services and Handlers ---
	inventoryService := services.NewInventoryService(productRepo, events)
	productHandler := handlers.NewProductHandler(inventoryService)

	// --- Initialize Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newProductRepository builds the record store selected by
// STORE_BACKEND. Relational backends get their schema migrated and
// assign identifiers themselves; the file and in-memory backends
// assign identifiers in the domain layer.
func newProductRepository() (repositories.ProductRepository, error) {
	backend := viper.GetString("STORE_BACKEND")
	switch backend {
	case "postgres":
		db, err := gorm.Open(postgres.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&models.Product{}); err != nil {
			return nil, err
		}
		return repositories.NewGORMProductRepository(db), nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&models.Product{}); err != nil {
			return nil, err
		}
		return repositories.NewGORMProductRepository(db), nil
	case "file":
		return repositories.NewFileProductRepository(viper.GetString("INVENTORY_FILE"))
	case "memory":
		return repositories.NewMockProductRepository(), nil
	default:
		log.Fatalf("Unknown STORE_BACKEND %q (expected postgres, sqlite, file or memory)", backend)
		return nil, nil
	}
}

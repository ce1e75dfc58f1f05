package main

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront/cache"
	"storefront/config"
	"storefront/controller"
	"storefront/kafka"
	"storefront/mail"
	"storefront/middleware"
	"storefront/model"
	"storefront/payment"
	"storefront/routes"
	"storefront/session"
)

const sessionTTL = 72 * time.Hour

func initDB(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.Order{},
		&model.FailedConfirmation{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database connected")
	return db
}

func main() {
	cfg := config.Load()

	db := initDB(cfg)
	rdb := cache.Connect(cfg.RedisAddr)
	kafka.InitProducer(cfg.KafkaBroker)

	sessions := session.NewStore(rdb, sessionTTL)
	validate := validator.New()
	gateway := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)
	mailer := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	app := fiber.New(fiber.Config{
		// Unexpected errors never leak internals to the client.
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok && e.Code < 500 {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(500).JSON(fiber.Map{"error": "something went wrong"})
		},
	})
	app.Use(logger.New())
	app.Static("/images", cfg.ImageDir)

	auth := middleware.AuthRequired(sessions, db)

	routes.RegisterAuthRoutes(app, &controller.AuthController{
		DB: db, Sessions: sessions, Mailer: mailer, Validate: validate, BaseURL: cfg.BaseURL,
	})
	routes.RegisterShopRoutes(app,
		&controller.ShopController{DB: db},
		&controller.CartController{DB: db},
		&controller.OrderController{DB: db, Gateway: gateway, BaseURL: cfg.BaseURL, InvoiceDir: cfg.InvoiceDir},
		&controller.WebhookController{DB: db, Redis: rdb, WebhookSecret: cfg.PaymentWebhookSecret},
		auth,
	)
	routes.RegisterAdminRoutes(app, &controller.AdminController{
		DB: db, Validate: validate, ImageDir: cfg.ImageDir,
	}, auth)

	log.Fatal(app.Listen(":" + cfg.Port))
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/costguard-api/internal/application/anomalies"
	"github.com/jhoicas/costguard-api/internal/application/auth"
	"github.com/jhoicas/costguard-api/internal/application/extraction"
	"github.com/jhoicas/costguard-api/internal/application/invoices"
	"github.com/jhoicas/costguard-api/internal/application/vendors"
	"github.com/jhoicas/costguard-api/internal/infrastructure/postgres"
	"github.com/jhoicas/costguard-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/costguard-api/internal/interfaces/http"
	"github.com/jhoicas/costguard-api/pkg/config"
	"github.com/jhoicas/costguard-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración de esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	anomalyRepo := postgres.NewAnomalyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	fileStorage, err := storage.NewInvoiceFileStorage(cfg.Storage.InvoiceDir)
	if err != nil {
		log.Fatal().Err(err).Msg("storage de facturas")
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	vendorUC := vendors.NewVendorUseCase(vendorRepo)
	ingestUC := invoices.NewIngestInvoiceUseCase(txRunner, userRepo, vendorRepo)
	queryUC := invoices.NewInvoiceQueryUseCase(invoiceRepo, anomalyRepo, vendorRepo)
	reviewUC := anomalies.NewReviewUseCase(txRunner, anomalyRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		VendorUC:      vendorUC,
		IngestInvoice: ingestUC,
		InvoiceQuery:  queryUC,
		AnomalyReview: reviewUC,
		FileStorage:   fileStorage,
		Extractor:     extraction.NewExtractor(),
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

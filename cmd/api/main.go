package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Fiscal-api/internal/application/fiscal"
	infrakafka "github.com/jhoicas/Fiscal-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Fiscal-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Fiscal-api/internal/interfaces/http"
	"github.com/jhoicas/Fiscal-api/pkg/config"
	"github.com/jhoicas/Fiscal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Eventos de transacción: solo si hay brokers configurados.
	var publisher fiscal.EventPublisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher := infrakafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = kafkaPublisher.Close() }()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("publisher de eventos habilitado")
	}

	recordSaleUC := fiscal.NewRecordSaleUseCase(invoiceRepo, txRunner, publisher, log)
	recordPaymentUC := fiscal.NewRecordPaymentUseCase(paymentRepo, publisher, log)
	patchSaleUC := fiscal.NewPatchSaleUseCase(txRunner)
	taxPositionUC := fiscal.NewTaxPositionUseCase(itemRepo, paymentRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fiscal API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RecordSale:    recordSaleUC,
		RecordPayment: recordPaymentUC,
		PatchSale:     patchSaleUC,
		TaxPosition:   taxPositionUC,
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

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

	"github.com/jhoicas/fulfillment-api/internal/application/allocation"
	"github.com/jhoicas/fulfillment-api/internal/application/fulfillment"
	infrapdf "github.com/jhoicas/fulfillment-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fulfillment-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fulfillment-api/internal/interfaces/http"
	"github.com/jhoicas/fulfillment-api/pkg/config"
	"github.com/jhoicas/fulfillment-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	}).Component("api")
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

	// Repositorios sobre el pool (lecturas fuera de transacción)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	lotRepo := postgres.NewInventoryLotRepository(pool)
	logRepo := postgres.NewActivityLogRepository(pool)
	allocRepo := postgres.NewAllocationRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	allocateUC := allocation.NewAllocateInventoryUseCase(txRunner, warehouseRepo, allocation.Config{
		AllocatableStatuses: cfg.Allocation.AllocatableStatuses,
		DefaultStrategy:     cfg.Allocation.DefaultStrategy,
	})
	releaseUC := allocation.NewReleaseAllocationUseCase(txRunner)
	queryUC := allocation.NewQueryUseCase(lotRepo, logRepo, allocRepo)
	advanceUC := fulfillment.NewAdvanceFulfillmentUseCase(txRunner, releaseUC)

	// PDF: guía de empaque del envío
	slipGenerator := infrapdf.NewMarotoSlipGenerator()
	packingSlipUC := fulfillment.NewPackingSlipUseCase(shipmentRepo, orderRepo, lotRepo, slipGenerator)

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
		Title:    "Fulfillment API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AllocateUC:    allocateUC,
		ReleaseUC:     releaseUC,
		QueryUC:       queryUC,
		AdvanceUC:     advanceUC,
		PackingSlipUC: packingSlipUC,
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

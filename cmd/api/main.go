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
	"github.com/tu-usuario/inventario-api/internal/application/auth"
	"github.com/tu-usuario/inventario-api/internal/application/deliveries"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/projections"
	"github.com/tu-usuario/inventario-api/internal/application/recipes"
	"github.com/tu-usuario/inventario-api/internal/application/usecase"
	infrapdf "github.com/tu-usuario/inventario-api/internal/infrastructure/pdf"
	"github.com/tu-usuario/inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/inventario-api/internal/interfaces/http"
	"github.com/tu-usuario/inventario-api/pkg/config"
	"github.com/tu-usuario/inventario-api/pkg/logger"
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

	componentRepo := postgres.NewComponentRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	movementTypeRepo := postgres.NewMovementTypeRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	projectionRepo := postgres.NewProjectionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Catálogo de tipos de movimiento: idempotente, corre en cada arranque.
	if err := movementTypeRepo.Seed(inventory.DefaultMovementTypes()); err != nil {
		log.Fatal().Err(err).Msg("seed de tipos de movimiento")
	}

	inventoryUC := inventory.NewUseCase(txRunner, componentRepo, movementRepo, movementTypeRepo)
	reservationUC := inventory.NewReservationUseCase(txRunner, inventoryUC, reservationRepo)
	recipeUC := recipes.NewUseCase(txRunner, inventoryUC, recipeRepo, componentRepo)
	pdfGenerator := infrapdf.NewMarotoDeliveryPDF()
	deliveryUC := deliveries.NewUseCase(txRunner, inventoryUC, deliveryRepo, componentRepo, unitRepo, pdfGenerator)
	projectionUC := projections.NewUseCase(txRunner, projectionRepo, recipeRepo, componentRepo)
	componentUC := usecase.NewComponentUseCase(componentRepo, categoryRepo, unitRepo)
	referenceUC := usecase.NewReferenceUseCase(categoryRepo, unitRepo, movementTypeRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ComponentUC:   componentUC,
		ReferenceUC:   referenceUC,
		UserUC:        userUC,
		InventoryUC:   inventoryUC,
		ReservationUC: reservationUC,
		RecipeUC:      recipeUC,
		DeliveryUC:    deliveryUC,
		ProjectionUC:  projectionUC,
		AuthUC:        authUC,
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

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-api/internal/application/auth"
	"github.com/tu-usuario/inventario-api/internal/application/deliveries"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/projections"
	"github.com/tu-usuario/inventario-api/internal/application/recipes"
	"github.com/tu-usuario/inventario-api/internal/application/usecase"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ComponentUC   *usecase.ComponentUseCase
	ReferenceUC   *usecase.ReferenceUseCase
	UserUC        *usecase.UserUseCase
	InventoryUC   *inventory.UseCase
	ReservationUC *inventory.ReservationUseCase
	RecipeUC      *recipes.UseCase
	DeliveryUC    *deliveries.UseCase
	ProjectionUC  *projections.UseCase
	AuthUC        *auth.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
//
// RBAC: las lecturas requieren cualquier usuario autenticado (viewer incluido);
// las mutaciones de inventario requieren admin o user; la gestión de usuarios
// es solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	mutate := RequireRole(entity.RoleAdmin, entity.RoleUser)
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/profile", authHandler.Profile)

	// Components
	components := protected.Group("/components")
	componentHandler := NewComponentHandler(deps.ComponentUC)
	components.Get("/", componentHandler.List)
	components.Get("/:id", componentHandler.GetByID)
	components.Post("/", mutate, componentHandler.Create)
	components.Put("/:id", mutate, componentHandler.Update)
	components.Delete("/:id", mutate, componentHandler.Deactivate)

	// Movements (ledger de stock)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.InventoryUC, deps.ReservationUC)
	movements.Get("/", movementHandler.List)
	movements.Post("/", mutate, movementHandler.Register)

	// Reservations (antes de /:id/cancel para que "reservations" no capture como :id)
	reservations := movements.Group("/reservations")
	reservations.Get("/", movementHandler.ListReservations)
	reservations.Post("/", mutate, movementHandler.CreateReservation)
	reservations.Post("/:id/release", mutate, movementHandler.ReleaseReservation)
	reservations.Post("/:id/consume", mutate, movementHandler.ConsumeReservation)

	movements.Post("/:id/cancel", mutate, movementHandler.Cancel)

	// Recipes (BOM)
	recipesGroup := protected.Group("/recipes")
	recipeHandler := NewRecipeHandler(deps.RecipeUC)
	recipesGroup.Get("/", recipeHandler.List)
	recipesGroup.Get("/:id", recipeHandler.GetByID)
	recipesGroup.Post("/", mutate, recipeHandler.Create)
	recipesGroup.Put("/:id", mutate, recipeHandler.Update)
	recipesGroup.Delete("/:id", mutate, recipeHandler.Deactivate)
	recipesGroup.Post("/:id/execute", mutate, recipeHandler.Execute)

	// Deliveries (remisiones)
	deliveriesGroup := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveriesGroup.Get("/", deliveryHandler.List)
	deliveriesGroup.Get("/:id", deliveryHandler.GetByID)
	deliveriesGroup.Get("/:id/pdf", deliveryHandler.PDF)
	deliveriesGroup.Post("/", mutate, deliveryHandler.Create)
	deliveriesGroup.Post("/:id/deliver", mutate, deliveryHandler.MarkDelivered)
	deliveriesGroup.Post("/:id/cancel", mutate, deliveryHandler.Cancel)

	// Projections
	projectionsGroup := protected.Group("/projections")
	projectionHandler := NewProjectionHandler(deps.ProjectionUC)
	projectionsGroup.Get("/", projectionHandler.List)
	projectionsGroup.Get("/:id", projectionHandler.GetByID)
	projectionsGroup.Post("/", mutate, projectionHandler.Create)
	projectionsGroup.Delete("/:id", mutate, projectionHandler.Delete)

	// Reference data
	referenceHandler := NewReferenceHandler(deps.ReferenceUC)
	categories := protected.Group("/categories")
	categories.Get("/", referenceHandler.ListCategories)
	categories.Post("/", mutate, referenceHandler.CreateCategory)
	categories.Put("/:id", mutate, referenceHandler.UpdateCategory)
	categories.Delete("/:id", mutate, referenceHandler.DeleteCategory)

	units := protected.Group("/units")
	units.Get("/", referenceHandler.ListUnits)
	units.Post("/", mutate, referenceHandler.CreateUnit)
	units.Delete("/:id", mutate, referenceHandler.DeleteUnit)

	protected.Get("/movement-types", referenceHandler.ListMovementTypes)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)
}

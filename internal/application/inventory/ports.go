package inventory

import (
	"context"

	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
// TxRunner entrega una instancia por cada Run; los casos de uso usan solo
// los que necesitan.
type Repos struct {
	Components    repository.ComponentRepository
	Movements     repository.MovementRepository
	MovementTypes repository.MovementTypeRepository
	Reservations  repository.ReservationRepository
	Recipes       repository.RecipeRepository
	Deliveries    repository.DeliveryRepository
	Projections   repository.ProjectionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: Commit si fn retorna nil, Rollback si retorna error.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

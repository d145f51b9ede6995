package repository

import (
	"time"

	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	ComponentID string
	Operation   string
	From        *time.Time
	To          *time.Time
}

// MovementRepository define el puerto de persistencia del ledger de
// movimientos. Los movimientos son inmutables: no hay Update ni Delete;
// MarkCancelled solo marca el puntero cancelled_by del original.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(f MovementFilter, limit, offset int) ([]*entity.Movement, int, error)
	MarkCancelled(id, cancelledByID string) error
}

// MovementTypeRepository define el puerto para los tipos de movimiento
// (dato de referencia estático).
type MovementTypeRepository interface {
	GetByID(id string) (*entity.MovementType, error)
	GetByCode(code string) (*entity.MovementType, error)
	List() ([]*entity.MovementType, error)
	// Seed inserta los tipos por defecto si no existen (idempotente).
	Seed(types []*entity.MovementType) error
}

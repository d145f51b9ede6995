package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

// ComponentFilter filtros para listar componentes.
type ComponentFilter struct {
	CategoryID string
	Search     string // busca en código y nombre
	OnlyActive bool
	LowStock   bool
}

// ComponentRepository define el puerto de persistencia para componentes.
// ApplyStockDelta es la primitiva atómica condicional del ledger: aplica los
// deltas sobre current_stock/reserved_stock en un solo statement con el
// invariante como guarda; cero filas afectadas significa que un escritor
// concurrente consumió el stock (ErrInsufficientStock).
type ComponentRepository interface {
	Create(c *entity.Component) error
	GetByID(id string) (*entity.Component, error)
	GetByCode(code string) (*entity.Component, error)
	Update(c *entity.Component) error
	SetActive(id string, active bool) error
	List(f ComponentFilter, limit, offset int) ([]*entity.Component, int, error)
	// GetForUpdate bloquea la fila del componente (SELECT FOR UPDATE) durante la tx.
	GetForUpdate(id string) (*entity.Component, error)
	ApplyStockDelta(id string, deltaCurrent, deltaReserved decimal.Decimal) error
	UpdateCostPrice(id string, cost decimal.Decimal) error
}

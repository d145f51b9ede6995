package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component representa un ítem de inventario (parte, material o producto).
// CurrentStock y ReservedStock solo se modifican vía movimientos; el resto de
// campos se edita por la API de componentes. Invariante permanente:
// 0 <= ReservedStock <= CurrentStock.
type Component struct {
	ID            string
	Code          string // código único
	Name          string
	Description   string
	CategoryID    string
	UnitID        string
	CurrentStock  decimal.Decimal
	ReservedStock decimal.Decimal
	MinStock      decimal.Decimal
	MaxStock      decimal.Decimal
	CostPrice     decimal.Decimal // costo promedio ponderado, actualizado en entradas
	SalePrice     decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Available devuelve el stock disponible (actual menos reservado).
func (c *Component) Available() decimal.Decimal {
	return c.CurrentStock.Sub(c.ReservedStock)
}

// IsLowStock indica si el stock actual está en o por debajo del mínimo.
func (c *Component) IsLowStock() bool {
	return c.CurrentStock.LessThanOrEqual(c.MinStock)
}

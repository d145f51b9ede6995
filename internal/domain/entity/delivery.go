package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos de Delivery.
const (
	DeliveryPending   = "pending"
	DeliveryDelivered = "delivered"
	DeliveryCancelled = "cancelled"
)

// Delivery es una remisión: nota de entrega saliente. Crearla emite un
// movimiento OUT por cada ítem; cancelarla emite los movimientos
// compensatorios correspondientes.
type Delivery struct {
	ID            string
	Number        string // consecutivo REM-YYYY-NNNN
	CustomerName  string
	CustomerNIT   string
	CustomerAddr  string
	CustomerPhone string
	Status        string // pending, delivered, cancelled
	ShippingCost  decimal.Decimal
	ShippingTax   decimal.Decimal
	Subtotal      decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	UserID        string
	Items         []DeliveryItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DeliveryItem es una línea de la remisión. EffectiveUnitCost incluye la
// porción prorrateada de flete e impuesto de flete.
type DeliveryItem struct {
	ID                string
	DeliveryID        string
	ComponentID       string
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
	EffectiveUnitCost decimal.Decimal
	MovementID        string // movimiento OUT emitido por esta línea
}

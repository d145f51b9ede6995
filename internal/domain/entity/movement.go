package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType es dato de referencia estático: un código de movimiento y la
// operación de ledger que ejecuta (IN, OUT, RESERVE, RELEASE, CONSUME_RESERVED).
type MovementType struct {
	ID        string
	Code      string // código único, ej. ENT-COMPRA, SAL-REMISION
	Name      string
	Operation string // una de ledger.Operation
	CreatedAt time.Time
}

// Movement es un registro inmutable del ledger de stock. Nunca se actualiza:
// la cancelación se modela como un movimiento compensatorio nuevo.
type Movement struct {
	ID             string
	ComponentID    string
	MovementTypeID string
	Operation      string // denormalizado desde MovementType al registrar
	Quantity       decimal.Decimal // magnitud positiva; el signo lo da la operación
	UnitCost       decimal.Decimal
	Reference      string // factura, remisión, ejecución de receta, etc.
	Notes          string
	UserID         string
	IsCancellation bool    // true si es el movimiento compensatorio de otro
	CancelsID      *string // movimiento original que este compensa
	CancelledByID  *string // movimiento compensatorio que anuló a este
	CreatedAt      time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos de Reservation.
const (
	ReservationActive    = "active"
	ReservationCompleted = "completed" // consumida (CONSUME_RESERVED)
	ReservationCancelled = "cancelled" // liberada (RELEASE)
)

// Reservation es una vista de conveniencia sobre movimientos RESERVE/RELEASE:
// el ledger de movimientos es la fuente autoritativa. ExpiresAt se almacena
// pero ningún proceso actúa sobre él.
type Reservation struct {
	ID          string
	ComponentID string
	Quantity    decimal.Decimal
	Status      string // active, completed, cancelled
	Reference   string
	Notes       string
	UserID      string
	MovementID  string // movimiento RESERVE que la originó
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

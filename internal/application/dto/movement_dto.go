package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	ComponentID    string           `json:"component_id" validate:"required,uuid4"`
	MovementTypeID string           `json:"movement_type_id" validate:"required,uuid4"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference      string           `json:"reference"`
	Notes          string           `json:"notes"`
}

// MovementResponse representación de un movimiento en respuestas.
type MovementResponse struct {
	ID             string          `json:"id"`
	ComponentID    string          `json:"component_id"`
	MovementTypeID string          `json:"movement_type_id"`
	Operation      string          `json:"operation"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	UserID         string          `json:"user_id"`
	IsCancellation bool            `json:"is_cancellation"`
	CancelsID      *string         `json:"cancels_id,omitempty"`
	CancelledByID  *string         `json:"cancelled_by_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateReservationRequest body para POST /api/movements/reservations.
type CreateReservationRequest struct {
	ComponentID string          `json:"component_id" validate:"required,uuid4"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

// ReservationResponse representación de una reserva en respuestas.
type ReservationResponse struct {
	ID          string          `json:"id"`
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	UserID      string          `json:"user_id"`
	MovementID  string          `json:"movement_id"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementTypeResponse dato de referencia tipo de movimiento.
type MovementTypeResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Operation string `json:"operation"`
}

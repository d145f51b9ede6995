package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryItemInput línea de la remisión en el request de creación.
type DeliveryItemInput struct {
	ComponentID string          `json:"component_id" validate:"required,uuid4"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateDeliveryRequest body para POST /api/deliveries.
type CreateDeliveryRequest struct {
	CustomerName  string              `json:"customer_name" validate:"required"`
	CustomerNIT   string              `json:"customer_nit"`
	CustomerAddr  string              `json:"customer_address"`
	CustomerPhone string              `json:"customer_phone"`
	ShippingCost  decimal.Decimal     `json:"shipping_cost"`
	ShippingTax   decimal.Decimal     `json:"shipping_tax"`
	Notes         string              `json:"notes"`
	Items         []DeliveryItemInput `json:"items" validate:"required,min=1,dive"`
}

// DeliveryItemResponse línea de la remisión en respuestas.
type DeliveryItemResponse struct {
	ID                string          `json:"id"`
	ComponentID       string          `json:"component_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	EffectiveUnitCost decimal.Decimal `json:"effective_unit_cost"`
	MovementID        string          `json:"movement_id"`
}

// DeliveryResponse representación de una remisión en respuestas.
type DeliveryResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	CustomerName  string                 `json:"customer_name"`
	CustomerNIT   string                 `json:"customer_nit,omitempty"`
	CustomerAddr  string                 `json:"customer_address,omitempty"`
	CustomerPhone string                 `json:"customer_phone,omitempty"`
	Status        string                 `json:"status"`
	ShippingCost  decimal.Decimal        `json:"shipping_cost"`
	ShippingTax   decimal.Decimal        `json:"shipping_tax"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Total         decimal.Decimal        `json:"total"`
	Notes         string                 `json:"notes,omitempty"`
	UserID        string                 `json:"user_id"`
	Items         []DeliveryItemResponse `json:"items"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateComponentRequest body para POST /api/components.
type CreateComponentRequest struct {
	Code        string          `json:"code" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id" validate:"required,uuid4"`
	UnitID      string          `json:"unit_id" validate:"required,uuid4"`
	MinStock    decimal.Decimal `json:"min_stock"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
}

// UpdateComponentRequest body para PUT /api/components/:id.
// No incluye stock: el stock solo cambia vía movimientos.
type UpdateComponentRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CategoryID  string           `json:"category_id" validate:"omitempty,uuid4"`
	UnitID      string           `json:"unit_id" validate:"omitempty,uuid4"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
}

// ComponentResponse representación de un componente en respuestas.
type ComponentResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	CategoryID     string          `json:"category_id"`
	UnitID         string          `json:"unit_id"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	ReservedStock  decimal.Decimal `json:"reserved_stock"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	MinStock       decimal.Decimal `json:"min_stock"`
	MaxStock       decimal.Decimal `json:"max_stock"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	IsActive       bool            `json:"is_active"`
	LowStock       bool            `json:"low_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

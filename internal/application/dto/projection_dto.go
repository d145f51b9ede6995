package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionRecipeInput receta planificada dentro del request de proyección.
type ProjectionRecipeInput struct {
	RecipeID string `json:"recipe_id" validate:"required,uuid4"`
	Times    int64  `json:"times" validate:"required,min=1"`
}

// CreateProjectionRequest body para POST /api/projections.
type CreateProjectionRequest struct {
	Name    string                  `json:"name" validate:"required"`
	Notes   string                  `json:"notes"`
	Recipes []ProjectionRecipeInput `json:"recipes" validate:"required,min=1,dive"`
}

// ProjectionRequirementResponse requerimiento por componente en el snapshot.
type ProjectionRequirementResponse struct {
	ComponentID string          `json:"component_id"`
	Required    decimal.Decimal `json:"required"`
	Available   decimal.Decimal `json:"available"`
	Shortage    decimal.Decimal `json:"shortage"`
}

// ProjectionResponse representación de una proyección en respuestas.
type ProjectionResponse struct {
	ID           string                          `json:"id"`
	Name         string                          `json:"name"`
	Notes        string                          `json:"notes,omitempty"`
	UserID       string                          `json:"user_id"`
	Recipes      []ProjectionRecipeInput         `json:"recipes"`
	Requirements []ProjectionRequirementResponse `json:"requirements"`
	CreatedAt    time.Time                       `json:"created_at"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeIngredientInput ingrediente dentro de Create/Update de receta.
type RecipeIngredientInput struct {
	ComponentID string          `json:"component_id" validate:"required,uuid4"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// CreateRecipeRequest body para POST /api/recipes.
type CreateRecipeRequest struct {
	Code              string                  `json:"code" validate:"required"`
	Name              string                  `json:"name" validate:"required"`
	Description       string                  `json:"description"`
	OutputComponentID string                  `json:"output_component_id" validate:"required,uuid4"`
	OutputQuantity    decimal.Decimal         `json:"output_quantity"`
	Ingredients       []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,dive"`
}

// UpdateRecipeRequest body para PUT /api/recipes/:id. Reemplaza los
// ingredientes completos si vienen en el body.
type UpdateRecipeRequest struct {
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	OutputQuantity *decimal.Decimal        `json:"output_quantity"`
	Ingredients    []RecipeIngredientInput `json:"ingredients" validate:"omitempty,min=1,dive"`
}

// RecipeIngredientResponse ingrediente en respuestas.
type RecipeIngredientResponse struct {
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// RecipeResponse representación de una receta en respuestas.
type RecipeResponse struct {
	ID                string                     `json:"id"`
	Code              string                     `json:"code"`
	Name              string                     `json:"name"`
	Description       string                     `json:"description,omitempty"`
	OutputComponentID string                     `json:"output_component_id"`
	OutputQuantity    decimal.Decimal            `json:"output_quantity"`
	IsActive          bool                       `json:"is_active"`
	Ingredients       []RecipeIngredientResponse `json:"ingredients"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

// ExecuteRecipeRequest body para POST /api/recipes/:id/execute.
type ExecuteRecipeRequest struct {
	Times int64  `json:"times" validate:"required,min=1"`
	Notes string `json:"notes"`
}

// ExecuteRecipeResponse resultado de una ejecución de receta.
type ExecuteRecipeResponse struct {
	ExecutionID      string          `json:"execution_id"`
	RecipeID         string          `json:"recipe_id"`
	Times            int64           `json:"times"`
	OutputComponent  string          `json:"output_component_id"`
	ProducedQuantity decimal.Decimal `json:"produced_quantity"`
	MovementIDs      []string        `json:"movement_ids"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Projection es un "what-if" guardado: un lote hipotético de ejecuciones de
// recetas junto con el faltante por componente calculado al momento de
// guardar. Es un snapshot congelado, nunca se recalcula.
type Projection struct {
	ID           string
	Name         string
	Notes        string
	UserID       string
	Recipes      []ProjectionRecipe
	Requirements []ProjectionRequirement
	CreatedAt    time.Time
}

// ProjectionRecipe es una receta planificada dentro de la proyección.
type ProjectionRecipe struct {
	ID           string
	ProjectionID string
	RecipeID     string
	Times        int64
}

// ProjectionRequirement es el requerimiento agregado de un componente:
// Required = suma de ingrediente.Quantity * Times sobre todas las recetas;
// Shortage = max(0, Required - Available) al momento del snapshot.
type ProjectionRequirement struct {
	ID           string
	ProjectionID string
	ComponentID  string
	Required     decimal.Decimal
	Available    decimal.Decimal
	Shortage     decimal.Decimal
}

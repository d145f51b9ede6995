package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe es una lista de materiales (BOM): convierte componentes ingrediente
// en un componente de salida. Ejecutarla N veces consume quantity*N de cada
// ingrediente y produce OutputQuantity*N del componente de salida.
type Recipe struct {
	ID                string
	Code              string // código único
	Name              string
	Description       string
	OutputComponentID string
	OutputQuantity    decimal.Decimal // por una ejecución
	IsActive          bool
	Ingredients       []RecipeIngredient
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecipeIngredient es un ingrediente de la receta: cantidad necesaria por
// una unidad de ejecución.
type RecipeIngredient struct {
	ID          string
	RecipeID    string
	ComponentID string
	Quantity    decimal.Decimal
}

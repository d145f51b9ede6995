package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// RecipeRepository define el puerto de persistencia para recetas (BOM).
// GetByID y List cargan los ingredientes de la receta.
type RecipeRepository interface {
	Create(r *entity.Recipe) error
	GetByID(id string) (*entity.Recipe, error)
	GetByCode(code string) (*entity.Recipe, error)
	Update(r *entity.Recipe) error
	SetActive(id string, active bool) error
	List(onlyActive bool, limit, offset int) ([]*entity.Recipe, int, error)
}

package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// ProjectionRepository define el puerto de persistencia para proyecciones.
// Create persiste la proyección con sus recetas y requerimientos (snapshot).
type ProjectionRepository interface {
	Create(p *entity.Projection) error
	GetByID(id string) (*entity.Projection, error)
	List(limit, offset int) ([]*entity.Projection, int, error)
	Delete(id string) error
}

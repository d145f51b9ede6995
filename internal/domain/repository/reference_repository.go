package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// CategoryRepository define el puerto para categorías de componentes.
type CategoryRepository interface {
	Create(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List() ([]*entity.Category, error)
	Update(c *entity.Category) error
	Delete(id string) error
}

// UnitRepository define el puerto para unidades de medida.
type UnitRepository interface {
	Create(u *entity.Unit) error
	GetByID(id string) (*entity.Unit, error)
	List() ([]*entity.Unit, error)
	Update(u *entity.Unit) error
	Delete(id string) error
}

package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(u *entity.User) error
	SetActive(id string, active bool) error
	List(limit, offset int) ([]*entity.User, int, error)
}

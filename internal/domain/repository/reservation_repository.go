package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// ReservationFilter filtros para listar reservas.
type ReservationFilter struct {
	ComponentID string
	Status      string
}

// ReservationRepository define el puerto de persistencia para reservas
// (vista de conveniencia; el ledger de movimientos es el autoritativo).
type ReservationRepository interface {
	Create(r *entity.Reservation) error
	GetByID(id string) (*entity.Reservation, error)
	List(f ReservationFilter, limit, offset int) ([]*entity.Reservation, int, error)
	UpdateStatus(id, status string) error
}

package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para remisiones.
type DeliveryRepository interface {
	Create(d *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	List(status string, limit, offset int) ([]*entity.Delivery, int, error)
	// UpdateStatus transiciona solo remisiones pendientes; si la remisión ya
	// fue entregada o anulada retorna domain.ErrConflict.
	UpdateStatus(id, status string) error
	// NextNumber devuelve el siguiente consecutivo REM-YYYY-NNNN del año.
	// Debe llamarse dentro de la transacción que crea la remisión.
	NextNumber(year int) (string, error)
}

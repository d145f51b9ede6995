package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/ledger"
)

// Códigos de tipos de movimiento sembrados por defecto. Los casos de uso
// internos (recetas, remisiones, reservas) referencian estos códigos.
const (
	TypePurchaseIn    = "ENT-COMPRA"
	TypeProductionIn  = "ENT-PRODUCCION"
	TypeManualOut     = "SAL-MANUAL"
	TypeProductionOut = "SAL-PRODUCCION"
	TypeDeliveryOut   = "SAL-REMISION"
	TypeReserve       = "RES-MANUAL"
	TypeRelease       = "LIB-RESERVA"
	TypeConsume       = "CON-RESERVA"
)

// DefaultMovementTypes devuelve el catálogo de tipos de movimiento por
// defecto, listo para sembrar (Seed es idempotente por código).
func DefaultMovementTypes() []*entity.MovementType {
	now := time.Now()
	mk := func(code, name, op string) *entity.MovementType {
		return &entity.MovementType{
			ID:        uuid.New().String(),
			Code:      code,
			Name:      name,
			Operation: op,
			CreatedAt: now,
		}
	}
	return []*entity.MovementType{
		mk(TypePurchaseIn, "Entrada por compra", ledger.OpIn),
		mk(TypeProductionIn, "Entrada por producción", ledger.OpIn),
		mk(TypeManualOut, "Salida manual", ledger.OpOut),
		mk(TypeProductionOut, "Consumo por producción", ledger.OpOut),
		mk(TypeDeliveryOut, "Salida por remisión", ledger.OpOut),
		mk(TypeReserve, "Reserva manual", ledger.OpReserve),
		mk(TypeRelease, "Liberación de reserva", ledger.OpRelease),
		mk(TypeConsume, "Consumo de reserva", ledger.OpConsumeReserved),
	}
}

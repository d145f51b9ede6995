// Package ledger implementa la aritmética del ledger de stock (servicio de
// dominio puro, sin dependencias de infraestructura). Toda mutación de
// CurrentStock/ReservedStock de un componente pasa por Apply o ApplyInverse;
// la capa de persistencia es responsable de aplicar el resultado de forma
// atómica junto con el registro del movimiento.
package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/domain"
)

// Operaciones del ledger.
const (
	OpIn              = "IN"
	OpOut             = "OUT"
	OpReserve         = "RESERVE"
	OpRelease         = "RELEASE"
	OpConsumeReserved = "CONSUME_RESERVED"
)

// Operations lista las operaciones válidas en orden estable.
var Operations = []string{OpIn, OpOut, OpReserve, OpRelease, OpConsumeReserved}

// ValidOperation indica si op es una operación conocida del ledger.
func ValidOperation(op string) bool {
	switch op {
	case OpIn, OpOut, OpReserve, OpRelease, OpConsumeReserved:
		return true
	}
	return false
}

// Balance es el par stock actual / stock reservado de un componente.
type Balance struct {
	Current  decimal.Decimal
	Reserved decimal.Decimal
}

// Available devuelve el stock disponible (actual menos reservado).
func (b Balance) Available() decimal.Decimal {
	return b.Current.Sub(b.Reserved)
}

// valid verifica el invariante 0 <= Reserved <= Current.
func (b Balance) valid() bool {
	return !b.Reserved.IsNegative() && b.Reserved.LessThanOrEqual(b.Current)
}

// Deltas devuelve los deltas firmados (actual, reservado) que la operación
// aplica sobre el balance. qty es magnitud positiva.
//
//	IN                +qty      0
//	OUT               -qty      0
//	RESERVE              0   +qty
//	RELEASE              0   -qty
//	CONSUME_RESERVED  -qty   -qty
func Deltas(op string, qty decimal.Decimal) (dCurrent, dReserved decimal.Decimal) {
	switch op {
	case OpIn:
		return qty, decimal.Zero
	case OpOut:
		return qty.Neg(), decimal.Zero
	case OpReserve:
		return decimal.Zero, qty
	case OpRelease:
		return decimal.Zero, qty.Neg()
	case OpConsumeReserved:
		return qty.Neg(), qty.Neg()
	}
	return decimal.Zero, decimal.Zero
}

// Apply valida la precondición de la operación contra el balance y devuelve
// el balance resultante. No muta b. Errores:
//
//	OUT sin disponible suficiente      -> domain.ErrInsufficientStock
//	RESERVE sin disponible suficiente  -> domain.ErrInsufficientAvailable
//	RELEASE/CONSUME sin reservado      -> domain.ErrInsufficientReserved
//	qty <= 0 u operación desconocida   -> domain.ErrInvalidInput
func Apply(b Balance, op string, qty decimal.Decimal) (Balance, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return b, domain.ErrInvalidInput
	}
	switch op {
	case OpIn:
		// sin precondición
	case OpOut:
		if b.Available().LessThan(qty) {
			return b, domain.ErrInsufficientStock
		}
	case OpReserve:
		if b.Available().LessThan(qty) {
			return b, domain.ErrInsufficientAvailable
		}
	case OpRelease, OpConsumeReserved:
		if b.Reserved.LessThan(qty) {
			return b, domain.ErrInsufficientReserved
		}
	default:
		return b, domain.ErrInvalidInput
	}
	dc, dr := Deltas(op, qty)
	next := Balance{Current: b.Current.Add(dc), Reserved: b.Reserved.Add(dr)}
	if !next.valid() {
		return b, domain.ErrConflict
	}
	return next, nil
}

// ApplyInverse aplica los deltas negados de la operación original, para
// movimientos compensatorios (cancelación). La historia no se muta: el
// caller registra un movimiento nuevo con los deltas invertidos. Falla con
// el error de insuficiencia correspondiente si deshacer la operación
// violaría el invariante (ej. cancelar un IN cuyo stock ya se consumió).
func ApplyInverse(b Balance, op string, qty decimal.Decimal) (Balance, error) {
	if !qty.GreaterThan(decimal.Zero) || !ValidOperation(op) {
		return b, domain.ErrInvalidInput
	}
	dc, dr := Deltas(op, qty)
	next := Balance{Current: b.Current.Sub(dc), Reserved: b.Reserved.Sub(dr)}
	if !next.valid() {
		switch op {
		case OpIn:
			return b, domain.ErrInsufficientStock
		case OpOut, OpConsumeReserved:
			// deshacer devuelve stock; si falla es porque reservado > actual
			return b, domain.ErrConflict
		case OpReserve:
			return b, domain.ErrInsufficientReserved
		case OpRelease:
			return b, domain.ErrInsufficientAvailable
		}
		return b, domain.ErrConflict
	}
	return next, nil
}

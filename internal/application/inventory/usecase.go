package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/ledger"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// UseCase registra y cancela movimientos del ledger de stock de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y delta condicional.
type UseCase struct {
	txRunner         TxRunner
	componentRepo    repository.ComponentRepository
	movementRepo     repository.MovementRepository
	movementTypeRepo repository.MovementTypeRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	componentRepo repository.ComponentRepository,
	movementRepo repository.MovementRepository,
	movementTypeRepo repository.MovementTypeRepository,
) *UseCase {
	return &UseCase{
		txRunner:         txRunner,
		componentRepo:    componentRepo,
		movementRepo:     movementRepo,
		movementTypeRepo: movementTypeRepo,
	}
}

// RegisterMovement valida la entrada, inicia una transacción, bloquea la fila
// del componente, aplica la operación del ledger y registra el movimiento.
// La actualización del componente y el insert del movimiento hacen commit
// juntos o ninguno.
func (uc *UseCase) RegisterMovement(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if in.ComponentID == "" || in.MovementTypeID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	mt, err := uc.movementTypeRepo.GetByID(in.MovementTypeID)
	if err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, domain.ErrNotFound
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var mov *entity.Movement
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		mov, err = uc.applyInTx(r, applyInput{
			ComponentID:    in.ComponentID,
			MovementTypeID: mt.ID,
			Operation:      mt.Operation,
			Quantity:       in.Quantity,
			UnitCost:       in.UnitCost,
			Reference:      in.Reference,
			Notes:          in.Notes,
			UserID:         userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// CancelMovement registra el movimiento compensatorio de un movimiento
// existente: niega los deltas de la operación original y marca el original
// como cancelado. La historia nunca se muta.
func (uc *UseCase) CancelMovement(ctx context.Context, userID, movementID, notes string) (*dto.MovementResponse, error) {
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	var comp *entity.Movement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		comp, err = uc.cancelInTx(r, userID, movementID, notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(comp), nil
}

// ListMovements lista movimientos con filtros y paginación.
func (uc *UseCase) ListMovements(f repository.MovementFilter, page dto.PageRequest) (*dto.ListResponse[dto.MovementResponse], error) {
	list, total, err := uc.movementRepo.List(f, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	resp := dto.NewListResponse(out, page, total)
	return &resp, nil
}

// applyInput entrada interna para aplicar una operación dentro de una tx.
type applyInput struct {
	ComponentID    string
	MovementTypeID string
	Operation      string
	Quantity       decimal.Decimal
	UnitCost       *decimal.Decimal
	Reference      string
	Notes          string
	UserID         string
	IsCancellation bool
	CancelsID      *string
}

// applyInTx ejecuta la primitiva del ledger con los repositorios de la tx:
// bloquea la fila del componente, valida la precondición con ledger.Apply,
// aplica el delta condicional y registra el movimiento. El UPDATE con guarda
// cierra la carrera check-then-act aun si otro proceso escribió entre la
// lectura y el update.
func (uc *UseCase) applyInTx(r Repos, in applyInput) (*entity.Movement, error) {
	comp, err := r.Components.GetForUpdate(in.ComponentID)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, domain.ErrNotFound
	}
	if !comp.IsActive {
		return nil, domain.ErrComponentInactive
	}

	bal := ledger.Balance{Current: comp.CurrentStock, Reserved: comp.ReservedStock}
	if _, err := ledger.Apply(bal, in.Operation, in.Quantity); err != nil {
		return nil, err
	}
	dc, dr := ledger.Deltas(in.Operation, in.Quantity)
	if err := r.Components.ApplyStockDelta(comp.ID, dc, dr); err != nil {
		return nil, err
	}

	unitCost := comp.CostPrice
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}
	// En entradas con costo, recalcular el costo promedio ponderado.
	if in.Operation == ledger.OpIn && in.UnitCost != nil {
		newCost := ledger.AverageCost(bal.Current, comp.CostPrice, in.Quantity, unitCost)
		if err := r.Components.UpdateCostPrice(comp.ID, newCost); err != nil {
			return nil, err
		}
	}

	mov := &entity.Movement{
		ID:             uuid.New().String(),
		ComponentID:    comp.ID,
		MovementTypeID: in.MovementTypeID,
		Operation:      in.Operation,
		Quantity:       in.Quantity,
		UnitCost:       unitCost,
		Reference:      in.Reference,
		Notes:          in.Notes,
		UserID:         in.UserID,
		IsCancellation: in.IsCancellation,
		CancelsID:      in.CancelsID,
		CreatedAt:      time.Now(),
	}
	if err := r.Movements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// cancelInTx aplica la cancelación con los repositorios de la tx. Un
// movimiento se cancela a lo sumo una vez; los compensatorios no se cancelan.
func (uc *UseCase) cancelInTx(r Repos, userID, movementID, notes string) (*entity.Movement, error) {
	orig, err := r.Movements.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, domain.ErrNotFound
	}
	if orig.CancelledByID != nil {
		return nil, domain.ErrMovementAlreadyCancelled
	}
	if orig.IsCancellation {
		return nil, domain.ErrInvalidInput
	}

	comp, err := r.Components.GetForUpdate(orig.ComponentID)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, domain.ErrNotFound
	}

	bal := ledger.Balance{Current: comp.CurrentStock, Reserved: comp.ReservedStock}
	if _, err := ledger.ApplyInverse(bal, orig.Operation, orig.Quantity); err != nil {
		return nil, err
	}
	dc, dr := ledger.Deltas(orig.Operation, orig.Quantity)
	if err := r.Components.ApplyStockDelta(comp.ID, dc.Neg(), dr.Neg()); err != nil {
		return nil, err
	}

	inverse := &entity.Movement{
		ID:             uuid.New().String(),
		ComponentID:    orig.ComponentID,
		MovementTypeID: orig.MovementTypeID,
		Operation:      orig.Operation,
		Quantity:       orig.Quantity,
		UnitCost:       orig.UnitCost,
		Reference:      orig.Reference,
		Notes:          notes,
		UserID:         userID,
		IsCancellation: true,
		CancelsID:      &orig.ID,
		CreatedAt:      time.Now(),
	}
	if err := r.Movements.Create(inverse); err != nil {
		return nil, err
	}
	if err := r.Movements.MarkCancelled(orig.ID, inverse.ID); err != nil {
		return nil, err
	}
	return inverse, nil
}

// ApplyInTx expone la primitiva del ledger para otros casos de uso que corren
// dentro de la misma transacción (recetas, remisiones, reservas). typeCode es
// el código del tipo de movimiento a registrar.
func (uc *UseCase) ApplyInTx(r Repos, typeCode, componentID string, qty decimal.Decimal, unitCost *decimal.Decimal, userID, reference, notes string) (*entity.Movement, error) {
	mt, err := r.MovementTypes.GetByCode(typeCode)
	if err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, domain.ErrNotFound
	}
	return uc.applyInTx(r, applyInput{
		ComponentID:    componentID,
		MovementTypeID: mt.ID,
		Operation:      mt.Operation,
		Quantity:       qty,
		UnitCost:       unitCost,
		Reference:      reference,
		Notes:          notes,
		UserID:         userID,
	})
}

// CancelInTx expone la cancelación para otros casos de uso en la misma tx
// (ej. anular una remisión compensa sus salidas).
func (uc *UseCase) CancelInTx(r Repos, userID, movementID, notes string) (*entity.Movement, error) {
	return uc.cancelInTx(r, userID, movementID, notes)
}

// ToMovementResponse mapea la entidad al DTO de respuesta.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:             m.ID,
		ComponentID:    m.ComponentID,
		MovementTypeID: m.MovementTypeID,
		Operation:      m.Operation,
		Quantity:       m.Quantity,
		UnitCost:       m.UnitCost,
		Reference:      m.Reference,
		Notes:          m.Notes,
		UserID:         m.UserID,
		IsCancellation: m.IsCancellation,
		CancelsID:      m.CancelsID,
		CancelledByID:  m.CancelledByID,
		CreatedAt:      m.CreatedAt,
	}
}

package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// ReservationUseCase maneja reservas: apartados blandos sobre el stock
// disponible, liberables o convertibles a consumo. Cada transición registra
// el movimiento correspondiente; la fila de reserva es solo una vista.
type ReservationUseCase struct {
	txRunner        TxRunner
	inventory       *UseCase
	reservationRepo repository.ReservationRepository
}

// NewReservationUseCase construye el caso de uso de reservas.
func NewReservationUseCase(txRunner TxRunner, inv *UseCase, reservationRepo repository.ReservationRepository) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner, inventory: inv, reservationRepo: reservationRepo}
}

// Create registra un movimiento RESERVE y crea la fila de reserva (active)
// en la misma transacción.
func (uc *ReservationUseCase) Create(ctx context.Context, userID string, in dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	if in.ComponentID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var res *entity.Reservation
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		mov, err := uc.inventory.ApplyInTx(r, TypeReserve, in.ComponentID, in.Quantity, nil, userID, in.Reference, in.Notes)
		if err != nil {
			return err
		}
		now := time.Now()
		res = &entity.Reservation{
			ID:          uuid.New().String(),
			ComponentID: in.ComponentID,
			Quantity:    in.Quantity,
			Status:      entity.ReservationActive,
			Reference:   in.Reference,
			Notes:       in.Notes,
			UserID:      userID,
			MovementID:  mov.ID,
			ExpiresAt:   in.ExpiresAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return r.Reservations.Create(res)
	})
	if err != nil {
		return nil, err
	}
	return toReservationResponse(res), nil
}

// Release libera una reserva activa: movimiento RELEASE y estado cancelled.
func (uc *ReservationUseCase) Release(ctx context.Context, userID, reservationID, notes string) (*dto.ReservationResponse, error) {
	return uc.transition(ctx, userID, reservationID, notes, TypeRelease, entity.ReservationCancelled)
}

// Consume convierte una reserva activa en consumo: movimiento
// CONSUME_RESERVED y estado completed.
func (uc *ReservationUseCase) Consume(ctx context.Context, userID, reservationID, notes string) (*dto.ReservationResponse, error) {
	return uc.transition(ctx, userID, reservationID, notes, TypeConsume, entity.ReservationCompleted)
}

func (uc *ReservationUseCase) transition(ctx context.Context, userID, reservationID, notes, typeCode, newStatus string) (*dto.ReservationResponse, error) {
	if reservationID == "" {
		return nil, domain.ErrInvalidInput
	}
	var res *entity.Reservation
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		res, err = r.Reservations.GetByID(reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		if res.Status != entity.ReservationActive {
			return domain.ErrReservationNotActive
		}
		if _, err := uc.inventory.ApplyInTx(r, typeCode, res.ComponentID, res.Quantity, nil, userID, res.Reference, notes); err != nil {
			return err
		}
		if err := r.Reservations.UpdateStatus(res.ID, newStatus); err != nil {
			return err
		}
		res.Status = newStatus
		res.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toReservationResponse(res), nil
}

// List lista reservas con filtros y paginación.
func (uc *ReservationUseCase) List(f repository.ReservationFilter, page dto.PageRequest) (*dto.ListResponse[dto.ReservationResponse], error) {
	list, total, err := uc.reservationRepo.List(f, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toReservationResponse(r))
	}
	resp := dto.NewListResponse(out, page, total)
	return &resp, nil
}

func toReservationResponse(r *entity.Reservation) *dto.ReservationResponse {
	if r == nil {
		return nil
	}
	return &dto.ReservationResponse{
		ID:          r.ID,
		ComponentID: r.ComponentID,
		Quantity:    r.Quantity,
		Status:      r.Status,
		Reference:   r.Reference,
		Notes:       r.Notes,
		UserID:      r.UserID,
		MovementID:  r.MovementID,
		ExpiresAt:   r.ExpiresAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

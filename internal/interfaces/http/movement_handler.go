package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
	"github.com/tu-usuario/inventario-api/pkg/validate"
)

// MovementHandler maneja el ledger de movimientos y las reservas (protegido).
type MovementHandler struct {
	uc  *inventory.UseCase
	res *inventory.ReservationUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.UseCase, res *inventory.ReservationUseCase) *MovementHandler {
	return &MovementHandler{uc: uc, res: res}
}

// mapStockError traduce los errores de negocio del ledger a HTTP 400.
func mapStockError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case domain.ErrInsufficientAvailable:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_AVAILABLE", Message: "stock disponible insuficiente (hay reservas)"})
	case domain.ErrInsufficientReserved:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_RESERVED", Message: "stock reservado insuficiente"})
	case domain.ErrComponentInactive:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "COMPONENT_INACTIVE", Message: "el componente está inactivo"})
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	return internalError(c, err)
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Description  Aplica una operación del ledger (IN, OUT, RESERVE, RELEASE,
//	CONSUME_RESERVED) según el tipo de movimiento indicado.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "component_id, movement_type_id, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.FirstError(err)})
	}
	out, err := h.uc.RegisterMovement(c.Context(), GetUserID(c), in)
	if err != nil {
		return mapStockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel godoc
// @Summary      Anular movimiento
// @Description  Emite un movimiento compensatorio que revierte exactamente los
//	deltas del original. El historial nunca se modifica ni borra.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento a anular"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	var in struct {
		Notes string `json:"notes"`
	}
	// El body es opcional: solo lleva notas.
	_ = c.BodyParser(&in)

	out, err := h.uc.CancelMovement(c.Context(), GetUserID(c), c.Params("id"), in.Notes)
	if err != nil {
		if err == domain.ErrMovementAlreadyCancelled {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "el movimiento ya fue anulado"})
		}
		return mapStockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        page          query  int     false  "Página"
// @Param        limit         query  int     false  "Tamaño de página"
// @Param        component_id  query  string  false  "Filtrar por componente"
// @Param        operation     query  string  false  "Filtrar por operación (IN, OUT, ...)"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	f := repository.MovementFilter{
		ComponentID: c.Query("component_id"),
		Operation:   c.Query("operation"),
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		f.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		f.To = &t
	}
	out, err := h.uc.ListMovements(f, page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// CreateReservation godoc
// @Summary      Crear reserva de stock
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReservationRequest  true  "component_id, quantity"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/reservations [post]
func (h *MovementHandler) CreateReservation(c *fiber.Ctx) error {
	var in dto.CreateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.FirstError(err)})
	}
	out, err := h.res.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return mapStockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReservations godoc
// @Summary      Listar reservas
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        page          query  int     false  "Página"
// @Param        limit         query  int     false  "Tamaño de página"
// @Param        component_id  query  string  false  "Filtrar por componente"
// @Param        status        query  string  false  "Filtrar por estado (active, completed, cancelled)"
// @Success      200  {object}  dto.ListResponse[dto.ReservationResponse]
// @Router       /api/movements/reservations [get]
func (h *MovementHandler) ListReservations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	f := repository.ReservationFilter{
		ComponentID: c.Query("component_id"),
		Status:      c.Query("status"),
	}
	out, err := h.res.List(f, page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// ReleaseReservation godoc
// @Summary      Liberar reserva
// @Description  Devuelve la cantidad reservada al stock disponible.
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/reservations/{id}/release [post]
func (h *MovementHandler) ReleaseReservation(c *fiber.Ctx) error {
	return h.transitionReservation(c, h.res.Release)
}

// ConsumeReservation godoc
// @Summary      Consumir reserva
// @Description  Descuenta definitivamente la cantidad reservada del stock.
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/reservations/{id}/consume [post]
func (h *MovementHandler) ConsumeReservation(c *fiber.Ctx) error {
	return h.transitionReservation(c, h.res.Consume)
}

func (h *MovementHandler) transitionReservation(
	c *fiber.Ctx,
	fn func(ctx context.Context, userID, reservationID, notes string) (*dto.ReservationResponse, error),
) error {
	var in struct {
		Notes string `json:"notes"`
	}
	_ = c.BodyParser(&in)

	out, err := fn(c.Context(), GetUserID(c), c.Params("id"), in.Notes)
	if err != nil {
		if err == domain.ErrReservationNotActive {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "RESERVATION_NOT_ACTIVE", Message: "la reserva no está activa"})
		}
		return mapStockError(c, err)
	}
	return c.JSON(out)
}

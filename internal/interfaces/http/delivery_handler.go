package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-api/internal/application/deliveries"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/pkg/validate"
)

// DeliveryHandler maneja remisiones (protegido).
type DeliveryHandler struct {
	uc *deliveries.UseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *deliveries.UseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear remisión
// @Description  Emite un movimiento OUT por cada ítem dentro de una sola
//	transacción; si falta stock para cualquier ítem no se crea nada.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "customer_name, items, shipping_cost (opcional)"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.FirstError(err)})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return mapStockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Consultar remisión
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la remisión"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "remisión no encontrada"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar remisiones
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        status  query  string  false  "Filtrar por estado (pending, delivered, cancelled)"
// @Success      200  {object}  dto.ListResponse[dto.DeliveryResponse]
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.List(c.Query("status"), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// MarkDelivered godoc
// @Summary      Marcar remisión como entregada
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la remisión"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/deliver [post]
func (h *DeliveryHandler) MarkDelivered(c *fiber.Ctx) error {
	out, err := h.uc.MarkDelivered(c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "remisión no encontrada"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_STATUS", Message: "solo remisiones pendientes pueden marcarse entregadas"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular remisión
// @Description  Anula los movimientos OUT de cada ítem con movimientos
//	compensatorios y marca la remisión como cancelada. Solo remisiones
//	pendientes.
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la remisión"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/cancel [post]
func (h *DeliveryHandler) Cancel(c *fiber.Ctx) error {
	var in struct {
		Notes string `json:"notes"`
	}
	_ = c.BodyParser(&in)

	out, err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id"), in.Notes)
	if err != nil {
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_STATUS", Message: "solo remisiones pendientes pueden anularse"})
		}
		if err == domain.ErrMovementAlreadyCancelled {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "la remisión tiene movimientos ya anulados"})
		}
		return mapStockError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar PDF de la remisión
// @Tags         deliveries
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la remisión"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/pdf [get]
func (h *DeliveryHandler) PDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.GeneratePDF(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "remisión no encontrada"})
		}
		return internalError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

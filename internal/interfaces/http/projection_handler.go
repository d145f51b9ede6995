package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/projections"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/pkg/validate"
)

// ProjectionHandler maneja proyecciones de producción (protegido).
type ProjectionHandler struct {
	uc *projections.UseCase
}

// NewProjectionHandler construye el handler.
func NewProjectionHandler(uc *projections.UseCase) *ProjectionHandler {
	return &ProjectionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proyección de producción
// @Description  Calcula el requerimiento agregado por componente para el lote
//	de recetas indicado y guarda el snapshot con los faltantes. No mueve stock.
// @Tags         projections
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectionRequest  true  "name, recipes (recipe_id + times)"
// @Success      201   {object}  dto.ProjectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/projections [post]
func (h *ProjectionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.FirstError(err)})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "receta o componente no existe"})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Consultar proyección
// @Tags         projections
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la proyección"
// @Success      200  {object}  dto.ProjectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projections/{id} [get]
func (h *ProjectionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proyección no encontrada"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar proyecciones
// @Tags         projections
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página"
// @Param        limit  query  int  false  "Tamaño de página"
// @Success      200  {object}  dto.ListResponse[dto.ProjectionResponse]
// @Router       /api/projections [get]
func (h *ProjectionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.List(page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar proyección
// @Description  Las proyecciones son snapshots descartables; eliminarlas no
//	afecta el stock.
// @Tags         projections
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la proyección"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projections/{id} [delete]
func (h *ProjectionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proyección no encontrada"})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

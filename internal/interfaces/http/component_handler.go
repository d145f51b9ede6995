package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/usecase"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
	"github.com/tu-usuario/inventario-api/pkg/validate"
)

// ComponentHandler maneja el CRUD de componentes (protegido).
type ComponentHandler struct {
	uc *usecase.ComponentUseCase
}

// NewComponentHandler construye el handler.
func NewComponentHandler(uc *usecase.ComponentUseCase) *ComponentHandler {
	return &ComponentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear componente
// @Tags         components
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateComponentRequest  true  "code, name, category_id, unit_id"
// @Success      201   {object}  dto.ComponentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/components [post]
func (h *ComponentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.FirstError(err)})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DUPLICATE_CODE", Message: "el código ya existe"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "categoría o unidad no existe"})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Consultar componente
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del componente"
// @Success      200  {object}  dto.ComponentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/components/{id} [get]
func (h *ComponentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "componente no encontrado"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar componentes
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        page         query  int     false  "Página (default 1)"
// @Param        limit        query  int     false  "Tamaño de página (default 20, max 100)"
// @Param        category_id  query  string  false  "Filtrar por categoría"
// @Param        search       query  string  false  "Buscar en código y nombre"
// @Param        active       query  bool    false  "Solo activos"
// @Param        low_stock    query  bool    false  "Solo bajo stock mínimo"
// @Success      200  {object}  dto.ListResponse[dto.ComponentResponse]
// @Router       /api/components [get]
func (h *ComponentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	f := repository.ComponentFilter{
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
		OnlyActive: c.QueryBool("active"),
		LowStock:   c.QueryBool("low_stock"),
	}
	out, err := h.uc.List(f, page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar componente
// @Description  No modifica stock ni código; el stock solo cambia vía movimientos.
// @Tags         components
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del componente"
// @Param        body  body  dto.UpdateComponentRequest  true  "campos editables"
// @Success      200   {object}  dto.ComponentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/components/{id} [put]
func (h *ComponentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validate.FirstError(err)})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "componente, categoría o unidad no encontrado"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar componente (baja lógica)
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del componente"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/components/{id} [delete]
func (h *ComponentHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "componente no encontrado"})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

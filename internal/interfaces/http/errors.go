package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tu-usuario/inventario-api/internal/application/dto"
)

// internalError registra el error inesperado y responde 500 con un cuerpo
// genérico: el detalle interno (SQL, conexiones, rutas de archivo) queda en
// el log, nunca en la respuesta.
func internalError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: "error interno del servidor",
	})
}

package http

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Los 500 no deben filtrar el detalle interno del error al cliente.
func TestInternalError_NoFiltraDetalleAlCliente(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return internalError(c, errors.New("pgx: conexión rechazada a 10.0.0.5:5432"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "error interno del servidor")
	assert.Contains(t, string(body), "INTERNAL")
	assert.NotContains(t, string(body), "10.0.0.5", "el detalle del error no debe llegar al cliente")
}

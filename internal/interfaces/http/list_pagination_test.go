package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/inventory/inventorytest"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	apphttp "github.com/tu-usuario/inventario-api/internal/interfaces/http"
)

// buildMovementsApp monta el listado de movimientos sobre repositorios en
// memoria con 3 movimientos registrados.
func buildMovementsApp(t *testing.T) *fiber.App {
	t.Helper()
	store := inventorytest.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.MovementTypes.Seed(inventory.DefaultMovementTypes()))

	runner := inventorytest.NewTxRunner(store)
	uc := inventory.NewUseCase(runner, repos.Components, repos.Movements, repos.MovementTypes)
	res := inventory.NewReservationUseCase(runner, uc, repos.Reservations)

	comp := &entity.Component{
		ID:           uuid.New().String(),
		Code:         "CMP-001",
		Name:         "Componente CMP-001",
		CurrentStock: decimal.NewFromInt(100),
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repos.Components.Create(comp))

	mt, err := repos.MovementTypes.GetByCode(inventory.TypePurchaseIn)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
			ComponentID:    comp.ID,
			MovementTypeID: mt.ID,
			Quantity:       decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	}

	app := fiber.New()
	handler := apphttp.NewMovementHandler(uc, res)
	app.Get("/api/movements", handler.List)
	return app
}

func listMovements(t *testing.T, app *fiber.App, query string) dto.ListResponse[dto.MovementResponse] {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/movements"+query, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.ListResponse[dto.MovementResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// Sin query params deben aplicar los defaults page=1, limit=20; un listado
// sin parámetros nunca debe volver vacío habiendo datos.
func TestList_SinParametros_AplicaDefaults(t *testing.T) {
	app := buildMovementsApp(t)
	body := listMovements(t, app, "")

	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 20, body.Limit)
	assert.Equal(t, 3, body.Total)
	assert.Len(t, body.Data, 3)
}

// Con limit y sin page la página debe defaultear a 1 (offset 0, nunca negativo).
func TestList_LimitSinPage_DefaulteaPagina1(t *testing.T) {
	app := buildMovementsApp(t)
	body := listMovements(t, app, "?limit=2")

	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 2, body.Limit)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.Pages)
	assert.Len(t, body.Data, 2)
}

func TestList_SegundaPagina(t *testing.T) {
	app := buildMovementsApp(t)
	body := listMovements(t, app, "?limit=2&page=2")

	assert.Equal(t, 2, body.Page)
	assert.Len(t, body.Data, 1)
}

// El límite se acota a 100 aunque el cliente pida más.
func TestList_LimiteAcotado(t *testing.T) {
	app := buildMovementsApp(t)
	body := listMovements(t, app, "?limit=5000")

	assert.Equal(t, 100, body.Limit)
	assert.Len(t, body.Data, 3)
}

package recipes_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/inventory/inventorytest"
	"github.com/tu-usuario/inventario-api/internal/application/recipes"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

func newEnv(t *testing.T) (*inventorytest.Store, *recipes.UseCase) {
	t.Helper()
	store := inventorytest.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.MovementTypes.Seed(inventory.DefaultMovementTypes()))

	runner := inventorytest.NewTxRunner(store)
	inv := inventory.NewUseCase(runner, repos.Components, repos.Movements, repos.MovementTypes)
	return store, recipes.NewUseCase(runner, inv, repos.Recipes, repos.Components)
}

func seedComponent(t *testing.T, store *inventorytest.Store, code, stock, reserved, cost string) *entity.Component {
	t.Helper()
	c := &entity.Component{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          "Componente " + code,
		CurrentStock:  dec(stock),
		ReservedStock: dec(reserved),
		CostPrice:     dec(cost),
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, store.Repos().Components.Create(c))
	return c
}

func seedRecipe(t *testing.T, store *inventorytest.Store, output *entity.Component, outputQty string, ingredients map[*entity.Component]string) *entity.Recipe {
	t.Helper()
	r := &entity.Recipe{
		ID:                uuid.New().String(),
		Code:              "REC-" + output.Code,
		Name:              "Receta " + output.Name,
		OutputComponentID: output.ID,
		OutputQuantity:    dec(outputQty),
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	for comp, qty := range ingredients {
		r.Ingredients = append(r.Ingredients, entity.RecipeIngredient{
			ID:          uuid.New().String(),
			RecipeID:    r.ID,
			ComponentID: comp.ID,
			Quantity:    dec(qty),
		})
	}
	require.NoError(t, store.Repos().Recipes.Create(r))
	return r
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExecute_ConsumeIngredientesYProduceSalida(t *testing.T) {
	store, uc := newEnv(t)
	ingA := seedComponent(t, store, "MAT-A", "100", "0", "3")
	ingB := seedComponent(t, store, "MAT-B", "100", "0", "4")
	out := seedComponent(t, store, "PROD-X", "0", "0", "0")
	recipe := seedRecipe(t, store, out, "5", map[*entity.Component]string{ingA: "2", ingB: "1"})

	resp, err := uc.Execute(context.Background(), "user-1", recipe.ID, dto.ExecuteRecipeRequest{Times: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Times)
	assert.True(t, resp.ProducedQuantity.Equal(dec("10")))
	assert.Len(t, resp.MovementIDs, 3, "dos salidas de ingredientes y una entrada de producto")

	gotA, _ := store.Repos().Components.GetByID(ingA.ID)
	gotB, _ := store.Repos().Components.GetByID(ingB.ID)
	gotOut, _ := store.Repos().Components.GetByID(out.ID)
	assert.True(t, gotA.CurrentStock.Equal(dec("96")))
	assert.True(t, gotB.CurrentStock.Equal(dec("98")))
	assert.True(t, gotOut.CurrentStock.Equal(dec("10")))
	// costo de salida = (4×3 + 2×4) / 10 = 2
	assert.True(t, gotOut.CostPrice.Equal(dec("2")), "costo unitario de salida: %s", gotOut.CostPrice)

	// Todos los movimientos comparten la referencia de ejecución.
	movs, _, err := store.Repos().Movements.List(repository.MovementFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	for _, m := range movs {
		assert.Equal(t, resp.ExecutionID, m.Reference)
	}
}

func TestExecute_TodoONada(t *testing.T) {
	store, uc := newEnv(t)
	ingA := seedComponent(t, store, "MAT-A", "100", "0", "3")
	ingB := seedComponent(t, store, "MAT-B", "1", "0", "4")
	out := seedComponent(t, store, "PROD-X", "0", "0", "0")
	recipe := seedRecipe(t, store, out, "5", map[*entity.Component]string{ingA: "2", ingB: "1"})

	// MAT-B solo alcanza para 1 ejecución; pedir 2 no debe consumir nada.
	_, err := uc.Execute(context.Background(), "user-1", recipe.ID, dto.ExecuteRecipeRequest{Times: 2})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	gotA, _ := store.Repos().Components.GetByID(ingA.ID)
	gotOut, _ := store.Repos().Components.GetByID(out.ID)
	assert.True(t, gotA.CurrentStock.Equal(dec("100")), "ningún ingrediente debe quedar consumido")
	assert.True(t, gotOut.CurrentStock.IsZero())
	assert.Empty(t, store.Movements)
}

func TestExecute_RespetaStockReservado(t *testing.T) {
	store, uc := newEnv(t)
	// Hay 10 físicas pero 9 reservadas: disponible 1, la receta pide 2.
	ing := seedComponent(t, store, "MAT-A", "10", "9", "3")
	out := seedComponent(t, store, "PROD-X", "0", "0", "0")
	recipe := seedRecipe(t, store, out, "1", map[*entity.Component]string{ing: "2"})

	_, err := uc.Execute(context.Background(), "user-1", recipe.ID, dto.ExecuteRecipeRequest{Times: 1})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestExecute_RecetaInactiva(t *testing.T) {
	store, uc := newEnv(t)
	ing := seedComponent(t, store, "MAT-A", "100", "0", "3")
	out := seedComponent(t, store, "PROD-X", "0", "0", "0")
	recipe := seedRecipe(t, store, out, "1", map[*entity.Component]string{ing: "2"})
	require.NoError(t, store.Repos().Recipes.SetActive(recipe.ID, false))

	_, err := uc.Execute(context.Background(), "user-1", recipe.ID, dto.ExecuteRecipeRequest{Times: 1})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecute_EntradaInvalida(t *testing.T) {
	store, uc := newEnv(t)
	ing := seedComponent(t, store, "MAT-A", "100", "0", "3")
	out := seedComponent(t, store, "PROD-X", "0", "0", "0")
	recipe := seedRecipe(t, store, out, "1", map[*entity.Component]string{ing: "2"})

	_, err := uc.Execute(context.Background(), "user-1", recipe.ID, dto.ExecuteRecipeRequest{Times: 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), "user-1", uuid.New().String(), dto.ExecuteRecipeRequest{Times: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ValidaComponentes(t *testing.T) {
	store, uc := newEnv(t)
	ing := seedComponent(t, store, "MAT-A", "100", "0", "3")
	out := seedComponent(t, store, "PROD-X", "0", "0", "0")

	resp, err := uc.Create(dto.CreateRecipeRequest{
		Code:              "REC-001",
		Name:              "Kit básico",
		OutputComponentID: out.ID,
		OutputQuantity:    dec("1"),
		Ingredients: []dto.RecipeIngredientInput{
			{ComponentID: ing.ID, Quantity: dec("2")},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	require.Len(t, resp.Ingredients, 1)

	// Componente inexistente en los ingredientes.
	_, err = uc.Create(dto.CreateRecipeRequest{
		Code:              "REC-002",
		Name:              "Rota",
		OutputComponentID: out.ID,
		OutputQuantity:    dec("1"),
		Ingredients: []dto.RecipeIngredientInput{
			{ComponentID: uuid.New().String(), Quantity: dec("2")},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Código duplicado.
	_, err = uc.Create(dto.CreateRecipeRequest{
		Code:              "REC-001",
		Name:              "Duplicada",
		OutputComponentID: out.ID,
		OutputQuantity:    dec("1"),
		Ingredients: []dto.RecipeIngredientInput{
			{ComponentID: ing.ID, Quantity: dec("2")},
		},
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

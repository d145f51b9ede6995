package projections_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory/inventorytest"
	"github.com/tu-usuario/inventario-api/internal/application/projections"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

func newEnv(t *testing.T) (*inventorytest.Store, *projections.UseCase) {
	t.Helper()
	store := inventorytest.NewStore()
	repos := store.Repos()
	runner := inventorytest.NewTxRunner(store)
	return store, projections.NewUseCase(runner, repos.Projections, repos.Recipes, repos.Components)
}

func seedComponent(t *testing.T, store *inventorytest.Store, code, stock, reserved string) *entity.Component {
	t.Helper()
	c := &entity.Component{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          "Componente " + code,
		CurrentStock:  dec(stock),
		ReservedStock: dec(reserved),
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, store.Repos().Components.Create(c))
	return c
}

func seedRecipe(t *testing.T, store *inventorytest.Store, code string, ingredients map[*entity.Component]string) *entity.Recipe {
	t.Helper()
	r := &entity.Recipe{
		ID:                uuid.New().String(),
		Code:              code,
		Name:              "Receta " + code,
		OutputComponentID: uuid.New().String(),
		OutputQuantity:    dec("1"),
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

func TestCreate_AgregaRequerimientosYCalculaFaltantes(t *testing.T) {
	store, uc := newEnv(t)
	// A: disponible 10 (12 físicas, 2 reservadas). B: disponible 100.
	compA := seedComponent(t, store, "MAT-A", "12", "2")
	compB := seedComponent(t, store, "MAT-B", "100", "0")
	rec1 := seedRecipe(t, store, "REC-1", map[*entity.Component]string{compA: "2", compB: "1"})
	rec2 := seedRecipe(t, store, "REC-2", map[*entity.Component]string{compA: "3"})

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateProjectionRequest{
		Name: "Lote septiembre",
		Recipes: []dto.ProjectionRecipeInput{
			{RecipeID: rec1.ID, Times: 4},
			{RecipeID: rec2.ID, Times: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Requirements, 2)

	byComponent := map[string]dto.ProjectionRequirementResponse{}
	for _, req := range resp.Requirements {
		byComponent[req.ComponentID] = req
	}

	// A: 2×4 + 3×2 = 14 requeridas, 10 disponibles, faltan 4.
	reqA := byComponent[compA.ID]
	assert.True(t, reqA.Required.Equal(dec("14")), "requerido A: %s", reqA.Required)
	assert.True(t, reqA.Available.Equal(dec("10")))
	assert.True(t, reqA.Shortage.Equal(dec("4")))

	// B: 1×4 = 4 requeridas, sobra stock, faltante cero (nunca negativo).
	reqB := byComponent[compB.ID]
	assert.True(t, reqB.Required.Equal(dec("4")))
	assert.True(t, reqB.Shortage.IsZero())
}

func TestCreate_SnapshotCongelado(t *testing.T) {
	store, uc := newEnv(t)
	comp := seedComponent(t, store, "MAT-A", "5", "0")
	rec := seedRecipe(t, store, "REC-1", map[*entity.Component]string{comp: "10"})

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateProjectionRequest{
		Name:    "Antes del reabastecimiento",
		Recipes: []dto.ProjectionRecipeInput{{RecipeID: rec.ID, Times: 1}},
	})
	require.NoError(t, err)

	// El stock cambia después; el snapshot guardado no.
	got, err := store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	got.CurrentStock = dec("100")
	require.NoError(t, store.Repos().Components.Update(got))

	reread, err := uc.GetByID(resp.ID)
	require.NoError(t, err)
	require.Len(t, reread.Requirements, 1)
	assert.True(t, reread.Requirements[0].Available.Equal(dec("5")))
	assert.True(t, reread.Requirements[0].Shortage.Equal(dec("5")))
}

func TestCreate_EntradaInvalida(t *testing.T) {
	store, uc := newEnv(t)
	comp := seedComponent(t, store, "MAT-A", "5", "0")
	rec := seedRecipe(t, store, "REC-1", map[*entity.Component]string{comp: "1"})

	_, err := uc.Create(context.Background(), "user-1", dto.CreateProjectionRequest{
		Name:    "",
		Recipes: []dto.ProjectionRecipeInput{{RecipeID: rec.ID, Times: 1}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "user-1", dto.CreateProjectionRequest{
		Name:    "Veces inválidas",
		Recipes: []dto.ProjectionRecipeInput{{RecipeID: rec.ID, Times: 0}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "user-1", dto.CreateProjectionRequest{
		Name:    "Receta fantasma",
		Recipes: []dto.ProjectionRecipeInput{{RecipeID: uuid.New().String(), Times: 1}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_EliminaElSnapshot(t *testing.T) {
	store, uc := newEnv(t)
	comp := seedComponent(t, store, "MAT-A", "5", "0")
	rec := seedRecipe(t, store, "REC-1", map[*entity.Component]string{comp: "1"})

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateProjectionRequest{
		Name:    "Borrable",
		Recipes: []dto.ProjectionRecipeInput{{RecipeID: rec.ID, Times: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(resp.ID))
	_, err = uc.GetByID(resp.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Delete(resp.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

package recipes

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// UseCase maneja recetas (BOM) y su ejecución. Ejecutar una receta consume
// los ingredientes y produce el componente de salida, todo o nada.
type UseCase struct {
	txRunner      inventory.TxRunner
	inventoryUC   *inventory.UseCase
	recipeRepo    repository.RecipeRepository
	componentRepo repository.ComponentRepository
}

// NewUseCase construye el caso de uso de recetas.
func NewUseCase(
	txRunner inventory.TxRunner,
	inventoryUC *inventory.UseCase,
	recipeRepo repository.RecipeRepository,
	componentRepo repository.ComponentRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		inventoryUC:   inventoryUC,
		recipeRepo:    recipeRepo,
		componentRepo: componentRepo,
	}
}

// Create valida los componentes referenciados y persiste la receta.
func (uc *UseCase) Create(in dto.CreateRecipeRequest) (*dto.RecipeResponse, error) {
	if in.Code == "" || in.Name == "" || in.OutputComponentID == "" || len(in.Ingredients) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !in.OutputQuantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.validateComponents(in.OutputComponentID, in.Ingredients); err != nil {
		return nil, err
	}
	now := time.Now()
	recipe := &entity.Recipe{
		ID:                uuid.New().String(),
		Code:              in.Code,
		Name:              in.Name,
		Description:       in.Description,
		OutputComponentID: in.OutputComponentID,
		OutputQuantity:    in.OutputQuantity,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, ing := range in.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, entity.RecipeIngredient{
			ID:          uuid.New().String(),
			RecipeID:    recipe.ID,
			ComponentID: ing.ComponentID,
			Quantity:    ing.Quantity,
		})
	}
	if err := uc.recipeRepo.Create(recipe); err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// Update modifica nombre, descripción, cantidad de salida e ingredientes.
func (uc *UseCase) Update(id string, in dto.UpdateRecipeRequest) (*dto.RecipeResponse, error) {
	recipe, err := uc.recipeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		recipe.Name = in.Name
	}
	if in.Description != "" {
		recipe.Description = in.Description
	}
	if in.OutputQuantity != nil {
		if !in.OutputQuantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		recipe.OutputQuantity = *in.OutputQuantity
	}
	if in.Ingredients != nil {
		if err := uc.validateComponents("", in.Ingredients); err != nil {
			return nil, err
		}
		recipe.Ingredients = nil
		for _, ing := range in.Ingredients {
			recipe.Ingredients = append(recipe.Ingredients, entity.RecipeIngredient{
				ID:          uuid.New().String(),
				RecipeID:    recipe.ID,
				ComponentID: ing.ComponentID,
				Quantity:    ing.Quantity,
			})
		}
	}
	recipe.UpdatedAt = time.Now()
	if err := uc.recipeRepo.Update(recipe); err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// GetByID obtiene una receta con sus ingredientes.
func (uc *UseCase) GetByID(id string) (*dto.RecipeResponse, error) {
	recipe, err := uc.recipeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, domain.ErrNotFound
	}
	return toRecipeResponse(recipe), nil
}

// List lista recetas con paginación.
func (uc *UseCase) List(onlyActive bool, page dto.PageRequest) (*dto.ListResponse[dto.RecipeResponse], error) {
	list, total, err := uc.recipeRepo.List(onlyActive, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRecipeResponse(r))
	}
	resp := dto.NewListResponse(out, page, total)
	return &resp, nil
}

// Deactivate baja lógica de la receta.
func (uc *UseCase) Deactivate(id string) error {
	recipe, err := uc.recipeRepo.GetByID(id)
	if err != nil {
		return err
	}
	if recipe == nil {
		return domain.ErrNotFound
	}
	return uc.recipeRepo.SetActive(id, false)
}

// Execute ejecuta la receta N veces: un movimiento OUT por ingrediente
// (cantidad*N) y un IN por la salida (cantidad de salida*N), todos con la
// misma referencia de ejecución. Primero hace un dry-run de suficiencia
// sobre todos los ingredientes; si alguno no alcanza no se registra ningún
// movimiento. La transacción garantiza que tampoco queda consumo parcial si
// un escritor concurrente agota el stock entre el dry-run y el commit.
func (uc *UseCase) Execute(ctx context.Context, userID, recipeID string, in dto.ExecuteRecipeRequest) (*dto.ExecuteRecipeResponse, error) {
	if in.Times <= 0 {
		return nil, domain.ErrInvalidInput
	}
	recipe, err := uc.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, domain.ErrNotFound
	}
	if !recipe.IsActive {
		return nil, domain.ErrConflict
	}
	if len(recipe.Ingredients) == 0 {
		return nil, domain.ErrInvalidInput
	}

	times := decimal.NewFromInt(in.Times)

	// Dry-run: verificar suficiencia de todos los ingredientes antes de tocar nada.
	var totalCost decimal.Decimal
	for _, ing := range recipe.Ingredients {
		comp, err := uc.componentRepo.GetByID(ing.ComponentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.ErrNotFound
		}
		if !comp.IsActive {
			return nil, domain.ErrComponentInactive
		}
		need := ing.Quantity.Mul(times)
		if comp.Available().LessThan(need) {
			return nil, domain.ErrInsufficientStock
		}
		totalCost = totalCost.Add(need.Mul(comp.CostPrice))
	}

	executionID := uuid.New().String()
	produced := recipe.OutputQuantity.Mul(times)
	// costo unitario de la salida: costo total consumido / cantidad producida
	outputCost := decimal.Zero
	if produced.GreaterThan(decimal.Zero) {
		outputCost = totalCost.Div(produced)
	}

	// Orden estable de bloqueo por componente para evitar deadlocks entre
	// ejecuciones concurrentes de recetas que comparten ingredientes.
	ingredients := make([]entity.RecipeIngredient, len(recipe.Ingredients))
	copy(ingredients, recipe.Ingredients)
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].ComponentID < ingredients[j].ComponentID })

	var movementIDs []string
	err = uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		for _, ing := range ingredients {
			mov, err := uc.inventoryUC.ApplyInTx(
				r, inventory.TypeProductionOut, ing.ComponentID,
				ing.Quantity.Mul(times), nil, userID, executionID, in.Notes,
			)
			if err != nil {
				return err
			}
			movementIDs = append(movementIDs, mov.ID)
		}
		mov, err := uc.inventoryUC.ApplyInTx(
			r, inventory.TypeProductionIn, recipe.OutputComponentID,
			produced, &outputCost, userID, executionID, in.Notes,
		)
		if err != nil {
			return err
		}
		movementIDs = append(movementIDs, mov.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.ExecuteRecipeResponse{
		ExecutionID:      executionID,
		RecipeID:         recipe.ID,
		Times:            in.Times,
		OutputComponent:  recipe.OutputComponentID,
		ProducedQuantity: produced,
		MovementIDs:      movementIDs,
	}, nil
}

// validateComponents comprueba que la salida y los ingredientes existan,
// estén activos y tengan cantidades positivas.
func (uc *UseCase) validateComponents(outputID string, ingredients []dto.RecipeIngredientInput) error {
	check := func(id string) error {
		comp, err := uc.componentRepo.GetByID(id)
		if err != nil {
			return err
		}
		if comp == nil {
			return domain.ErrNotFound
		}
		if !comp.IsActive {
			return domain.ErrComponentInactive
		}
		return nil
	}
	if outputID != "" {
		if err := check(outputID); err != nil {
			return err
		}
	}
	for _, ing := range ingredients {
		if !ing.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if err := check(ing.ComponentID); err != nil {
			return err
		}
	}
	return nil
}

func toRecipeResponse(r *entity.Recipe) *dto.RecipeResponse {
	if r == nil {
		return nil
	}
	out := &dto.RecipeResponse{
		ID:                r.ID,
		Code:              r.Code,
		Name:              r.Name,
		Description:       r.Description,
		OutputComponentID: r.OutputComponentID,
		OutputQuantity:    r.OutputQuantity,
		IsActive:          r.IsActive,
		Ingredients:       []dto.RecipeIngredientResponse{},
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	for _, ing := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, dto.RecipeIngredientResponse{
			ComponentID: ing.ComponentID,
			Quantity:    ing.Quantity,
		})
	}
	return out
}

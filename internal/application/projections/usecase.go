package projections

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

// UseCase calcula y guarda proyecciones de producción: para un lote
// hipotético de ejecuciones de recetas, el faltante por componente al
// momento de guardar. El snapshot queda congelado; nunca se recalcula.
type UseCase struct {
	txRunner       inventory.TxRunner
	projectionRepo repository.ProjectionRepository
	recipeRepo     repository.RecipeRepository
	componentRepo  repository.ComponentRepository
}

// NewUseCase construye el caso de uso de proyecciones.
func NewUseCase(
	txRunner inventory.TxRunner,
	projectionRepo repository.ProjectionRepository,
	recipeRepo repository.RecipeRepository,
	componentRepo repository.ComponentRepository,
) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		projectionRepo: projectionRepo,
		recipeRepo:     recipeRepo,
		componentRepo:  componentRepo,
	}
}

// Create agrega los requerimientos de ingredientes de todas las recetas
// planificadas (Required = Σ cantidad*veces), calcula
// Shortage = max(0, Required - Disponible) y persiste el snapshot completo.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateProjectionRequest) (*dto.ProjectionResponse, error) {
	if in.Name == "" || len(in.Recipes) == 0 {
		return nil, domain.ErrInvalidInput
	}

	required := make(map[string]decimal.Decimal)
	var planned []entity.ProjectionRecipe
	projectionID := uuid.New().String()

	for _, pr := range in.Recipes {
		if pr.Times <= 0 {
			return nil, domain.ErrInvalidInput
		}
		recipe, err := uc.recipeRepo.GetByID(pr.RecipeID)
		if err != nil {
			return nil, err
		}
		if recipe == nil {
			return nil, domain.ErrNotFound
		}
		times := decimal.NewFromInt(pr.Times)
		for _, ing := range recipe.Ingredients {
			required[ing.ComponentID] = required[ing.ComponentID].Add(ing.Quantity.Mul(times))
		}
		planned = append(planned, entity.ProjectionRecipe{
			ID:           uuid.New().String(),
			ProjectionID: projectionID,
			RecipeID:     pr.RecipeID,
			Times:        pr.Times,
		})
	}

	// Orden estable por componente para un snapshot determinista.
	componentIDs := make([]string, 0, len(required))
	for id := range required {
		componentIDs = append(componentIDs, id)
	}
	sort.Strings(componentIDs)

	var requirements []entity.ProjectionRequirement
	for _, componentID := range componentIDs {
		comp, err := uc.componentRepo.GetByID(componentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.ErrNotFound
		}
		available := comp.Available()
		shortage := required[componentID].Sub(available)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		requirements = append(requirements, entity.ProjectionRequirement{
			ID:           uuid.New().String(),
			ProjectionID: projectionID,
			ComponentID:  componentID,
			Required:     required[componentID],
			Available:    available,
			Shortage:     shortage,
		})
	}

	projection := &entity.Projection{
		ID:           projectionID,
		Name:         in.Name,
		Notes:        in.Notes,
		UserID:       userID,
		Recipes:      planned,
		Requirements: requirements,
		CreatedAt:    time.Now(),
	}

	// El snapshot (cabecera, recetas y requerimientos) se persiste atómico.
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		return r.Projections.Create(projection)
	})
	if err != nil {
		return nil, err
	}
	return toProjectionResponse(projection), nil
}

// GetByID obtiene una proyección guardada.
func (uc *UseCase) GetByID(id string) (*dto.ProjectionResponse, error) {
	p, err := uc.projectionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProjectionResponse(p), nil
}

// List lista proyecciones con paginación.
func (uc *UseCase) List(page dto.PageRequest) (*dto.ListResponse[dto.ProjectionResponse], error) {
	list, total, err := uc.projectionRepo.List(page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProjectionResponse(p))
	}
	resp := dto.NewListResponse(out, page, total)
	return &resp, nil
}

// Delete elimina una proyección guardada (es solo un snapshot).
func (uc *UseCase) Delete(id string) error {
	p, err := uc.projectionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.projectionRepo.Delete(id)
}

func toProjectionResponse(p *entity.Projection) *dto.ProjectionResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProjectionResponse{
		ID:           p.ID,
		Name:         p.Name,
		Notes:        p.Notes,
		UserID:       p.UserID,
		Recipes:      []dto.ProjectionRecipeInput{},
		Requirements: []dto.ProjectionRequirementResponse{},
		CreatedAt:    p.CreatedAt,
	}
	for _, pr := range p.Recipes {
		out.Recipes = append(out.Recipes, dto.ProjectionRecipeInput{RecipeID: pr.RecipeID, Times: pr.Times})
	}
	for _, req := range p.Requirements {
		out.Requirements = append(out.Requirements, dto.ProjectionRequirementResponse{
			ComponentID: req.ComponentID,
			Required:    req.Required,
			Available:   req.Available,
			Shortage:    req.Shortage,
		})
	}
	return out
}

package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// ReferenceUseCase CRUD de datos de referencia: categorías, unidades y
// tipos de movimiento (estos últimos solo lectura; se siembran al arrancar).
type ReferenceUseCase struct {
	categoryRepo     repository.CategoryRepository
	unitRepo         repository.UnitRepository
	movementTypeRepo repository.MovementTypeRepository
}

// NewReferenceUseCase construye el caso de uso.
func NewReferenceUseCase(
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
	movementTypeRepo repository.MovementTypeRepository,
) *ReferenceUseCase {
	return &ReferenceUseCase{categoryRepo: categoryRepo, unitRepo: unitRepo, movementTypeRepo: movementTypeRepo}
}

// CreateCategory persiste una categoría nueva.
func (uc *ReferenceUseCase) CreateCategory(in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.categoryRepo.Create(c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// ListCategories lista todas las categorías.
func (uc *ReferenceUseCase) ListCategories() ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// UpdateCategory modifica nombre y descripción.
func (uc *ReferenceUseCase) UpdateCategory(id string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	c.Description = in.Description
	if err := uc.categoryRepo.Update(c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// DeleteCategory elimina una categoría.
func (uc *ReferenceUseCase) DeleteCategory(id string) error {
	c, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return uc.categoryRepo.Delete(id)
}

// CreateUnit persiste una unidad de medida nueva.
func (uc *ReferenceUseCase) CreateUnit(in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	u := &entity.Unit{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		CreatedAt: time.Now(),
	}
	if err := uc.unitRepo.Create(u); err != nil {
		return nil, err
	}
	return toUnitResponse(u), nil
}

// ListUnits lista todas las unidades.
func (uc *ReferenceUseCase) ListUnits() ([]dto.UnitResponse, error) {
	list, err := uc.unitRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUnitResponse(u))
	}
	return out, nil
}

// DeleteUnit elimina una unidad.
func (uc *ReferenceUseCase) DeleteUnit(id string) error {
	u, err := uc.unitRepo.GetByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return uc.unitRepo.Delete(id)
}

// ListMovementTypes lista el catálogo de tipos de movimiento.
func (uc *ReferenceUseCase) ListMovementTypes() ([]dto.MovementTypeResponse, error) {
	list, err := uc.movementTypeRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementTypeResponse, 0, len(list))
	for _, mt := range list {
		out = append(out, dto.MovementTypeResponse{
			ID:        mt.ID,
			Code:      mt.Code,
			Name:      mt.Name,
			Operation: mt.Operation,
		})
	}
	return out, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func toUnitResponse(u *entity.Unit) *dto.UnitResponse {
	return &dto.UnitResponse{ID: u.ID, Code: u.Code, Name: u.Name, CreatedAt: u.CreatedAt}
}

package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// ComponentUseCase CRUD de componentes. El stock nunca se edita por aquí:
// solo los movimientos del ledger lo mutan.
type ComponentUseCase struct {
	componentRepo repository.ComponentRepository
	categoryRepo  repository.CategoryRepository
	unitRepo      repository.UnitRepository
}

// NewComponentUseCase construye el caso de uso.
func NewComponentUseCase(
	componentRepo repository.ComponentRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
) *ComponentUseCase {
	return &ComponentUseCase{componentRepo: componentRepo, categoryRepo: categoryRepo, unitRepo: unitRepo}
}

// Create valida categoría y unidad (deben existir: no se aceptan defaults
// silenciosos) y persiste el componente con stock en cero.
func (uc *ComponentUseCase) Create(in dto.CreateComponentRequest) (*dto.ComponentResponse, error) {
	if in.Code == "" || in.Name == "" || in.CategoryID == "" || in.UnitID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock.IsNegative() || in.MaxStock.IsNegative() || in.CostPrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	unit, err := uc.unitRepo.GetByID(in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	comp := &entity.Component{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		UnitID:        in.UnitID,
		CurrentStock:  decimal.Zero,
		ReservedStock: decimal.Zero,
		MinStock:      in.MinStock,
		MaxStock:      in.MaxStock,
		CostPrice:     in.CostPrice,
		SalePrice:     in.SalePrice,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.componentRepo.Create(comp); err != nil {
		return nil, err
	}
	return ToComponentResponse(comp), nil
}

// GetByID obtiene un componente por ID.
func (uc *ComponentUseCase) GetByID(id string) (*dto.ComponentResponse, error) {
	comp, err := uc.componentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, domain.ErrNotFound
	}
	return ToComponentResponse(comp), nil
}

// Update modifica los campos editables del componente (no stock, no código).
func (uc *ComponentUseCase) Update(id string, in dto.UpdateComponentRequest) (*dto.ComponentResponse, error) {
	comp, err := uc.componentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		comp.Name = in.Name
	}
	if in.Description != "" {
		comp.Description = in.Description
	}
	if in.CategoryID != "" {
		category, err := uc.categoryRepo.GetByID(in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		comp.CategoryID = in.CategoryID
	}
	if in.UnitID != "" {
		unit, err := uc.unitRepo.GetByID(in.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, domain.ErrNotFound
		}
		comp.UnitID = in.UnitID
	}
	if in.MinStock != nil {
		comp.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		comp.MaxStock = *in.MaxStock
	}
	if in.SalePrice != nil {
		comp.SalePrice = *in.SalePrice
	}
	comp.UpdatedAt = time.Now()
	if err := uc.componentRepo.Update(comp); err != nil {
		return nil, err
	}
	return ToComponentResponse(comp), nil
}

// List lista componentes con filtros y paginación.
func (uc *ComponentUseCase) List(f repository.ComponentFilter, page dto.PageRequest) (*dto.ListResponse[dto.ComponentResponse], error) {
	list, total, err := uc.componentRepo.List(f, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ComponentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *ToComponentResponse(c))
	}
	resp := dto.NewListResponse(out, page, total)
	return &resp, nil
}

// Deactivate baja lógica: el componente deja de aceptar movimientos.
func (uc *ComponentUseCase) Deactivate(id string) error {
	comp, err := uc.componentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if comp == nil {
		return domain.ErrNotFound
	}
	return uc.componentRepo.SetActive(id, false)
}

// ToComponentResponse mapea la entidad al DTO de respuesta.
func ToComponentResponse(c *entity.Component) *dto.ComponentResponse {
	if c == nil {
		return nil
	}
	return &dto.ComponentResponse{
		ID:             c.ID,
		Code:           c.Code,
		Name:           c.Name,
		Description:    c.Description,
		CategoryID:     c.CategoryID,
		UnitID:         c.UnitID,
		CurrentStock:   c.CurrentStock,
		ReservedStock:  c.ReservedStock,
		AvailableStock: c.Available(),
		MinStock:       c.MinStock,
		MaxStock:       c.MaxStock,
		CostPrice:      c.CostPrice,
		SalePrice:      c.SalePrice,
		IsActive:       c.IsActive,
		LowStock:       c.IsLowStock(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

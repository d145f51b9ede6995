package deliveries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/ledger"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// UseCase crea remisiones (notas de entrega) y descuenta el inventario en
// una sola transacción: una salida OUT por línea, todas con la remisión como
// referencia. El flete y su impuesto se prorratean entre las unidades.
type UseCase struct {
	txRunner      inventory.TxRunner
	inventoryUC   *inventory.UseCase
	deliveryRepo  repository.DeliveryRepository
	componentRepo repository.ComponentRepository
	unitRepo      repository.UnitRepository
	pdfGenerator  DeliveryPDFGenerator
}

// NewUseCase construye el caso de uso de remisiones.
func NewUseCase(
	txRunner inventory.TxRunner,
	inventoryUC *inventory.UseCase,
	deliveryRepo repository.DeliveryRepository,
	componentRepo repository.ComponentRepository,
	unitRepo repository.UnitRepository,
	pdfGenerator DeliveryPDFGenerator,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		inventoryUC:   inventoryUC,
		deliveryRepo:  deliveryRepo,
		componentRepo: componentRepo,
		unitRepo:      unitRepo,
		pdfGenerator:  pdfGenerator,
	}
}

// Create valida las líneas, asigna el consecutivo del año y registra la
// remisión con sus salidas de inventario. Si alguna línea no tiene stock
// suficiente se hace rollback completo.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	if in.CustomerName == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ShippingCost.IsNegative() || in.ShippingTax.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Validación de líneas y total de unidades (solo lectura, fuera de la tx).
	var totalQty decimal.Decimal
	for i := range in.Items {
		item := &in.Items[i]
		if item.ComponentID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		comp, err := uc.componentRepo.GetByID(item.ComponentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.ErrNotFound
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = comp.SalePrice
		}
		totalQty = totalQty.Add(item.Quantity)
	}

	extraPerUnit := ledger.ExtraCostPerUnit(in.ShippingCost, in.ShippingTax, totalQty)
	now := time.Now()
	delivery := &entity.Delivery{
		ID:            uuid.New().String(),
		CustomerName:  in.CustomerName,
		CustomerNIT:   in.CustomerNIT,
		CustomerAddr:  in.CustomerAddr,
		CustomerPhone: in.CustomerPhone,
		Status:        entity.DeliveryPending,
		ShippingCost:  in.ShippingCost,
		ShippingTax:   in.ShippingTax,
		Notes:         in.Notes,
		UserID:        userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		number, err := r.Deliveries.NextNumber(now.Year())
		if err != nil {
			return err
		}
		delivery.Number = number

		var subtotal decimal.Decimal
		for _, item := range in.Items {
			mov, err := uc.inventoryUC.ApplyInTx(
				r, inventory.TypeDeliveryOut, item.ComponentID,
				item.Quantity, nil, userID, number, in.Notes,
			)
			if err != nil {
				return err
			}
			// mov.UnitCost es el costo promedio del componente al momento de la salida
			delivery.Items = append(delivery.Items, entity.DeliveryItem{
				ID:                uuid.New().String(),
				DeliveryID:        delivery.ID,
				ComponentID:       item.ComponentID,
				Quantity:          item.Quantity,
				UnitPrice:         item.UnitPrice,
				EffectiveUnitCost: ledger.EffectiveUnitCost(mov.UnitCost, extraPerUnit),
				MovementID:        mov.ID,
			})
			subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
		}
		delivery.Subtotal = subtotal
		delivery.Total = subtotal.Add(in.ShippingCost).Add(in.ShippingTax)
		return r.Deliveries.Create(delivery)
	})
	if err != nil {
		return nil, err
	}
	return toDeliveryResponse(delivery), nil
}

// GetByID obtiene una remisión con sus líneas.
func (uc *UseCase) GetByID(id string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return toDeliveryResponse(d), nil
}

// List lista remisiones, opcionalmente filtradas por estado.
func (uc *UseCase) List(status string, page dto.PageRequest) (*dto.ListResponse[dto.DeliveryResponse], error) {
	list, total, err := uc.deliveryRepo.List(status, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDeliveryResponse(d))
	}
	resp := dto.NewListResponse(out, page, total)
	return &resp, nil
}

// MarkDelivered marca una remisión pendiente como entregada.
func (uc *UseCase) MarkDelivered(id string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.Status != entity.DeliveryPending {
		return nil, domain.ErrConflict
	}
	if err := uc.deliveryRepo.UpdateStatus(id, entity.DeliveryDelivered); err != nil {
		return nil, err
	}
	d.Status = entity.DeliveryDelivered
	return toDeliveryResponse(d), nil
}

// Cancel anula una remisión pendiente: compensa la salida de cada línea con
// su movimiento inverso y marca la remisión como cancelada, todo en una tx.
func (uc *UseCase) Cancel(ctx context.Context, userID, id, notes string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.Status != entity.DeliveryPending {
		return nil, domain.ErrConflict
	}
	err = uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		for _, item := range d.Items {
			if _, err := uc.inventoryUC.CancelInTx(r, userID, item.MovementID, notes); err != nil {
				return err
			}
		}
		return r.Deliveries.UpdateStatus(id, entity.DeliveryCancelled)
	})
	if err != nil {
		return nil, err
	}
	d.Status = entity.DeliveryCancelled
	return toDeliveryResponse(d), nil
}

// GeneratePDF genera el PDF de la remisión y devuelve los bytes y el nombre
// de archivo sugerido.
func (uc *UseCase) GeneratePDF(ctx context.Context, id string) ([]byte, string, error) {
	d, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if d == nil {
		return nil, "", domain.ErrNotFound
	}

	components := make(map[string]PDFComponentInfo, len(d.Items))
	for _, item := range d.Items {
		comp, err := uc.componentRepo.GetByID(item.ComponentID)
		if err != nil {
			return nil, "", err
		}
		if comp == nil {
			continue
		}
		info := PDFComponentInfo{Code: comp.Code, Name: comp.Name}
		if unit, err := uc.unitRepo.GetByID(comp.UnitID); err == nil && unit != nil {
			info.Unit = unit.Code
		}
		components[item.ComponentID] = info
	}

	pdfBytes, err := uc.pdfGenerator.GenerateDeliveryPDF(ctx, d, components)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", d.Number), nil
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	if d == nil {
		return nil
	}
	out := &dto.DeliveryResponse{
		ID:            d.ID,
		Number:        d.Number,
		CustomerName:  d.CustomerName,
		CustomerNIT:   d.CustomerNIT,
		CustomerAddr:  d.CustomerAddr,
		CustomerPhone: d.CustomerPhone,
		Status:        d.Status,
		ShippingCost:  d.ShippingCost,
		ShippingTax:   d.ShippingTax,
		Subtotal:      d.Subtotal,
		Total:         d.Total,
		Notes:         d.Notes,
		UserID:        d.UserID,
		Items:         []dto.DeliveryItemResponse{},
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, item := range d.Items {
		out.Items = append(out.Items, dto.DeliveryItemResponse{
			ID:                item.ID,
			ComponentID:       item.ComponentID,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			EffectiveUnitCost: item.EffectiveUnitCost,
			MovementID:        item.MovementID,
		})
	}
	return out
}

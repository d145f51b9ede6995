package deliveries

import (
	"context"

	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

// PDFComponentInfo datos de presentación de un componente en el PDF.
type PDFComponentInfo struct {
	Code string
	Name string
	Unit string
}

// DeliveryPDFGenerator genera la representación PDF de una remisión.
// components mapea ComponentID a sus datos de presentación.
type DeliveryPDFGenerator interface {
	GenerateDeliveryPDF(ctx context.Context, delivery *entity.Delivery, components map[string]PDFComponentInfo) ([]byte, error)
}

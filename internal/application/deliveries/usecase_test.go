package deliveries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/inventario-api/internal/application/deliveries"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/inventory/inventorytest"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

type fakeUnitRepo struct {
	units map[string]entity.Unit
}

func (r *fakeUnitRepo) Create(u *entity.Unit) error { r.units[u.ID] = *u; return nil }
func (r *fakeUnitRepo) GetByID(id string) (*entity.Unit, error) {
	u, ok := r.units[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
func (r *fakeUnitRepo) List() ([]*entity.Unit, error) { return nil, nil }
func (r *fakeUnitRepo) Update(u *entity.Unit) error   { r.units[u.ID] = *u; return nil }
func (r *fakeUnitRepo) Delete(id string) error        { delete(r.units, id); return nil }

type fakePDFGenerator struct {
	lastDelivery *entity.Delivery
}

func (g *fakePDFGenerator) GenerateDeliveryPDF(_ context.Context, d *entity.Delivery, _ map[string]deliveries.PDFComponentInfo) ([]byte, error) {
	g.lastDelivery = d
	return []byte("%PDF-1.4 " + d.Number), nil
}

func newEnv(t *testing.T) (*inventorytest.Store, *deliveries.UseCase, *fakePDFGenerator) {
	t.Helper()
	store := inventorytest.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.MovementTypes.Seed(inventory.DefaultMovementTypes()))

	runner := inventorytest.NewTxRunner(store)
	inv := inventory.NewUseCase(runner, repos.Components, repos.Movements, repos.MovementTypes)
	pdf := &fakePDFGenerator{}
	uc := deliveries.NewUseCase(runner, inv, repos.Deliveries, repos.Components, &fakeUnitRepo{units: map[string]entity.Unit{}}, pdf)
	return store, uc, pdf
}

func seedComponent(t *testing.T, store *inventorytest.Store, code, stock, cost, sale string) *entity.Component {
	t.Helper()
	c := &entity.Component{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         "Componente " + code,
		CurrentStock: dec(stock),
		CostPrice:    dec(cost),
		SalePrice:    dec(sale),
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, store.Repos().Components.Create(c))
	return c
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreate_DescuentaStockYProrrateaFlete(t *testing.T) {
	store, uc, _ := newEnv(t)
	compA := seedComponent(t, store, "CMP-A", "50", "8", "20")
	compB := seedComponent(t, store, "CMP-B", "50", "10", "30")

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Ferretería El Martillo",
		CustomerNIT:  "900123456-7",
		ShippingCost: dec("100"),
		ShippingTax:  dec("20"),
		Items: []dto.DeliveryItemInput{
			{ComponentID: compA.ID, Quantity: dec("6")}, // precio 0: toma SalePrice
			{ComponentID: compB.ID, Quantity: dec("4"), UnitPrice: dec("25")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryPending, resp.Status)
	assert.Equal(t, fmt.Sprintf("REM-%d-0001", time.Now().Year()), resp.Number)

	// Subtotal = 6×20 + 4×25 = 220; total = 220 + 100 + 20 = 340.
	assert.True(t, resp.Subtotal.Equal(dec("220")), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.Total.Equal(dec("340")), "total: %s", resp.Total)

	// Flete (100+20) / 10 unidades = 12 extra por unidad.
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].UnitPrice.Equal(dec("20")))
	assert.True(t, resp.Items[0].EffectiveUnitCost.Equal(dec("20")), "8 + 12: %s", resp.Items[0].EffectiveUnitCost)
	assert.True(t, resp.Items[1].EffectiveUnitCost.Equal(dec("22")), "10 + 12: %s", resp.Items[1].EffectiveUnitCost)

	gotA, _ := store.Repos().Components.GetByID(compA.ID)
	gotB, _ := store.Repos().Components.GetByID(compB.ID)
	assert.True(t, gotA.CurrentStock.Equal(dec("44")))
	assert.True(t, gotB.CurrentStock.Equal(dec("46")))

	// Cada línea guarda el movimiento de salida que la respalda.
	for _, item := range resp.Items {
		mov, err := store.Repos().Movements.GetByID(item.MovementID)
		require.NoError(t, err)
		require.NotNil(t, mov)
		assert.Equal(t, resp.Number, mov.Reference)
	}
}

func TestCreate_ConsecutivoPorAno(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-A", "50", "8", "20")

	first, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Cliente 1",
		Items:        []dto.DeliveryItemInput{{ComponentID: comp.ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Cliente 2",
		Items:        []dto.DeliveryItemInput{{ComponentID: comp.ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("REM-%d-0001", year), first.Number)
	assert.Equal(t, fmt.Sprintf("REM-%d-0002", year), second.Number)
}

func TestCreate_TodoONada(t *testing.T) {
	store, uc, _ := newEnv(t)
	compA := seedComponent(t, store, "CMP-A", "50", "8", "20")
	compB := seedComponent(t, store, "CMP-B", "2", "10", "30")

	_, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Cliente",
		Items: []dto.DeliveryItemInput{
			{ComponentID: compA.ID, Quantity: dec("6")},
			{ComponentID: compB.ID, Quantity: dec("5")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	gotA, _ := store.Repos().Components.GetByID(compA.ID)
	assert.True(t, gotA.CurrentStock.Equal(dec("50")), "la primera línea debe revertirse")
	assert.Empty(t, store.Deliveries)
	assert.Empty(t, store.Movements)
}

func TestCreate_EntradaInvalida(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-A", "50", "8", "20")

	_, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "",
		Items:        []dto.DeliveryItemInput{{ComponentID: comp.ID, Quantity: dec("1")}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Cliente",
		Items:        []dto.DeliveryItemInput{{ComponentID: uuid.New().String(), Quantity: dec("1")}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_CompensaSalidasYEsPendienteSolamente(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-A", "50", "8", "20")

	created, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Cliente",
		Items:        []dto.DeliveryItemInput{{ComponentID: comp.ID, Quantity: dec("6")}},
	})
	require.NoError(t, err)

	cancelled, err := uc.Cancel(context.Background(), "user-2", created.ID, "pedido anulado")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryCancelled, cancelled.Status)

	got, _ := store.Repos().Components.GetByID(comp.ID)
	assert.True(t, got.CurrentStock.Equal(dec("50")), "el stock debe volver exacto")

	// La salida original queda marcada como cancelada.
	orig, err := store.Repos().Movements.GetByID(created.Items[0].MovementID)
	require.NoError(t, err)
	require.NotNil(t, orig.CancelledByID)

	// Una remisión cancelada no se vuelve a cancelar ni a entregar.
	_, err = uc.Cancel(context.Background(), "user-2", created.ID, "")
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.MarkDelivered(created.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestMarkDelivered_SoloPendientes(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-A", "50", "8", "20")

	created, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Cliente",
		Items:        []dto.DeliveryItemInput{{ComponentID: comp.ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)

	delivered, err := uc.MarkDelivered(created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryDelivered, delivered.Status)

	_, err = uc.MarkDelivered(created.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Entregada tampoco se cancela: el inventario ya salió de verdad.
	_, err = uc.Cancel(context.Background(), "user-1", created.ID, "")
	require.ErrorIs(t, err, domain.ErrConflict)
}

// La transición de estado es condicional en el repositorio: un escritor que
// llega después de que otro transicionó la remisión no la pisa. Sin la
// guarda, entregar y anular en paralelo podía dejar una remisión anulada
// (con el stock ya repuesto) marcada como entregada.
func TestUpdateStatus_SoloTransicionaPendientes(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-A", "50", "8", "20")

	created, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Cliente",
		Items:        []dto.DeliveryItemInput{{ComponentID: comp.ID, Quantity: dec("6")}},
	})
	require.NoError(t, err)

	repo := store.Repos().Deliveries
	require.NoError(t, repo.UpdateStatus(created.ID, entity.DeliveryCancelled))

	// El segundo escritor pierde la carrera: cero filas afectadas.
	err = repo.UpdateStatus(created.ID, entity.DeliveryDelivered)
	require.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryCancelled, got.Status)
}

func TestGeneratePDF_DevuelveBytesYNombre(t *testing.T) {
	store, uc, pdf := newEnv(t)
	comp := seedComponent(t, store, "CMP-A", "50", "8", "20")

	created, err := uc.Create(context.Background(), "user-1", dto.CreateDeliveryRequest{
		CustomerName: "Cliente",
		Items:        []dto.DeliveryItemInput{{ComponentID: comp.ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)

	bytes, filename, err := uc.GeneratePDF(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, bytes)
	assert.Equal(t, created.Number+".pdf", filename)
	require.NotNil(t, pdf.lastDelivery)
	assert.Equal(t, created.ID, pdf.lastDelivery.ID)

	_, _, err = uc.GeneratePDF(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

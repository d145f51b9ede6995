package inventory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/inventory/inventorytest"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

func newEnv(t *testing.T) (*inventorytest.Store, *inventory.UseCase, *inventory.ReservationUseCase) {
	t.Helper()
	store := inventorytest.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.MovementTypes.Seed(inventory.DefaultMovementTypes()))

	runner := inventorytest.NewTxRunner(store)
	uc := inventory.NewUseCase(runner, repos.Components, repos.Movements, repos.MovementTypes)
	res := inventory.NewReservationUseCase(runner, uc, repos.Reservations)
	return store, uc, res
}

func seedComponent(t *testing.T, store *inventorytest.Store, code string, stock, reserved, cost string) *entity.Component {
	t.Helper()
	c := &entity.Component{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          "Componente " + code,
		CategoryID:    uuid.New().String(),
		UnitID:        uuid.New().String(),
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

func typeID(t *testing.T, store *inventorytest.Store, code string) string {
	t.Helper()
	mt, err := store.Repos().MovementTypes.GetByCode(code)
	require.NoError(t, err)
	require.NotNil(t, mt)
	return mt.ID
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRegisterMovement_EntradaActualizaStockYCostoPromedio(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "0", "5")

	unitCost := dec("15")
	mov, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypePurchaseIn),
		Quantity:       dec("10"),
		UnitCost:       &unitCost,
		Reference:      "OC-100",
	})
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.False(t, mov.IsCancellation)
	assert.True(t, mov.UnitCost.Equal(dec("15")))

	got, err := store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	// (10×5 + 10×15) / 20 = 10
	assert.True(t, got.CurrentStock.Equal(dec("20")), "stock: %s", got.CurrentStock)
	assert.True(t, got.CostPrice.Equal(dec("10")), "costo promedio: %s", got.CostPrice)
}

func TestRegisterMovement_EntradaSinCostoNoTocaElPromedio(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "0", "5")

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypePurchaseIn),
		Quantity:       dec("5"),
	})
	require.NoError(t, err)

	got, err := store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(dec("15")))
	assert.True(t, got.CostPrice.Equal(dec("5")))
}

func TestRegisterMovement_SalidaInsuficienteNoDejaRastro(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "5", "0", "5")

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypeManualOut),
		Quantity:       dec("10"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(dec("5")))
	assert.Empty(t, store.Movements, "la tx fallida no debe registrar movimientos")
}

func TestRegisterMovement_SalidaNoConsumeStockReservado(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "6", "5")

	// Disponible = 10 - 6 = 4: una salida de 5 debe fallar.
	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypeManualOut),
		Quantity:       dec("5"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRegisterMovement_ComponenteInactivo(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "0", "5")
	require.NoError(t, store.Repos().Components.SetActive(comp.ID, false))

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypePurchaseIn),
		Quantity:       dec("1"),
	})
	require.ErrorIs(t, err, domain.ErrComponentInactive)
}

func TestRegisterMovement_EntradaInvalida(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "0", "5")

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypePurchaseIn),
		Quantity:       decimal.Zero,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: uuid.New().String(),
		Quantity:       dec("1"),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelMovement_RestauraSaldoYEsIdempotente(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "0", "5")

	mov, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypePurchaseIn),
		Quantity:       dec("4"),
	})
	require.NoError(t, err)

	inverse, err := uc.CancelMovement(context.Background(), "user-2", mov.ID, "error de captura")
	require.NoError(t, err)
	assert.True(t, inverse.IsCancellation)
	require.NotNil(t, inverse.CancelsID)
	assert.Equal(t, mov.ID, *inverse.CancelsID)

	got, err := store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(dec("10")), "el saldo debe volver exacto")

	orig, err := store.Repos().Movements.GetByID(mov.ID)
	require.NoError(t, err)
	require.NotNil(t, orig.CancelledByID)
	assert.Equal(t, inverse.ID, *orig.CancelledByID)

	// Una segunda cancelación del mismo movimiento no pasa.
	_, err = uc.CancelMovement(context.Background(), "user-2", mov.ID, "")
	require.ErrorIs(t, err, domain.ErrMovementAlreadyCancelled)

	// El compensatorio tampoco se cancela.
	_, err = uc.CancelMovement(context.Background(), "user-2", inverse.ID, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelMovement_SalidaCanceladaSinStockSuficiente(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "0", "5")

	in, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypePurchaseIn),
		Quantity:       dec("4"),
	})
	require.NoError(t, err)

	// Consumir el stock deja 2 unidades: revertir la entrada de 4 ya no cabe.
	_, err = uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ComponentID:    comp.ID,
		MovementTypeID: typeID(t, store, inventory.TypeManualOut),
		Quantity:       dec("12"),
	})
	require.NoError(t, err)

	_, err = uc.CancelMovement(context.Background(), "user-1", in.ID, "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRegisterMovement_ConcurrenciaNoSobrevende(t *testing.T) {
	store, uc, _ := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "100", "0", "5")
	outType := typeID(t, store, inventory.TypeManualOut)

	var ok int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
				ComponentID:    comp.ID,
				MovementTypeID: outType,
				Quantity:       dec("30"),
			})
			if err == nil {
				atomic.AddInt64(&ok, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), ok, "solo caben 3 salidas de 30 en un stock de 100")
	got, err := store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(dec("10")), "stock final: %s", got.CurrentStock)
}

func TestReservas_CicloReservarLiberar(t *testing.T) {
	store, _, res := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "0", "5")

	r, err := res.Create(context.Background(), "user-1", dto.CreateReservationRequest{
		ComponentID: comp.ID,
		Quantity:    dec("4"),
		Reference:   "pedido-7",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationActive, r.Status)
	assert.NotEmpty(t, r.MovementID)

	got, err := store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(dec("10")), "reservar no mueve el stock físico")
	assert.True(t, got.ReservedStock.Equal(dec("4")))
	assert.True(t, got.Available().Equal(dec("6")))

	released, err := res.Release(context.Background(), "user-1", r.ID, "ya no se necesita")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationCancelled, released.Status)

	got, err = store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	assert.True(t, got.ReservedStock.IsZero())

	// Una reserva liberada no admite más transiciones.
	_, err = res.Consume(context.Background(), "user-1", r.ID, "")
	require.ErrorIs(t, err, domain.ErrReservationNotActive)
}

func TestReservas_ConsumirDescuentaFisicoYReservado(t *testing.T) {
	store, _, res := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "0", "5")

	r, err := res.Create(context.Background(), "user-1", dto.CreateReservationRequest{
		ComponentID: comp.ID,
		Quantity:    dec("4"),
	})
	require.NoError(t, err)

	consumed, err := res.Consume(context.Background(), "user-1", r.ID, "orden cerrada")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationCompleted, consumed.Status)

	got, err := store.Repos().Components.GetByID(comp.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(dec("6")))
	assert.True(t, got.ReservedStock.IsZero())
}

func TestReservas_NoExcedeDisponible(t *testing.T) {
	store, _, res := newEnv(t)
	comp := seedComponent(t, store, "CMP-001", "10", "8", "5")

	_, err := res.Create(context.Background(), "user-1", dto.CreateReservationRequest{
		ComponentID: comp.ID,
		Quantity:    dec("3"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientAvailable)
	assert.Empty(t, store.Reservations, "la reserva fallida no debe persistirse")
}

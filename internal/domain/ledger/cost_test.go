package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/inventario-api/internal/domain/ledger"
)

// TestExtraCostPerUnit_Prorrateo: flete 100 + impuesto 20 sobre cantidades
// 3 y 7 (total 10) da 12 adicionales por unidad.
func TestExtraCostPerUnit_Prorrateo(t *testing.T) {
	extra := ledger.ExtraCostPerUnit(decimal.NewFromInt(100), decimal.NewFromInt(20), decimal.NewFromInt(10))
	assert.True(t, extra.Equal(decimal.NewFromInt(12)), "extra por unidad: %s", extra)

	base1 := decimal.NewFromInt(50)
	base2 := decimal.NewFromInt(80)
	assert.True(t, ledger.EffectiveUnitCost(base1, extra).Equal(decimal.NewFromInt(62)))
	assert.True(t, ledger.EffectiveUnitCost(base2, extra).Equal(decimal.NewFromInt(92)))
}

func TestExtraCostPerUnit_SinCantidad(t *testing.T) {
	extra := ledger.ExtraCostPerUnit(decimal.NewFromInt(100), decimal.NewFromInt(20), decimal.Zero)
	assert.True(t, extra.IsZero())
}

func TestAverageCost_PromedioPonderado(t *testing.T) {
	// 10 unidades a 100 + 10 unidades a 200 -> costo promedio 150
	got := ledger.AverageCost(
		decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(10), decimal.NewFromInt(200),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "promedio: %s", got)
}

func TestAverageCost_StockCero(t *testing.T) {
	// primera entrada: el costo queda en el costo de entrada
	got := ledger.AverageCost(decimal.Zero, decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(40))
	assert.True(t, got.Equal(decimal.NewFromInt(40)))
}

func TestAverageCost_SumaNoPositiva(t *testing.T) {
	got := ledger.AverageCost(decimal.Zero, decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(10))
	assert.True(t, got.IsZero())
}

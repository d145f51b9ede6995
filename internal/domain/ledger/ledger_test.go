package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/ledger"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func balance(current, reserved int64) ledger.Balance {
	return ledger.Balance{Current: d(current), Reserved: d(reserved)}
}

// TestApply_Operaciones verifica la tabla de efectos de cada operación sobre
// el par (actual, reservado).
func TestApply_Operaciones(t *testing.T) {
	cases := []struct {
		name         string
		start        ledger.Balance
		op           string
		qty          int64
		wantCurrent  int64
		wantReserved int64
	}{
		{"IN suma al actual", balance(10, 2), ledger.OpIn, 5, 15, 2},
		{"OUT resta del actual", balance(10, 2), ledger.OpOut, 5, 5, 2},
		{"OUT exacto al disponible", balance(10, 2), ledger.OpOut, 8, 2, 2},
		{"RESERVE suma al reservado", balance(10, 2), ledger.OpReserve, 5, 10, 7},
		{"RELEASE resta del reservado", balance(10, 5), ledger.OpRelease, 3, 10, 2},
		{"CONSUME_RESERVED resta de ambos", balance(10, 5), ledger.OpConsumeReserved, 4, 6, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ledger.Apply(tc.start, tc.op, d(tc.qty))
			require.NoError(t, err)
			assert.True(t, got.Current.Equal(d(tc.wantCurrent)), "current: %s", got.Current)
			assert.True(t, got.Reserved.Equal(d(tc.wantReserved)), "reserved: %s", got.Reserved)
			// Invariante 0 <= reservado <= actual tras toda operación válida
			assert.False(t, got.Reserved.IsNegative())
			assert.True(t, got.Reserved.LessThanOrEqual(got.Current))
		})
	}
}

// TestApply_Precondiciones verifica que cada operación falla con el error de
// insuficiencia correcto y que el balance retornado no cambia.
func TestApply_Precondiciones(t *testing.T) {
	cases := []struct {
		name    string
		start   ledger.Balance
		op      string
		qty     int64
		wantErr error
	}{
		{"OUT mayor al disponible", balance(10, 4), ledger.OpOut, 7, domain.ErrInsufficientStock},
		{"OUT con todo reservado", balance(10, 10), ledger.OpOut, 1, domain.ErrInsufficientStock},
		{"RESERVE mayor al disponible", balance(10, 4), ledger.OpReserve, 7, domain.ErrInsufficientAvailable},
		{"RELEASE mayor al reservado", balance(10, 4), ledger.OpRelease, 5, domain.ErrInsufficientReserved},
		{"CONSUME mayor al reservado", balance(10, 4), ledger.OpConsumeReserved, 5, domain.ErrInsufficientReserved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ledger.Apply(tc.start, tc.op, d(tc.qty))
			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, got.Current.Equal(tc.start.Current), "el balance no debe cambiar en fallo")
			assert.True(t, got.Reserved.Equal(tc.start.Reserved))
		})
	}
}

func TestApply_CantidadInvalida(t *testing.T) {
	for _, op := range ledger.Operations {
		_, err := ledger.Apply(balance(10, 0), op, d(0))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "qty cero en %s", op)
		_, err = ledger.Apply(balance(10, 0), op, d(-3))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "qty negativa en %s", op)
	}
}

func TestApply_OperacionDesconocida(t *testing.T) {
	_, err := ledger.Apply(balance(10, 0), "TRANSFER", d(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, ledger.ValidOperation("TRANSFER"))
}

// TestAcumulacionIN: tras N entradas, el stock actual es el inicial más la
// suma de las cantidades.
func TestAcumulacionIN(t *testing.T) {
	b := balance(7, 0)
	quantities := []int64{3, 10, 1, 25}
	var sum int64
	for _, q := range quantities {
		var err error
		b, err = ledger.Apply(b, ledger.OpIn, d(q))
		require.NoError(t, err)
		sum += q
	}
	assert.True(t, b.Current.Equal(d(7+sum)))
}

// TestReserveReleaseRoundTrip: RESERVE seguido de RELEASE de la misma
// cantidad devuelve el reservado a su valor previo, con el invariante
// intacto en cada paso intermedio.
func TestReserveReleaseRoundTrip(t *testing.T) {
	start := balance(20, 5)
	mid, err := ledger.Apply(start, ledger.OpReserve, d(8))
	require.NoError(t, err)
	assert.True(t, mid.Reserved.LessThanOrEqual(mid.Current))

	end, err := ledger.Apply(mid, ledger.OpRelease, d(8))
	require.NoError(t, err)
	assert.True(t, end.Current.Equal(start.Current))
	assert.True(t, end.Reserved.Equal(start.Reserved))
}

// TestApplyInverse_RestauraExacto: aplicar la inversa de un movimiento deja
// el balance exactamente en su valor previo, para toda operación.
func TestApplyInverse_RestauraExacto(t *testing.T) {
	start := balance(50, 20)
	for _, op := range ledger.Operations {
		after, err := ledger.Apply(start, op, d(6))
		require.NoError(t, err, op)
		restored, err := ledger.ApplyInverse(after, op, d(6))
		require.NoError(t, err, op)
		assert.True(t, restored.Current.Equal(start.Current), "%s: current %s", op, restored.Current)
		assert.True(t, restored.Reserved.Equal(start.Reserved), "%s: reserved %s", op, restored.Reserved)
	}
}

// TestApplyInverse_INConsumido: cancelar un IN cuyo stock ya salió debe
// fallar en vez de dejar el actual negativo.
func TestApplyInverse_INConsumido(t *testing.T) {
	_, err := ledger.ApplyInverse(balance(3, 0), ledger.OpIn, d(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestApplyInverse_ReserveYaLiberada(t *testing.T) {
	// cancelar un RESERVE cuando el reservado ya bajó de la cantidad
	_, err := ledger.ApplyInverse(balance(10, 2), ledger.OpReserve, d(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientReserved)
}

func TestBalanceAvailable(t *testing.T) {
	assert.True(t, balance(10, 3).Available().Equal(d(7)))
	assert.True(t, balance(4, 4).Available().Equal(d(0)))
}

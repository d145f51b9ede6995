package ledger

import "github.com/shopspring/decimal"

// AverageCost implementa la lógica de costo promedio ponderado para entradas.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func AverageCost(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// ExtraCostPerUnit prorratea flete e impuesto de flete entre las unidades de
// una remisión o factura: (ShippingCost + ShippingTax) / Σ cantidades.
// Devuelve cero si la cantidad total no es positiva.
func ExtraCostPerUnit(shippingCost, shippingTax, totalQuantity decimal.Decimal) decimal.Decimal {
	if !totalQuantity.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return shippingCost.Add(shippingTax).Div(totalQuantity)
}

// EffectiveUnitCost devuelve el costo unitario efectivo de una línea:
// costo base más la porción prorrateada de flete.
func EffectiveUnitCost(baseUnitCost, extraPerUnit decimal.Decimal) decimal.Decimal {
	return baseUnitCost.Add(extraPerUnit)
}

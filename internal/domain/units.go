package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals es la precisión de amounts y precios en el exchange.
const TokenDecimals = 6

// FormatUnits convierte un valor entero en unidades mínimas a su forma
// decimal legible (p.ej. 250000000 → "250").
func FormatUnits(v uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), -TokenDecimals).String()
}

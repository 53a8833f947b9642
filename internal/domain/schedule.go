package domain

import "fmt"

// DefaultFloorPrices es el calendario rotativo de precios suelo por defecto.
var DefaultFloorPrices = []uint64{
	123000000, 250000000, 450000000, 200000000, 220000000, 300000000,
}

// FloorSchedule es una secuencia fija y no vacía de precios suelo.
// No guarda el índice: el índice es estado del scheduler.
type FloorSchedule struct {
	prices []uint64
}

// NewFloorSchedule crea un calendario. Falla si prices está vacío.
func NewFloorSchedule(prices []uint64) (FloorSchedule, error) {
	if len(prices) == 0 {
		return FloorSchedule{}, fmt.Errorf("%w: floor price schedule is empty", ErrConfig)
	}
	cp := make([]uint64, len(prices))
	copy(cp, prices)
	return FloorSchedule{prices: cp}, nil
}

// Len devuelve la longitud del calendario.
func (s FloorSchedule) Len() int {
	return len(s.prices)
}

// Normalize lleva idx a un offset válido (siempre dentro de rango).
func (s FloorSchedule) Normalize(idx int) int {
	n := len(s.prices)
	if n == 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

// At devuelve el precio suelo para el índice dado (módulo la longitud).
func (s FloorSchedule) At(idx int) uint64 {
	if len(s.prices) == 0 {
		return 0
	}
	return s.prices[s.Normalize(idx)]
}

// Next devuelve el índice siguiente a idx, ya normalizado.
func (s FloorSchedule) Next(idx int) int {
	return s.Normalize(s.Normalize(idx) + 1)
}

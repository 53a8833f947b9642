package domain

import (
	"fmt"
	"math/bits"
	"strconv"
)

// ListingItem es un listing activo tal como lo devuelve el gateway.
// Amount y Price vienen como enteros decimales en string.
type ListingItem struct {
	Amount string
	Price  string
}

// ParsedAmount parsea Amount de forma estricta (nunca devuelve 0 por error).
func (it ListingItem) ParsedAmount() (uint64, error) {
	return ParseUint(it.Amount, "amount")
}

// ParsedPrice parsea Price de forma estricta.
func (it ListingItem) ParsedPrice() (uint64, error) {
	return ParseUint(it.Price, "price")
}

// ListingPage es una página del feed de listings.
// TotalCount de la primera página es la referencia para calcular las páginas.
type ListingPage struct {
	Items      []ListingItem
	TotalCount int
	PageIndex  int
	PageSize   int
}

// Empty reporta si el feed no tiene listings.
func (p ListingPage) Empty() bool {
	return p.TotalCount == 0
}

// ParseUint parsea un entero decimal sin signo de 64 bits.
// Cualquier valor inválido devuelve un error que envuelve ErrParse.
func ParseUint(s, field string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrParse, field, s, err)
	}
	return v, nil
}

// SumAmounts suma los amounts de los items. Falla si algún amount es inválido
// o si la suma desborda uint64.
func SumAmounts(items []ListingItem) (uint64, error) {
	var sum uint64
	for _, it := range items {
		v, err := it.ParsedAmount()
		if err != nil {
			return 0, err
		}
		if sum, err = AddAmount(sum, v); err != nil {
			return 0, err
		}
	}
	return sum, nil
}

// AddAmount suma dos amounts detectando overflow.
func AddAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: amount overflow (%d + %d)", ErrParse, a, b)
	}
	return sum, nil
}

// PageCount devuelve cuántas páginas cubren total items con el tamaño dado
// (división entera con techo). total <= 0 o pageSize <= 0 devuelve 0.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

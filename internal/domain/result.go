package domain

import "time"

// AggregationResult es el resultado de recorrer todo el feed de listings.
type AggregationResult struct {
	TotalAmount uint64
	Threshold   uint64
	Deficit     bool // TotalAmount < Threshold → hay que añadir listings
	TotalCount  int
	Pages       int
}

// NewAggregationResult calcula Deficit a partir del total y el umbral.
func NewAggregationResult(total, threshold uint64, totalCount, pages int) AggregationResult {
	return AggregationResult{
		TotalAmount: total,
		Threshold:   threshold,
		Deficit:     total < threshold,
		TotalCount:  totalCount,
		Pages:       pages,
	}
}

// BuyCandidate es un listing elegible para compra automática.
type BuyCandidate struct {
	Page       int
	Position   int // posición dentro de la página
	Amount     uint64
	Price      uint64
	FloorPrice uint64
}

// Branch identifica la rama del scheduler que ejecutó un tick.
type Branch string

const (
	BranchSupply Branch = "supply"
	BranchBuy    Branch = "buy"
)

// TickRecord es el resumen auditable de un tick completado.
type TickRecord struct {
	ID          string        `json:"id"`
	Branch      Branch        `json:"branch"`
	Token       string        `json:"token"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration_ns"`
	TotalCount  int           `json:"total_count"`
	TotalAmount uint64        `json:"total_amount,string"`
	Threshold   uint64        `json:"threshold,string"`
	Deficit     bool          `json:"deficit"`
	FloorPrice  uint64        `json:"floor_price,string"`
	PriceIndex  int           `json:"price_index"`
	Candidates  int           `json:"candidates"`
}

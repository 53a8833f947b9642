package robot

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/alejandrodnm/frcbot/internal/ports"
)

// Evaluation es el resultado de un buy check sobre todo el feed.
type Evaluation struct {
	FloorPrice uint64
	TotalCount int
	Pages      int
	Candidates []domain.BuyCandidate
}

// DecisionEngine clasifica listings como elegibles para compra.
// No ejecuta compras: eso es cosa de ports.BuyAction.
type DecisionEngine struct {
	gw ports.ListingGateway
}

// NewDecisionEngine crea el motor sobre el gateway dado.
func NewDecisionEngine(gw ports.ListingGateway) *DecisionEngine {
	return &DecisionEngine{gw: gw}
}

// Evaluate aplica el precio suelo a cada item de cada página (1..pages).
// Con TotalCount 0 en la primera página no pide nada más.
func (e *DecisionEngine) Evaluate(ctx context.Context, token string, pageSize int, floor uint64) (Evaluation, error) {
	ev := Evaluation{FloorPrice: floor}
	first, pages, err := walkPages(ctx, e.gw, token, pageSize, func(page domain.ListingPage) error {
		c, err := Classify(page, floor)
		if err != nil {
			return err
		}
		ev.Candidates = append(ev.Candidates, c...)
		return nil
	})
	if err != nil {
		return Evaluation{}, fmt.Errorf("robot.Evaluate: %w", err)
	}
	ev.TotalCount = first.TotalCount
	ev.Pages = pages
	return ev, nil
}

// Classify devuelve los items de la página con price <= floor.
// Todos los items se parsean de forma estricta, elegibles o no.
func Classify(page domain.ListingPage, floor uint64) ([]domain.BuyCandidate, error) {
	var out []domain.BuyCandidate
	for i, it := range page.Items {
		price, err := it.ParsedPrice()
		if err != nil {
			return nil, fmt.Errorf("page %d item %d: %w", page.PageIndex, i, err)
		}
		amount, err := it.ParsedAmount()
		if err != nil {
			return nil, fmt.Errorf("page %d item %d: %w", page.PageIndex, i, err)
		}
		if price > floor {
			continue
		}
		out = append(out, domain.BuyCandidate{
			Page:       page.PageIndex,
			Position:   i,
			Amount:     amount,
			Price:      price,
			FloorPrice: floor,
		})
	}
	return out, nil
}

package robot

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/alejandrodnm/frcbot/internal/ports"
)

// Aggregator suma el amount de todos los listings activos de un token.
type Aggregator struct {
	gw        ports.ListingGateway
	threshold uint64
}

// NewAggregator crea un Aggregator. threshold es el supply mínimo
// (LIST_SUM_AMOUNT) por debajo del cual hay déficit.
func NewAggregator(gw ports.ListingGateway, threshold uint64) *Aggregator {
	return &Aggregator{gw: gw, threshold: threshold}
}

// Aggregate recorre todas las páginas y devuelve el total listado.
// Un amount inválido descarta la suma parcial y devuelve ErrParse.
func (a *Aggregator) Aggregate(ctx context.Context, token string, pageSize int) (domain.AggregationResult, error) {
	var sum uint64
	first, pages, err := walkPages(ctx, a.gw, token, pageSize, func(page domain.ListingPage) error {
		s, err := domain.SumAmounts(page.Items)
		if err != nil {
			return fmt.Errorf("page %d: %w", page.PageIndex, err)
		}
		sum, err = domain.AddAmount(sum, s)
		return err
	})
	if err != nil {
		return domain.AggregationResult{}, fmt.Errorf("robot.Aggregate: %w", err)
	}

	return domain.NewAggregationResult(sum, a.threshold, first.TotalCount, pages), nil
}

package ports

import (
	"context"

	"github.com/alejandrodnm/frcbot/internal/domain"
)

// BuyAction ejecuta la compra de un listing elegible con la cuenta dada.
// El motor de decisión solo clasifica; la ejecución on-chain vive aquí.
type BuyAction interface {
	Buy(ctx context.Context, token string, buyer domain.Account, candidate domain.BuyCandidate) error
}

// ListAction añade listings nuevos cuando el supply agregado está en déficit.
type ListAction interface {
	AddListings(ctx context.Context, token string, minter domain.Account, result domain.AggregationResult) error
}

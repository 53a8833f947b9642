package ports

import (
	"context"

	"github.com/alejandrodnm/frcbot/internal/domain"
)

// ListingGateway consulta el feed paginado de listings del exchange.
type ListingGateway interface {
	// FetchListingPage devuelve la página pageIndex (base 1) de listings del token.
	// Si TotalCount es 0, Items puede venir vacío.
	FetchListingPage(ctx context.Context, token string, pageIndex, pageSize int) (domain.ListingPage, error)
}

package robot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/alejandrodnm/frcbot/internal/ports"
)

// walkPages recorre el feed del token página a página, en secuencia.
// El TotalCount de la primera página decide cuántas páginas se piden
// (techo de total/pageSize, sin página vacía extra). Si la primera página
// está vacía no se hace ninguna llamada más.
// Devuelve la primera página y el número de páginas visitadas.
func walkPages(
	ctx context.Context,
	gw ports.ListingGateway,
	token string,
	pageSize int,
	visit func(domain.ListingPage) error,
) (domain.ListingPage, int, error) {
	if pageSize <= 0 {
		return domain.ListingPage{}, 0, fmt.Errorf("%w: page size must be positive, got %d", domain.ErrConfig, pageSize)
	}

	first, err := gw.FetchListingPage(ctx, token, 1, pageSize)
	if err != nil {
		return domain.ListingPage{}, 0, err
	}
	if first.Empty() {
		return first, 1, nil
	}
	if err := visit(first); err != nil {
		return first, 1, err
	}

	pages := domain.PageCount(first.TotalCount, pageSize)
	visited := 1
	for p := 2; p <= pages; p++ {
		page, err := gw.FetchListingPage(ctx, token, p, pageSize)
		if err != nil {
			return first, visited, err
		}
		visited++
		// El feed se vació a mitad de pasada: no quedan más listings
		if page.Empty() {
			break
		}
		if err := visit(page); err != nil {
			return first, visited, err
		}
	}
	return first, visited, nil
}

// timeoutGateway aplica un timeout a cada llamada al gateway.
// Un timeout se reporta como ErrGateway para que el scheduler lo contenga.
type timeoutGateway struct {
	next    ports.ListingGateway
	timeout time.Duration
}

func (g timeoutGateway) FetchListingPage(ctx context.Context, token string, pageIndex, pageSize int) (domain.ListingPage, error) {
	if g.timeout <= 0 {
		return g.next.FetchListingPage(ctx, token, pageIndex, pageSize)
	}
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	page, err := g.next.FetchListingPage(callCtx, token, pageIndex, pageSize)
	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrGateway) {
		return page, fmt.Errorf("%w: page %d timed out after %s: %w", domain.ErrGateway, pageIndex, g.timeout, err)
	}
	return page, err
}

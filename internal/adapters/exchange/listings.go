package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/frcbot/internal/domain"
)

const listPath = "/list"

// FetchListingPage implementa ports.ListingGateway.
func (c *Client) FetchListingPage(ctx context.Context, token string, pageIndex, pageSize int) (domain.ListingPage, error) {
	q := url.Values{}
	q.Set("token", token)
	q.Set("page", strconv.Itoa(pageIndex))
	q.Set("page_size", strconv.Itoa(pageSize))
	u := c.exBase + listPath + "?" + q.Encode()

	var resp listResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return domain.ListingPage{}, fmt.Errorf("exchange.FetchListingPage: %w: page %d: %w", domain.ErrGateway, pageIndex, err)
	}
	if resp.Total < 0 {
		return domain.ListingPage{}, fmt.Errorf("exchange.FetchListingPage: %w: negative total %d", domain.ErrGateway, resp.Total)
	}

	return toListingPage(resp, pageIndex, pageSize), nil
}

// toListingPage convierte la respuesta raw a la entidad de dominio.
func toListingPage(resp listResponse, pageIndex, pageSize int) domain.ListingPage {
	items := make([]domain.ListingItem, 0, len(resp.Data))
	for _, it := range resp.Data {
		items = append(items, domain.ListingItem{Amount: it.Amount, Price: it.Price})
	}
	return domain.ListingPage{
		Items:      items,
		TotalCount: resp.Total,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
	}
}

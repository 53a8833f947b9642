package robot_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/alejandrodnm/frcbot/internal/domain"
)

// --- mocks ---

// fakeGateway sirve páginas predefinidas (base 1) y cuenta las llamadas.
type fakeGateway struct {
	mu    sync.Mutex
	total int
	pages map[int][]domain.ListingItem
	errAt map[int]error
	calls []int
}

func newFakeGateway(total int, pages map[int][]domain.ListingItem) *fakeGateway {
	return &fakeGateway{total: total, pages: pages, errAt: make(map[int]error)}
}

func (g *fakeGateway) FetchListingPage(_ context.Context, _ string, pageIndex, pageSize int) (domain.ListingPage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, pageIndex)
	if err := g.errAt[pageIndex]; err != nil {
		return domain.ListingPage{}, err
	}
	return domain.ListingPage{
		Items:      g.pages[pageIndex],
		TotalCount: g.total,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
	}, nil
}

func (g *fakeGateway) Calls() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int(nil), g.calls...)
}

type buyCall struct {
	buyer     domain.Account
	candidate domain.BuyCandidate
}

type mockBuyer struct {
	calls []buyCall
	err   error
}

func (m *mockBuyer) Buy(_ context.Context, _ string, buyer domain.Account, c domain.BuyCandidate) error {
	m.calls = append(m.calls, buyCall{buyer: buyer, candidate: c})
	return m.err
}

type listCall struct {
	minter domain.Account
	result domain.AggregationResult
}

type mockLister struct {
	calls []listCall
	err   error
}

func (m *mockLister) AddListings(_ context.Context, _ string, minter domain.Account, res domain.AggregationResult) error {
	m.calls = append(m.calls, listCall{minter: minter, result: res})
	return m.err
}

type mockTickStore struct {
	mu    sync.Mutex
	saved []domain.TickRecord
}

func (m *mockTickStore) SaveTick(_ context.Context, rec domain.TickRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, rec)
	return nil
}

// --- helpers ---

// itemsSumming crea n items cuyo amount suma total (n > 0).
func itemsSumming(n int, total uint64, price uint64) []domain.ListingItem {
	items := make([]domain.ListingItem, n)
	per := total / uint64(n)
	for i := range items {
		amt := per
		if i == n-1 {
			amt = total - per*uint64(n-1)
		}
		items[i] = domain.ListingItem{
			Amount: strconv.FormatUint(amt, 10),
			Price:  strconv.FormatUint(price, 10),
		}
	}
	return items
}

func item(amount, price uint64) domain.ListingItem {
	return domain.ListingItem{
		Amount: strconv.FormatUint(amount, 10),
		Price:  strconv.FormatUint(price, 10),
	}
}

func makePools(n int) domain.Pools {
	var p domain.Pools
	for i := range n {
		p.Mint = append(p.Mint, domain.Account{Address: fmt.Sprintf("mint-%d", i), Role: domain.RoleMint})
		p.Buy = append(p.Buy, domain.Account{Address: fmt.Sprintf("buy-%d", i), Role: domain.RoleBuy})
	}
	return p
}

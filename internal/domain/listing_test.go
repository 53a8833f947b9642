package domain_test

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 50, 0},
		{1, 50, 1},
		{49, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{100, 50, 2}, // múltiplo exacto: 2, no 3
		{120, 50, 3},
		{10, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, domain.PageCount(c.total, c.size), "total=%d size=%d", c.total, c.size)
	}
}

func TestPageCount_CoversEveryItemOnce(t *testing.T) {
	for size := 1; size <= 12; size++ {
		for total := 0; total <= 100; total++ {
			pages := domain.PageCount(total, size)
			covered := 0
			for p := 1; p <= pages; p++ {
				covered += min(size, total-(p-1)*size)
			}
			require.Equal(t, total, covered, "total=%d size=%d", total, size)
		}
	}
}

func TestParseUint_Strict(t *testing.T) {
	v, err := domain.ParseUint("18446744073709551615", "amount")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)

	for _, bad := range []string{"", "-1", "1.5", "abc", " 12", "18446744073709551616"} {
		_, err := domain.ParseUint(bad, "price")
		require.Error(t, err, "input %q", bad)
		assert.True(t, errors.Is(err, domain.ErrParse))
	}
}

func TestSumAmounts(t *testing.T) {
	sum, err := domain.SumAmounts([]domain.ListingItem{
		{Amount: "100", Price: "1"},
		{Amount: "250", Price: "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(350), sum)

	_, err = domain.SumAmounts([]domain.ListingItem{{Amount: "100"}, {Amount: "x"}})
	assert.True(t, errors.Is(err, domain.ErrParse))
}

func TestSumAmounts_Overflow(t *testing.T) {
	max := strconv.FormatUint(math.MaxUint64, 10)
	_, err := domain.SumAmounts([]domain.ListingItem{{Amount: max}, {Amount: "1"}})
	assert.True(t, errors.Is(err, domain.ErrParse))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "250", domain.FormatUnits(250000000))
	assert.Equal(t, "0.5", domain.FormatUnits(500000))
	assert.Equal(t, "0", domain.FormatUnits(0))
}

func TestPick_RoundRobin(t *testing.T) {
	pool := []domain.Account{{Address: "a"}, {Address: "b"}}

	a, ok := domain.Pick(pool, 3)
	require.True(t, ok)
	assert.Equal(t, "b", a.Address)

	_, ok = domain.Pick(nil, 0)
	assert.False(t, ok)
}

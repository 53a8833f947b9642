package domain_test

import (
	"errors"
	"testing"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorSchedule_RotationVisitsAllIndices(t *testing.T) {
	s, err := domain.NewFloorSchedule(domain.DefaultFloorPrices)
	require.NoError(t, err)
	require.Equal(t, 6, s.Len())

	idx := 1
	var visited []int
	for range 8 {
		visited = append(visited, idx)
		idx = s.Next(idx)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 0, 1, 2}, visited)
}

func TestFloorSchedule_KAdvancesIsKModL(t *testing.T) {
	s, err := domain.NewFloorSchedule([]uint64{10, 20, 30})
	require.NoError(t, err)

	idx := 0
	for k := 1; k <= 20; k++ {
		idx = s.Next(idx)
		assert.Equal(t, k%3, idx)
	}
}

func TestFloorSchedule_AtNeverOutOfRange(t *testing.T) {
	s, err := domain.NewFloorSchedule([]uint64{10, 20, 30})
	require.NoError(t, err)

	assert.Equal(t, uint64(20), s.At(1))
	assert.Equal(t, uint64(20), s.At(4))
	assert.Equal(t, uint64(30), s.At(-1))
	assert.Equal(t, 2, s.Normalize(-1))
}

func TestFloorSchedule_Empty(t *testing.T) {
	_, err := domain.NewFloorSchedule(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestFloorSchedule_CopiesInput(t *testing.T) {
	prices := []uint64{1, 2}
	s, err := domain.NewFloorSchedule(prices)
	require.NoError(t, err)

	prices[0] = 99
	assert.Equal(t, uint64(1), s.At(0))
}

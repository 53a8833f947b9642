package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/alejandrodnm/frcbot/internal/adapters/notify"
	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Buy(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, "http://node:8668")

	err := c.Buy(context.Background(), "T",
		domain.Account{Address: "7EcDhSYGxXyscszYEp35KHN8vvw3svAuLKTzXwCFLtV"},
		domain.BuyCandidate{Page: 2, Position: 4, Amount: 1500000, Price: 200000000, FloorPrice: 250000000},
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[buy] T p2#4")
	assert.Contains(t, out, "amount 1.5 @ 200 (floor 250)")
	assert.Contains(t, out, "7EcDhS...wCFLtV")
	assert.Contains(t, out, "http://node:8668")
}

func TestConsole_AddListings(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, "")

	res := domain.NewAggregationResult(18500000000, 20000000000, 120, 3)
	err := c.AddListings(context.Background(), "T", domain.Account{Address: "mint-0"}, res)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "supply below threshold for T")
	assert.Contains(t, out, "18500")
	assert.Contains(t, out, "20000")
	assert.Contains(t, out, "1500")
	assert.Contains(t, out, "mint-0")
}

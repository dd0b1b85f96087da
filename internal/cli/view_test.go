package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-appointment/internal/models"
	"invest-appointment/internal/store"
)

// fakeTitleStore answers investment title lookups from a fixed table. The
// embedded interface leaves every other method unimplemented; the view only
// resolves titles while rendering.
type fakeTitleStore struct {
	store.Store
	titles map[string]string
}

func (f *fakeTitleStore) InvestmentTitle(_ context.Context, code string) (string, error) {
	return f.titles[code], nil
}

func newBufferView(buf *bytes.Buffer) *appointView {
	st := &fakeTitleStore{titles: map[string]string{
		"F001": "Global Equity",
		"F002": "Bond Income",
		"F003": "Balanced",
	}}
	out := &Output{writer: buf}
	policy := &models.Policy{PolicyNo: "P0001", Currency: "TWD"}
	return newAppointView(context.Background(), out, st, policy, nil, nil)
}

func TestShowSellsRendersAlignedTable(t *testing.T) {
	var buf bytes.Buffer
	view := newBufferView(&buf)

	view.ShowSells([]models.SellAllocation{
		{InvestCode: "F001", Mode: models.SellByAmount, Amount: decimal.NewFromInt(45000)},
		{InvestCode: "F002", Mode: models.SellAll},
	}, 1)

	out := buf.String()
	assert.Contains(t, out, "--- Sell Allocations ---")
	assert.Contains(t, out, "1  F001  Global Equity  45,000")
	assert.Contains(t, out, "2  F002  Bond Income    Sell All")
	assert.Contains(t, out, "total sell records: 2")

	// Cells line up under their headers.
	lines := strings.Split(out, "\n")
	var header, row string
	for _, l := range lines {
		if strings.Contains(l, "Code") {
			header = l
		}
		if strings.Contains(l, "F001") {
			row = l
		}
	}
	require.NotEmpty(t, header)
	require.NotEmpty(t, row)
	assert.Equal(t, strings.Index(header, "Code"), strings.Index(row, "F001"))
	assert.Contains(t, out, "─", "header separator rendered")
}

func TestShowBuysRendersPercentColumn(t *testing.T) {
	var buf bytes.Buffer
	view := newBufferView(&buf)

	view.ShowBuys([]models.BuyAllocation{
		{InvestCode: "F003", Percent: 60},
		{InvestCode: "F001", Percent: 40},
	}, 1)

	out := buf.String()
	assert.Contains(t, out, "--- Buy Allocations ---")
	assert.Contains(t, out, "Percent")
	assert.Contains(t, out, "1  F003  Balanced       60%")
	assert.Contains(t, out, "2  F001  Global Equity  40%")
	assert.Contains(t, out, "total buy records: 2")
}

func TestShowSellsSecondPageWindow(t *testing.T) {
	var buf bytes.Buffer
	view := newBufferView(&buf)

	sells := []models.SellAllocation{
		{InvestCode: "F001", Mode: models.SellAll},
		{InvestCode: "F002", Mode: models.SellAll},
		{InvestCode: "F003", Mode: models.SellAll},
		{InvestCode: "F001", Mode: models.SellAll},
	}
	view.ShowSells(sells, 4)

	out := buf.String()
	assert.NotContains(t, out, "2  F002")
	assert.Contains(t, out, "4  F001")
	assert.Contains(t, out, "total sell records: 4")
}

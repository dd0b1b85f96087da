package cli

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-appointment/internal/models"
)

type fakeInvestDirectory struct {
	titles map[string]string
}

func (f *fakeInvestDirectory) InvestmentExists(context.Context, string, string) (bool, error) {
	return true, nil
}

func (f *fakeInvestDirectory) InvestmentTitle(_ context.Context, code string) (string, error) {
	return f.titles[code], nil
}

func (f *fakeInvestDirectory) InvestmentIsShuttingDown(context.Context, string, string) (bool, error) {
	return false, nil
}

func (f *fakeInvestDirectory) InvestmentRiskAcceptable(context.Context, string, string) (bool, error) {
	return true, nil
}

func conversionAggregate() *models.Appointment {
	return &models.Appointment{
		Header: models.AppointmentHeader{
			PolicyNo:  "P0001",
			ReceiveNo: "R2024001",
			Direction: models.DirectionConversion,
			Frequency: models.FreqMonthly,
			BeginDate: "113/05/10",
			ProcDate:  "113/05/01",
		},
		Sells: []models.SellAllocation{
			{InvestCode: "F001", Mode: models.SellByAmount, Amount: decimal.NewFromInt(800)},
			{InvestCode: "F002", Mode: models.SellAll},
		},
		Buys: []models.BuyAllocation{
			{InvestCode: "F003", Percent: 100},
		},
	}
}

func TestBuildPrintLinesConversion(t *testing.T) {
	dir := &fakeInvestDirectory{titles: map[string]string{
		"F001": " Global Equity", "F002": " Bond Income", "F003": " Balanced",
	}}
	lines := buildPrintLines(context.Background(), dir, conversionAggregate(), "R2024001", false)

	require.NotEmpty(t, lines)
	assert.Equal(t, printItemHeader, lines[0].Item)
	assert.Contains(t, lines[0].Comment, "P0001")
	assert.Contains(t, lines[0].Comment, "R2024001")

	var comments []string
	for _, l := range lines {
		comments = append(comments, l.Comment)
	}
	joined := ""
	for _, c := range comments {
		joined += c + "\n"
	}
	assert.Contains(t, joined, "Appoint Investment Conversion")
	assert.Contains(t, joined, "113 year 05 month 10 day")
	assert.Contains(t, joined, "Every Month 10 day")
	assert.Contains(t, joined, "Sell Amount 800.00")
	assert.Contains(t, joined, "Sell All")
	assert.Contains(t, joined, "Buy Percentage 100%")

	assert.Equal(t, printItemFooter2, lines[len(lines)-1].Item)
}

func TestBuildPrintLinesCancelNamesOriginalReceive(t *testing.T) {
	dir := &fakeInvestDirectory{titles: map[string]string{}}
	agg := conversionAggregate()
	agg.Header.Frequency = models.FreqOnce

	lines := buildPrintLines(context.Background(), dir, agg, "R2024099", true)

	joined := ""
	for _, l := range lines {
		joined += l.Comment + "\n"
	}
	assert.Contains(t, joined, "Cancel Investment Conversion")
	assert.Contains(t, joined, "(Original Receive No:R2024001)")
	assert.NotContains(t, joined, "Every")
}

func TestBuildPrintLinesWithdrawalHasNoBuySection(t *testing.T) {
	dir := &fakeInvestDirectory{titles: map[string]string{}}
	agg := conversionAggregate()
	agg.Header.Direction = models.DirectionWithdrawal
	agg.Buys = nil

	lines := buildPrintLines(context.Background(), dir, agg, "R2024001", false)

	for _, l := range lines {
		assert.NotContains(t, l.Comment, "Buy Investments")
	}
}

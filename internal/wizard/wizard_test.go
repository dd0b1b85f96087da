package wizard

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/models"
)

// fakeLookups answers the editors' external checks from fixed tables.
type fakeLookups struct {
	investments map[string]bool // codes the policy holds
	shutting    map[string]bool
	overRisk    map[string]bool
	banks       map[string]*models.Bank
	hasAccount  bool
	remitOK     bool
	foreignOK   bool
	crossDup    map[string]bool
}

func (f *fakeLookups) InvestmentExists(_ context.Context, _, code string) (bool, error) {
	return f.investments[code], nil
}

func (f *fakeLookups) InvestmentTitle(_ context.Context, code string) (string, error) {
	return "Fund " + code, nil
}

func (f *fakeLookups) InvestmentIsShuttingDown(_ context.Context, code, _ string) (bool, error) {
	return f.shutting[code], nil
}

func (f *fakeLookups) InvestmentRiskAcceptable(_ context.Context, _, code string) (bool, error) {
	return !f.overRisk[code], nil
}

func (f *fakeLookups) BankLookup(_ context.Context, code string) (*models.Bank, error) {
	b, ok := f.banks[code]
	if !ok {
		return nil, apperr.NewLookupError("bank", code, nil)
	}
	return b, nil
}

func (f *fakeLookups) AccountExists(context.Context, models.DisbChannel, string, string) (bool, error) {
	return f.hasAccount, nil
}

func (f *fakeLookups) ValidateRemitAccount(context.Context, string, string, string) (bool, error) {
	return f.remitOK, nil
}

func (f *fakeLookups) ValidateForeignAccount(context.Context, string, string, string) (bool, error) {
	return f.foreignOK, nil
}

func (f *fakeLookups) CrossAppointmentDuplicateSell(_ context.Context, _, code, _, _ string) (bool, error) {
	return f.crossDup[code], nil
}

func defaultLookups() *fakeLookups {
	return &fakeLookups{
		investments: map[string]bool{"F001": true, "F002": true, "F003": true},
		shutting:    map[string]bool{},
		overRisk:    map[string]bool{},
		banks: map[string]*models.Bank{
			"8120001": {Code: "8120001", Name: "Example Bank", Active: true},
		},
		hasAccount: true,
		remitOK:    true,
		foreignOK:  true,
		crossDup:   map[string]bool{},
	}
}

func newTestWizard(lookups *fakeLookups, changeCode, currency string, minWithdrawal int64, answers ...string) *Wizard {
	return New(Params{
		Lookups: lookups,
		Prompt:  NewScriptPrompter(answers...),
		Logger:  zerolog.Nop(),
		Policy:  &models.Policy{PolicyNo: "P0001", Currency: currency},
		Client:  &models.Client{OwnerID: "A123456789", OwnerName: "WANG MING"},
		Plan:    &models.Plan{MinPartialWithdrawal: decimal.NewFromInt(minWithdrawal)},
		Transaction: &models.TransactionRef{
			ReceiveNo:   "R2024001",
			ReceiveDate: "113/04/20",
			ChangeCode:  changeCode,
		},
		Today:         "113/05/01",
		LocalCurrency: "TWD",
		UserID:        "op01",
	})
}

func newAggregate() *models.Appointment {
	return &models.Appointment{
		Header: models.AppointmentHeader{
			PolicyNo:  "P0001",
			ReceiveNo: "R2024001",
			Currency:  "TWD",
		},
	}
}

func TestConversionHappyPath(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 1000,
		"1", "113/05/10", "0", "", // header: direction, date, once, continue
		"a", "F001", "1", "800", "c", "", // sell: one amount entry
		"a", "F002", "60", "a", "F003", "40", "c", "", // buy: 60 + 40
		"2", // save draft
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)

	assert.Equal(t, models.DirectionConversion, agg.Header.Direction)
	assert.Equal(t, "113/05/10", agg.Header.BeginDate)
	assert.Equal(t, "113/05/10", agg.Header.NextDate, "once: next date is the begin date")
	require.Len(t, agg.Sells, 1)
	assert.True(t, agg.Sells[0].Amount.Equal(decimal.NewFromInt(800)))
	require.Len(t, agg.Buys, 2)
	assert.Equal(t, "op01", agg.Header.ProcUser)
	assert.Equal(t, "113/05/01", agg.Header.ProcDate)
	assert.NotEmpty(t, agg.Header.ProcTime)
}

func TestWithdrawalMinimumFloorThenPass(t *testing.T) {
	// 500 < 1000 rejects the sell screen; adding 600 brings the sum to 1100.
	w := newTestWizard(defaultLookups(), models.ChangeCodeWithdrawal, "TWD", 1000,
		"2", "113/05/10", "1", "", // header: withdrawal, monthly
		"a", "F001", "1", "500", "c", // sell: 500, advance rejected
		"a", "F002", "1", "600", "c", "", // second entry, advance passes
		"0", "812", "0001", "123456", "", "", // remit: bank transfer, keep payee, continue
		"3", // approve
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveApproved, outcome)

	require.Len(t, agg.Sells, 2)
	assert.True(t, agg.SellAmountSum().Equal(decimal.NewFromInt(1100)))
	assert.Equal(t, models.DisbBankTransfer, agg.Remit.Channel)
	assert.Equal(t, "WANG MING", agg.Remit.Payee, "bank transfer defaults payee to the owner")
	assert.Equal(t, "113/05/10", agg.Header.NextDate)
}

func TestSellAllExemptsMinimumFloor(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeWithdrawal, "TWD", 100000,
		"2", "113/05/10", "0", "",
		"a", "F001", "2", "c", "", // sell-all entry, no amount prompt
		"0", "812", "0001", "123456", "", "",
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Sells, 1)
	assert.Equal(t, models.SellAll, agg.Sells[0].Mode)
	assert.True(t, agg.Sells[0].Amount.IsZero())
}

func TestBuyPercentagesMustSumTo100(t *testing.T) {
	// {60, 30} rejects the advance; adding {10} completes the hundred.
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"1", "113/05/10", "0", "",
		"a", "F001", "1", "800", "c", "",
		"a", "F002", "60", "a", "F003", "30", "c", // sum 90, advance rejected
		"a", "F002", "10", // duplicate, rejected at add time
		"e", "2", "40", "c", "", // fix: F003 to 40, sum 100
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Buys, 2)
	assert.Equal(t, 40, agg.Buys[1].Percent)
}

func TestBuyRejectsCodeAlreadyInSellList(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"1", "113/05/10", "0", "",
		"a", "F001", "1", "800", "c", "",
		"a", "F001", // cross-list rejection, before any percentage prompt
		"a", "F002", "100", "c", "",
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Buys, 1)
	assert.Equal(t, "F002", agg.Buys[0].InvestCode)
}

func TestDirectionMustMatchTransaction(t *testing.T) {
	// A withdrawal screen over a conversion transaction stays on the header;
	// the script then runs out, which reads as an operator interrupt.
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAbandoned, outcome)
}

func TestInterruptAbandonsWithoutError(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"1", "113/05/10",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAbandoned, outcome)
}

func TestOnceBeginDateCannotBeInThePast(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"1", "113/04/30", "0", // before today 113/05/01, rejected
		"1", "113/05/02", "0", "", // corrected on the re-prompted header
		"a", "F001", "1", "800", "c", "",
		"a", "F002", "100", "c", "",
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	assert.Equal(t, "113/05/02", agg.Header.BeginDate)
}

func TestNavigateBackToHeaderFromSell(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"1", "113/05/10", "0", "",
		"a", "F001", "1", "800", "c", "p", // valid screen, operator walks back
		"", "", "", "", // header again, defaults kept
		"c", "", // sell list unchanged, continue
		"a", "F002", "100", "c", "",
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Sells, 1, "walking back does not discard list entries")
}

func TestSellEditSwitchToAllClearsAmount(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"1", "113/05/10", "0", "",
		"a", "F001", "1", "800",
		"e", "1", "2", // switch entry 1 to sell-all
		"c", "",
		"a", "F002", "100", "c", "",
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Sells, 1)
	assert.Equal(t, models.SellAll, agg.Sells[0].Mode)
	assert.True(t, agg.Sells[0].Amount.IsZero())
}

func TestTWDAmountMustBeWhole(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"1", "113/05/10", "0", "",
		"a", "F001", "1", "800.50", // fractional TWD, rejected; add aborts
		"a", "F001", "1", "800", "c", "",
		"a", "F002", "100", "c", "",
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Sells, 1)
	assert.True(t, agg.Sells[0].Amount.Equal(decimal.NewFromInt(800)))
}

func TestCrossAppointmentDuplicateRejectedAtAdd(t *testing.T) {
	lookups := defaultLookups()
	lookups.crossDup["F001"] = true

	w := newTestWizard(lookups, models.ChangeCodeConversion, "TWD", 0,
		"1", "113/05/10", "0", "",
		"a", "F001", // duplicate in another appointment, add aborts
		"a", "F002", "1", "800", "c", "",
		"a", "F003", "100", "c", "",
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Sells, 1)
	assert.Equal(t, "F002", agg.Sells[0].InvestCode)
}

func TestConfiguredMinimumBuyPercent(t *testing.T) {
	// With the minimum raised to 20, a 15% allocation is rejected at add
	// time even though the built-in floor of 5 would have let it through.
	w := New(Params{
		Lookups: defaultLookups(),
		Prompt: NewScriptPrompter(
			"1", "113/05/10", "0", "",
			"a", "F001", "1", "800", "c", "",
			"a", "F002", "15", // below the configured minimum, add aborts
			"a", "F002", "20", "a", "F003", "80", "c", "",
			"2",
		),
		Logger: zerolog.Nop(),
		Policy: &models.Policy{PolicyNo: "P0001", Currency: "TWD"},
		Client: &models.Client{OwnerID: "A123456789", OwnerName: "WANG MING"},
		Plan:   &models.Plan{},
		Transaction: &models.TransactionRef{
			ReceiveNo:   "R2024001",
			ReceiveDate: "113/04/20",
			ChangeCode:  models.ChangeCodeConversion,
		},
		Today:         "113/05/01",
		LocalCurrency: "TWD",
		MinBuyPercent: 20,
		UserID:        "op01",
	})

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Buys, 2)
	assert.Equal(t, 20, agg.Buys[0].Percent)
	assert.Equal(t, 80, agg.Buys[1].Percent)
}

func TestReturnToEditLoopsWithoutRecursion(t *testing.T) {
	w := newTestWizard(defaultLookups(), models.ChangeCodeConversion, "TWD", 0,
		"1", "113/05/10", "0", "",
		"a", "F001", "1", "800", "c", "",
		"a", "F002", "100", "c", "",
		"1", // return to edit
		"", "", "", "", // header defaults kept
		"c", "",
		"c", "",
		"2",
	)

	agg := newAggregate()
	outcome, err := w.Run(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaveDraft, outcome)
	require.Len(t, agg.Buys, 1)
}

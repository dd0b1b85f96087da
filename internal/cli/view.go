package cli

import (
	"context"
	"strconv"

	"invest-appointment/internal/models"
	"invest-appointment/internal/navigate"
	"invest-appointment/internal/store"
	"invest-appointment/pkg/utils"
)

// appointView renders wizard and navigator state to the terminal. It holds a
// context because investment titles and bank names come from directory
// lookups made while rendering.
type appointView struct {
	ctx    context.Context
	out    *Output
	store  store.Store
	policy *models.Policy
	client *models.Client
	txn    *models.TransactionRef

	// currency of the record last shown; set by showRecord when the browse
	// flows render without a loaded policy.
	recordCurrency string
}

func newAppointView(ctx context.Context, out *Output, st store.Store, policy *models.Policy, client *models.Client, txn *models.TransactionRef) *appointView {
	return &appointView{ctx: ctx, out: out, store: st, policy: policy, client: client, txn: txn}
}

func (v *appointView) Message(format string, args ...interface{}) {
	v.out.Info(format, args...)
}

func (v *appointView) Reject(format string, args ...interface{}) {
	v.out.Error(format, args...)
}

func (v *appointView) ShowAppointment(agg *models.Appointment) {
	h := &agg.Header
	v.out.Bold("=== Appointment ===")
	v.out.Printf("  Policy No:    %s\n", h.PolicyNo)
	v.out.Printf("  Receive No:   %s\n", h.ReceiveNo)
	if v.txn != nil {
		v.out.Printf("  Receive Date: %s\n", v.txn.ReceiveDate)
	}
	v.out.Printf("  Direction:    %s\n", directionLabel(h.Direction))
	v.out.Printf("  Frequency:    %s\n", frequencyLabel(h.Frequency))
	v.out.Printf("  Begin Date:   %s\n", h.BeginDate)
	v.out.Printf("  Next Date:    %s\n", h.NextDate)
	v.out.Printf("  Currency:     %s\n", h.Currency)
	v.out.Printf("  Status:       %s\n", statusLabel(h.Status))
	if v.policy != nil {
		v.out.Printf("  Policy Status: %s   Plan: %s\n", v.policy.StatusCode, v.policy.BasicPlanCode)
	}
	if v.client != nil {
		v.out.Printf("  Owner:        %s   Insured: %s\n", v.client.OwnerName, v.client.InsuredName)
	}
}

// ShowSells renders one page of the sell list starting at the 1-based index.
func (v *appointView) ShowSells(sells []models.SellAllocation, start int) {
	v.out.Bold("--- Sell Allocations ---")
	table := NewTable(v.out, "#", "Code", "Title", "Amount")
	from, to := pageWindow(start, len(sells))
	for i := from; i < to; i++ {
		s := sells[i]
		amount := "Sell All"
		if s.Mode != models.SellAll {
			amount = utils.FormatAmount(s.Amount, v.currency())
		}
		table.AddRow(strconv.Itoa(i+1), s.InvestCode, v.investTitle(s.InvestCode), amount)
	}
	table.Render()
	v.out.Dim("  total sell records: %d", len(sells))
}

// ShowBuys renders one page of the buy list starting at the 1-based index.
func (v *appointView) ShowBuys(buys []models.BuyAllocation, start int) {
	v.out.Bold("--- Buy Allocations ---")
	table := NewTable(v.out, "#", "Code", "Title", "Percent")
	from, to := pageWindow(start, len(buys))
	for i := from; i < to; i++ {
		b := buys[i]
		table.AddRow(strconv.Itoa(i+1), b.InvestCode, v.investTitle(b.InvestCode),
			utils.FormatPercent(b.Percent))
	}
	table.Render()
	v.out.Dim("  total buy records: %d", len(buys))
}

func (v *appointView) ShowRemit(remit *models.RemittanceAccount) {
	v.out.Bold("--- Remittance ---")
	v.out.Printf("  Channel:  %s\n", channelLabel(remit.Channel))
	if remit.Channel != models.DisbBankTransfer {
		return
	}
	bankName := ""
	if b, err := v.store.BankLookup(v.ctx, remit.Bank+remit.Branch); err == nil {
		bankName = b.Name
	}
	v.out.Printf("  Bank:     %s %s  %s\n", remit.Bank, remit.Branch, bankName)
	v.out.Printf("  Account:  %s\n", remit.Account)
	v.out.Printf("  Payee:    %s\n", remit.Payee)
	if remit.PayeeEN != "" {
		v.out.Printf("  Payee (EN): %s\n", remit.PayeeEN)
	}
	if remit.SwiftCode != "" {
		v.out.Printf("  SWIFT:    %s  %s\n", remit.SwiftCode, remit.BankNameEN)
	}
}

// showRecord renders the whole aggregate plus the record position line used
// by the cancel/modify/query navigators.
func (v *appointView) showRecord(agg *models.Appointment, cursor *navigate.Cursor) {
	v.recordCurrency = agg.Header.Currency
	v.ShowAppointment(agg)
	v.ShowSells(agg.Sells, 1)
	if agg.Header.Direction == models.DirectionConversion {
		v.ShowBuys(agg.Buys, 1)
	} else {
		v.ShowRemit(&agg.Remit)
	}
	v.out.Dim("  record %d of %d", cursor.Current(), cursor.Total())
}

func (v *appointView) investTitle(code string) string {
	title, err := v.store.InvestmentTitle(v.ctx, code)
	if err != nil {
		return ""
	}
	return title
}

func (v *appointView) currency() string {
	if v.policy != nil {
		return v.policy.Currency
	}
	return v.recordCurrency
}

// pageWindow converts a 1-based page start into a half-open zero-based range
// at most one page wide.
func pageWindow(start, length int) (int, int) {
	from := start - 1
	if from < 0 {
		from = 0
	}
	to := from + navigate.PageSize
	if to > length {
		to = length
	}
	if from > to {
		from = to
	}
	return from, to
}

func directionLabel(d models.Direction) string {
	switch d {
	case models.DirectionConversion:
		return "Conversion"
	case models.DirectionWithdrawal:
		return "Withdrawal"
	}
	return string(d)
}

func frequencyLabel(f models.Frequency) string {
	switch f {
	case models.FreqOnce:
		return "Once"
	case models.FreqMonthly:
		return "Monthly"
	case models.FreqQuarterly:
		return "Quarterly"
	case models.FreqSemiAnnual:
		return "Semi-annual"
	case models.FreqAnnual:
		return "Annual"
	}
	return "?"
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusPending:
		return "Pending"
	case models.StatusActive:
		return "Active"
	case models.StatusCancelled:
		return "Cancelled"
	case models.StatusExpired:
		return "Expired"
	}
	return string(s)
}

func channelLabel(c models.DisbChannel) string {
	switch c {
	case models.DisbBankTransfer:
		return "Bank Transfer"
	case models.DisbPersonalAccount:
		return "Personal Account"
	case models.DisbPolicyAccount:
		return "Policy Account"
	}
	return string(c)
}

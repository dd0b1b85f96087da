package wizard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"invest-appointment/internal/calendar"
	"invest-appointment/internal/models"
	"invest-appointment/internal/validate"
)

// editSell runs the add/edit/delete loop over the sell list, then the
// screen-exit checks: non-empty list, cross-appointment duplicates, and the
// minimum-withdrawal floor for withdrawals.
func (w *Wizard) editSell(ctx context.Context) (Screen, error) {
	w.view.ShowSells(w.agg.Sells, 1)

	for {
		choice, err := w.prompt.Line("Sell list: a=add e=edit d=delete c=continue: ")
		if err != nil {
			return ScreenExit, err
		}
		done := false
		switch choice {
		case "a", "A":
			err = w.sellAdd(ctx)
		case "e", "E":
			err = w.sellEdit()
		case "d", "D":
			err = w.sellDelete()
		case "c", "C", "":
			done = true
		}
		if err != nil {
			return ScreenExit, err
		}
		if done {
			break
		}
		w.view.ShowSells(w.agg.Sells, 1)
	}

	if len(w.agg.Sells) == 0 {
		w.view.Reject("enter at least one sell record")
		return ScreenSell, nil
	}

	// Re-check every entry against other appointments: the list may have
	// changed since each entry was validated at add time.
	monthDay := calendar.MonthDay(w.agg.Header.BeginDate)
	for _, s := range w.agg.Sells {
		dup, err := w.lookups.CrossAppointmentDuplicateSell(ctx,
			w.agg.Header.PolicyNo, s.InvestCode, monthDay, w.agg.Header.ReceiveNo)
		if err != nil {
			return ScreenExit, err
		}
		if dup {
			w.view.Reject("investment %s is already sold by another appointment", s.InvestCode)
			return ScreenSell, nil
		}
	}

	if w.agg.Header.Direction == models.DirectionWithdrawal {
		exempt := validate.SellAllExempt(w.agg.Sells)
		if err := validate.WithdrawalMeetsMinimum(w.agg.Sells, w.plan.MinPartialWithdrawal, exempt); err != nil {
			w.view.Reject("%v", err)
			return ScreenSell, nil
		}
	}

	return w.navigate(ScreenSell)
}

func (w *Wizard) sellAdd(ctx context.Context) error {
	code, err := w.prompt.Line("Investment Code: ")
	if err != nil {
		return err
	}
	if code == "" {
		return nil
	}

	candidate := append(w.agg.Sells, models.SellAllocation{InvestCode: code})
	if err := validate.NoDuplicateSellCode(candidate, len(candidate)-1); err != nil {
		w.view.Reject("%v", err)
		return nil
	}

	exists, err := w.lookups.InvestmentExists(ctx, w.agg.Header.PolicyNo, code)
	if err != nil {
		return err
	}
	if !exists {
		w.view.Reject("policy holds no units of investment %s", code)
		return nil
	}

	dup, err := w.lookups.CrossAppointmentDuplicateSell(ctx,
		w.agg.Header.PolicyNo, code, calendar.MonthDay(w.agg.Header.BeginDate), w.agg.Header.ReceiveNo)
	if err != nil {
		return err
	}
	if dup {
		w.view.Reject("investment %s is already sold by another appointment", code)
		return nil
	}

	modeAns, err := w.prompt.Line("Sell Mode [1=Amount 2=All]: ")
	if err != nil {
		return err
	}
	mode := models.SellMode(modeAns)
	if !mode.Valid() {
		w.view.Reject("invalid sell mode %q", modeAns)
		return nil
	}

	alloc := models.SellAllocation{InvestCode: code, Mode: mode}
	if mode == models.SellByAmount {
		amount, ok, err := w.promptAmount("Amount: ", decimal.Zero)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		alloc.Amount = amount
	}

	w.agg.Sells = append(w.agg.Sells, alloc)
	w.view.Message("added sell record %s", code)
	return nil
}

func (w *Wizard) sellEdit() error {
	idx, ok, err := w.promptIndex("Record number to edit: ", len(w.agg.Sells))
	if err != nil || !ok {
		return err
	}
	sell := &w.agg.Sells[idx]

	modeAns, err := w.prompt.Line(fmt.Sprintf("Sell Mode [1=Amount 2=All] (%s): ", sell.Mode))
	if err != nil {
		return err
	}
	if modeAns != "" {
		mode := models.SellMode(modeAns)
		if !mode.Valid() {
			w.view.Reject("invalid sell mode %q", modeAns)
			return nil
		}
		sell.Mode = mode
	}

	if sell.Mode == models.SellByAmount {
		amount, changed, err := w.promptAmount(fmt.Sprintf("Amount (%s): ", sell.Amount), sell.Amount)
		if err != nil {
			return err
		}
		if changed {
			sell.Amount = amount
		}
	} else {
		// Sell-all liquidates the whole position; a stored amount is stale.
		sell.Amount = decimal.Zero
	}

	w.view.Message("updated sell record %s", sell.InvestCode)
	return nil
}

func (w *Wizard) sellDelete() error {
	idx, ok, err := w.promptIndex("Record number to delete: ", len(w.agg.Sells))
	if err != nil || !ok {
		return err
	}
	code := w.agg.Sells[idx].InvestCode
	w.agg.Sells = append(w.agg.Sells[:idx], w.agg.Sells[idx+1:]...)
	w.view.Message("deleted sell record %s", code)
	return nil
}

// promptAmount reads a sell amount and applies the positive and minor-unit
// rules. The second return is false when nothing valid was entered.
func (w *Wizard) promptAmount(prompt string, current decimal.Decimal) (decimal.Decimal, bool, error) {
	ans, err := w.prompt.Line(prompt)
	if err != nil {
		return decimal.Zero, false, err
	}
	if ans == "" {
		if current.IsPositive() {
			return current, true, nil
		}
		w.view.Reject("amount is required")
		return decimal.Zero, false, nil
	}
	amount, convErr := decimal.NewFromString(ans)
	if convErr != nil {
		w.view.Reject("invalid amount %q", ans)
		return decimal.Zero, false, nil
	}
	if err := validate.SellAmount(amount, w.policy.Currency); err != nil {
		w.view.Reject("%v", err)
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

// promptIndex reads a 1-based record number and returns the zero-based index.
func (w *Wizard) promptIndex(prompt string, length int) (int, bool, error) {
	ans, err := w.prompt.Line(prompt)
	if err != nil {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(ans)
	if convErr != nil || n < 1 || n > length {
		w.view.Reject("invalid record number %q", ans)
		return 0, false, nil
	}
	return n - 1, true, nil
}

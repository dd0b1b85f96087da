package wizard

import (
	"context"
	"fmt"
	"strconv"

	"invest-appointment/internal/models"
	"invest-appointment/internal/validate"
)

// editBuy runs the add/edit/delete loop over the buy list of a conversion,
// then the screen-exit checks: percentages sum to exactly 100 and no entry
// overlaps the sell list.
func (w *Wizard) editBuy(ctx context.Context) (Screen, error) {
	w.view.ShowBuys(w.agg.Buys, 1)

	for {
		choice, err := w.prompt.Line("Buy list: a=add e=edit d=delete c=continue: ")
		if err != nil {
			return ScreenExit, err
		}
		done := false
		switch choice {
		case "a", "A":
			err = w.buyAdd(ctx)
		case "e", "E":
			err = w.buyEdit()
		case "d", "D":
			err = w.buyDelete()
		case "c", "C", "":
			done = true
		}
		if err != nil {
			return ScreenExit, err
		}
		if done {
			break
		}
		w.view.ShowBuys(w.agg.Buys, 1)
	}

	if err := validate.BuyPercentagesSumTo100(w.agg.Buys); err != nil {
		w.view.Reject("%v", err)
		return ScreenBuyOrRemit, nil
	}

	// The sell list may have changed after these entries were added; re-check
	// cross-list exclusivity for every entry before leaving the screen.
	for i := range w.agg.Buys {
		if err := validate.NotInSellList(w.agg.Buys, w.agg.Sells, i); err != nil {
			w.view.Reject("%v", err)
			return ScreenBuyOrRemit, nil
		}
	}

	return w.navigate(ScreenBuyOrRemit)
}

func (w *Wizard) buyAdd(ctx context.Context) error {
	code, err := w.prompt.Line("Investment Code: ")
	if err != nil {
		return err
	}
	if code == "" {
		return nil
	}

	candidate := append(w.agg.Buys, models.BuyAllocation{InvestCode: code})
	if err := validate.NoDuplicateBuyCode(candidate, len(candidate)-1); err != nil {
		w.view.Reject("%v", err)
		return nil
	}
	if err := validate.NotInSellList(candidate, w.agg.Sells, len(candidate)-1); err != nil {
		w.view.Reject("%v", err)
		return nil
	}
	if ok, err := w.examBuyInvestment(ctx, code); err != nil || !ok {
		return err
	}

	percent, ok, err := w.promptPercent("Percentage: ")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	w.agg.Buys = append(w.agg.Buys, models.BuyAllocation{InvestCode: code, Percent: percent})
	w.view.Message("added buy record %s", code)
	return nil
}

// examBuyInvestment runs the external checks a buy candidate must pass:
// availability, not shutting down as of the transaction date, and within the
// owner's risk tolerance.
func (w *Wizard) examBuyInvestment(ctx context.Context, code string) (bool, error) {
	exists, err := w.lookups.InvestmentExists(ctx, w.agg.Header.PolicyNo, code)
	if err != nil {
		return false, err
	}
	if !exists {
		w.view.Reject("investment %s is not available for this policy", code)
		return false, nil
	}

	shutting, err := w.lookups.InvestmentIsShuttingDown(ctx, code, w.txn.ReceiveDate)
	if err != nil {
		return false, err
	}
	if shutting {
		w.view.Reject("investment %s is shutting down and cannot be bought", code)
		return false, nil
	}

	acceptable, err := w.lookups.InvestmentRiskAcceptable(ctx, w.client.OwnerID, code)
	if err != nil {
		return false, err
	}
	if !acceptable {
		w.view.Reject("investment %s exceeds the owner's risk tolerance", code)
		return false, nil
	}
	return true, nil
}

func (w *Wizard) buyEdit() error {
	idx, ok, err := w.promptIndex("Record number to edit: ", len(w.agg.Buys))
	if err != nil || !ok {
		return err
	}
	buy := &w.agg.Buys[idx]

	ans, err := w.prompt.Line(fmt.Sprintf("Percentage (%d): ", buy.Percent))
	if err != nil {
		return err
	}
	if ans != "" {
		percent, convErr := strconv.Atoi(ans)
		if convErr != nil {
			w.view.Reject("percentage must be a whole number")
			return nil
		}
		if err := validate.BuyPercentInRange(percent, w.minBuy); err != nil {
			w.view.Reject("%v", err)
			return nil
		}
		buy.Percent = percent
	}

	w.view.Message("updated buy record %s", buy.InvestCode)
	return nil
}

func (w *Wizard) buyDelete() error {
	idx, ok, err := w.promptIndex("Record number to delete: ", len(w.agg.Buys))
	if err != nil || !ok {
		return err
	}
	code := w.agg.Buys[idx].InvestCode
	w.agg.Buys = append(w.agg.Buys[:idx], w.agg.Buys[idx+1:]...)
	w.view.Message("deleted buy record %s", code)
	return nil
}

func (w *Wizard) promptPercent(prompt string) (int, bool, error) {
	ans, err := w.prompt.Line(prompt)
	if err != nil {
		return 0, false, err
	}
	percent, convErr := strconv.Atoi(ans)
	if convErr != nil {
		w.view.Reject("percentage must be a whole number")
		return 0, false, nil
	}
	if err := validate.BuyPercentInRange(percent, w.minBuy); err != nil {
		w.view.Reject("%v", err)
		return 0, false, nil
	}
	return percent, true, nil
}

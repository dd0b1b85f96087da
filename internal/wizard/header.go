package wizard

import (
	"context"
	"fmt"
	"strconv"

	"invest-appointment/internal/calendar"
	"invest-appointment/internal/models"
)

// editHeader captures direction, begin date and frequency. Every rejection
// stays on the header screen; only an interrupt leaves the wizard.
func (w *Wizard) editHeader(_ context.Context) (Screen, error) {
	h := &w.agg.Header

	ans, err := w.prompt.Line(fmt.Sprintf("Direction [1=Conversion 2=Withdrawal] (%s): ", h.Direction))
	if err != nil {
		return ScreenExit, err
	}
	if ans != "" {
		dir := models.Direction(ans)
		if !dir.Valid() {
			w.view.Reject("invalid direction %q", ans)
			return ScreenHeader, nil
		}
		if dir != h.Direction {
			h.Direction = dir
			// The buy/remit side belongs to the old direction; drop it.
			w.agg.Buys = nil
			w.agg.Remit = models.RemittanceAccount{}
			w.view.ShowAppointment(w.agg)
		}
	}

	// The matched transaction fixes which directions are available: a
	// conversion screen needs a conversion transaction underneath, and
	// likewise for withdrawal.
	switch h.Direction {
	case models.DirectionConversion:
		if w.txn.ChangeCode != models.ChangeCodeConversion {
			w.view.Reject("policy has no pending conversion transaction")
			return ScreenHeader, nil
		}
	case models.DirectionWithdrawal:
		if w.txn.ChangeCode != models.ChangeCodeWithdrawal {
			w.view.Reject("policy has no pending withdrawal transaction")
			return ScreenHeader, nil
		}
	default:
		w.view.Reject("direction is required")
		return ScreenHeader, nil
	}

	ans, err = w.prompt.Line(fmt.Sprintf("Begin Date [YYY/MM/DD] (%s): ", h.BeginDate))
	if err != nil {
		return ScreenExit, err
	}
	if ans != "" {
		if !calendar.Valid(ans) {
			w.view.Reject("invalid date %q", ans)
			return ScreenHeader, nil
		}
		h.BeginDate = ans
	}
	if h.BeginDate == "" {
		w.view.Reject("begin date is required")
		return ScreenHeader, nil
	}

	ans, err = w.prompt.Line(fmt.Sprintf("Frequency [0=Once 1=Monthly 3=Quarterly 6=Semi-annual 12=Annual] (%d): ", h.Frequency))
	if err != nil {
		return ScreenExit, err
	}
	if ans != "" {
		n, convErr := strconv.Atoi(ans)
		if convErr != nil || !models.Frequency(n).Valid() {
			w.view.Reject("invalid frequency %q", ans)
			return ScreenHeader, nil
		}
		h.Frequency = models.Frequency(n)
	}

	// Canonical strings order like dates, so a plain compare suffices.
	if h.Frequency == models.FreqOnce && h.BeginDate < w.today {
		w.view.Reject("a one-time appointment cannot begin before today")
		return ScreenHeader, nil
	}

	next, err := calendar.NextOccurrenceOnOrAfter(h.BeginDate, h.Frequency, w.today)
	if err != nil {
		w.view.Reject("invalid begin date %q", h.BeginDate)
		return ScreenHeader, nil
	}
	h.NextDate = next

	return w.navigate(ScreenHeader)
}

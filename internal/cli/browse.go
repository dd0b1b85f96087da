package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"invest-appointment/internal/calendar"
	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/logging"
	"invest-appointment/internal/models"
	"invest-appointment/internal/navigate"
	"invest-appointment/internal/store"
	"invest-appointment/internal/wizard"
)

// promptCriteria reads the optional search fields shared by the cancel,
// modify and query flows. Empty answers leave the field unset.
func promptCriteria(prompt wizard.Prompter, out *Output) (store.Criteria, error) {
	var c store.Criteria

	ans, err := prompt.Line("Policy Number (optional): ")
	if err != nil {
		return c, err
	}
	c.PolicyNo = ans

	ans, err = prompt.Line("Receive Number (optional): ")
	if err != nil {
		return c, err
	}
	c.ReceiveNo = ans

	ans, err = prompt.Line("Direction (optional, 1=Conversion 2=Withdrawal): ")
	if err != nil {
		return c, err
	}
	if ans != "" {
		dir := models.Direction(ans)
		if !dir.Valid() {
			out.Error("invalid direction %q, ignored", ans)
		} else {
			c.Direction = dir
		}
	}

	ans, err = prompt.Line("Status (optional): ")
	if err != nil {
		return c, err
	}
	c.Status = ans

	ans, err = prompt.Line("Begin Date (optional, YYY/MM/DD): ")
	if err != nil {
		return c, err
	}
	c.BeginDate = ans

	ans, err = prompt.Line("Frequency (optional): ")
	if err != nil {
		return c, err
	}
	if ans != "" {
		n, convErr := strconv.Atoi(ans)
		if convErr != nil {
			out.Error("invalid frequency %q, ignored", ans)
		} else {
			c.Frequency = &n
		}
	}

	return c, nil
}

// openNavigator counts the matching records and positions a cursor on the
// first one. A zero count is reported and returns a nil cursor.
func (a *App) openNavigator(ctx context.Context, out *Output, criteria store.Criteria) (*navigate.Cursor, *models.Appointment, error) {
	total, err := a.Store.CountMatching(ctx, criteria)
	if err != nil {
		return nil, nil, err
	}
	if total == 0 {
		out.Warning("no matching records found")
		return nil, nil, nil
	}
	cursor := navigate.NewCursor(total)
	agg, err := a.Store.LoadAppointmentAt(ctx, criteria, cursor.Current())
	if err != nil {
		return nil, nil, err
	}
	return cursor, agg, nil
}

// moveCursor applies a record movement and reloads the record at the new
// position. The navigator never caches records: every movement re-reads.
func (a *App) moveCursor(ctx context.Context, criteria store.Criteria, cursor *navigate.Cursor, move func() int) (*models.Appointment, error) {
	move()
	return a.Store.LoadAppointmentAt(ctx, criteria, cursor.Current())
}

// runCancel browses active appointments and cancels the selected one, with
// confirmation, authorization and the shared approval tail.
func (a *App) runCancel(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := NewOutput(cmd)
	prompt := wizard.NewStdioPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	criteria, err := promptCriteria(prompt, out)
	if err != nil {
		return nil
	}
	if criteria.PolicyNo == "" && criteria.ReceiveNo == "" {
		out.Error("enter at least a policy number or a receive number")
		return nil
	}
	criteria.ActiveOnly = true

	cursor, agg, err := a.openNavigator(ctx, out, criteria)
	if err != nil || cursor == nil {
		return err
	}
	view := newAppointView(ctx, out, a.Store, nil, nil, nil)
	view.showRecord(agg, cursor)

	for {
		choice, err := prompt.Line("n=next p=previous c=cancel record q=quit: ")
		if err != nil {
			return nil
		}
		switch strings.ToLower(choice) {
		case "n":
			if agg, err = a.moveCursor(ctx, criteria, cursor, cursor.Next); err != nil {
				return err
			}
			view.showRecord(agg, cursor)
		case "p":
			if agg, err = a.moveCursor(ctx, criteria, cursor, cursor.Prev); err != nil {
				return err
			}
			view.showRecord(agg, cursor)
		case "c":
			return a.cancelRecord(ctx, out, prompt, agg)
		case "q", "0":
			return nil
		}
	}
}

func (a *App) cancelRecord(ctx context.Context, out *Output, prompt wizard.Prompter, agg *models.Appointment) error {
	confirm, err := prompt.Line("Confirm cancellation? (y/n): ")
	if err != nil || strings.ToLower(confirm) != "y" {
		out.Warning("cancellation aborted")
		return nil
	}

	// The cancellation is written under the policy's current transaction,
	// not the one the appointment was originally created under.
	cancelReceiveNo := agg.Header.ReceiveNo
	if txn, err := a.Store.FindLatestMatchingTransaction(ctx, agg.Header.PolicyNo); err == nil {
		cancelReceiveNo = txn.ReceiveNo
	}

	authorized, err := a.Store.CheckAuthorization(ctx, cancelReceiveNo,
		a.Config.Business.AuthCode, a.Config.Business.AuthLevel)
	if err != nil {
		return err
	}
	if !authorized {
		out.Error("cancellation requires authorization %s", a.Config.Business.AuthCode)
		return apperr.ErrNotAuthorized
	}

	if err := a.Store.CancelAppointment(ctx, agg.Header.Seq); err != nil {
		out.Error("cancellation failed: %v", err)
		return err
	}
	logging.LogCancel(a.Logger, agg.Header.PolicyNo, cancelReceiveNo, agg.Header.Seq)

	agg.Header.ProcUser = a.userID()
	agg.Header.ProcDate = calendar.Today()
	return a.finishApproval(ctx, out, prompt, agg, cancelReceiveNo, true)
}

// runModify browses active appointments and re-runs the wizard over the
// selected one. An appointment already consumed by scheduled processing
// cannot be modified.
func (a *App) runModify(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := NewOutput(cmd)
	prompt := wizard.NewStdioPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	criteria, err := promptCriteria(prompt, out)
	if err != nil {
		return nil
	}
	if criteria.PolicyNo == "" && criteria.ReceiveNo == "" {
		out.Error("enter at least a policy number or a receive number")
		return nil
	}
	criteria.ActiveOnly = true

	cursor, agg, err := a.openNavigator(ctx, out, criteria)
	if err != nil || cursor == nil {
		return err
	}
	view := newAppointView(ctx, out, a.Store, nil, nil, nil)
	view.showRecord(agg, cursor)

	for {
		choice, err := prompt.Line("n=next p=previous m=modify record q=quit: ")
		if err != nil {
			return nil
		}
		switch strings.ToLower(choice) {
		case "n":
			if agg, err = a.moveCursor(ctx, criteria, cursor, cursor.Next); err != nil {
				return err
			}
			view.showRecord(agg, cursor)
		case "p":
			if agg, err = a.moveCursor(ctx, criteria, cursor, cursor.Prev); err != nil {
				return err
			}
			view.showRecord(agg, cursor)
		case "m":
			return a.modifyRecord(ctx, out, prompt, agg)
		case "q", "0":
			return nil
		}
	}
}

func (a *App) modifyRecord(ctx context.Context, out *Output, prompt wizard.Prompter, agg *models.Appointment) error {
	started, err := a.Store.AppointmentStarted(ctx, agg.Header.Seq)
	if err != nil {
		return err
	}
	if started {
		out.Error("this appointment has already started processing and cannot be modified")
		return nil
	}

	policy, err := a.Store.GetPolicy(ctx, agg.Header.PolicyNo)
	if err != nil {
		return err
	}
	client, err := a.Store.GetClient(ctx, agg.Header.PolicyNo)
	if err != nil {
		return err
	}
	plan, err := a.Store.GetPlan(ctx, policy.BasicPlanCode, policy.RateScale)
	if err != nil {
		return err
	}
	// The wizard re-validates direction against a transaction ref; a record
	// being modified is its own precedent, so the ref mirrors the record.
	txn := &models.TransactionRef{
		ReceiveNo:   agg.Header.ReceiveNo,
		ReceiveDate: calendar.Today(),
		ChangeCode:  changeCodeFor(agg.Header.Direction),
	}

	view := newAppointView(ctx, out, a.Store, policy, client, txn)
	w := wizard.New(wizard.Params{
		Lookups:       a.Store,
		Prompt:        prompt,
		View:          view,
		Logger:        logging.WithReceive(logging.WithPolicy(a.Logger, agg.Header.PolicyNo), txn.ReceiveNo),
		Policy:        policy,
		Client:        client,
		Plan:          plan,
		Transaction:   txn,
		Today:         calendar.Today(),
		LocalCurrency: a.Config.Business.LocalCurrency,
		MinBuyPercent: a.Config.Business.MinBuyPercent,
		UserID:        a.userID(),
	})

	outcome, err := w.Run(ctx, agg)
	if err != nil {
		return err
	}
	if outcome == wizard.OutcomeAbandoned {
		out.Warning("modification cancelled")
		return nil
	}

	confirm, err := prompt.Line("Confirm modification? (y/n): ")
	if err != nil || strings.ToLower(confirm) != "y" {
		out.Warning("modification aborted")
		return nil
	}
	if err := a.Store.ModifyAppointment(ctx, agg.Header.Seq, agg); err != nil {
		out.Error("modification failed: %v", err)
		return err
	}
	logging.LogCommit(a.Logger, agg.Header.PolicyNo, agg.Header.ReceiveNo,
		agg.Header.Seq, false)
	out.Success("appointment modified")
	return nil
}

func changeCodeFor(d models.Direction) string {
	if d == models.DirectionWithdrawal {
		return models.ChangeCodeWithdrawal
	}
	return models.ChangeCodeConversion
}

// runQuery browses matching appointments read-only, with independent page
// cursors over the sell and buy lists.
func (a *App) runQuery(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := NewOutput(cmd)
	prompt := wizard.NewStdioPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	criteria, err := promptCriteria(prompt, out)
	if err != nil {
		return nil
	}
	if criteria.Empty() {
		out.Error("enter at least one search criterion")
		return nil
	}

	cursor, agg, err := a.openNavigator(ctx, out, criteria)
	if err != nil || cursor == nil {
		return err
	}
	view := newAppointView(ctx, out, a.Store, nil, nil, nil)
	view.showRecord(agg, cursor)

	sellPage := navigate.NewPageCursor(len(agg.Sells))
	buyPage := navigate.NewPageCursor(len(agg.Buys))

	reload := func(move func() int) error {
		if agg, err = a.moveCursor(ctx, criteria, cursor, move); err != nil {
			return err
		}
		sellPage.Reset(len(agg.Sells))
		buyPage.Reset(len(agg.Buys))
		view.showRecord(agg, cursor)
		return nil
	}

	for {
		choice, err := prompt.Line("n/p/f/l=record  1/2=sell page  3/4=buy page  q=quit: ")
		if err != nil {
			return nil
		}
		switch strings.ToLower(choice) {
		case "n":
			if err := reload(cursor.Next); err != nil {
				return err
			}
		case "p":
			if err := reload(cursor.Prev); err != nil {
				return err
			}
		case "f":
			if err := reload(cursor.First); err != nil {
				return err
			}
		case "l":
			if err := reload(cursor.Last); err != nil {
				return err
			}
		case "1":
			if sellPage.Advance() {
				view.ShowSells(agg.Sells, sellPage.Start())
			}
		case "2":
			if sellPage.Retreat() {
				view.ShowSells(agg.Sells, sellPage.Start())
			}
		case "3":
			if agg.Header.Direction == models.DirectionConversion && buyPage.Advance() {
				view.ShowBuys(agg.Buys, buyPage.Start())
			}
		case "4":
			if agg.Header.Direction == models.DirectionConversion && buyPage.Retreat() {
				view.ShowBuys(agg.Buys, buyPage.Start())
			}
		case "q", "0":
			return nil
		}
	}
}

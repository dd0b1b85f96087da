package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"invest-appointment/internal/calendar"
	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/logging"
	"invest-appointment/internal/models"
	"invest-appointment/internal/wizard"
)

// Policy eligibility tables. A policy can carry an appointment only when its
// status and insurance type admit investment instructions and the plan's
// assignment and change flags are both open.
var (
	eligiblePolicyStatus = map[string]bool{"42": true, "44": true, "47": true}
	investmentPolicyType = map[string]bool{"V": true, "N": true, "G": true}
)

// policyContext is the loaded context of the matched transaction: everything
// the wizard needs to know about the policy being edited against.
type policyContext struct {
	policy *models.Policy
	client *models.Client
	plan   *models.Plan
	txn    *models.TransactionRef
}

func (a *App) loadPolicyContext(ctx context.Context, policyNo string) (*policyContext, error) {
	txn, err := a.Store.FindLatestMatchingTransaction(ctx, policyNo)
	if err != nil {
		return nil, err
	}
	policy, err := a.Store.GetPolicy(ctx, policyNo)
	if err != nil {
		return nil, err
	}
	client, err := a.Store.GetClient(ctx, policyNo)
	if err != nil {
		return nil, err
	}
	plan, err := a.Store.GetPlan(ctx, policy.BasicPlanCode, policy.RateScale)
	if err != nil {
		return nil, err
	}
	return &policyContext{policy: policy, client: client, plan: plan, txn: txn}, nil
}

// checkPolicyEligibility reports whether the policy admits investment
// appointments, explaining the first failing condition.
func checkPolicyEligibility(out *Output, pc *policyContext) bool {
	if !eligiblePolicyStatus[pc.policy.StatusCode] {
		out.Error("policy status %s does not allow appointments", pc.policy.StatusCode)
		return false
	}
	if !investmentPolicyType[pc.policy.InsuranceType] {
		out.Error("policy is not an investment policy")
		return false
	}
	if !flagsOpen(pc.plan.AssignFlags) {
		out.Error("policy plan does not allow investment appointment")
		return false
	}
	if !flagsOpen(pc.plan.ChangeFlags) {
		out.Error("policy plan does not allow investment conversion or withdrawal")
		return false
	}
	return true
}

// flagsOpen checks the first and third characters of a plan flag string, the
// positions the appointment feature reads.
func flagsOpen(flags string) bool {
	return len(flags) >= 3 && flags[0] != '0' && flags[2] != '0'
}

func (a *App) userID() string {
	if a.Config.Operator.UserID != "" {
		return a.Config.Operator.UserID
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "operator"
}

// runAdd drives the add flow: match the policy's pending transaction, run
// the wizard over a fresh aggregate, then save or approve what came out.
func (a *App) runAdd(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := NewOutput(cmd)
	prompt := wizard.NewStdioPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	policyNo, err := prompt.Line("Policy Number: ")
	if err != nil || policyNo == "" {
		return nil
	}

	pc, err := a.loadPolicyContext(ctx, policyNo)
	if err != nil {
		if apperr.Is(err, apperr.ErrNotFound) {
			out.Error("no pending conversion or withdrawal transaction for policy %s", policyNo)
			return nil
		}
		return err
	}
	if !checkPolicyEligibility(out, pc) {
		return nil
	}

	out.Info("Policy No: %s  Receive No: %s  Receive Date: %s",
		policyNo, pc.txn.ReceiveNo, pc.txn.ReceiveDate)

	agg := &models.Appointment{
		Header: models.AppointmentHeader{
			PolicyNo:  policyNo,
			ReceiveNo: pc.txn.ReceiveNo,
			Currency:  pc.policy.Currency,
			Status:    models.StatusPending,
		},
	}

	view := newAppointView(ctx, out, a.Store, pc.policy, pc.client, pc.txn)
	w := wizard.New(wizard.Params{
		Lookups:       a.Store,
		Prompt:        prompt,
		View:          view,
		Logger:        logging.WithReceive(logging.WithPolicy(a.Logger, policyNo), pc.txn.ReceiveNo),
		Policy:        pc.policy,
		Client:        pc.client,
		Plan:          pc.plan,
		Transaction:   pc.txn,
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
		out.Warning("addition cancelled")
		return nil
	}
	return a.saveAppointment(ctx, out, prompt, agg, outcome)
}

// saveAppointment commits the finished aggregate. Ownership gates every
// save; approval additionally needs supervisor authorization and runs the
// print and transaction-status tail.
func (a *App) saveAppointment(ctx context.Context, out *Output, prompt wizard.Prompter, agg *models.Appointment, outcome wizard.Outcome) error {
	receiveNo := agg.Header.ReceiveNo

	owner, err := a.Store.IsOwner(ctx, receiveNo, a.userID())
	if err != nil {
		return err
	}
	if !owner {
		out.Error("you are not the owner of transaction %s", receiveNo)
		return apperr.ErrNotOwner
	}

	if outcome == wizard.OutcomeSaveApproved {
		authorized, err := a.Store.CheckAuthorization(ctx, receiveNo,
			a.Config.Business.AuthCode, a.Config.Business.AuthLevel)
		if err != nil {
			return err
		}
		if !authorized {
			out.Error("approval requires authorization %s", a.Config.Business.AuthCode)
			return apperr.ErrNotAuthorized
		}
	}

	// Final duplicate check right before the write: another appointment may
	// have claimed one of these investments while this one was being edited.
	monthDay := calendar.MonthDay(agg.Header.BeginDate)
	for _, s := range agg.Sells {
		dup, err := a.Store.CrossAppointmentDuplicateSell(ctx,
			agg.Header.PolicyNo, s.InvestCode, monthDay, receiveNo)
		if err != nil {
			return err
		}
		if dup {
			out.Error("investment %s is already sold by another appointment", s.InvestCode)
			return nil
		}
	}

	mode := models.CommitDraft
	if outcome == wizard.OutcomeSaveApproved {
		mode = models.CommitApproved
	}
	seq, err := a.Store.CommitAppointment(ctx, agg, mode)
	if err != nil {
		out.Error("save failed: %v", err)
		return err
	}

	logging.LogCommit(a.Logger, agg.Header.PolicyNo, receiveNo, seq,
		outcome == wizard.OutcomeSaveApproved)
	out.Success("data saved (record %d)", seq)

	if outcome == wizard.OutcomeSaveApproved {
		return a.finishApproval(ctx, out, prompt, agg, receiveNo, false)
	}
	return nil
}

// finishApproval runs the tail every approval and cancellation shares:
// queue the letter lines, show them, record the policy letter, print the
// requested documents, and close out the transaction status.
func (a *App) finishApproval(ctx context.Context, out *Output, prompt wizard.Prompter, agg *models.Appointment, receiveNo string, cancelled bool) error {
	lines := buildPrintLines(ctx, a.Store, agg, receiveNo, cancelled)
	if err := a.Store.EnqueuePrintRecord(ctx, receiveNo, lines); err != nil {
		out.Error("error inserting print record: %v", err)
	}
	a.showPrintRecord(ctx, out, receiveNo)

	if _, err := prompt.Line("Print policy letter (Enter to confirm): "); err != nil {
		return nil
	}
	if err := a.Store.InsertPolicyLetter(ctx, agg.Header.PolicyNo, receiveNo, "PL"); err != nil {
		out.Error("error recording policy letter: %v", err)
	}

	option, err := prompt.Line("Print policy documents [1=Letter 2=Certificate 3=Both]: ")
	if err != nil {
		return nil
	}
	printed := true
	if option == "1" || option == "3" {
		ok, err := a.Store.PrintDocuments(ctx, agg.Header.PolicyNo, receiveNo, "1")
		printed = printed && ok && err == nil
	}
	if option == "2" || option == "3" {
		ok, err := a.Store.PrintDocuments(ctx, agg.Header.PolicyNo, receiveNo, "2")
		printed = printed && ok && err == nil
	}
	if !printed {
		out.Error("error printing policy documents")
	}

	// Close out the transaction: completed, then archived.
	if err := a.Store.UpdateTransactionStatus(ctx, receiveNo, "C"); err != nil {
		return err
	}
	if err := a.Store.UpdateTransactionStatus(ctx, receiveNo, "5"); err != nil {
		return err
	}

	if cancelled {
		out.Success("appointment cancelled")
	} else {
		out.Success("data approved")
	}
	return nil
}

func (a *App) showPrintRecord(ctx context.Context, out *Output, receiveNo string) {
	lines, err := a.Store.QueryPrintRecord(ctx, receiveNo)
	if err != nil {
		out.Error("error reading print record: %v", err)
		return
	}
	out.Bold("--- Print Record %s ---", receiveNo)
	for _, l := range lines {
		out.Printf("  [%s] %s\n", l.Item, l.Comment)
	}
}

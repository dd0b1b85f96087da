package wizard

import (
	"context"
	"fmt"

	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/models"
	"invest-appointment/internal/validate"
)

// defaultForeignBranch stands in when a non-local-currency bank has no branch
// code of its own.
const defaultForeignBranch = "0000"

// editRemit captures the disbursement target of a withdrawal. Bank-transfer
// details are only collected for that channel; the account channels instead
// verify an account is already on file for the owner.
func (w *Wizard) editRemit(ctx context.Context) (Screen, error) {
	remit := &w.agg.Remit

	ans, err := w.prompt.Line(fmt.Sprintf(
		"Disbursement [0=Bank Transfer 1=Personal Account 2=Policy Account] (%s): ", remit.Channel))
	if err != nil {
		return ScreenExit, err
	}
	if ans != "" {
		channel := models.DisbChannel(ans)
		if !channel.Valid() {
			w.view.Reject("invalid disbursement channel %q", ans)
			return ScreenBuyOrRemit, nil
		}
		remit.Channel = channel

		switch channel {
		case models.DisbPersonalAccount, models.DisbPolicyAccount:
			// Account channels disburse to a pre-registered account; the
			// bank-transfer fields no longer apply.
			remit.Bank, remit.Branch, remit.Account = "", "", ""
			remit.Payee, remit.PayeeEN = "", ""
			remit.SwiftCode, remit.BankNameEN = "", ""

			if channel == models.DisbPolicyAccount && w.localCurrency() {
				w.view.Reject("policy account is not available for %s policies", w.localCur)
				return ScreenBuyOrRemit, nil
			}
			exists, err := w.lookups.AccountExists(ctx, channel, w.client.OwnerID, w.policy.Currency)
			if err != nil {
				return ScreenExit, err
			}
			if !exists {
				w.view.Reject("no valid account on file for this channel")
				return ScreenBuyOrRemit, nil
			}
		case models.DisbBankTransfer:
			remit.Payee = w.client.OwnerName
		}
	}
	if !remit.Channel.Valid() {
		w.view.Reject("disbursement channel is required")
		return ScreenBuyOrRemit, nil
	}

	if remit.Channel == models.DisbBankTransfer {
		if stay, err := w.editBankTransfer(ctx, remit); err != nil || stay {
			return ScreenBuyOrRemit, err
		}
	}

	return w.navigate(ScreenBuyOrRemit)
}

// editBankTransfer collects and verifies the bank-transfer fields. It returns
// stay=true when a rejection should keep the operator on this screen.
func (w *Wizard) editBankTransfer(ctx context.Context, remit *models.RemittanceAccount) (stay bool, err error) {
	ans, err := w.prompt.Line(fmt.Sprintf("Bank Code (%s): ", remit.Bank))
	if err != nil {
		return false, err
	}
	if ans != "" {
		remit.Bank = ans
	}

	ans, err = w.prompt.Line(fmt.Sprintf("Branch Code (%s): ", remit.Branch))
	if err != nil {
		return false, err
	}
	if ans != "" {
		remit.Branch = ans
	} else if remit.Branch == "" && !w.localCurrency() {
		remit.Branch = defaultForeignBranch
	}

	bankCode := remit.Bank + remit.Branch
	bank, err := w.lookups.BankLookup(ctx, bankCode)
	if err != nil {
		if apperr.Is(err, apperr.ErrNotFound) {
			w.view.Reject("unknown bank code %s", bankCode)
			return true, nil
		}
		return false, err
	}
	if !bank.Active {
		w.view.Reject("bank %s is inactive", bankCode)
		return true, nil
	}
	w.view.Message("Bank Name: %s", bank.Name)

	ans, err = w.prompt.Line(fmt.Sprintf("Account Number (%s): ", remit.Account))
	if err != nil {
		return false, err
	}
	if ans != "" {
		remit.Account = ans
	}

	ans, err = w.prompt.Line(fmt.Sprintf("Payee Name (%s): ", remit.Payee))
	if err != nil {
		return false, err
	}
	if ans != "" {
		remit.Payee = ans
	}

	if w.localCurrency() {
		ok, err := w.lookups.ValidateRemitAccount(ctx, remit.Bank, remit.Branch, remit.Account)
		if err != nil {
			return false, err
		}
		if !ok {
			w.view.Reject("invalid remittance account")
			return true, nil
		}
		return false, nil
	}

	// Non-local currency remits abroad: English payee, SWIFT routing and a
	// foreign-account check replace the local account validation.
	ans, err = w.prompt.Line(fmt.Sprintf("Payee Name (English) (%s): ", remit.PayeeEN))
	if err != nil {
		return false, err
	}
	if ans != "" {
		if err := validate.EnglishText("payee_en", ans); err != nil {
			w.view.Reject("%v", err)
			return true, nil
		}
		remit.PayeeEN = ans
	}

	if bank.SwiftCode == "" {
		w.view.Reject("bank %s has no SWIFT code", bankCode)
		return true, nil
	}
	remit.SwiftCode = bank.SwiftCode
	remit.BankNameEN = bank.NameEN

	if bank.RequiresPayeeEN && remit.PayeeEN == "" {
		w.view.Reject("this bank requires an English payee name")
		return true, nil
	}
	if remit.Account == "" {
		w.view.Reject("account number is required")
		return true, nil
	}

	ok, err := w.lookups.ValidateForeignAccount(ctx, "1", remit.SwiftCode, remit.Account)
	if err != nil {
		return false, err
	}
	if !ok {
		w.view.Reject("invalid foreign account")
		return true, nil
	}
	return false, nil
}

package wizard

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/logging"
	"invest-appointment/internal/models"
	"invest-appointment/internal/store"
	"invest-appointment/internal/validate"
)

// Lookups is the collaborator surface the screen editors consult. It is the
// read side only; committing the finished aggregate stays with the caller.
type Lookups interface {
	store.InvestmentDirectory
	store.BankDirectory
	CrossAppointmentDuplicateSell(ctx context.Context, policyNo, investCode, monthDay, excludingReceiveNo string) (bool, error)
}

// Outcome is what the operator decided after the last screen.
type Outcome int

const (
	OutcomeAbandoned Outcome = iota
	OutcomeSaveDraft
	OutcomeSaveApproved
)

// Params carries everything a wizard run needs. Policy, Client, Plan and
// Transaction are the already-loaded context of the matched transaction.
type Params struct {
	Lookups       Lookups
	Prompt        Prompter
	View          View
	Logger        zerolog.Logger
	Policy        *models.Policy
	Client        *models.Client
	Plan          *models.Plan
	Transaction   *models.TransactionRef
	Today         string // canonical YYY/MM/DD processing date
	LocalCurrency string
	MinBuyPercent int // zero falls back to validate.DefaultMinBuyPercent
	UserID        string
}

// Wizard owns one editing session over a single in-progress aggregate. The
// aggregate is mutated screen by screen and discarded wholesale on abandon;
// no storage is touched until the caller commits.
type Wizard struct {
	lookups  Lookups
	prompt   Prompter
	view     View
	log      zerolog.Logger
	policy   *models.Policy
	client   *models.Client
	plan     *models.Plan
	txn      *models.TransactionRef
	today    string
	localCur string
	minBuy   int
	userID   string

	agg *models.Appointment
}

// New creates a wizard for one editing session.
func New(p Params) *Wizard {
	view := p.View
	if view == nil {
		view = NopView{}
	}
	minBuy := p.MinBuyPercent
	if minBuy <= 0 {
		minBuy = validate.DefaultMinBuyPercent
	}
	return &Wizard{
		lookups:  p.Lookups,
		prompt:   p.Prompt,
		view:     view,
		log:      p.Logger,
		policy:   p.Policy,
		client:   p.Client,
		plan:     p.Plan,
		txn:      p.Transaction,
		today:    p.Today,
		localCur: p.LocalCurrency,
		minBuy:   minBuy,
		userID:   p.UserID,
	}
}

// Run drives the screens over agg until the operator finishes or abandons.
// "Return to edit" at the confirmation restarts the screen loop in place
// rather than re-entering Run, so repeated edits cannot grow the stack.
// ErrInterrupted never escapes: an interrupt is reported as OutcomeAbandoned.
func (w *Wizard) Run(ctx context.Context, agg *models.Appointment) (Outcome, error) {
	w.agg = agg

	for {
		sw := ScreenHeader
		for sw != ScreenExit {
			if err := ctx.Err(); err != nil {
				return OutcomeAbandoned, nil
			}

			var err error
			switch sw {
			case ScreenHeader:
				sw, err = w.editHeader(ctx)
			case ScreenSell:
				sw, err = w.editSell(ctx)
			case ScreenBuyOrRemit:
				if w.agg.Header.Direction == models.DirectionConversion {
					sw, err = w.editBuy(ctx)
				} else {
					sw, err = w.editRemit(ctx)
				}
			}
			if err != nil {
				if apperr.Is(err, apperr.ErrInterrupted) {
					screenLog := logging.WithScreen(w.log, sw.String())
					screenLog.Info().Msg("wizard abandoned")
					return OutcomeAbandoned, nil
				}
				return OutcomeAbandoned, err
			}
		}

		outcome, again, err := w.confirm()
		if err != nil {
			if apperr.Is(err, apperr.ErrInterrupted) {
				return OutcomeAbandoned, nil
			}
			return OutcomeAbandoned, err
		}
		if again {
			continue
		}
		return outcome, nil
	}
}

// confirm presents the assembled appointment and records the operator's
// decision. Process stamps go on just before a save decision is reported,
// so a committed record always carries who finished it and when.
func (w *Wizard) confirm() (outcome Outcome, again bool, err error) {
	w.stamp()
	w.view.ShowAppointment(w.agg)

	ans, err := w.prompt.Line("1=Return to edit  2=Save  3=Approve  other=Exit: ")
	if err != nil {
		return OutcomeAbandoned, false, err
	}
	switch ans {
	case "1":
		return OutcomeAbandoned, true, nil
	case "2":
		return OutcomeSaveDraft, false, nil
	case "3":
		return OutcomeSaveApproved, false, nil
	}
	return OutcomeAbandoned, false, nil
}

func (w *Wizard) stamp() {
	w.agg.Header.ProcUser = w.userID
	w.agg.Header.ProcDate = w.today
	w.agg.Header.ProcTime = time.Now().Format("15:04:05")
}

// navigate asks for the navigation directive every screen offers after its
// own validation passed. Navigation is operator-driven: even a valid screen
// can be told to go back. Empty input takes the default forward transition.
func (w *Wizard) navigate(current Screen) (Screen, error) {
	ans, err := w.prompt.Line("Navigate [p=previous c=current n=next Enter=continue]: ")
	if err != nil {
		return ScreenExit, err
	}
	switch strings.ToLower(ans) {
	case "p":
		return current.Prev(), nil
	case "c":
		return current, nil
	case "n":
		return current.Next(), nil
	case "":
		return current.Next(), nil
	}
	return current.Next(), nil
}

func (w *Wizard) localCurrency() bool {
	return w.policy.Currency == w.localCur
}

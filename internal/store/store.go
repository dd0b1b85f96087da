// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"invest-appointment/internal/models"
)

// Criteria filters appointment searches. Zero-valued fields are ignored.
type Criteria struct {
	PolicyNo   string
	ReceiveNo  string
	Direction  models.Direction
	Status     string
	BeginDate  string
	Frequency  *int
	ActiveOnly bool
}

// Empty reports whether no filter field is set.
func (c Criteria) Empty() bool {
	return c.PolicyNo == "" && c.ReceiveNo == "" && c.Direction == "" &&
		c.Status == "" && c.BeginDate == "" && c.Frequency == nil
}

// TransactionDirectory resolves the policy-change transactions appointments
// attach to.
type TransactionDirectory interface {
	// FindLatestMatchingTransaction returns the newest conversion or
	// withdrawal transaction of the policy, or ErrNotFound.
	FindLatestMatchingTransaction(ctx context.Context, policyNo string) (*models.TransactionRef, error)
	UpdateTransactionStatus(ctx context.Context, receiveNo, status string) error
	IsOwner(ctx context.Context, receiveNo, userID string) (bool, error)
	CheckAuthorization(ctx context.Context, receiveNo, authCode string, level int) (bool, error)
}

// PolicyDirectory loads the policy context the wizard edits against.
type PolicyDirectory interface {
	GetPolicy(ctx context.Context, policyNo string) (*models.Policy, error)
	GetClient(ctx context.Context, policyNo string) (*models.Client, error)
	GetPlan(ctx context.Context, planCode, rateScale string) (*models.Plan, error)
}

// InvestmentDirectory answers the per-investment checks of the sell and buy
// editors.
type InvestmentDirectory interface {
	InvestmentExists(ctx context.Context, policyNo, investCode string) (bool, error)
	InvestmentTitle(ctx context.Context, investCode string) (string, error)
	InvestmentIsShuttingDown(ctx context.Context, investCode, asOfDate string) (bool, error)
	InvestmentRiskAcceptable(ctx context.Context, clientID, investCode string) (bool, error)
}

// BankDirectory answers the remittance editor's bank and account checks.
type BankDirectory interface {
	// BankLookup resolves a concatenated bank+branch code, or ErrNotFound.
	BankLookup(ctx context.Context, bankBranchCode string) (*models.Bank, error)
	AccountExists(ctx context.Context, channel models.DisbChannel, ownerID, currency string) (bool, error)
	ValidateRemitAccount(ctx context.Context, bank, branch, account string) (bool, error)
	ValidateForeignAccount(ctx context.Context, acctType, swiftCode, account string) (bool, error)
}

// AppointmentStore persists appointment aggregates. Header and detail rows
// are written atomically: a commit that fails partway leaves no partial rows.
type AppointmentStore interface {
	CountMatching(ctx context.Context, criteria Criteria) (int, error)
	// LoadAppointmentAt loads the record at the given 1-based position of the
	// matching set, newest first. The navigator reloads through this on every
	// cursor movement.
	LoadAppointmentAt(ctx context.Context, criteria Criteria, index int) (*models.Appointment, error)
	LoadAppointment(ctx context.Context, policyNo, receiveNo string) (*models.Appointment, error)
	// CrossAppointmentDuplicateSell reports whether another active appointment
	// of the policy already sells the investment on the same month/day of its
	// begin date. The comparison ignores the year: recurring appointments
	// share a month/day pattern across years.
	CrossAppointmentDuplicateSell(ctx context.Context, policyNo, investCode, monthDay, excludingReceiveNo string) (bool, error)
	CommitAppointment(ctx context.Context, agg *models.Appointment, mode models.CommitMode) (int64, error)
	ModifyAppointment(ctx context.Context, seq int64, agg *models.Appointment) error
	CancelAppointment(ctx context.Context, seq int64) error
	// AppointmentStarted reports whether scheduled processing has already
	// consumed the appointment, which blocks modification.
	AppointmentStarted(ctx context.Context, seq int64) (bool, error)
}

// PrintQueue accepts the operator-facing print artifacts produced on approve
// and cancel.
type PrintQueue interface {
	EnqueuePrintRecord(ctx context.Context, receiveNo string, lines []models.PrintLine) error
	QueryPrintRecord(ctx context.Context, receiveNo string) ([]models.PrintLine, error)
	InsertPolicyLetter(ctx context.Context, policyNo, receiveNo, kind string) error
	PrintDocuments(ctx context.Context, policyNo, receiveNo, kind string) (bool, error)
}

// Store is the full collaborator surface the flows depend on.
type Store interface {
	TransactionDirectory
	PolicyDirectory
	InvestmentDirectory
	BankDirectory
	AppointmentStore
	PrintQueue

	Close() error
}

// Package models provides domain models for investment appointments.
package models

import (
	"github.com/shopspring/decimal"
)

// Direction indicates what the appointment does with the sold funds.
type Direction string

const (
	DirectionConversion Direction = "1" // sell + buy within the policy
	DirectionWithdrawal Direction = "2" // sell + cash disbursement
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionConversion || d == DirectionWithdrawal
}

// Frequency is the recurrence of an appointment, in months between
// occurrences. Once means no recurrence.
type Frequency int

const (
	FreqOnce       Frequency = 0
	FreqMonthly    Frequency = 1
	FreqQuarterly  Frequency = 3
	FreqSemiAnnual Frequency = 6
	FreqAnnual     Frequency = 12
)

// Valid reports whether f is one of the five enumerated frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FreqOnce, FreqMonthly, FreqQuarterly, FreqSemiAnnual, FreqAnnual:
		return true
	}
	return false
}

// SellMode is how a sell allocation liquidates a position.
type SellMode string

const (
	SellByAmount SellMode = "1"
	SellAll      SellMode = "2"
)

// Valid reports whether m is a known sell mode.
func (m SellMode) Valid() bool {
	return m == SellByAmount || m == SellAll
}

// Description returns the operator-facing label for the mode.
func (m SellMode) Description() string {
	switch m {
	case SellByAmount:
		return "Amount"
	case SellAll:
		return "All"
	}
	return ""
}

// DisbChannel is the disbursement channel of a withdrawal.
type DisbChannel string

const (
	DisbBankTransfer    DisbChannel = "0"
	DisbPersonalAccount DisbChannel = "1"
	DisbPolicyAccount   DisbChannel = "2"
)

// Valid reports whether c is a known disbursement channel.
func (c DisbChannel) Valid() bool {
	switch c {
	case DisbBankTransfer, DisbPersonalAccount, DisbPolicyAccount:
		return true
	}
	return false
}

// Status is the lifecycle status of a committed appointment.
type Status string

const (
	StatusPending   Status = " "
	StatusActive    Status = "0"
	StatusCancelled Status = "1"
	StatusExpired   Status = "2"
)

// AppointmentHeader identifies an appointment and holds its scheduling fields.
type AppointmentHeader struct {
	Seq        int64
	PolicyNo   string
	ReceiveNo  string
	Direction  Direction
	Frequency  Frequency
	BeginDate  string // canonical YYY/MM/DD
	NextDate   string // next occurrence, canonical YYY/MM/DD
	Currency   string
	Status     Status
	ProcUser   string
	ProcDate   string
	ProcTime   string
}

// SellAllocation is one sell instruction of the appointment.
// Amount is present and positive iff Mode is SellByAmount.
type SellAllocation struct {
	InvestCode string
	Mode       SellMode
	Amount     decimal.Decimal
}

// BuyAllocation is one buy instruction of a conversion appointment.
// Percent is a whole number, 5..100.
type BuyAllocation struct {
	InvestCode string
	Percent    int
}

// RemittanceAccount holds the disbursement target of a withdrawal.
// Bank fields are populated only for DisbBankTransfer.
type RemittanceAccount struct {
	Channel     DisbChannel
	Bank        string
	Branch      string
	Account     string
	Payee       string
	PayeeEN     string
	PayeeID     string
	SwiftCode   string
	BankNameEN  string
}

// Appointment is the in-progress aggregate the wizard edits. Exactly one of
// Buys / Remit is meaningful, keyed on Header.Direction.
type Appointment struct {
	Header AppointmentHeader
	Sells  []SellAllocation
	Buys   []BuyAllocation
	Remit  RemittanceAccount
}

// SellAmountSum returns the sum of the AMOUNT-mode sell allocations.
func (a *Appointment) SellAmountSum() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range a.Sells {
		if s.Mode == SellByAmount {
			sum = sum.Add(s.Amount)
		}
	}
	return sum
}

// CommitMode selects how an appointment aggregate is persisted.
type CommitMode string

const (
	CommitDraft    CommitMode = "draft"
	CommitApproved CommitMode = "approved"
)

// Policy holds the fields of the policy the appointment attaches to.
type Policy struct {
	PolicyNo      string
	StatusCode    string
	Currency      string
	BasicPlanCode string
	InsuranceType string
	RateScale     string
}

// Client holds owner and insured identities for display and risk checks.
type Client struct {
	OwnerID     string
	OwnerName   string
	InsuredID   string
	InsuredName string
}

// Plan holds the plan-level limits that constrain the appointment.
type Plan struct {
	MinPartialWithdrawal decimal.Decimal
	InvsAvailType        string
	AssignFlags          string
	ChangeFlags          string
}

// TransactionRef is the policy-change transaction the appointment attaches to.
type TransactionRef struct {
	ReceiveNo   string
	ReceiveDate string // canonical YYY/MM/DD
	ChangeCode  string // "73" conversion, "74" withdrawal
}

// Transaction change codes.
const (
	ChangeCodeConversion = "73"
	ChangeCodeWithdrawal = "74"
)

// Investment describes an investment option of a policy.
type Investment struct {
	Code       string
	Title      string
	StatusCode string
	Currency   string
	RiskDegree string
}

// Bank is the result of a bank/branch directory lookup.
type Bank struct {
	Code             string
	Name             string
	Active           bool
	SwiftCode        string
	NameEN           string
	RequiresPayeeEN  bool
}

// PrintLine is one line of a print-queue record.
type PrintLine struct {
	Item    string
	Comment string
}

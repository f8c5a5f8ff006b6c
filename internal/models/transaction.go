package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction is the debit/credit classification of a transaction.
// The zero value is DirectionUnknown.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionDebit
	DirectionCredit
)

// Code returns the type marker written to the Type column.
func (d Direction) Code() string {
	switch d {
	case DirectionDebit:
		return "##"
	case DirectionCredit:
		return "*"
	default:
		return "?"
	}
}

// Label returns the human-readable word written to the Label column.
func (d Direction) Label() string {
	switch d {
	case DirectionDebit:
		return "Debit"
	case DirectionCredit:
		return "Credit"
	default:
		return "Unknown"
	}
}

func (d Direction) String() string {
	return d.Label()
}

// MarshalText encodes the direction as its label so JSON output stays readable.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.Label()), nil
}

// DirectionFromCode maps a Type column marker back to a Direction.
// Unrecognised markers yield DirectionUnknown.
func DirectionFromCode(code string) Direction {
	switch code {
	case "##":
		return DirectionDebit
	case "*":
		return DirectionCredit
	default:
		return DirectionUnknown
	}
}

// StatusKind is the outcome of balance validation for one record.
type StatusKind int

const (
	StatusPending StatusKind = iota // not validated yet
	StatusOK
	StatusMismatch
	StatusUnknownType
)

// Status is the reconciliation report for a record. Expected is only
// meaningful for StatusMismatch.
type Status struct {
	Kind     StatusKind
	Expected decimal.Decimal
}

// String renders the status exactly as it appears in the Status column.
func (s Status) String() string {
	switch s.Kind {
	case StatusOK:
		return "✅ OK"
	case StatusMismatch:
		return fmt.Sprintf("❌ FALSE (Expected: %s)", s.Expected.StringFixed(2))
	case StatusUnknownType:
		return "❓ Unknown Type"
	default:
		return ""
	}
}

// MarshalText encodes the status as its column text.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Transaction represents a single validated ledger line. AmountText and
// BalanceText are the cleaned strings written to the sink (commas and
// internal spaces removed) and are empty when nothing was matched.
type Transaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Direction   Direction       `json:"direction"`
	AmountText  string          `json:"amountText"`
	BalanceText string          `json:"balanceText"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Status      Status          `json:"status"`
}

// DiagnosticKind classifies a non-fatal problem found while processing a line.
type DiagnosticKind string

const (
	DiagMissingDate      DiagnosticKind = "missing_date"
	DiagMissingAmount    DiagnosticKind = "missing_amount"
	DiagMissingBalance   DiagnosticKind = "missing_balance"
	DiagInvalidAmount    DiagnosticKind = "invalid_amount"
	DiagInvalidBalance   DiagnosticKind = "invalid_balance"
	DiagNegativeAmount   DiagnosticKind = "negative_amount"
	DiagUnknownDirection DiagnosticKind = "unknown_direction"
)

// Diagnostic describes one degraded field. Line is 1-based.
type Diagnostic struct {
	Line    int            `json:"line"`
	Kind    DiagnosticKind `json:"kind"`
	Value   string         `json:"value,omitempty"`
	Message string         `json:"message"`
}

// Result is the ordered output of one pipeline run.
type Result struct {
	Transactions []Transaction
	Diagnostics  []Diagnostic
}

// Summary counts validation outcomes and totals by direction.
type Summary struct {
	Count       int             `json:"count"`
	OK          int             `json:"ok"`
	Mismatched  int             `json:"mismatched"`
	Unknown     int             `json:"unknown"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// Summarize tallies the records in r.
func (r *Result) Summarize() Summary {
	s := Summary{Count: len(r.Transactions)}
	for _, txn := range r.Transactions {
		switch txn.Status.Kind {
		case StatusOK:
			s.OK++
		case StatusMismatch:
			s.Mismatched++
		case StatusUnknownType:
			s.Unknown++
		}
		switch txn.Direction {
		case DirectionDebit:
			s.TotalDebit = s.TotalDebit.Add(txn.Amount)
		case DirectionCredit:
			s.TotalCredit = s.TotalCredit.Add(txn.Amount)
		}
	}
	return s
}

package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-validator/internal/models"
)

// Validator recomputes the running balance and reports mismatches.
// The running balance starts at 0.00 and always advances to each record's
// reported balance, so one bad record never poisons the ones after it.
type Validator struct {
	running decimal.Decimal
}

// Check sets txn.Status. Records with an unknown direction get
// StatusUnknownType and leave the running balance untouched.
func (v *Validator) Check(txn *models.Transaction) {
	var expected decimal.Decimal
	switch txn.Direction {
	case models.DirectionDebit:
		expected = v.running.Sub(txn.Amount)
	case models.DirectionCredit:
		expected = v.running.Add(txn.Amount)
	default:
		txn.Status = models.Status{Kind: models.StatusUnknownType}
		return
	}

	if expected.Round(2).Equal(txn.Balance.Round(2)) {
		txn.Status = models.Status{Kind: models.StatusOK}
	} else {
		txn.Status = models.Status{Kind: models.StatusMismatch, Expected: expected.Round(2)}
	}
	v.running = txn.Balance
}

// Running returns the current running balance.
func (v *Validator) Running() decimal.Decimal {
	return v.running
}

// Validate runs a fresh Validator over txns in order, setting each Status in
// place, and returns one diagnostic per record with an unknown direction.
func Validate(txns []models.Transaction) []models.Diagnostic {
	var v Validator
	var diags []models.Diagnostic
	for i := range txns {
		v.Check(&txns[i])
		if txns[i].Status.Kind == models.StatusUnknownType {
			diags = append(diags, models.Diagnostic{
				Line:    i + 1,
				Kind:    models.DiagUnknownDirection,
				Message: "record has no debit/credit direction; running balance left unchanged",
			})
		}
	}
	return diags
}

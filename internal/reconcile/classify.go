package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-validator/internal/models"
)

// Classifier labels records debit or credit from the balance trend.
// It holds the previous record's balance; the zero value is ready for a new
// sequence. Use one Classifier per statement.
type Classifier struct {
	prev    decimal.Decimal
	hasPrev bool
}

// Classify returns the direction of the record whose reported balance is
// balance and remembers that balance for the next call.
//
// The first record is always a debit (opening loan disbursement). After
// that a falling balance is a debit and anything else, including an
// unchanged balance, is a credit.
func (c *Classifier) Classify(balance decimal.Decimal) models.Direction {
	dir := models.DirectionDebit
	if c.hasPrev && !balance.LessThan(c.prev) {
		dir = models.DirectionCredit
	}
	c.prev = balance
	c.hasPrev = true
	return dir
}

// Reset forgets the previous balance.
func (c *Classifier) Reset() {
	*c = Classifier{}
}

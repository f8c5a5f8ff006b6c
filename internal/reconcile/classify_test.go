package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/statement-validator/internal/models"
)

func TestClassifier(t *testing.T) {
	tests := []struct {
		name     string
		balances []string
		expected []models.Direction
	}{
		{
			name:     "first record is always debit",
			balances: []string{"500.00"},
			expected: []models.Direction{models.DirectionDebit},
		},
		{
			name:     "falling balance is debit",
			balances: []string{"0.00", "-100.00", "-250.00"},
			expected: []models.Direction{models.DirectionDebit, models.DirectionDebit, models.DirectionDebit},
		},
		{
			name:     "rising balance is credit",
			balances: []string{"-2000000.00", "-1810963.63"},
			expected: []models.Direction{models.DirectionDebit, models.DirectionCredit},
		},
		{
			name:     "unchanged balance is credit",
			balances: []string{"100.00", "100.00"},
			expected: []models.Direction{models.DirectionDebit, models.DirectionCredit},
		},
		{
			name:     "mixed",
			balances: []string{"10.00", "20.00", "5.00", "5.00", "4.99"},
			expected: []models.Direction{
				models.DirectionDebit,
				models.DirectionCredit,
				models.DirectionDebit,
				models.DirectionCredit,
				models.DirectionDebit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Classifier
			got := make([]models.Direction, 0, len(tt.balances))
			for _, b := range tt.balances {
				got = append(got, c.Classify(decimal.RequireFromString(b)))
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifier_Reset(t *testing.T) {
	var c Classifier
	c.Classify(decimal.RequireFromString("100"))
	assert.Equal(t, models.DirectionCredit, c.Classify(decimal.RequireFromString("200")))

	c.Reset()
	assert.Equal(t, models.DirectionDebit, c.Classify(decimal.RequireFromString("300")))
}

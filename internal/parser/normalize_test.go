package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean line unchanged",
			input:    "09-Apr-2023 2004204258873001 Loan Disbursement Debit 2,000,000.00 -2,000,000.00",
			expected: "09-Apr-2023 2004204258873001 Loan Disbursement Debit 2,000,000.00 -2,000,000.00",
		},
		{
			name:     "drops leading semicolon",
			input:    "; 09-Aug-2023 6042588730002 Penal Int 58.35 -1,810,963.63",
			expected: "09-Aug-2023 6042588730002 Penal Int 58.35 -1,810,963.63",
		},
		{
			name:     "drops leading equals bang",
			input:    "=! 08-Jun-2023 Loan Recovery 82,104.00 -1,865,288.72",
			expected: "08-Jun-2023 Loan Recovery 82,104.00 -1,865,288.72",
		},
		{
			name:     "single token is kept",
			input:    "=",
			expected: "=",
		},
		{
			name:     "space before 00 becomes decimal point",
			input:    "09-May-2023 Deposit 1234 00",
			expected: "09-May-2023 Deposit 1234.00",
		},
		{
			name:     "space-00 repair is global",
			input:    "09-May-2023 Ref 0012 Deposit 5.00 1234 00",
			expected: "09-May-2023 Ref.0012 Deposit 5.00 1234.00",
		},
		{
			name:     "letter O in decimal tail",
			input:    "08-Jun-2023 Loan Recovery 82,104.00 -1,865,288.7O",
			expected: "08-Jun-2023 Loan Recovery 82,104.00 -1,865,288.70",
		},
		{
			name:     "all non-digits in decimal tail",
			input:    "08-Jun-2023 Loan Recovery 82,104.00 -1,865,288.Oo",
			expected: "08-Jun-2023 Loan Recovery 82,104.00 -1,865,288.00",
		},
		{
			name:     "two decimal points left alone",
			input:    "08-Jun-2023 Fee 1.2.x",
			expected: "08-Jun-2023 Fee 1.2.x",
		},
		{
			name:     "empty line",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

package parser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-validator/internal/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		date        string
		description string
		amount      string
		balance     string
	}{
		{
			name:        "loan disbursement",
			line:        "09-Apr-2023 2004204258873001 Loan Disbursement Debit 2,000,000.00 -2,000,000.00",
			date:        "09-Apr-2023",
			description: "Loan Disbursement Debit",
			amount:      "2000000.00",
			balance:     "-2000000.00",
		},
		{
			name:        "penal interest",
			line:        "09-Aug-2023 6042588730002 Penal Int 58.35 -1,810,963.63",
			date:        "09-Aug-2023",
			description: "Penal Int",
			amount:      "58.35",
			balance:     "-1810963.63",
		},
		{
			name:        "balance split by OCR space",
			line:        "09-May-2023 Loan Recovery From -2004204258873007 82,104.00 -1,332 896.00",
			date:        "09-May-2023",
			description: "Loan Recovery From",
			amount:      "82104.00",
			balance:     "-1332896.00",
		},
		{
			name:        "balance without decimals gets .00",
			line:        "10-May-2023 Transfer 100.50 -1,449",
			date:        "10-May-2023",
			description: "Transfer",
			amount:      "100.50",
			balance:     "-1449.00",
		},
		{
			name:        "amount without decimal point is not an amount",
			line:        "10-May-2023 Transfer -100 -1,449.00",
			date:        "10-May-2023",
			description: "Transfer",
			amount:      "",
			balance:     "-1449.00",
		},
		{
			name:        "positive balance absorbs split groups",
			line:        "11-May-2023 Deposit 5.00 1 234 567.89",
			date:        "11-May-2023",
			description: "Deposit",
			amount:      "5.00",
			balance:     "1234567.89",
		},
		{
			name:        "stray symbols stripped from description",
			line:        "12-May-2023 Cust#ID 0425-88 (ATM) 20.00 -1,000.00",
			date:        "12-May-2023",
			description: "CustID ATM",
			amount:      "20.00",
			balance:     "-1000.00",
		},
		{
			name:        "amount glued to description",
			line:        "09-Aug-2023 6042588730002 Penal Int58.35 -1,810,963.63",
			date:        "09-Aug-2023",
			description: "Penal Int",
			amount:      "58.35",
			balance:     "-1810963.63",
		},
		{
			name:        "balance glued to text",
			line:        "09-Aug-2023 Penal Int 58.35 Cr-1,810,963.63",
			date:        "09-Aug-2023",
			description: "Penal Int Cr",
			amount:      "",
			balance:     "-1810963.63",
		},
		{
			name:        "amount and balance glued together",
			line:        "09-Aug-2023 Penal Int 58.35-1,810,963.63",
			date:        "09-Aug-2023",
			description: "Penal Int",
			amount:      "58.35",
			balance:     "-1810963.63",
		},
		{
			name:        "integer glued to text is not a split balance group",
			line:        "11-May-2023 Ref12 345.00",
			date:        "11-May-2023",
			description: "Ref",
			amount:      "",
			balance:     "345.00",
		},
		{
			name:        "no date",
			line:        "Loan Recovery 82,104.00 -1,865,288.72",
			date:        "",
			description: "Loan Recovery",
			amount:      "82104.00",
			balance:     "-1865288.72",
		},
		{
			name:        "no numbers at all",
			line:        "09-Apr-2023 RAHMAN ELECTRIC AND HARDWARE",
			date:        "09-Apr-2023",
			description: "RAHMAN ELECTRIC AND HARDWARE",
			amount:      "",
			balance:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, _ := Extract(tt.line)
			assert.Equal(t, tt.date, txn.Date)
			assert.Equal(t, tt.description, txn.Description)
			assert.Equal(t, tt.amount, txn.AmountText)
			assert.Equal(t, tt.balance, txn.BalanceText)
			assert.Equal(t, models.DirectionUnknown, txn.Direction)
			assert.Equal(t, models.StatusPending, txn.Status.Kind)
		})
	}
}

func TestExtract_AmountShape(t *testing.T) {
	amountShape := regexp.MustCompile(`^-?\d+\.\d+$`)
	lines := []string{
		"09-Apr-2023 2004204258873001 Loan Disbursement Debit 2,000,000.00 -2,000,000.00",
		"09-May-2023 Loan Recovery From -2004204258873007 82,104.00 -1,332 896.00",
		"10-May-2023 Refund -1,250.75 -1,000.00",
		"10-May-2023 Fee 12 -1,000.00",
	}

	for _, line := range lines {
		txn, _ := Extract(line)
		if txn.AmountText == "" {
			continue
		}
		assert.Regexp(t, amountShape, txn.AmountText, line)
		assert.NotContains(t, txn.AmountText, ",")
		assert.NotContains(t, txn.AmountText, " ")
	}
}

func TestExtract_Diagnostics(t *testing.T) {
	txn, diags := Extract("RAHMAN ELECTRIC AND HARDWARE")
	assert.True(t, txn.Amount.IsZero())
	assert.True(t, txn.Balance.IsZero())

	kinds := make([]models.DiagnosticKind, 0, len(diags))
	for _, d := range diags {
		kinds = append(kinds, d.Kind)
	}
	assert.ElementsMatch(t, []models.DiagnosticKind{
		models.DiagMissingDate,
		models.DiagMissingBalance,
		models.DiagMissingAmount,
	}, kinds)

	_, diags = Extract("09-Apr-2023 Loan Disbursement 2,000,000.00 -2,000,000.00")
	assert.Empty(t, diags)
}

func TestExtract_InvalidBalance(t *testing.T) {
	txn, diags := Extract("09-Apr-2023 Fee 12.00 -,,,")
	assert.Equal(t, "Fee", txn.Description)
	assert.Equal(t, "12.00", txn.AmountText)
	assert.Empty(t, txn.BalanceText)
	assert.True(t, txn.Balance.IsZero())

	require.Len(t, diags, 1)
	assert.Equal(t, models.DiagInvalidBalance, diags[0].Kind)
	assert.Equal(t, "-,,,", diags[0].Value)
}

func TestExtract_NegativeAmount(t *testing.T) {
	txn, diags := Extract("10-May-2023 Refund -1,250.75 -1,000.00")
	assert.Equal(t, "1250.75", txn.AmountText)
	assert.Equal(t, "1250.75", txn.Amount.StringFixed(2))
	require.Len(t, diags, 1)
	assert.Equal(t, models.DiagNegativeAmount, diags[0].Kind)
	assert.Equal(t, "-1,250.75", diags[0].Value)
}

func TestLocateNumbers(t *testing.T) {
	tests := []struct {
		input   string
		balance string
		amount  string
	}{
		{"Penal Int 58.35 -1,810,963.63", "-1,810,963.63", "58.35"},
		{"From -200 82,104.00 -1,332 896.00", "-1,332 896.00", "82,104.00"},
		{"Int 58.35   1,810,963.63  ", "1,810,963.63", "58.35"},
		{"Only words", "", ""},
		{"", "", ""},
		{"5.00", "5.00", ""},
		{"Penal Int58.35 -1,810,963.63", "-1,810,963.63", "58.35"},
		{"Penal Int 58.35 Cr-1,810,963.63", "-1,810,963.63", ""},
		{"Penal Int 58.35-1,810,963.63", "-1,810,963.63", "58.35"},
		{"Int 1.2.35 -9.00", "-9.00", "2.35"},
		{"Total 1,234.", "", ""},
		{"Fee 12.00 -,,,", "-,,,", "12.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			bal, amt := locateNumbers(tt.input)
			var gotBal, gotAmt string
			if bal.ok() {
				gotBal = tt.input[bal.start:bal.end]
			}
			if amt.ok() {
				gotAmt = tt.input[amt.start:amt.end]
			}
			assert.Equal(t, tt.balance, gotBal)
			assert.Equal(t, tt.amount, gotAmt)
		})
	}
}

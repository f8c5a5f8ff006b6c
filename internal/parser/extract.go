package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-validator/internal/models"
)

func isGroupByte(c byte) bool {
	return c == ',' || (c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// trimSpaceBefore moves end left past any whitespace.
func trimSpaceBefore(s string, end int) int {
	for end > 0 && isSpaceByte(s[end-1]) {
		end--
	}
	return end
}

// numRun is a numeric run [\d,]+(\.\d+)? with an optional leading minus.
type numRun struct {
	start, end int
	point      bool // has a fractional part
	negative   bool
	glued      bool // preceded by something other than whitespace
}

// runEndingAt returns the longest numeric run that ends exactly at end.
// Runs may be glued to text on their left ("Int58.35", "Cr-1,810.00").
// With needPoint only runs with a fractional part count.
func runEndingAt(s string, end int, needPoint bool) (numRun, bool) {
	j := end
	for j > 0 && isGroupByte(s[j-1]) {
		j--
	}
	if j == end {
		return numRun{}, false
	}

	r := numRun{start: j, end: end}
	if j >= 2 && s[j-1] == '.' && isGroupByte(s[j-2]) && isASCIIDigits(s[j:end]) {
		k := j - 1
		for k > 0 && isGroupByte(s[k-1]) {
			k--
		}
		r.start, r.point = k, true
	} else if needPoint {
		return numRun{}, false
	}

	if r.start > 0 && s[r.start-1] == '-' {
		r.start--
		r.negative = true
	}
	r.glued = r.start > 0 && !isSpaceByte(s[r.start-1])
	return r, true
}

type scanState int

const (
	wantBalance scanState = iota
	extendBalance
	wantAmount
)

// span is a half-open byte range into the scanned text; start < 0 means unset.
type span struct{ start, end int }

func (s span) ok() bool { return s.start >= 0 }

// locateNumbers attributes trailing numeric runs to balance and amount,
// scanning once from the end of s.
//
// The balance is the final run plus any preceding integer groups that OCR
// split off with spaces ("-1,332 896.00"). A leading minus closes the
// balance, and so does a group glued to text or a decimal fragment. The
// amount is the run right before the balance, and only counts when it
// carries a decimal point.
func locateNumbers(s string) (balance, amount span) {
	balance = span{-1, -1}
	amount = span{-1, -1}

	state := wantBalance
	for {
		switch state {
		case wantBalance:
			r, ok := runEndingAt(s, trimSpaceBefore(s, len(s)), false)
			if !ok {
				return balance, amount
			}
			balance = span{r.start, r.end}
			state = extendBalance
			if r.negative {
				state = wantAmount
			}
		case extendBalance:
			gap := trimSpaceBefore(s, balance.start)
			r, ok := runEndingAt(s, gap, false)
			if gap == balance.start || !ok || r.point || r.glued {
				state = wantAmount
				continue
			}
			balance.start = r.start
			if r.negative {
				state = wantAmount
			}
		case wantAmount:
			if r, ok := runEndingAt(s, trimSpaceBefore(s, balance.start), true); ok {
				amount = span{r.start, r.end}
			}
			return balance, amount
		}
	}
}

// Extract decomposes a normalized line into a transaction record. Direction
// and Status are left for the reconcile stage. Extract never fails; fields
// it could not find are empty and reported as diagnostics.
func Extract(line string) (models.Transaction, []models.Diagnostic) {
	var txn models.Transaction
	var diags []models.Diagnostic

	remaining := strings.TrimSpace(line)
	txn.Date = extractDate(remaining)
	if txn.Date == "" {
		diags = append(diags, models.Diagnostic{
			Kind:    models.DiagMissingDate,
			Message: "no DD-Mon-YYYY date at start of line",
		})
	} else {
		remaining = strings.TrimSpace(remaining[len(txn.Date):])
	}

	bal, amt := locateNumbers(remaining)
	var rawBalance, rawAmount string
	if bal.ok() {
		rawBalance = remaining[bal.start:bal.end]
	}
	if amt.ok() {
		rawAmount = remaining[amt.start:amt.end]
	}

	switch {
	case amt.ok():
		remaining = remaining[:amt.start]
	case bal.ok():
		remaining = remaining[:bal.start]
	}
	txn.Description = cleanDescription(remaining)

	txn.BalanceText = cleanBalance(rawBalance)
	if rawBalance == "" {
		diags = append(diags, models.Diagnostic{
			Kind:    models.DiagMissingBalance,
			Message: "no trailing balance found; using 0",
		})
	}
	var ok bool
	if txn.Balance, ok = toDecimal(rawBalance, txn.BalanceText, models.DiagInvalidBalance, "balance", &diags); !ok {
		txn.BalanceText = ""
	}

	amountText := cleanAmount(rawAmount)
	if strings.HasPrefix(amountText, "-") {
		amountText = strings.TrimPrefix(amountText, "-")
		diags = append(diags, models.Diagnostic{
			Kind:    models.DiagNegativeAmount,
			Value:   rawAmount,
			Message: "amount carried a minus sign; sign dropped, direction comes from balances",
		})
	}
	txn.AmountText = amountText
	if rawAmount == "" {
		diags = append(diags, models.Diagnostic{
			Kind:    models.DiagMissingAmount,
			Message: "no decimal amount before the balance; using 0",
		})
	}
	// An amount run always has fraction digits, so this only fails if the
	// matcher is loosened.
	if txn.Amount, ok = toDecimal(rawAmount, txn.AmountText, models.DiagInvalidAmount, "amount", &diags); !ok {
		txn.AmountText = ""
	}

	return txn, diags
}

var errNoDigits = errors.New("no digits")

// toDecimal converts a cleaned number. A run made only of separators
// ("-,,,") is an OCR misread; it becomes 0 with a diagnostic.
func toDecimal(raw, clean string, kind models.DiagnosticKind, field string, diags *[]models.Diagnostic) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, true
	}

	d, err := decimal.Zero, errNoDigits
	if strings.ContainsAny(raw, "0123456789") {
		d, err = parseDecimal(clean)
	}
	if err != nil {
		*diags = append(*diags, models.Diagnostic{
			Kind:    kind,
			Value:   raw,
			Message: fmt.Sprintf("could not convert %s %q to a number (%v); using 0", field, raw, err),
		})
		return decimal.Zero, false
	}
	return d, true
}

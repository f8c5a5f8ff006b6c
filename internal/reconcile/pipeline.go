// Package reconcile turns candidate statement lines into a validated ledger.
//
// Processing is two passes over the ordered lines:
//
//  1. normalize → extract → classify, producing records with a direction
//  2. validate, recomputing the running balance and setting each status
//
// All state lives in the Classifier and Validator created for one call, so
// Process is safe to call concurrently for different statements.
package reconcile

import (
	"github.com/insightdelivered/statement-validator/internal/models"
	"github.com/insightdelivered/statement-validator/internal/parser"
)

// Process runs the full pipeline over lines. It never fails: problems are
// reported per record through Status and Result.Diagnostics.
func Process(lines []string) *models.Result {
	res := &models.Result{
		Transactions: make([]models.Transaction, 0, len(lines)),
	}

	var cls Classifier
	for i, line := range lines {
		txn, diags := parser.Extract(parser.Normalize(line))
		for _, d := range diags {
			d.Line = i + 1
			res.Diagnostics = append(res.Diagnostics, d)
		}
		txn.Direction = cls.Classify(txn.Balance)
		res.Transactions = append(res.Transactions, txn)
	}

	res.Diagnostics = append(res.Diagnostics, Validate(res.Transactions)...)
	return res
}

package services

import "agenda/internal/core"

// StatementTotals holds the per-kind sums of a month, in cents.
type StatementTotals struct {
	IncomeCents  int64
	ExpenseCents int64
}

// Statement is the monthly finance view: the transactions of the range
// (already ordered by the caller, newest first), the per-kind totals and the
// signed balance.
type Statement struct {
	Transactions []core.Transaction
	Totals       StatementTotals
	BalanceCents int64
}

// BuildStatement accumulates totals in a single linear pass. Every
// transaction contributes to exactly one side; balance = income - expenses.
func BuildStatement(transactions []core.Transaction) Statement {
	var totals StatementTotals
	for _, tx := range transactions {
		if tx.Kind == core.Income {
			totals.IncomeCents += tx.Amount.Cents
		} else {
			totals.ExpenseCents += tx.Amount.Cents
		}
	}
	return Statement{
		Transactions: transactions,
		Totals:       totals,
		BalanceCents: totals.IncomeCents - totals.ExpenseCents,
	}
}

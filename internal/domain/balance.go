package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SortByDate orders transactions date ascending. The sort is stable so
// same-date entries keep their original insertion order, which is the
// documented tie-break for running balances.
func SortByDate(txns []Transaction) []Transaction {
	out := make([]Transaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// AccountTransactions filters to one account's transactions, preserving
// insertion order.
func AccountTransactions(txns []Transaction, accountID string) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out
}

// AccountBalance derives an account's balance as the sum of deposit minus
// payment over its transactions. Addition commutes, so no ordering is
// needed for the total.
func AccountBalance(txns []Transaction, accountID string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		if t.AccountID == accountID {
			sum = sum.Add(t.SignedAmount())
		}
	}
	return sum
}

// RunningBalances returns the account's transactions in statement order
// (date ascending, insertion-order ties) paired with the cumulative
// balance after each one.
func RunningBalances(txns []Transaction, accountID string) ([]Transaction, []decimal.Decimal) {
	ordered := SortByDate(AccountTransactions(txns, accountID))
	balances := make([]decimal.Decimal, len(ordered))
	sum := decimal.Zero
	for i, t := range ordered {
		sum = sum.Add(t.SignedAmount())
		balances[i] = sum
	}
	return ordered, balances
}

package models

// Amounts is the derived balance view over a user's transactions, in cents.
type Amounts struct {
	IncomeCents  int64
	ExpenseCents int64
	NetCents     int64
}

// CalcAmounts folds a transaction list into income/expense/net totals.
// Entries with an unknown type are skipped. Ordering is irrelevant.
func CalcAmounts(transactions []Transaction) Amounts {
	var income int64 = 0
	var expense int64 = 0

	for _, t := range transactions {
		switch t.Type {
		case TypeIncome:
			income += t.AmountCents
		case TypeExpense:
			expense += t.AmountCents
		}
	}

	return Amounts{
		IncomeCents:  income,
		ExpenseCents: expense,
		NetCents:     income - expense,
	}
}

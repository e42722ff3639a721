package analytics

import (
	"time"

	"github.com/fiscus/fiscus/pkg/fiscal"
	"github.com/fiscus/fiscus/pkg/money"
	"github.com/fiscus/fiscus/pkg/transaction"
	"github.com/shopspring/decimal"
)

// DailySpend is one day's expense total. Days without spending are present
// with a zero amount so charts render a continuous axis.
type DailySpend struct {
	Date   string
	Amount decimal.Decimal
}

// Overview summarizes a fiscal cycle. Savings count as money set aside, so
// they reduce the balance rather than add to it.
type Overview struct {
	Income        decimal.Decimal
	Spending      decimal.Decimal
	SavingsAmount decimal.Decimal
	Balance       decimal.Decimal
}

// AggregateByCategory sums expense amounts per category name for transactions
// inside the window (inclusive on both ends). Decimal arithmetic keeps the
// result independent of accumulation order.
func AggregateByCategory(transactions []transaction.Transaction, window fiscal.Window) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Type != transaction.TypeExpense || !window.Contains(tx.Date) {
			continue
		}
		totals[tx.CategoryName] = totals[tx.CategoryName].Add(tx.Amount)
	}
	return totals
}

// AggregateByDay buckets expense spending per calendar day, oldest to newest.
// The result always has exactly bucketDays entries; when the window spans
// more days than that, the buckets cover the last bucketDays days ending at
// the window's end.
func AggregateByDay(transactions []transaction.Transaction, window fiscal.Window, bucketDays int) []DailySpend {
	if bucketDays <= 0 {
		bucketDays = window.Days()
	}

	lastDay := time.Date(window.End.Year(), window.End.Month(), window.End.Day(), 0, 0, 0, 0, time.UTC)
	firstDay := lastDay.AddDate(0, 0, -(bucketDays - 1))

	buckets := make([]DailySpend, 0, bucketDays)
	index := make(map[string]int, bucketDays)
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		index[key] = len(buckets)
		buckets = append(buckets, DailySpend{Date: key, Amount: decimal.Zero})
	}

	for _, tx := range transactions {
		if tx.Type != transaction.TypeExpense || !window.Contains(tx.Date) {
			continue
		}
		if i, ok := index[money.ToISODate(tx.Date)]; ok {
			buckets[i].Amount = buckets[i].Amount.Add(tx.Amount)
		}
	}
	return buckets
}

// ComputeOverview totals the window's transactions by type. Nothing here ever
// fails: an empty slice simply yields zero sums.
func ComputeOverview(transactions []transaction.Transaction, window fiscal.Window) Overview {
	overview := Overview{
		Income:        decimal.Zero,
		Spending:      decimal.Zero,
		SavingsAmount: decimal.Zero,
	}
	for _, tx := range transactions {
		if !window.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case transaction.TypeIncome:
			overview.Income = overview.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			overview.Spending = overview.Spending.Add(tx.Amount)
		case transaction.TypeSavings:
			overview.SavingsAmount = overview.SavingsAmount.Add(tx.Amount)
		}
	}
	overview.Balance = overview.Income.Sub(overview.Spending).Sub(overview.SavingsAmount)
	return overview
}

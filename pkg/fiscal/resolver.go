package fiscal

import (
	"fmt"
	"time"
)

// Salary-cycle heuristic: a budgeting month runs from the 27th of one
// calendar month to the 26th of the next, inclusive.
const (
	cycleStartDay = 27
	cycleEndDay   = 26
)

const monthLabelLayout = "2006-01"

// ResolveWindow maps an optional YYYY-MM month label and the user's fiscal
// month history onto a concrete inclusive date window. It is a pure function
// of its inputs.
//
// Resolution order:
//  1. A stored FiscalMonth whose start date falls in the labelled month (or
//     the active one when no label is given). An open cycle ends "now".
//  2. Without a matching record, the salary-cycle heuristic: from the 27th
//     of the previous calendar month to the 26th of the target month. With
//     no label the target month is derived from today's day-of-month; on or
//     after the 27th the active cycle already belongs to next month.
func ResolveWindow(today time.Time, monthLabel string, months []FiscalMonth) (Window, error) {
	if monthLabel != "" {
		for _, fm := range months {
			if fm.StartDate.UTC().Format(monthLabelLayout) == monthLabel {
				return windowOf(fm, today), nil
			}
		}
		target, err := time.Parse(monthLabelLayout, monthLabel)
		if err != nil {
			return Window{}, fmt.Errorf("%w: %q", ErrInvalidMonthLabel, monthLabel)
		}
		return salaryCycle(target.Year(), target.Month()), nil
	}

	for _, fm := range months {
		if fm.IsActive {
			return windowOf(fm, today), nil
		}
	}

	year, month := today.Year(), today.Month()
	if today.Day() >= cycleStartDay {
		next := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
		year, month = next.Year(), next.Month()
	}
	return salaryCycle(year, month), nil
}

func windowOf(fm FiscalMonth, today time.Time) Window {
	end := fm.EndDate
	if fm.Open() {
		end = today
	}
	return Window{Start: fm.StartDate, End: end}
}

func salaryCycle(year int, month time.Month) Window {
	// time.Date normalizes month arithmetic, so January-1 lands in December
	// of the previous year.
	start := time.Date(year, month-1, cycleStartDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month, cycleEndDay+1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	return Window{Start: start, End: end}
}

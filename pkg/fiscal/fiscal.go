package fiscal

import (
	"errors"
	"time"
)

var (
	ErrInvalidMonthLabel = errors.New("invalid month label")
	ErrCycleNotFound     = errors.New("fiscal month not found")
)

// FiscalMonth is a user-defined budgeting cycle. A zero EndDate means the
// cycle is still open; at most one open, active cycle exists per user.
type FiscalMonth struct {
	Id         int
	Uid        string
	UserId     int
	MonthLabel string
	StartDate  time.Time
	EndDate    time.Time
	IsActive   bool
}

// Open reports whether the cycle has not been closed yet.
func (f FiscalMonth) Open() bool {
	return f.EndDate.IsZero()
}

// Window is an inclusive [Start, End] date range covering one fiscal cycle.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the number of calendar days the window spans, inclusive.
func (w Window) Days() int {
	start := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

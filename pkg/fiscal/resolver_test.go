package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(y int, m time.Month, d int) time.Time {
	return date(y, m, d+1).Add(-time.Nanosecond)
}

func TestResolveWindow_SalaryCycleHeuristic(t *testing.T) {
	tests := []struct {
		name      string
		today     time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid-month stays in current cycle",
			today:     date(2025, time.March, 10),
			wantStart: date(2025, time.February, 27),
			wantEnd:   endOfDay(2025, time.March, 26),
		},
		{
			name:      "day 26 still belongs to the current cycle",
			today:     date(2025, time.March, 26),
			wantStart: date(2025, time.February, 27),
			wantEnd:   endOfDay(2025, time.March, 26),
		},
		{
			name:      "day 27 rolls into next month's cycle",
			today:     date(2025, time.March, 27),
			wantStart: date(2025, time.March, 27),
			wantEnd:   endOfDay(2025, time.April, 26),
		},
		{
			name:      "late December rolls into January's cycle",
			today:     date(2025, time.December, 28),
			wantStart: date(2025, time.December, 27),
			wantEnd:   endOfDay(2026, time.January, 26),
		},
		{
			name:      "early January reaches back into December",
			today:     date(2026, time.January, 5),
			wantStart: date(2025, time.December, 27),
			wantEnd:   endOfDay(2026, time.January, 26),
		},
		{
			name:      "day 30 near month end does not skip a month",
			today:     date(2025, time.January, 30),
			wantStart: date(2025, time.January, 27),
			wantEnd:   endOfDay(2025, time.February, 26),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := ResolveWindow(tt.today, "", nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStart, window.Start)
			assert.Equal(t, tt.wantEnd, window.End)
		})
	}
}

func TestResolveWindow_LabelUnderHeuristic(t *testing.T) {
	// given a label, "today" must not influence the window
	window, err := ResolveWindow(date(2030, time.July, 31), "2025-05", nil)

	assert.NoError(t, err)
	assert.Equal(t, date(2025, time.April, 27), window.Start)
	assert.Equal(t, endOfDay(2025, time.May, 26), window.End)
}

func TestResolveWindow_LabelAcrossYearBoundary(t *testing.T) {
	window, err := ResolveWindow(date(2025, time.June, 1), "2025-01", nil)

	assert.NoError(t, err)
	assert.Equal(t, date(2024, time.December, 27), window.Start)
	assert.Equal(t, endOfDay(2025, time.January, 26), window.End)
}

func TestResolveWindow_InvalidLabel(t *testing.T) {
	for _, label := range []string{"May 2025", "2025/05", "2025-13"} {
		_, err := ResolveWindow(date(2025, time.June, 1), label, nil)
		assert.ErrorIs(t, err, ErrInvalidMonthLabel, "label %q", label)
	}
}

func TestResolveWindow_UserDefinedActiveCycle(t *testing.T) {
	// given
	months := []FiscalMonth{
		{Id: 1, MonthLabel: "2025-04", StartDate: date(2025, time.April, 1), EndDate: date(2025, time.April, 30), IsActive: false},
		{Id: 2, MonthLabel: "2025-05", StartDate: date(2025, time.May, 1), IsActive: true},
	}
	today := date(2025, time.May, 20)

	// when
	window, err := ResolveWindow(today, "", months)

	// then: the open cycle ends "now"
	assert.NoError(t, err)
	assert.Equal(t, date(2025, time.May, 1), window.Start)
	assert.Equal(t, today, window.End)
}

func TestResolveWindow_UserDefinedCycleByLabel(t *testing.T) {
	months := []FiscalMonth{
		{Id: 1, MonthLabel: "2025-04", StartDate: date(2025, time.April, 1), EndDate: date(2025, time.April, 30), IsActive: false},
		{Id: 2, MonthLabel: "2025-05", StartDate: date(2025, time.May, 1), IsActive: true},
	}

	window, err := ResolveWindow(date(2025, time.May, 20), "2025-04", months)

	assert.NoError(t, err)
	assert.Equal(t, date(2025, time.April, 1), window.Start)
	assert.Equal(t, date(2025, time.April, 30), window.End)
}

func TestResolveWindow_LabelWithoutMatchingRecordFallsBackToHeuristic(t *testing.T) {
	months := []FiscalMonth{
		{Id: 1, MonthLabel: "2025-05", StartDate: date(2025, time.May, 1), IsActive: true},
	}

	window, err := ResolveWindow(date(2025, time.May, 20), "2025-02", months)

	assert.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 27), window.Start)
	assert.Equal(t, endOfDay(2025, time.February, 26), window.End)
}

func TestWindow_Contains(t *testing.T) {
	window := Window{Start: date(2025, time.February, 27), End: endOfDay(2025, time.March, 26)}

	assert.True(t, window.Contains(date(2025, time.February, 27)))
	assert.True(t, window.Contains(date(2025, time.March, 26)))
	assert.True(t, window.Contains(endOfDay(2025, time.March, 26)))
	assert.False(t, window.Contains(date(2025, time.March, 27)))
	assert.False(t, window.Contains(date(2025, time.February, 26)))
}

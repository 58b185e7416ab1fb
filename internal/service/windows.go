package service

import "time"

const dateLayout = "2006-01-02"

// Clock supplies "now" so services can be tested against fixed dates.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production Clock.
var SystemClock Clock = systemClock{}

// Windows holds every date boundary the dashboard views compare against,
// precomputed once per request. All values are inclusive YYYY-MM-DD strings
// matching how ship dates are stored.
type Windows struct {
	Today           string
	DayOfMonth      int
	MonthStart      string
	LastMonthStart  string
	LastMonthEnd    string
	DaysInLastMonth int
	WeekAgo         string
	TwoWeeksAgo     string

	// Same month last year. SMLYEndCapped never goes past day 28, which
	// keeps the year-over-year window comparable across February; the
	// pulse comparisons instead cap at the month's real length.
	SMLYStart     string
	SMLYEndCapped string
	SMLYSameDay   string

	// PriorMonthSameDay is last month's date with the current day-of-month,
	// clamped to last month's length.
	PriorMonthSameDay string

	YTDStart      string
	PriorYTDStart string
	PriorYTDEnd   string
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ComputeWindows derives all comparison windows from a single instant.
func ComputeWindows(now time.Time) Windows {
	year, month, day := now.Date()

	lastMonthEnd := time.Date(year, month, 0, 0, 0, 0, 0, time.UTC)
	lmYear, lmMonth, _ := lastMonthEnd.Date()

	smlyDays := daysIn(year-1, month)

	return Windows{
		Today:           now.Format(dateLayout),
		DayOfMonth:      day,
		MonthStart:      time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout),
		LastMonthStart:  time.Date(lmYear, lmMonth, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout),
		LastMonthEnd:    lastMonthEnd.Format(dateLayout),
		DaysInLastMonth: lastMonthEnd.Day(),
		WeekAgo:         now.AddDate(0, 0, -7).Format(dateLayout),
		TwoWeeksAgo:     now.AddDate(0, 0, -14).Format(dateLayout),

		SMLYStart:     time.Date(year-1, month, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout),
		SMLYEndCapped: time.Date(year-1, month, minInt(day, 28), 0, 0, 0, 0, time.UTC).Format(dateLayout),
		SMLYSameDay:   time.Date(year-1, month, minInt(day, smlyDays), 0, 0, 0, 0, time.UTC).Format(dateLayout),

		PriorMonthSameDay: time.Date(lmYear, lmMonth, minInt(day, lastMonthEnd.Day()), 0, 0, 0, 0, time.UTC).Format(dateLayout),

		YTDStart:      time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout),
		PriorYTDStart: time.Date(year-1, 1, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout),
		PriorYTDEnd:   time.Date(year-1, month, minInt(day, smlyDays), 0, 0, 0, 0, time.UTC).Format(dateLayout),
	}
}

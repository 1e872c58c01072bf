package report

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// dateLayout is the date format the QuickBooks API uses everywhere.
const dateLayout = "2006-01-02"

// Period is an inclusive reporting date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// String renders the period for logs and report envelopes.
func (p Period) String() string {
	return fmt.Sprintf("%s to %s", p.Start.Format(dateLayout), p.End.Format(dateLayout))
}

// StartDate returns the start date in API format.
func (p Period) StartDate() string {
	return p.Start.Format(dateLayout)
}

// EndDate returns the end date in API format.
func (p Period) EndDate() string {
	return p.End.Format(dateLayout)
}

// CurrentMonth returns the period from the first of the month through
// today.
func CurrentMonth(now time.Time) Period {
	return Period{
		Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

// CurrentQuarter returns the period from the first day of the calendar
// quarter through today.
func CurrentQuarter(now time.Time) Period {
	startMonth := time.Month((int(now.Month())-1)/3*3 + 1)
	return Period{
		Start: time.Date(now.Year(), startMonth, 1, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

// CurrentYear returns the period from January 1 through today.
func CurrentYear(now time.Time) Period {
	return Period{
		Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

// LastMonth returns the previous full calendar month.
func LastMonth(now time.Time) Period {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Period{
		Start: firstOfThisMonth.AddDate(0, -1, 0),
		End:   firstOfThisMonth.AddDate(0, 0, -1),
	}
}

// ParsePeriod builds a period from API-format date strings.
func ParsePeriod(startDate, endDate string) (Period, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return Period{}, errors.Wrapf(err, "invalid start date %q", startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return Period{}, errors.Wrapf(err, "invalid end date %q", endDate)
	}
	if end.Before(start) {
		return Period{}, errors.Errorf("end date %s precedes start date %s", endDate, startDate)
	}
	return Period{Start: start, End: end}, nil
}

// ParseDate parses a single API-format date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", value)
	}
	return t, nil
}

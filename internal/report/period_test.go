package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
	p := CurrentMonth(now)
	assert.Equal(t, "2026-03-01", p.StartDate())
	assert.Equal(t, "2026-03-15", p.EndDate())
}

func TestCurrentQuarter(t *testing.T) {
	tests := []struct {
		now   time.Time
		start string
	}{
		{date(2026, time.January, 10), "2026-01-01"},
		{date(2026, time.March, 31), "2026-01-01"},
		{date(2026, time.April, 1), "2026-04-01"},
		{date(2026, time.August, 31), "2026-07-01"},
		{date(2026, time.December, 25), "2026-10-01"},
	}
	for _, tc := range tests {
		p := CurrentQuarter(tc.now)
		assert.Equal(t, tc.start, p.StartDate(), "now=%s", tc.now.Format(dateLayout))
		assert.Equal(t, tc.now.Format(dateLayout), p.EndDate())
	}
}

func TestCurrentYear(t *testing.T) {
	p := CurrentYear(date(2026, time.August, 31))
	assert.Equal(t, "2026-01-01", p.StartDate())
	assert.Equal(t, "2026-08-31", p.EndDate())
}

func TestLastMonth(t *testing.T) {
	tests := []struct {
		now   time.Time
		start string
		end   string
	}{
		{date(2026, time.March, 15), "2026-02-01", "2026-02-28"},
		{date(2026, time.January, 5), "2025-12-01", "2025-12-31"},
		{date(2024, time.March, 1), "2024-02-01", "2024-02-29"},
	}
	for _, tc := range tests {
		p := LastMonth(tc.now)
		assert.Equal(t, tc.start, p.StartDate(), "now=%s", tc.now.Format(dateLayout))
		assert.Equal(t, tc.end, p.EndDate(), "now=%s", tc.now.Format(dateLayout))
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01 to 2026-01-31", p.String())

	_, err = ParsePeriod("not-a-date", "2026-01-31")
	assert.Error(t, err)

	_, err = ParsePeriod("2026-02-01", "2026-01-31")
	assert.Error(t, err)
}

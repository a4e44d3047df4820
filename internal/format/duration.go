package format

import (
	"fmt"
	"strings"
	"time"
)

const zeroDelta = "0 seconds"

// Duration is a calendar aware span split into its components.
type Duration struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// CalendarDiff returns the absolute span between a and b. Components are
// counted in UTC from the earlier instant; adding months clamps to the last
// day of the target month. Sub-second remainders are dropped.
func CalendarDiff(a, b time.Time) Duration {
	start, end := a.UTC(), b.UTC()
	if end.Before(start) {
		start, end = end, start
	}

	var d Duration

	d.Years = end.Year() - start.Year()
	if addMonths(start, d.Years*12).After(end) {
		d.Years--
	}
	cursor := addMonths(start, d.Years*12)

	d.Months = (end.Year()-cursor.Year())*12 + int(end.Month()-cursor.Month())
	if d.Months > 0 && addMonths(cursor, d.Months).After(end) {
		d.Months--
	}
	cursor = addMonths(cursor, d.Months)

	rest := end.Sub(cursor)
	d.Days = int(rest / (24 * time.Hour))
	rest -= time.Duration(d.Days) * 24 * time.Hour
	d.Hours = int(rest / time.Hour)
	rest -= time.Duration(d.Hours) * time.Hour
	d.Minutes = int(rest / time.Minute)
	rest -= time.Duration(d.Minutes) * time.Minute
	d.Seconds = int(rest / time.Second)

	return d
}

// addMonths moves t by n months, clamping the day to the target month's end.
func addMonths(t time.Time, n int) time.Time {
	y, m, day := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Phrase renders the non-zero components, largest first: "2 hours 14 minutes".
// A zero duration yields an empty string.
func (d Duration) Phrase() string {
	parts := make([]string, 0, 6)
	for _, c := range []struct {
		n    int
		unit string
	}{
		{d.Years, "year"},
		{d.Months, "month"},
		{d.Days, "day"},
		{d.Hours, "hour"},
		{d.Minutes, "minute"},
		{d.Seconds, "second"},
	} {
		switch {
		case c.n == 0:
		case c.n == 1:
			parts = append(parts, "1 "+c.unit)
		default:
			parts = append(parts, fmt.Sprintf("%d %ss", c.n, c.unit))
		}
	}
	return strings.Join(parts, " ")
}

// Delta is the phrase for the span between a and b, or "0 seconds" when
// every component is zero.
func Delta(a, b time.Time) string {
	if s := CalendarDiff(a, b).Phrase(); s != "" {
		return s
	}
	return zeroDelta
}

package domain

import "time"

const (
	// DateLayout is the only accepted input form for calendar dates.
	DateLayout = "2006-01-02"
	// DisplayLayout renders dates as "Fri Jan 05 2024".
	DisplayLayout = "Mon Jan 02 2006"
)

// ParseDate parses a strict YYYY-MM-DD calendar date and returns it at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// CalendarDay truncates t to its calendar date in t's own location, expressed at UTC midnight.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDisplayDate renders a stored date in the human-readable response form.
func FormatDisplayDate(t time.Time) string {
	return t.Format(DisplayLayout)
}

package analytics

import (
	"time"

	"github.com/dovewatch/dovewatch-go/internal/errors"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate is returned when an external date string cannot be parsed.
var ErrInvalidDate = errors.NewStd("analytics: invalid date, expected YYYY-MM-DD")

// ParseDate parses an external YYYY-MM-DD date string into midnight of that
// day in loc. Date parsing belongs to the API and report boundaries; the
// aggregator itself only accepts typed time values.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, errors.New(ErrInvalidDate).
			Component("analytics").
			Category(errors.CategoryValidation).
			Context("input", s).
			Build()
	}
	return day, nil
}

// WeekStart returns the Monday midnight beginning the ISO week containing day.
func WeekStart(day time.Time) time.Time {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	weekday := int(midnight.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return midnight.AddDate(0, 0, -(weekday - 1))
}

// MonthInterval returns the half-open [first of month, first of next month)
// interval containing day.
func MonthInterval(day time.Time) (start, end time.Time) {
	start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	end = start.AddDate(0, 1, 0)
	return start, end
}

// DayStart returns midnight of the calendar day containing ts, in ts's location.
func DayStart(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

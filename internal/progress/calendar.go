// Package progress turns the activity log into month calendars.
package progress

import (
	"time"

	"portfolioAPI/internal/types/calendar"
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name of m regardless of locale.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// DaysInMonth returns the Gregorian day count, leap Februaries included.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st, 0 for Sunday through 6 for Saturday.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// BuildMonthView builds the calendar for the month monthOffset months away
// from today's month. Records with unparseable dates are ignored, and a
// day is flagged when at least one record on it has a successful status.
// records is never modified.
func BuildMonthView(records []ActivityRecord, monthOffset int, today time.Time) *calendar.MonthView {
	// time.Date normalises month overflow into the year, for any offset.
	first := time.Date(today.Year(), today.Month()+time.Month(monthOffset), 1, 0, 0, 0, 0, time.UTC)
	year, month := first.Year(), first.Month()

	days := DaysInMonth(year, month)
	blanks := FirstWeekday(year, month)

	contributions := make([]bool, days)
	for _, r := range records {
		if !r.Status {
			continue
		}
		d, ok := ParseDate(r.Date)
		if !ok || d.Year() != year || d.Month() != month {
			continue
		}
		contributions[d.Day()-1] = true
	}

	todayStr := FormatDate(today)
	cells := make([]*calendar.CalendarDay, blanks, blanks+days)
	for day := 1; day <= days; day++ {
		date := FormatDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
		cells = append(cells, &calendar.CalendarDay{
			Day:         day,
			Date:        date,
			Contributed: contributions[day-1],
			IsToday:     date == todayStr,
		})
	}

	return &calendar.MonthView{
		Year:           year,
		MonthIndex:     int(month) - 1,
		MonthName:      MonthName(month),
		Offset:         monthOffset,
		DaysInMonth:    days,
		LeadingBlanks:  blanks,
		IsCurrentMonth: year == today.Year() && month == today.Month(),
		Cells:          cells,
		Contributions:  contributions,
	}
}

package calendar

// CalendarDay is one non-blank cell of the month grid.
type CalendarDay struct {
	Day         int    `json:"day"`
	Date        string `json:"date"`
	Contributed bool   `json:"contributed"`
	IsToday     bool   `json:"is_today"`
}

// MonthView is the grid plus per-day contribution flags for one month.
// Cells holds LeadingBlanks nil entries followed by one entry per day, so
// a 7-column renderer can lay it out directly.
type MonthView struct {
	Year           int            `json:"year"`
	MonthIndex     int            `json:"month_index"` // 0-based
	MonthName      string         `json:"month_name"`
	Offset         int            `json:"offset"`
	DaysInMonth    int            `json:"days_in_month"`
	LeadingBlanks  int            `json:"leading_blanks"`
	IsCurrentMonth bool           `json:"is_current_month"`
	Cells          []*CalendarDay `json:"cells"`
	Contributions  []bool         `json:"contributions"`
}

// ContributedDays counts the flagged days.
func (v *MonthView) ContributedDays() int {
	n := 0
	for _, c := range v.Contributions {
		if c {
			n++
		}
	}
	return n
}

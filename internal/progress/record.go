package progress

import "time"

const dateLayout = "2006-01-02"

// AllCategories is the pseudo category that disables filtering.
const AllCategories = "All"

// ActivityRecord is a single dated progress log entry.
type ActivityRecord struct {
	Date     string   `json:"date" yaml:"date"`
	Category string   `json:"category" yaml:"category"`
	Status   bool     `json:"status" yaml:"status"`
	Note     string   `json:"note" yaml:"note"`
	Links    []string `json:"links" yaml:"links"`
}

// ParseDate parses a YYYY-MM-DD date. Out-of-range parts such as month 13
// or February 30th are rejected.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Categories returns AllCategories followed by every distinct category in
// the order it first appears.
func Categories(records []ActivityRecord) []string {
	seen := make(map[string]bool)
	categories := []string{AllCategories}
	for _, r := range records {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		categories = append(categories, r.Category)
	}
	return categories
}

// FilterByCategory returns the records in the given category. An empty
// category or AllCategories returns every record. The input is not modified.
func FilterByCategory(records []ActivityRecord, category string) []ActivityRecord {
	if category == "" || category == AllCategories {
		out := make([]ActivityRecord, len(records))
		copy(out, records)
		return out
	}

	out := make([]ActivityRecord, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

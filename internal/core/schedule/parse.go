// Package schedule provides pure time and date parsing for task estimates
// and due dates. Parse functions never fail; unparseable input reports
// not-ok.
package schedule

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// rangeEstimate is tried first: "1-3 hours" means the arithmetic mean,
	// not three hours.
	rangeEstimate = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:-|–|—|\bto\b)\s*(\d+(?:\.\d+)?)\s*(hours?|hrs?|minutes?|mins?)`)

	hourEstimate   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h\b)`)
	minuteEstimate = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes?|mins?|m\b)`)
)

// ParseTimeEstimate extracts a duration in minutes from a human estimate
// string ("2 hours", "90 min", "1-3 hours"). Reports not-ok when nothing
// parses or the result is not positive.
func ParseTimeEstimate(text string) (int, bool) {
	if m := rangeEstimate.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		mean := (lo + hi) / 2
		if strings.HasPrefix(strings.ToLower(m[3]), "h") {
			mean *= 60
		}
		minutes := int(math.Round(mean))
		return minutes, minutes > 0
	}

	total := 0.0
	if m := hourEstimate.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.ParseFloat(m[1], 64)
		total += hours * 60
	}
	if m := minuteEstimate.FindStringSubmatch(text); m != nil {
		mins, _ := strconv.ParseFloat(m[1], 64)
		total += mins
	}

	minutes := int(math.Round(total))
	return minutes, minutes > 0
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// dateLayouts tried by the generic fallback, most specific first.
// Year-less layouts resolve to the current year.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"1/2",
	"1-2-2006",
	"1-2-06",
	"1-2",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2",
	"Jan 2",
	"2 January 2006",
	"2 Jan 2006",
	"2 January",
	"2 Jan",
}

var (
	// ordinalSuffix normalizes "5th" to "5" ahead of layout parsing.
	ordinalSuffix = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)\b`)
	ofFiller      = regexp.MustCompile(`(?i)\bof\s+`)
)

// ParseDate resolves a human date reference relative to now. "today" and
// "tomorrow" map to midnight of the respective day; "next week" and
// "next month" advance by the corresponding span. A weekday name maps to
// its next occurrence at midnight; if today already is that weekday, it
// rolls forward a full week. Reports not-ok on total failure.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return time.Time{}, false
	}

	switch s {
	case "today", "tonight":
		return midnight(now), true
	case "tomorrow":
		return midnight(now.AddDate(0, 0, 1)), true
	case "next week":
		return midnight(now.AddDate(0, 0, 7)), true
	case "next month":
		return midnight(now.AddDate(0, 1, 0)), true
	}

	day := strings.TrimPrefix(s, "next ")
	if wd, ok := weekdays[day]; ok {
		days := int(wd-now.Weekday()+7) % 7
		if days == 0 {
			days = 7
		}
		return midnight(now.AddDate(0, 0, days)), true
	}

	// Normalize textual forms the layouts cannot express: ordinal day
	// suffixes ("March 5th"), "5th of March", abbreviated months with a
	// trailing period ("Mar. 5").
	clean := ordinalSuffix.ReplaceAllString(strings.TrimSpace(text), "$1")
	clean = ofFiller.ReplaceAllString(clean, "")
	clean = strings.ReplaceAll(clean, ".", "")

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, clean)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = t.AddDate(now.Year(), 0, 0)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), true
	}

	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

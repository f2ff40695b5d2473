package pattern

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateMatch is one natural-language date mention grounded to an absolute
// time. Mentions the recognizer cannot ground are dropped, never surfaced.
type DateMatch struct {
	Range    Range
	Resolved time.Time
}

var (
	relativeDayRE = regexp.MustCompile(`(?i)\b(today|tonight|tomorrow)\b`)
	weekdayRE     = regexp.MustCompile(`(?i)\b(next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	monthDayRE    = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?\b`)
	isoDateRE     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRE   = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)

	// Optional clock suffix immediately after a date mention.
	timeSuffixRE = regexp.MustCompile(`(?i)^ at (\d{1,2})(?::(\d{2}))?\s?(am|pm)?\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday, "sunday": time.Sunday,
}

// Dates recognizes date mentions in text, resolved against now. Matches are
// non-overlapping, in buffer order, and filtered to today-or-later: a past
// date is not an actionable mention.
func Dates(text string, now time.Time) []DateMatch {
	var found []DateMatch
	found = append(found, matchRelativeDays(text, now)...)
	found = append(found, matchWeekdays(text, now)...)
	found = append(found, matchMonthDays(text, now)...)
	found = append(found, matchISODates(text, now)...)
	found = append(found, matchSlashDates(text, now)...)

	sort.Slice(found, func(i, j int) bool {
		if found[i].Range.Start != found[j].Range.Start {
			return found[i].Range.Start < found[j].Range.Start
		}
		return found[i].Range.End > found[j].Range.End
	})

	out := make([]DateMatch, 0, len(found))
	lastEnd := -1
	for _, m := range found {
		if m.Range.Start < lastEnd {
			continue
		}
		m = extendWithClock(text, m, now)
		if beforeToday(m.Resolved, now) {
			lastEnd = m.Range.End
			continue
		}
		out = append(out, m)
		lastEnd = m.Range.End
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func matchRelativeDays(text string, now time.Time) []DateMatch {
	var out []DateMatch
	for _, loc := range relativeDayRE.FindAllStringSubmatchIndex(text, -1) {
		word := strings.ToLower(text[loc[2]:loc[3]])
		day := dateOf(now)
		switch word {
		case "tomorrow":
			day = day.AddDate(0, 0, 1)
		case "tonight":
			day = day.Add(20 * time.Hour)
		}
		out = append(out, DateMatch{Range: Range{Start: loc[0], End: loc[1]}, Resolved: day})
	}
	return out
}

func matchWeekdays(text string, now time.Time) []DateMatch {
	var out []DateMatch
	for _, loc := range weekdayRE.FindAllStringSubmatchIndex(text, -1) {
		name := strings.ToLower(text[loc[4]:loc[5]])
		target, ok := weekdaysByName[name]
		if !ok {
			continue
		}
		ahead := (int(target) - int(now.Weekday()) + 7) % 7
		if loc[2] != -1 { // "next <weekday>" skips the current week
			if ahead == 0 {
				ahead = 7
			} else {
				ahead += 7
			}
		}
		out = append(out, DateMatch{
			Range:    Range{Start: loc[0], End: loc[1]},
			Resolved: dateOf(now).AddDate(0, 0, ahead),
		})
	}
	return out
}

func matchMonthDays(text string, now time.Time) []DateMatch {
	var out []DateMatch
	for _, loc := range monthDayRE.FindAllStringSubmatchIndex(text, -1) {
		name := strings.ToLower(text[loc[2]:loc[3]])
		if len(name) > 3 {
			name = name[:3]
		}
		month, ok := monthsByPrefix[name]
		if !ok {
			continue
		}
		day, err := strconv.Atoi(text[loc[4]:loc[5]])
		if err != nil || !validMonthDay(month, day) {
			continue
		}
		year := now.Year()
		if loc[6] != -1 {
			year, err = strconv.Atoi(text[loc[6]:loc[7]])
			if err != nil {
				continue
			}
		}
		out = append(out, DateMatch{
			Range:    Range{Start: loc[0], End: loc[1]},
			Resolved: time.Date(year, month, day, 0, 0, 0, 0, now.Location()),
		})
	}
	return out
}

func matchISODates(text string, now time.Time) []DateMatch {
	var out []DateMatch
	for _, loc := range isoDateRE.FindAllStringSubmatchIndex(text, -1) {
		year, _ := strconv.Atoi(text[loc[2]:loc[3]])
		month, _ := strconv.Atoi(text[loc[4]:loc[5]])
		day, _ := strconv.Atoi(text[loc[6]:loc[7]])
		if month < 1 || month > 12 || !validMonthDay(time.Month(month), day) {
			continue
		}
		out = append(out, DateMatch{
			Range:    Range{Start: loc[0], End: loc[1]},
			Resolved: time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()),
		})
	}
	return out
}

func matchSlashDates(text string, now time.Time) []DateMatch {
	var out []DateMatch
	for _, loc := range slashDateRE.FindAllStringSubmatchIndex(text, -1) {
		month, _ := strconv.Atoi(text[loc[2]:loc[3]])
		day, _ := strconv.Atoi(text[loc[4]:loc[5]])
		if month < 1 || month > 12 || !validMonthDay(time.Month(month), day) {
			continue
		}
		year := now.Year()
		if loc[6] != -1 {
			y, err := strconv.Atoi(text[loc[6]:loc[7]])
			if err != nil {
				continue
			}
			if y < 100 {
				y += 2000
			}
			year = y
		}
		out = append(out, DateMatch{
			Range:    Range{Start: loc[0], End: loc[1]},
			Resolved: time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()),
		})
	}
	return out
}

// extendWithClock absorbs a trailing " at 3pm" / " at 15:30" into the match.
func extendWithClock(text string, m DateMatch, now time.Time) DateMatch {
	loc := timeSuffixRE.FindStringSubmatchIndex(text[m.Range.End:])
	if loc == nil {
		return m
	}
	rest := text[m.Range.End:]
	hour, err := strconv.Atoi(rest[loc[2]:loc[3]])
	if err != nil || hour > 23 {
		return m
	}
	minute := 0
	if loc[4] != -1 {
		minute, err = strconv.Atoi(rest[loc[4]:loc[5]])
		if err != nil || minute > 59 {
			return m
		}
	}
	if loc[6] != -1 {
		if hour > 12 {
			return m
		}
		meridiem := strings.ToLower(rest[loc[6]:loc[7]])
		if meridiem == "pm" && hour < 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
	}
	day := m.Resolved
	m.Resolved = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	m.Range.End += loc[1]
	return m
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// beforeToday compares calendar days: a mention earlier today still counts.
func beforeToday(resolved, now time.Time) bool {
	return dateOf(resolved).Before(dateOf(now))
}

func validMonthDay(month time.Month, day int) bool {
	if day < 1 || day > 31 {
		return false
	}
	switch month {
	case time.April, time.June, time.September, time.November:
		return day <= 30
	case time.February:
		return day <= 29
	default:
		return true
	}
}

package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical day-month-year output form.
const DateLayout = "02.01.2006"

var (
	reDMY     = regexp.MustCompile(`^(\d{1,2})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{4}|\d{2})$`)
	reYMD     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	reDayName = regexp.MustCompile(`^(\d{1,2})\s+(\pL+)\.?,?\s+(\d{4}|\d{2})$`)
	reNameDay = regexp.MustCompile(`^(\pL+)\.?\s+(\d{1,2}),?\s+(\d{4})$`)
	reYearTag = regexp.MustCompile(`(?i)\s*(?:г\.?|года?)$`)
	reQuotes  = regexp.MustCompile(`[«»"']`)
)

// month prefixes, three runes each; Russian covers nominative and genitive forms
var monthPrefixes = map[string]time.Month{
	"янв": time.January, "фев": time.February, "мар": time.March, "апр": time.April,
	"май": time.May, "мая": time.May, "июн": time.June, "июл": time.July,
	"авг": time.August, "сен": time.September, "окт": time.October, "ноя": time.November,
	"дек": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// Date accepts day-month-year with '.', '/' or '-' separators, ISO
// year-month-day, and spelled-out Russian or English month names, and emits
// DD.MM.YYYY. Two-digit years pivot at 69: 00-69 become 20YY and 70-99
// become 19YY, the same window time.Parse uses for "06". Canonical input is
// returned unchanged.
func Date(raw string) (string, error) {
	s := strings.TrimSpace(reSpaces.ReplaceAllString(raw, " "))
	s = reQuotes.ReplaceAllString(s, "")
	s = strings.TrimSpace(reYearTag.ReplaceAllString(s, ""))

	var day, month, year int
	switch {
	case reDMY.MatchString(s):
		m := reDMY.FindStringSubmatch(s)
		day, month, year = atoi(m[1]), atoi(m[2]), fullYear(m[3])
	case reYMD.MatchString(s):
		m := reYMD.FindStringSubmatch(s)
		year, month, day = atoi(m[1]), atoi(m[2]), atoi(m[3])
	case reDayName.MatchString(s):
		m := reDayName.FindStringSubmatch(s)
		mon, ok := monthByName(m[2])
		if !ok {
			return "", fail(KindDate, raw, "unknown month "+m[2])
		}
		day, month, year = atoi(m[1]), int(mon), fullYear(m[3])
	case reNameDay.MatchString(s):
		m := reNameDay.FindStringSubmatch(s)
		mon, ok := monthByName(m[1])
		if !ok {
			return "", fail(KindDate, raw, "unknown month "+m[1])
		}
		day, month, year = atoi(m[2]), int(mon), atoi(m[3])
	default:
		return "", fail(KindDate, raw, "unrecognized format")
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return "", fail(KindDate, raw, fmt.Sprintf("no such day %02d.%02d.%04d", day, month, year))
	}
	return t.Format(DateLayout), nil
}

func monthByName(name string) (time.Month, bool) {
	r := []rune(strings.ToLower(name))
	if len(r) < 3 {
		return 0, false
	}
	m, ok := monthPrefixes[string(r[:3])]
	return m, ok
}

// twoDigitPivot is the last two-digit year read as 20YY.
const twoDigitPivot = 69

func fullYear(s string) int {
	y := atoi(s)
	if len(s) != 2 {
		return y
	}
	if y > twoDigitPivot {
		return 1900 + y
	}
	return 2000 + y
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

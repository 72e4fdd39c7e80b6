package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Date and time parsing is an ordered table of (pattern, extract) pairs.
// Order matters: looser patterns (a bare hour before a part-of-day word)
// must not shadow tighter ones, so each list is tried top to bottom and the
// first range-valid match wins. Out-of-range candidates are discarded and
// the next pattern is tried.
//
// All patterns run on Normalize()d text, so accented spellings ("amanhã",
// "às") are already folded to their base forms.

type timeRule struct {
	name string
	re   *regexp.Regexp
}

var timeRules = []timeRule{
	// "15h", "15:30", "as 15h", "15 horas", "15hs30"
	{"hour-marker", regexp.MustCompile(`(?:as)?\s*(\d{1,2})\s*(?:h|:|hs|horas)\s*(\d{2})?`)},
	// "3 da tarde", "10 da manha". Minutes default to zero and afternoon or
	// evening hours below 12 are shifted to the 24h clock.
	{"part-of-day", regexp.MustCompile(`(\d{1,2})\s+(?:da\s+)?(manha|tarde|noite)`)},
}

type dateRule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string, now time.Time) (time.Time, bool)
}

var dateRules = []dateRule{
	{"today", regexp.MustCompile(`hoje`), func(_ []string, now time.Time) (time.Time, bool) {
		return midnight(now), true
	}},
	{"tomorrow", regexp.MustCompile(`amanha`), func(_ []string, now time.Time) (time.Time, bool) {
		return midnight(now.AddDate(0, 0, 1)), true
	}},
	// "dia 20", "dia 20/01"
	{"day-of-month", regexp.MustCompile(`dia\s+(\d{1,2})(?:/(\d{1,2}))?`), buildDayMonth},
	// bare "20/01"
	{"slash-date", regexp.MustCompile(`(\d{1,2})/(\d{1,2})`), buildDayMonth},
}

// buildDayMonth constructs a date in the reference year, defaulting the month
// to the reference month when omitted. Invalid calendar combinations are
// discarded, not corrected. Year parsing is intentionally unsupported; the
// reference year is always assumed.
func buildDayMonth(m []string, now time.Time) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month := int(now.Month())
	if len(m) > 2 && m[2] != "" {
		month, _ = strconv.Atoi(m[2])
	}
	return makeDate(now.Year(), month, day)
}

// makeDate builds a calendar date, rejecting combinations that Go's time
// package would silently normalize (e.g. 31/04 becoming 01/05).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ExtractDateTime parses normalized text for an optional calendar date and an
// optional "HH:MM" clock time. Either, both, or neither may be present in one
// utterance ("dia 20 as 15h" yields both).
func ExtractDateTime(text string, now time.Time) (date *time.Time, clock string) {
	text = Normalize(text)

	for _, rule := range timeRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		hour, _ := strconv.Atoi(m[1])
		minutes := 0
		if len(m) > 2 && m[2] != "" {
			switch m[2] {
			case "tarde", "noite":
				if hour < 12 {
					hour += 12
				}
			case "manha":
			default:
				minutes, _ = strconv.Atoi(m[2])
			}
		}
		if hour > 23 || minutes > 59 {
			continue
		}
		clock = fmt.Sprintf("%02d:%02d", hour, minutes)
		break
	}

	for _, rule := range dateRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := rule.build(m, now); ok {
			date = &d
			break
		}
	}

	return date, clock
}

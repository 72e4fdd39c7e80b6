package engine

import (
	"time"
)

// The studio operates Tuesday through Saturday.

var weekdayNamesPT = map[time.Weekday]string{
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// isWorkingDay reports whether the date falls on an operating day, plus the
// Portuguese weekday name for messaging.
func isWorkingDay(t time.Time) (bool, string) {
	wd := t.Weekday()
	open := wd >= time.Tuesday && wd <= time.Saturday
	return open, weekdayNamesPT[wd]
}

// nextWorkingDay returns the first operating day strictly after t, searching
// at most 7 days forward.
func nextWorkingDay(t time.Time) *time.Time {
	next := t
	for i := 0; i < 7; i++ {
		next = next.AddDate(0, 0, 1)
		if open, _ := isWorkingDay(next); open {
			return &next
		}
	}
	return nil
}

// displayDate renders a date the way replies show it (DD/MM).
func displayDate(t time.Time) string {
	return t.Format("02/01")
}

// ledgerDate renders a date the way the availability ledger keys it
// (DD/MM/YYYY).
func ledgerDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// standardizeLedgerDates folds whatever date shape the ledger returns
// (YYYY-MM-DD or DD/MM/YYYY) into DD/MM/YYYY so comparisons are reliable.
func standardizeLedgerDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if parsed, err := time.Parse("2006-01-02", d); err == nil {
			out = append(out, parsed.Format("02/01/2006"))
			continue
		}
		out = append(out, d)
	}
	return out
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// Package time contains time related helpers
package time

import (
	"regexp"
	"strings"
	"time"
)

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// DateKey formats t as the calendar day key YYYY-MM-DD in local time
func DateKey(t time.Time) string { return t.Format("2006-01-02") }

// PeriodKey formats t as the calendar month key YYYY-MM in local time
func PeriodKey(t time.Time) string { return t.Format("2006-01") }

// PeriodOf extracts the YYYY-MM prefix of a YYYY-MM-DD date key, or "" when
// the key does not look like one
func PeriodOf(dateKey string) string {
	if len(dateKey) != 10 || dateKey[4] != '-' || dateKey[7] != '-' {
		return ""
	}
	return dateKey[:7]
}

var periodRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidPeriod reports whether s is a well-formed YYYY-MM month key
func ValidPeriod(s string) bool { return periodRe.MatchString(s) }

// InPeriod reports whether a YYYY-MM-DD date key falls inside a YYYY-MM period
func InPeriod(dateKey, period string) bool {
	return strings.HasPrefix(dateKey, period+"-")
}

// ClockToken is a parsed HH:MM reminder time
type ClockToken struct {
	Hour   int
	Minute int
}

var (
	clockColonRe = regexp.MustCompile(`^(\d{1,2}):(\d{0,2})$`)
	clockHRe     = regexp.MustCompile(`^(\d{1,2})h?(\d{0,2})$`)
)

// ParseClockToken parses lenient wall-clock tokens: HH:MM, H:MM, HHhMM, HHh,
// HH. Hours clamp to 0..23, minutes to 0..59. ok is false for garbage
func ParseClockToken(tok string) (ClockToken, bool) {
	t := strings.ToLower(strings.TrimSpace(tok))
	t = strings.ReplaceAll(t, " ", "")
	if t == "" {
		return ClockToken{}, false
	}
	m := clockColonRe.FindStringSubmatch(t)
	if m == nil {
		m = clockHRe.FindStringSubmatch(t)
	}
	if m == nil {
		return ClockToken{}, false
	}
	h := atoiClamp(m[1], 0, 23)
	mm := 0
	if m[2] != "" {
		mm = atoiClamp(m[2], 0, 59)
	}
	return ClockToken{Hour: h, Minute: mm}, true
}

func atoiClamp(s string, lo, hi int) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Matches reports whether the token names the current wall-clock minute of now
func (c ClockToken) Matches(now time.Time) bool {
	return c.Hour == now.Hour() && c.Minute == now.Minute()
}

package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for Factiva publication dates, tried in order. Month and
// weekday names match case-insensitively in time.Parse.
var dateLayouts = []string{
	"2 January 2006",
	"2 January, 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 Jan, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"02.01.2006",
	"20060102",
}

var (
	cjkDateRe   = regexp.MustCompile(`(\d{4})\D{0,10}?(\d{1,2})\D{0,10}?(\d{1,2})\D{0,10}?日(?:\D{0,10}?(\d{1,2}):(\d{2}))?`)
	trailTimeRe = regexp.MustCompile(`^(.*?)[\s,]+(\d{1,2}):(\d{2})(?::\d{2})?(?:\s*(?:GMT|UTC|ET|EST|EDT|BST|CET|HKT|CST|JST))?$`)
	clockRe     = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?(?:\s*(?:[A-Z]{2,4}|[+-]\d{4}))?$`)
	weekdays    = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "mon", "tue", "tues", "wed", "thu", "thur", "thurs", "fri", "sat", "sun"}
)

// ParseDate recognizes a Factiva date string and returns it as YYYY-MM-DD.
// A time of day attached to the date is returned as HH:MM in clock.
func ParseDate(s string) (date, clock string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", false
	}
	if m := cjkDateRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
			return "", "", false
		}
		if m[4] != "" {
			clock, _ = formatClock(m[4], m[5])
		}
		return t.Format("2006-01-02"), clock, true
	}

	if m := trailTimeRe.FindStringSubmatch(s); m != nil {
		if c, cok := formatClock(m[2], m[3]); cok {
			if d, _, dok := ParseDate(m[1]); dok {
				return d, c, true
			}
		}
	}

	s = stripWeekday(s)
	s = strings.ReplaceAll(s, "Sept ", "Sep ")
	candidates := []string{s}
	if strings.Contains(s, ".") {
		// "Jan. 5, 2023" and "5 Jan. 2023"
		candidates = append(candidates, strings.ReplaceAll(s, ".", ""))
	}
	for _, c := range candidates {
		c = strings.Join(strings.Fields(c), " ")
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.Format("2006-01-02"), "", true
			}
		}
	}
	return "", "", false
}

// ParseClock normalizes "9:05", "09:05 GMT" and similar to HH:MM.
func ParseClock(s string) (string, bool) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return formatClock(m[1], m[2])
}

func formatClock(h, m string) (string, bool) {
	hh, err1 := strconv.Atoi(h)
	mm, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || hh > 23 || mm > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hh, mm), true
}

func stripWeekday(s string) string {
	lower := strings.ToLower(s)
	for _, w := range weekdays {
		if !strings.HasPrefix(lower, w) {
			continue
		}
		rest := s[len(w):]
		if rest == "" || (rest[0] != ',' && rest[0] != ' ' && rest[0] != '.') {
			continue
		}
		return strings.TrimLeft(rest, " ,.")
	}
	return s
}

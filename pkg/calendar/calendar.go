package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Days of week, 0=Sunday .. 6=Saturday.
const (
	Sunday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DayOfWeek returns the weekday (0=Sunday..6=Saturday) for a proleptic
// Gregorian date, computed purely from the date components. Parsing the date
// through a timezone-aware formatter can shift it by one day; this never does.
func DayOfWeek(year, month, day int) int {
	// Zeller's congruence, shifted so 0=Sunday.
	if month < 3 {
		month += 12
		year--
	}
	k := year % 100
	j := year / 100
	h := (day + 13*(month+1)/5 + k + k/4 + j/4 + 5*j) % 7
	return (h + 6) % 7
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(year, month, day int) bool {
	dow := DayOfWeek(year, month, day)
	return dow == Saturday || dow == Sunday
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysPerMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month]
}

// ParseDate parses a strict YYYY-MM-DD date and rejects impossible dates.
func ParseDate(s string) (year, month, day int, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, 0, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	year, err = strconv.Atoi(parts[0])
	if err == nil {
		month, err = strconv.Atoi(parts[1])
	}
	if err == nil {
		day, err = strconv.Atoi(parts[2])
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > DaysInMonth(year, month) {
		return 0, 0, 0, fmt.Errorf("invalid date %q: no such calendar day", s)
	}
	return year, month, day, nil
}

// FormatDate renders date components as YYYY-MM-DD.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseTimeOfDay parses a strict HH:MM 24-hour time into minutes since midnight.
func ParseTimeOfDay(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hour*60 + minute, nil
}

// FormatTimeOfDay renders minutes since midnight as HH:MM. Minutes past the
// end of the day are clamped to 23:59.
func FormatTimeOfDay(minutes int) string {
	if minutes > 23*60+59 {
		minutes = 23*60 + 59
	}
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddDays advances a date by n days (n may be negative).
func AddDays(year, month, day, n int) (int, int, int) {
	t := time.Date(year, time.Month(month), day+n, 0, 0, 0, 0, time.UTC)
	return t.Year(), int(t.Month()), t.Day()
}

// AddMonthsClamped advances a date by n calendar months, clamping the day of
// month to the last valid day when the target month is shorter. Unlike
// time.AddDate, Jan 31 + 1 month yields Feb 28/29 rather than Mar 2/3.
func AddMonthsClamped(year, month, day, n int) (int, int, int) {
	total := year*12 + (month - 1) + n
	y := total / 12
	m := total%12 + 1
	if total < 0 && total%12 != 0 {
		y--
		m = total%12 + 13
	}
	if max := DaysInMonth(y, m); day > max {
		day = max
	}
	return y, m, day
}

// AddYearsClamped advances a date by n years, clamping Feb 29 to Feb 28 on
// non-leap targets.
func AddYearsClamped(year, month, day, n int) (int, int, int) {
	return AddMonthsClamped(year, month, day, n*12)
}

// NextBusinessDay returns the first date strictly after or equal to the given
// date that is neither a weekend nor flagged by isHoliday. isHoliday may be nil.
func NextBusinessDay(year, month, day int, isHoliday func(year, month, day int) bool) (int, int, int) {
	y, m, d := year, month, day
	for IsWeekend(y, m, d) || (isHoliday != nil && isHoliday(y, m, d)) {
		y, m, d = AddDays(y, m, d, 1)
	}
	return y, m, d
}

// CompareDates orders two dates: -1 if a before b, 0 if equal, 1 if after.
func CompareDates(y1, m1, d1, y2, m2, d2 int) int {
	a := y1*10000 + m1*100 + d1
	b := y2*10000 + m2*100 + d2
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Portuguese day-type labels surfaced in confirmation prompts.
const (
	DayTypeSaturday = "SÁBADO"
	DayTypeSunday   = "DOMINGO"
	DayTypeHoliday  = "FERIADO"
)

// DayTypeLabel names the non-working day type for user-facing messages.
// Holidays win over the weekday label.
func DayTypeLabel(dow int, holiday bool) string {
	if holiday {
		return DayTypeHoliday
	}
	switch dow {
	case Saturday:
		return DayTypeSaturday
	case Sunday:
		return DayTypeSunday
	default:
		return ""
	}
}

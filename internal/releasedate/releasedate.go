// Package releasedate parses and formats card release dates whose precision
// varies from record to record: a full day, a month, a bare year, or nothing.
//
// Every accepted string maps to exactly one canonical form:
//
//	2015-05-20  Full
//	1993-08     Month
//	1993        Year
//	""          None
package releasedate

import (
	"fmt"
	"time"
)

// Precision is the granularity a release date is known to.
type Precision int

const (
	None Precision = iota
	Full
	Month
	Year
)

func (p Precision) String() string {
	switch p {
	case None:
		return "none"
	case Full:
		return "full"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// Value is a release date together with its precision. Components beyond the
// precision are always zero, so two values are equal exactly when == says so.
//
// The zero Value has precision None.
type Value struct {
	year      int
	month     time.Month
	day       int
	precision Precision
}

// FullDate returns a day-precision value. It panics if the components do not
// name a real day of the proleptic Gregorian calendar.
func FullDate(year int, month time.Month, day int) Value {
	mustYear(year)
	mustMonth(month)
	if day < 1 || day > daysIn(year, month) {
		panic(fmt.Sprintf("releasedate: day %d out of range for %04d-%02d", day, year, int(month)))
	}
	return Value{year: year, month: month, day: day, precision: Full}
}

// MonthDate returns a month-precision value. It panics on an invalid month.
func MonthDate(year int, month time.Month) Value {
	mustYear(year)
	mustMonth(month)
	return Value{year: year, month: month, precision: Month}
}

// YearDate returns a year-precision value. It panics if year does not fit in
// four digits.
func YearDate(year int) Value {
	mustYear(year)
	return Value{year: year, precision: Year}
}

// Precision reports how much of the date is known.
func (v Value) Precision() Precision { return v.precision }

// IsZero reports whether the value carries no date at all.
func (v Value) IsZero() bool { return v.precision == None }

// Year returns the year, or 0 for None.
func (v Value) Year() int { return v.year }

// Month returns the month, or 0 when the precision is Year or None.
func (v Value) Month() time.Month { return v.month }

// Day returns the day of month, or 0 unless the precision is Full.
func (v Value) Day() int { return v.day }

// Time returns the first instant of the period the value covers, in UTC.
// ok is false for None.
func (v Value) Time() (t time.Time, ok bool) {
	if v.precision == None {
		return time.Time{}, false
	}
	month, day := v.month, v.day
	if month == 0 {
		month = time.January
	}
	if day == 0 {
		day = 1
	}
	return time.Date(v.year, month, day, 0, 0, 0, 0, time.UTC), true
}

// String returns the canonical form, same as Format.
func (v Value) String() string { return Format(v) }

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(Format(v)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func mustYear(year int) {
	if year < 0 || year > 9999 {
		panic(fmt.Sprintf("releasedate: year %d out of range", year))
	}
}

func mustMonth(month time.Month) {
	if month < time.January || month > time.December {
		panic(fmt.Sprintf("releasedate: month %d out of range", int(month)))
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package releasedate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFormat matches every error returned by Parse.
var ErrInvalidFormat = errors.New("invalid release date format")

// InvalidFormatError reports a release date string that none of the
// supported layouts accept.
type InvalidFormatError struct {
	Input string
	// Err is the calendar error when Input had the right shape but named a
	// day, month or year that does not exist. Nil when no layout matched.
	Err error
}

func (e *InvalidFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid release date %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("invalid release date %q: expected YYYY-MM-DD, YYYY-MM or YYYY", e.Input)
}

func (e *InvalidFormatError) Is(target error) bool { return target == ErrInvalidFormat }

func (e *InvalidFormatError) Unwrap() error { return e.Err }

type rule struct {
	layout    string
	precision Precision
}

// Tried in order; the first layout whose shape fits decides the outcome.
// Month and day may drop their leading zero; Format restores it.
var rules = []rule{
	{layout: "2006-1-2", precision: Full},
	{layout: "2006-1", precision: Month},
	{layout: "2006", precision: Year},
}

// Parse converts a release date string into a Value. The empty string is a
// valid unknown date and yields the None value.
func Parse(s string) (Value, error) {
	if s == "" {
		return Value{}, nil
	}

	for _, r := range rules {
		if !r.fits(s) {
			continue
		}

		t, err := time.Parse(r.layout, s)
		if err != nil {
			return Value{}, &InvalidFormatError{Input: s, Err: err}
		}

		switch r.precision {
		case Full:
			return Value{year: t.Year(), month: t.Month(), day: t.Day(), precision: Full}, nil
		case Month:
			return Value{year: t.Year(), month: t.Month(), precision: Month}, nil
		default:
			return Value{year: t.Year(), precision: Year}, nil
		}
	}

	return Value{}, &InvalidFormatError{Input: s}
}

// ParseOptional is Parse for a field that may be absent altogether.
func ParseOptional(s *string) (Value, error) {
	if s == nil {
		return Value{}, nil
	}
	return Parse(*s)
}

// Format renders v in its canonical layout. None formats as "".
func Format(v Value) string {
	switch v.precision {
	case Full:
		return fmt.Sprintf("%04d-%02d-%02d", v.year, int(v.month), v.day)
	case Month:
		return fmt.Sprintf("%04d-%02d", v.year, int(v.month))
	case Year:
		return fmt.Sprintf("%04d", v.year)
	default:
		return ""
	}
}

// fits reports whether s has the layout's shape: the same number of
// dash-separated fields, a four digit year and one or two digits for month
// and day.
func (r rule) fits(s string) bool {
	fields := strings.Split(s, "-")
	if len(fields) != strings.Count(r.layout, "-")+1 {
		return false
	}
	for i, f := range fields {
		if i == 0 && len(f) != 4 {
			return false
		}
		if i > 0 && (len(f) < 1 || len(f) > 2) {
			return false
		}
		if !digits(f) {
			return false
		}
	}
	return true
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

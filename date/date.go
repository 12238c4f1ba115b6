// Package date provides the calendar day used by ledger records.
//
// A Date keeps the three components exactly as they were entered. Unlike
// time.Time it is never normalized, so "2025-02-31" stays February 31st: the
// day is only checked to be within 1-31 and the month within 1-12. Use
// Exists to find out whether the day is actually on the calendar.
package date

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// ErrInvalid is returned when a date component is out of range or unparseable.
var ErrInvalid = errors.New("invalid date")

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// New returns the Date for the given year, month, and day, without normalization.
func New(year int, month time.Month, day int) Date { return Date{year, month, day} }

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// Validate checks each component independently: year in 1-9999, month in
// 1-12 and day in 1-31. It does not check the day against the month length.
func (d Date) Validate() error {
	switch {
	case d.y < 1 || d.y > 9999:
		return fmt.Errorf("%w: year %d out of range", ErrInvalid, d.y)
	case d.m < time.January || d.m > time.December:
		return fmt.Errorf("%w: month %d out of range", ErrInvalid, d.m)
	case d.d < 1 || d.d > 31:
		return fmt.Errorf("%w: day %d out of range", ErrInvalid, d.d)
	}
	return nil
}

// Exists reports whether the date is a real calendar day (e.g. false for February 31st).
func (d Date) Exists() bool {
	if d.Validate() != nil {
		return false
	}
	_, m, day := d.Time().Date()
	return m == d.m && day == d.d
}

// Time returns a time.Time at midnight UTC for that day. Non existing days
// are normalized by the time package (February 31st becomes March 3rd).
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Compare returns -1, 0 or +1 comparing components in order, so February 31st
// sorts after February 28th and before March 1st.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmp(d.y, x.y)
	case d.m != x.m:
		return cmp(int(d.m), int(x.m))
	default:
		return cmp(d.d, x.d)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return +1
	}
	return 0
}

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// String format the date in its standard format.
func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.y, int(d.m), d.d) }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(str), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q want format %q", ErrInvalid, str, DateFormat)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q want format %q", ErrInvalid, str, DateFormat)
		}
		n[i] = v
	}
	d := New(n[0], time.Month(n[1]), n[2])
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ParseParts builds a Date out of three separately picked components: a day
// number, a month given by its English name ("February", "feb") or number,
// and a year.
func ParseParts(day, month, year string) (Date, error) {
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return Date{}, fmt.Errorf("%w: day %q", ErrInvalid, day)
	}
	m, err := ParseMonth(month)
	if err != nil {
		return Date{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Date{}, fmt.Errorf("%w: year %q", ErrInvalid, year)
	}
	on := New(y, m, d)
	if err := on.Validate(); err != nil {
		return Date{}, err
	}
	return on, nil
}

// ParseMonth parses a month name (full or three letter, any case) or a month number.
func ParseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("%w: month %d out of range", ErrInvalid, n)
		}
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || (len(s) == 3 && strings.EqualFold(s, name[:3])) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown month %q", ErrInvalid, s)
}

// Months returns the English month names in calendar order.
func Months() []string {
	names := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		names = append(names, m.String())
	}
	return names
}

// Years returns the year of 'from' followed by the n-1 previous years.
func Years(from Date, n int) []int {
	years := make([]int, 0, n)
	for i := 0; i < n; i++ {
		years = append(years, from.Year()-i)
	}
	return years
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// Value stores the date as its "YYYY-MM-DD" text, which keeps non existing days intact.
func (j Date) Value() (driver.Value, error) { return j.String(), nil }

// Scan reads a date stored as text (or as a time for DATE columns).
func (j *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		d, err := Parse(v)
		if err != nil {
			return err
		}
		*j = d
	case []byte:
		return j.Scan(string(v))
	case time.Time:
		*j = New(v.Date())
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalid, src)
	}
	return nil
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)

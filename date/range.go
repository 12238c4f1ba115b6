package date

import "fmt"

// Range represents a range of dates, boundaries included. A zero boundary is open.
type Range struct{ From, To Date }

// NewRange returns the range between two dates.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether the range is open on both ends.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// String returns "from..to", leaving an open boundary empty.
func (r Range) String() string {
	str := func(d Date) string {
		if d.IsZero() {
			return ""
		}
		return d.String()
	}
	return fmt.Sprintf("%s..%s", str(r.From), str(r.To))
}

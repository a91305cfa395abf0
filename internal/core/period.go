package core

// Period is an inclusive calendar-day range.
type Period struct {
	Start Date
	End   Date
}

// ResolvePeriod converts a (year, month) pair into the inclusive range
// covering that calendar month, accounting for variable month lengths and
// leap years. Pure and deterministic.
func ResolvePeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, ErrInvalidMonth
	}
	start := NewDate(year, month, 1)
	end := Date{Time: start.AddDate(0, 1, -1)}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether d falls within the period, both ends inclusive.
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start.Time) && !d.After(p.End.Time)
}

package export

import "time"

// Window describes how a metric's date range is split into vendor calls.
// Segment i (1-based) ends Days*i days after the start date; each segment after
// the first starts the day after the previous one ended.
type Window struct {
	Days     int
	Segments int
}

type Range struct {
	Start time.Time
	End   time.Time
}

func (w Window) Ranges(start time.Time) []Range {
	n := max(w.Segments, 1)
	out := make([]Range, 0, n)
	from := start
	for i := 1; i <= n; i++ {
		to := start.AddDate(0, 0, w.Days*i)
		out = append(out, Range{Start: from, End: to})
		from = to.AddDate(0, 0, 1)
	}
	return out
}

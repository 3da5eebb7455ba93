package core

// DateWindow is an inclusive range of calendar days.
type DateWindow struct {
	Start Date
	End   Date
}

// NewDateWindow returns an InvalidRangeError when start is after end.
func NewDateWindow(start, end Date) (DateWindow, error) {
	w := DateWindow{Start: DateOf(start.Time), End: DateOf(end.Time)}
	if err := w.Validate(); err != nil {
		return DateWindow{}, err
	}
	return w, nil
}

func (w DateWindow) Validate() error {
	if w.Start.After(w.End) {
		return &InvalidRangeError{Start: w.Start, End: w.End}
	}
	return nil
}

// Contains reports whether d falls inside the window, bounds included.
func (w DateWindow) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days is the number of calendar days covered by the window.
func (w DateWindow) Days() int {
	if w.Start.After(w.End) {
		return 0
	}
	return int(w.End.Sub(w.Start.Time).Hours()/24) + 1
}

// Filter returns the records whose date falls inside the window, in ledger order.
func Filter(l *Ledger, w DateWindow) ([]Record, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	out := make([]Record, 0, l.Len())
	for _, r := range l.records {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out, nil
}

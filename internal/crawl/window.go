package crawl

import "time"

// Window is an inclusive [From, To] date range passed to a historical
// provider call. The zero Window is empty.
type Window struct {
	From time.Time
	To   time.Time
}

// Empty reports whether there is nothing to fetch. Callers must treat an
// empty window as a no-op success, not an error.
func (w Window) Empty() bool {
	return w.From.IsZero() || w.To.IsZero() || w.From.After(w.To)
}

// NextWindow computes the minimal window that brings a daily historical
// series up to date. latest is the most recent persisted point (zero when
// the downstream store has no data for the symbol), earliest the
// provider's minimum supported date.
//
// With no persisted point the result is the full history [earliest, today].
// Otherwise it starts the day after the persisted point, which makes a
// same-day rerun produce an empty window instead of refetching.
func NextWindow(latest, earliest, now time.Time) Window {
	today := truncateDay(now)
	if latest.IsZero() {
		return Window{From: truncateDay(earliest), To: today}
	}
	return Window{From: truncateDay(latest).AddDate(0, 0, 1), To: today}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

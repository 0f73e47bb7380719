package util

import "time"

// Timer measures how long a submission takes.
type Timer struct {
	start time.Time
}

// StartTimer starts a timer at the current time.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// StartedAt returns the moment the timer was started.
func (t Timer) StartedAt() time.Time {
	return t.start
}

// Elapsed returns the time since start, or zero for an unstarted timer.
func (t Timer) Elapsed() time.Duration {
	if t.start.IsZero() {
		return 0
	}
	return time.Since(t.start)
}

// ElapsedMs returns Elapsed in whole milliseconds.
func (t Timer) ElapsedMs() int64 {
	return t.Elapsed().Milliseconds()
}

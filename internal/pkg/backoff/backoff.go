// Package backoff provides the exponential retry schedule shared by the
// address verification pipeline and the webhook delivery layer. The schedule
// is deterministic: both components persist the next attempt time, so the
// delay for attempt N must be reproducible from N alone.
package backoff

import "time"

// Schedule describes an exponential backoff: Base * Factor^(attempt-1),
// capped at MaxAttempts. Attempt numbering starts at 1.
type Schedule struct {
	Base        time.Duration
	Factor      int
	MaxAttempts int
}

// NewSchedule creates a backoff schedule.
func NewSchedule(base time.Duration, factor int, maxAttempts int) Schedule {
	return Schedule{
		Base:        base,
		Factor:      factor,
		MaxAttempts: maxAttempts,
	}
}

// Delay returns the wait before the given attempt number.
// Attempt 1 waits Base, attempt 2 waits Base*Factor, and so on.
// Attempts below 1 are treated as 1.
func (s Schedule) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := s.Base
	for i := 1; i < attempt; i++ {
		delay *= time.Duration(s.Factor)
	}
	return delay
}

// NextAttemptAt returns the absolute time of the next attempt, given the
// attempt number that just failed and the time it failed at.
func (s Schedule) NextAttemptAt(failedAttempt int, now time.Time) time.Time {
	return now.Add(s.Delay(failedAttempt))
}

// Exhausted reports whether the given number of performed attempts has
// consumed the whole budget.
func (s Schedule) Exhausted(attempts int) bool {
	return attempts >= s.MaxAttempts
}

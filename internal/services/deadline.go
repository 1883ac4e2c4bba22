package services

import (
	"math"
	"time"
)

// warningWindowDays is how close a deadline must be before unsubmitted
// students get warned.
const warningWindowDays = 5

// DaysLeft returns the number of days until the deadline, rounded up.
// Negative once the deadline has passed by more than a day.
func DaysLeft(now, deadline time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// IsLate reports whether a submission committed at now misses the deadline.
func IsLate(now, deadline time.Time) bool {
	return now.After(deadline)
}

// InWarningWindow reports whether the deadline is close enough to warn about:
// due today through warningWindowDays days out.
func InWarningWindow(now, deadline time.Time) bool {
	days := DaysLeft(now, deadline)
	return days >= 0 && days <= warningWindowDays
}

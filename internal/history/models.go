package history

import (
	"strings"
	"time"
)

// Status reflects the terminal outcome of one conversion request.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
	StatusRejected  Status = "rejected"
)

var allStatuses = []Status{
	StatusSucceeded,
	StatusFailed,
	StatusTimedOut,
	StatusRejected,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// Record captures one finished conversion.
type Record struct {
	ID           int64
	RequestID    string
	Title        string
	Status       Status
	ErrorMessage string
	InputBytes   int64
	OutputBytes  int64
	PollAttempts int
	Duration     time.Duration
	CreatedAt    time.Time
	FinishedAt   time.Time
}

// Summary aggregates record counts per terminal status.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	TimedOut  int
	Rejected  int
}

package apollo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// PollPolicy bounds list polling: a fixed attempt budget with a fixed
// inter-attempt interval. Exhausting the budget is not an error; the list is
// simply still building and the caller can resume later with the list id.
type PollPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultPollPolicy waits up to 18 × 1.5s (~27s) for a list to finish.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		MaxAttempts: 18,
		Interval:    1500 * time.Millisecond,
	}
}

func (p PollPolicy) withDefaults() PollPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 18
	}
	if p.Interval <= 0 {
		p.Interval = 1500 * time.Millisecond
	}
	return p
}

// PollState is the terminal classification of a polled list.
type PollState string

const (
	StateComplete PollState = "complete"
	StateFailed   PollState = "failed"
	StateTimeout  PollState = "timeout"
)

// PollResult is the outcome of polling a list to a terminal state or
// exhausting the attempt budget.
type PollResult struct {
	State    PollState
	Status   string // last raw provider status string
	Total    int
	Attempts int
}

// statusBucket classifies raw provider status strings.
type statusBucket int

const (
	bucketPending statusBucket = iota
	bucketComplete
	bucketFailed
)

var (
	completeStatuses = map[string]bool{
		"complete": true, "completed": true, "finished": true,
		"done": true, "success": true,
	}
	failedStatuses = map[string]bool{
		"failed": true, "error": true, "canceled": true, "cancelled": true,
	}
)

// classifyStatus buckets a raw status case-insensitively. Anything that is
// not a known terminal synonym counts as still in progress.
func classifyStatus(status string) statusBucket {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case completeStatuses[s]:
		return bucketComplete
	case failedStatuses[s]:
		return bucketFailed
	default:
		return bucketPending
	}
}

// PollList polls GetListStatus under the given policy. It returns an error
// only for HTTP/transport failures or context cancellation; failed and
// timed-out lists are reported as states, not errors.
func PollList(ctx context.Context, client Client, id string, policy PollPolicy) (*PollResult, error) {
	policy = policy.withDefaults()

	var last *ListResponse
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		status, err := client.GetListStatus(ctx, id)
		if err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("apollo: poll list %s", id))
		}
		last = status

		switch classifyStatus(status.Status) {
		case bucketComplete:
			return &PollResult{State: StateComplete, Status: status.Status, Total: status.Total, Attempts: attempt}, nil
		case bucketFailed:
			return &PollResult{State: StateFailed, Status: status.Status, Total: status.Total, Attempts: attempt}, nil
		}

		// Not terminal; wait out the interval unless this was the last try.
		if attempt == policy.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), fmt.Sprintf("apollo: poll list %s canceled", id))
		case <-time.After(policy.Interval):
		}
	}

	return &PollResult{
		State:    StateTimeout,
		Status:   last.Status,
		Total:    last.Total,
		Attempts: policy.MaxAttempts,
	}, nil
}

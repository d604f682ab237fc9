package launchd

import (
	"context"
	"strings"
	"time"
)

// WaitState blocks until the job reports one of the wanted states or the
// context is cancelled. State names are compared case-insensitively against
// the state the tool reports, such as "running" or "waiting". If states is
// empty, WaitState returns on the first state change from the job's current
// state.
//
// The job is polled at the Lister's PollInterval. A query failure, including
// the job disappearing from the domain, ends the wait with that error.
//
// Example:
//
//	// Wait for any change
//	state, err := lister.WaitState(ctx, launchd.DomainGUI, label)
//
//	// Wait until the job is running
//	state, err := lister.WaitState(ctx, launchd.DomainGUI, label, "running")
func (l *Lister) WaitState(ctx context.Context, domain Domain, label string, states ...string) (string, error) {
	if label == "" {
		return "", ErrNoLabel
	}

	current, err := l.queryState(ctx, domain, label)
	if err != nil {
		return "", err
	}
	if len(states) == 0 {
		return l.pollUntil(ctx, domain, label, func(state string) bool {
			return state != current
		})
	}
	if matchState(current, states) {
		return current, nil
	}
	return l.pollUntil(ctx, domain, label, func(state string) bool {
		return matchState(state, states)
	})
}

// pollUntil re-queries the job state at the poll interval until done reports
// a match.
func (l *Lister) pollUntil(ctx context.Context, domain Domain, label string, done func(string) bool) (string, error) {
	interval := l.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			state, err := l.queryState(ctx, domain, label)
			if err != nil {
				return "", err
			}
			if done(state) {
				return state, nil
			}
		}
	}
}

// queryState fetches the job's describe output and extracts its state.
func (l *Lister) queryState(ctx context.Context, domain Domain, label string) (string, error) {
	dr := l.fetchDetail(ctx, domain, label)
	if dr.err != nil {
		return "", dr.err
	}
	return parseJobDetail(dr.text).State, nil
}

func matchState(state string, states []string) bool {
	for _, want := range states {
		if strings.EqualFold(state, want) {
			return true
		}
	}
	return false
}

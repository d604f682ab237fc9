package launchd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Lister loads domain snapshots and runs job actions by invoking the
// service-control tool. A zero-configured Lister drives launchctl from PATH
// on behalf of the invoking user.
//
// Lister methods are safe for concurrent use as long as the configuration
// fields are not mutated after creation.
type Lister struct {
	// Runner invokes the control tool
	Runner Runner
	// UID is the actor identifier appended to user and gui domain targets
	UID int
	// Timeout bounds each individual tool invocation. Zero means block
	// until the tool exits, which is the default.
	Timeout time.Duration
	// Concurrency is the number of per-job detail queries in flight during
	// a load. 1 queries sequentially in listing order.
	Concurrency int
	// PollInterval is the delay between state queries in WaitState
	PollInterval time.Duration
	// ExcludeSystemJobs drops jobs whose properties mark them as
	// OS-provided system services
	ExcludeSystemJobs bool
}

// Option is a functional option for configuring a Lister
type Option func(*Lister)

// WithRunner sets the runner used to invoke the control tool. Tests use this
// to substitute a fake for the real binary.
func WithRunner(r Runner) Option {
	return func(l *Lister) {
		l.Runner = r
	}
}

// WithLaunchctlPath points the default runner at a specific launchctl binary
// instead of resolving it from PATH.
func WithLaunchctlPath(path string) Option {
	return func(l *Lister) {
		l.Runner = NewExecRunner(path)
	}
}

// WithUID overrides the actor identifier used when forming user and gui
// domain targets. The default is the invoking user's uid.
func WithUID(uid int) Option {
	return func(l *Lister) {
		l.UID = uid
	}
}

// WithInvokeTimeout bounds each individual tool invocation
func WithInvokeTimeout(d time.Duration) Option {
	return func(l *Lister) {
		l.Timeout = d
	}
}

// WithDetailConcurrency sets the number of per-job detail queries in flight
// during a snapshot load. Record order is reassembled to listing order
// regardless.
func WithDetailConcurrency(n int) Option {
	return func(l *Lister) {
		l.Concurrency = n
	}
}

// WithPollInterval sets the delay between state queries in WaitState
func WithPollInterval(d time.Duration) Option {
	return func(l *Lister) {
		l.PollInterval = d
	}
}

// WithoutSystemServices drops jobs flagged as OS-provided system services
// from loaded snapshots.
func WithoutSystemServices() Option {
	return func(l *Lister) {
		l.ExcludeSystemJobs = true
	}
}

// NewLister creates a Lister with the given options applied over defaults:
// launchctl resolved from PATH, the invoking user's uid, no invocation
// timeout, sequential detail queries.
func NewLister(opts ...Option) *Lister {
	l := &Lister{
		Runner:       NewExecRunner(DefaultLaunchctlPath),
		UID:          os.Getuid(),
		Concurrency:  DefaultConcurrency,
		PollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.Concurrency < 1 {
		l.Concurrency = 1
	}
	if l.PollInterval <= 0 {
		l.PollInterval = DefaultPollInterval
	}
	return l
}

// LoadSnapshot queries the domain listing, then each listed job's describe
// output, and assembles the records in listing order.
//
// A listing failure (the tool cannot be spawned, or writes to its error
// stream) aborts the load with a *ToolError and a nil snapshot; whatever
// snapshot the caller already holds stays authoritative. Per-job describe
// failures do not abort the load: the affected labels are dropped and their
// errors aggregated, so a non-nil error may accompany a usable snapshot.
//
// A job whose describe reports no definition path, or a relative one, is
// omitted from the records but still carries its detail text. Paths are not
// checked against the filesystem.
func (l *Lister) LoadSnapshot(ctx context.Context, domain Domain) (*Snapshot, error) {
	target := domain.Target(l.UID)

	res, err := l.run(ctx, PrintSubcommand, target)
	if err != nil {
		return nil, &ToolError{Args: []string{PrintSubcommand, target}, Err: err}
	}
	if res.Stderr != "" {
		return nil, &ToolError{Args: []string{PrintSubcommand, target}, Stderr: res.Stderr}
	}

	labels := parseServiceLabels(res.Stdout)

	snap := &Snapshot{
		Domain:  domain,
		details: make(map[string]string, len(labels)),
	}
	merr := &MultiError{}

	for _, dr := range l.fetchDetails(ctx, domain, labels) {
		if dr.err != nil {
			merr.Add(dr.err)
			continue
		}
		if l.ExcludeSystemJobs && isSystemService(dr.text) {
			continue
		}
		snap.details[dr.label] = dr.text

		d := parseJobDetail(dr.text)
		if !strings.HasPrefix(d.Path, "/") {
			continue
		}
		snap.records = append(snap.records, JobRecord{
			Label: dr.label,
			Path:  d.Path,
			State: d.State,
		})
	}
	snap.TakenAt = time.Now()

	return snap, merr.Err()
}

// RunAction invokes an action verb on a job label and returns the tool's
// standard output as the status text, possibly empty. Output on the error
// stream is returned as an *ActionError alongside whatever status text was
// produced; a spawn failure is returned as a *ToolError. Neither outcome
// touches any snapshot the caller holds.
func (l *Lister) RunAction(ctx context.Context, op Operation, label string) (string, error) {
	if !op.Actionable() {
		return "", fmt.Errorf("%w: %v", ErrUnknownOperation, op)
	}
	if label == "" {
		return "", ErrNoLabel
	}

	res, err := l.run(ctx, op.String(), label)
	if err != nil {
		return "", &ToolError{Args: []string{op.String(), label}, Err: err}
	}
	if res.Stderr != "" {
		return res.Stdout, &ActionError{Op: op, Label: label, Stderr: res.Stderr}
	}
	return res.Stdout, nil
}

// Describe queries a single job's describe output without loading a full
// snapshot.
func (l *Lister) Describe(ctx context.Context, domain Domain, label string) (string, error) {
	if label == "" {
		return "", ErrNoLabel
	}
	dr := l.fetchDetail(ctx, domain, label)
	if dr.err != nil {
		return "", dr.err
	}
	return dr.text, nil
}

// run invokes the tool with the per-invocation timeout applied.
func (l *Lister) run(ctx context.Context, args ...string) (Result, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	return l.Runner.Run(ctx, args...)
}

// detailResult is one per-job describe outcome, queued for reassembly.
type detailResult struct {
	label string
	text  string
	err   error
}

// fetchDetails issues a describe per label. With Concurrency 1 queries run
// sequentially in listing order; above that they fan out under a semaphore
// and the results slice restores listing order.
func (l *Lister) fetchDetails(ctx context.Context, domain Domain, labels []string) []detailResult {
	results := make([]detailResult, len(labels))

	if l.Concurrency <= 1 || len(labels) <= 1 {
		for i, label := range labels {
			results[i] = l.fetchDetail(ctx, domain, label)
		}
		return results
	}

	sem := make(chan struct{}, l.Concurrency)
	var wg sync.WaitGroup

	for i, label := range labels {
		wg.Add(1)
		go func(i int, label string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = detailResult{label: label, err: ctx.Err()}
				return
			}

			results[i] = l.fetchDetail(ctx, domain, label)
		}(i, label)
	}

	wg.Wait()
	return results
}

func (l *Lister) fetchDetail(ctx context.Context, domain Domain, label string) detailResult {
	target := domain.JobTarget(l.UID, label)

	res, err := l.run(ctx, PrintSubcommand, target)
	switch {
	case err != nil:
		return detailResult{label: label, err: &ToolError{Args: []string{PrintSubcommand, target}, Err: err}}
	case res.Stderr != "":
		return detailResult{label: label, err: &ToolError{Args: []string{PrintSubcommand, target}, Stderr: res.Stderr}}
	default:
		return detailResult{label: label, text: res.Stdout}
	}
}

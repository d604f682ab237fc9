package launchd

import (
	"context"
	"sync"
	"time"
)

// Manager handles actions on multiple launchd jobs concurrently. It provides
// bulk operations with configurable concurrency and timeouts, for shells
// that act on every row of a filtered view at once.
type Manager struct {
	// Lister executes the individual actions
	Lister *Lister
	// Concurrency is the maximum number of concurrent actions
	Concurrency int
	// Timeout is the per-action timeout
	Timeout time.Duration
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithLister sets the Lister used to execute individual actions
func WithLister(l *Lister) ManagerOption {
	return func(m *Manager) {
		m.Lister = l
	}
}

// WithConcurrency sets the maximum number of concurrent actions
func WithConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		m.Concurrency = n
	}
}

// WithTimeout sets the per-action timeout
func WithTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.Timeout = d
	}
}

// NewManager creates a new Manager with default settings
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		Concurrency: 10,
		Timeout:     5 * time.Second,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.Lister == nil {
		m.Lister = NewLister()
	}
	if m.Concurrency < 1 {
		m.Concurrency = 1
	}

	return m
}

func (m *Manager) execute(ctx context.Context, op Operation, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	// Semaphore for concurrency control
	sem := make(chan struct{}, m.Concurrency)

	// Use WaitGroup for simpler goroutine management since we have finite work
	var wg sync.WaitGroup
	var mu sync.Mutex
	merr := &MultiError{}

	// Launch a goroutine for each label
	for _, label := range labels {

		wg.Add(1)
		go func(label string) {
			defer wg.Done()

			// Acquire semaphore slot
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(ctx.Err())
				mu.Unlock()
				return
			}

			// Create action context with timeout if configured
			opCtx := ctx
			if m.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, m.Timeout)
				defer cancel()
			}

			// Execute the action
			if _, err := m.Lister.RunAction(opCtx, op, label); err != nil {
				mu.Lock()
				merr.Add(err)
				mu.Unlock()
			}
		}(label)
	}

	// Wait for all goroutines to complete
	wg.Wait()

	return merr.Err()
}

// Start starts the specified jobs
func (m *Manager) Start(ctx context.Context, labels ...string) error {
	return m.execute(ctx, OpStart, labels)
}

// Stop stops the specified jobs
func (m *Manager) Stop(ctx context.Context, labels ...string) error {
	return m.execute(ctx, OpStop, labels)
}

// Enable enables the specified jobs
func (m *Manager) Enable(ctx context.Context, labels ...string) error {
	return m.execute(ctx, OpEnable, labels)
}

// Disable disables the specified jobs
func (m *Manager) Disable(ctx context.Context, labels ...string) error {
	return m.execute(ctx, OpDisable, labels)
}

// Describe retrieves the describe output of the specified jobs. Labels that
// fail to describe are absent from the map and their errors aggregated, so
// both return values are meaningful on partial failure.
func (m *Manager) Describe(ctx context.Context, domain Domain, labels ...string) (map[string]string, error) {
	if len(labels) == 0 {
		return make(map[string]string), nil
	}

	// Semaphore for concurrency control
	sem := make(chan struct{}, m.Concurrency)

	// Use WaitGroup for simpler goroutine management since we have finite work
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]string)
	merr := &MultiError{}

	// Launch a goroutine for each label
	for _, label := range labels {

		wg.Add(1)
		go func(label string) {
			defer wg.Done()

			// Acquire semaphore slot
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(ctx.Err())
				mu.Unlock()
				return
			}

			// Create query context with timeout if configured
			opCtx := ctx
			if m.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, m.Timeout)
				defer cancel()
			}

			// Query the job
			text, err := m.Lister.Describe(opCtx, domain, label)
			if err != nil {
				mu.Lock()
				merr.Add(err)
				mu.Unlock()
				return
			}

			// Store result
			mu.Lock()
			results[label] = text
			mu.Unlock()
		}(label)
	}

	// Wait for all goroutines to complete
	wg.Wait()

	return results, merr.Err()
}

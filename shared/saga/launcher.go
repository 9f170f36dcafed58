package saga

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// DuplicatePolicy decides what Start does when a saga for the same identity
// is already running or completed.
type DuplicatePolicy int

const (
	// ReturnExisting hands back the original handle
	ReturnExisting DuplicatePolicy = iota
	// RejectDuplicate fails with ErrDuplicateExecution
	RejectDuplicate
)

// Runner is the body of one saga execution
type Runner func(ctx context.Context) error

// Handle tracks one fire-and-forget saga execution
type Handle struct {
	ID string

	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Done is closed when the saga reaches a terminal outcome
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the saga's terminal error. Only meaningful after Done is closed.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Cancel requests cancellation of the in-flight saga. The coordinator still
// runs compensation for steps that already produced side effects.
func (h *Handle) Cancel() {
	h.cancel()
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	close(h.done)
}

// Launcher starts sagas exactly once per execution identity and multiplexes
// them over a bounded worker pool. Each saga runs as one logical sequential
// task; sagas for different orders advance independently.
type Launcher struct {
	mu      sync.Mutex
	handles map[string]*Handle
	wg      sync.WaitGroup

	pool    *semaphore.Weighted
	policy  DuplicatePolicy
	metrics *Metrics
}

// NewLauncher creates a launcher running at most maxConcurrent sagas at a
// time. Metrics may be nil.
func NewLauncher(maxConcurrent int64, policy DuplicatePolicy, metrics *Metrics) *Launcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 64
	}
	return &Launcher{
		handles: map[string]*Handle{},
		pool:    semaphore.NewWeighted(maxConcurrent),
		policy:  policy,
		metrics: metrics,
	}
}

// Start begins a saga for id and returns immediately with a tracking handle.
// Starting twice with the same id never produces two concurrent executions:
// depending on policy the existing handle is returned or the call fails with
// ErrDuplicateExecution.
func (l *Launcher) Start(id string, run Runner) (*Handle, error) {
	l.mu.Lock()
	if existing, ok := l.handles[id]; ok {
		l.mu.Unlock()
		if l.policy == RejectDuplicate {
			return nil, errors.Wrap(ErrDuplicateExecution, id)
		}
		return existing, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle := &Handle{
		ID:     id,
		done:   make(chan struct{}),
		cancel: cancel,
	}
	l.handles[id] = handle
	l.wg.Add(1)
	l.mu.Unlock()

	l.metrics.observeSagaStarted()

	go func() {
		defer l.wg.Done()
		defer cancel()

		if err := l.pool.Acquire(ctx, 1); err != nil {
			handle.finish(err)
			return
		}
		defer l.pool.Release(1)

		handle.finish(run(ctx))
	}()

	return handle, nil
}

// Policy returns the configured duplicate-identity policy
func (l *Launcher) Policy() DuplicatePolicy {
	return l.policy
}

// Lookup returns the handle for id, if any
func (l *Launcher) Lookup(id string) (*Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.handles[id]
	return h, ok
}

// Drain waits for all in-flight sagas to reach a terminal outcome, or for
// ctx to expire. Used during graceful shutdown.
func (l *Launcher) Drain(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "launcher drain interrupted")
	}
}

package saga

import (
	"context"
	"math"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
)

// InvokerConfig controls the per-step timeout and retry policy
type InvokerConfig struct {
	Timeout           time.Duration
	MaxAttempts       uint
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultInvokerConfig mirrors the reference activity policy: 5 minute
// attempts, 3 attempts, backoff 1s doubling up to 10s.
func DefaultInvokerConfig() InvokerConfig {
	return InvokerConfig{
		Timeout:           5 * time.Minute,
		MaxAttempts:       3,
		InitialBackoff:    time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Invoker executes one named step against an external resource manager,
// enforcing a per-attempt timeout and retrying transport-level failures with
// exponential backoff. Business declines are returned immediately. After
// MaxAttempts transport failures the exhausted-retry failure is surfaced as a
// failed StepResult that callers treat identically to a business decline.
type Invoker struct {
	cfg     InvokerConfig
	metrics *Metrics
}

// NewInvoker creates an Invoker with the given policy. Metrics may be nil.
func NewInvoker(cfg InvokerConfig, metrics *Metrics) *Invoker {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BackoffMultiplier <= 1 {
		cfg.BackoffMultiplier = 2.0
	}
	return &Invoker{cfg: cfg, metrics: metrics}
}

// Invoke runs call, retrying transport failures per the configured policy.
// The returned StepResult is failed either on a clean business decline or
// once retries are exhausted; err carries the underlying cause in the latter
// case. A cancelled parent context is returned as-is so the caller can decide
// whether compensation is still owed.
func (inv *Invoker) Invoke(ctx context.Context, step string, call Call) (StepResult, error) {
	var result StepResult

	err := retry.Do(
		func() error {
			inv.metrics.observeStepAttempt(step)

			attemptCtx, cancel := context.WithTimeout(ctx, inv.cfg.Timeout)
			defer cancel()

			res, err := call(attemptCtx)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
					return errors.Wrapf(ErrTransport, "step %s timed out after %s", step, inv.cfg.Timeout)
				}
				return err
			}

			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(inv.cfg.MaxAttempts),
		retry.Delay(inv.cfg.InitialBackoff),
		retry.MaxDelay(inv.cfg.MaxBackoff),
		retry.DelayType(inv.backoffDelay),
		retry.RetryIf(IsTransport),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if ctx.Err() != nil {
			return StepResult{}, ctx.Err()
		}
		var wrapped error
		if IsTransport(err) {
			wrapped = errors.Wrapf(err, "step %s exhausted %d attempts", step, inv.cfg.MaxAttempts)
		} else {
			wrapped = errors.Wrapf(err, "step %s failed", step)
		}
		return StepFailed(wrapped.Error()), wrapped
	}

	return result, nil
}

// backoffDelay grows the wait between attempts geometrically, capped at
// MaxBackoff. n is zero-based, so the first retry waits InitialBackoff.
func (inv *Invoker) backoffDelay(n uint, _ error, _ *retry.Config) time.Duration {
	delay := float64(inv.cfg.InitialBackoff) * math.Pow(inv.cfg.BackoffMultiplier, float64(n))
	if delay > float64(inv.cfg.MaxBackoff) {
		return inv.cfg.MaxBackoff
	}
	return time.Duration(delay)
}

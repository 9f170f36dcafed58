package saga

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Stack is the ordered, append-only list of compensating actions registered
// as forward steps succeed. Registration writes through to the durable
// Journal so a restarted coordinator can rebuild the stack from storage.
// Unwind executes entries strictly in reverse registration order,
// sequentially, best-effort: a failed compensating call is recorded in the
// report and the remaining entries still run.
type Stack struct {
	orderID string
	invoker *Invoker
	journal Journal
	resolve Resolver
	entries []CompensationEntry
}

// NewStack creates an empty compensation stack for one order
func NewStack(orderID string, invoker *Invoker, journal Journal, resolve Resolver) *Stack {
	return &Stack{
		orderID: orderID,
		invoker: invoker,
		journal: journal,
		resolve: resolve,
	}
}

// Restore loads previously registered entries from the journal. Used when a
// saga resumes after a restart; for a fresh saga the journal is empty.
func (s *Stack) Restore(ctx context.Context) error {
	entries, err := s.journal.ByOrder(ctx, s.orderID)
	if err != nil {
		return errors.Wrap(err, "failed to restore compensation entries")
	}
	s.entries = entries
	return nil
}

// Register appends a compensating action for a forward step that has been
// confirmed successful. The journal write happens before the in-memory
// append so the durable log never lags the stack.
func (s *Stack) Register(ctx context.Context, step, resourceID string) error {
	entry := CompensationEntry{
		Step:         step,
		OrderID:      s.orderID,
		ResourceID:   resourceID,
		RegisteredAt: time.Now(),
	}
	if err := s.journal.Append(ctx, entry); err != nil {
		return errors.Wrapf(err, "failed to journal compensation for step %s", step)
	}
	s.entries = append(s.entries, entry)
	return nil
}

// Len returns the number of registered entries
func (s *Stack) Len() int {
	return len(s.entries)
}

// Unwind executes the registered compensations in reverse order. Each
// compensating call goes through the Invoker and is subject to its own
// timeout/retry policy. Failures are recorded and do not stop the unwind:
// leaving one resource un-compensated is worse than skipping the rest.
func (s *Stack) Unwind(ctx context.Context) UnwindReport {
	report := UnwindReport{}

	for i := len(s.entries) - 1; i >= 0; i-- {
		entry := s.entries[i]
		res, err := s.invoker.Invoke(ctx, "compensate."+entry.Step, s.resolve(entry))
		if err != nil || !res.OK {
			reason := res.Reason
			if err != nil {
				reason = errors.Wrapf(ErrCompensation, "undo %s for resource %s: %v", entry.Step, entry.ResourceID, err).Error()
			}
			report.Failures = append(report.Failures, CompensationFailure{Entry: entry, Reason: reason})
			continue
		}
		report.Executed = append(report.Executed, entry)
	}

	return report
}

// Dispose clears the durable log after the saga reaches a terminal state
func (s *Stack) Dispose(ctx context.Context) error {
	return s.journal.Dispose(ctx, s.orderID)
}

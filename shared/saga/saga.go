package saga

import (
	"context"
	"time"
)

// StepResult is the outcome of one forward or compensating call against a
// resource manager. It is never partially populated: either OK is true and
// ResourceID/Detail are set, or OK is false and Reason carries the decline.
type StepResult struct {
	OK         bool   `json:"ok"`
	ResourceID string `json:"resource_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// StepOK builds a successful step result
func StepOK(resourceID, detail string) StepResult {
	return StepResult{OK: true, ResourceID: resourceID, Detail: detail}
}

// StepFailed builds a business-declined step result
func StepFailed(reason string) StepResult {
	return StepResult{OK: false, Reason: reason}
}

// Call executes one attempt of a named step against an external resource
// manager. A returned error marks a transport-level failure and is retried;
// a StepResult with OK=false is a clean business decline and is not.
type Call func(ctx context.Context) (StepResult, error)

// CompensationEntry is a bound reference to "undo step Step using resource
// identifier ResourceID for order OrderID". Pure data; the coordinator's
// resolver turns it into an invocation at unwind time.
type CompensationEntry struct {
	Step         string    `json:"step"`
	OrderID      string    `json:"order_id"`
	ResourceID   string    `json:"resource_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// CompensationFailure records a compensating call that failed after its own
// retries. It does not stop the remaining unwind.
type CompensationFailure struct {
	Entry  CompensationEntry `json:"entry"`
	Reason string            `json:"reason"`
}

// UnwindReport summarizes a compensation unwind
type UnwindReport struct {
	Executed []CompensationEntry   `json:"executed"`
	Failures []CompensationFailure `json:"failures,omitempty"`
}

// Partial reports whether at least one compensating call ultimately failed
func (r *UnwindReport) Partial() bool {
	return len(r.Failures) > 0
}

// Journal is the durable append-only compensation log keyed by order id.
// Entries are appended as forward steps succeed so that a restarted
// coordinator can reconstruct the unwind order from storage.
type Journal interface {
	Append(ctx context.Context, entry CompensationEntry) error
	ByOrder(ctx context.Context, orderID string) ([]CompensationEntry, error)
	Dispose(ctx context.Context, orderID string) error
}

// Resolver maps a registered entry back to the compensating call that
// releases its resource
type Resolver func(entry CompensationEntry) Call

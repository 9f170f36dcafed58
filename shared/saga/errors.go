package saga

import "github.com/pkg/errors"

// Failure taxonomy for saga steps. Transport failures are retried by the
// Invoker; business declines and not-found lookups are not. Compensation
// failures are recorded in the UnwindReport without stopping the unwind.
var (
	ErrTransport    = errors.New("transport failure")
	ErrBusiness     = errors.New("business failure")
	ErrNotFound     = errors.New("not found")
	ErrCompensation = errors.New("compensation failure")

	// ErrDuplicateExecution is returned by the Launcher when a saga for the
	// same identity was already started and the duplicate policy rejects.
	ErrDuplicateExecution = errors.New("saga already started for this id")
)

// IsTransport reports whether err is a retryable transport-level failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsBusiness reports whether err is an explicit decline from a resource manager
func IsBusiness(err error) bool {
	return errors.Is(err, ErrBusiness)
}

// IsNotFound reports whether err is a missing-aggregate failure
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// TransportErrorf builds a retryable transport failure with context
func TransportErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrTransport, format, args...)
}

// BusinessErrorf builds a non-retryable business decline with context
func BusinessErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrBusiness, format, args...)
}

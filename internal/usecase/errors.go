package usecase

import (
	"errors"
	"fmt"
)

// ReadFailure aborts a batch run: if the source rows cannot be loaded there
// is nothing sensible to continue with.
type ReadFailure struct {
	Op  string
	Err error
}

func (e *ReadFailure) Error() string {
	return fmt.Sprintf("read failure (%s): %v", e.Op, e.Err)
}

func (e *ReadFailure) Unwrap() error { return e.Err }

func IsReadFailure(err error) bool {
	var t *ReadFailure
	return errors.As(err, &t)
}

// WriteFailure covers a failed persist of an alert or status change.
type WriteFailure struct {
	Op  string
	Err error
}

func (e *WriteFailure) Error() string {
	return fmt.Sprintf("write failure (%s): %v", e.Op, e.Err)
}

func (e *WriteFailure) Unwrap() error { return e.Err }

func IsWriteFailure(err error) bool {
	var t *WriteFailure
	return errors.As(err, &t)
}

// DispatchFailure is recoverable: the followup stays PENDING and is retried
// on the next scan.
type DispatchFailure struct {
	To  string
	Err error
}

func (e *DispatchFailure) Error() string {
	return fmt.Sprintf("dispatch failure (to %s): %v", e.To, e.Err)
}

func (e *DispatchFailure) Unwrap() error { return e.Err }

func IsDispatchFailure(err error) bool {
	var t *DispatchFailure
	return errors.As(err, &t)
}

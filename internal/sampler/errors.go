package sampler

import (
	"errors"
	"fmt"
)

var (
	// ErrAcquisitionTimeout fails a tick whose acquisition outlived AcquireTimeout.
	ErrAcquisitionTimeout = errors.New("acquisition timed out")
	// ErrAcquisitionPending fails a tick while an abandoned acquisition is
	// still running; a second one is never started.
	ErrAcquisitionPending = errors.New("previous acquisition still running")
	// ErrAlreadyRunning is returned by Start on a running loop.
	ErrAlreadyRunning = errors.New("sampler already running")
)

// AcquisitionError reports a tick that produced no snapshot.
type AcquisitionError struct {
	Tick uint64
	Err  error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

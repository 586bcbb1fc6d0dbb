// Package pipeline orchestrates the billing workflows: remittance
// processing, claim submission, and CSV imports. Each workflow runs as
// a sequence of named phases; a failed phase aborts the run and nothing
// parsed in it is persisted. Remote accounting calls run one at a time
// and their ids are carried back into local records; there is no
// rollback across systems.
package pipeline

import "fmt"

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func phaseErr(phase string, err error) *PipelineError {
	return &PipelineError{Phase: phase, Err: err}
}

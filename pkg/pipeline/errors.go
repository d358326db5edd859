package pipeline

import (
	"errors"
	"fmt"
)

// Fatal conditions. Anything wrapped in one of these aborts the run
// before any output file is written; everything else is recorded in
// the rejection or enrichment logs and the run completes.
var (
	// ErrNoDataLines means the input file exists but holds no data
	// rows (empty, or header only).
	ErrNoDataLines = errors.New("input file contains no data lines")

	// ErrVerification means the pipeline's own bookkeeping is
	// inconsistent, e.g. accepted+rejected does not add up to the
	// input line count. This indicates a bug, not bad data.
	ErrVerification = errors.New("output verification failed")
)

// Stage identifies a pipeline stage, for error attribution and
// per-stage timing.
type Stage int

const (
	StageRead Stage = iota
	StageParse
	StageValidate
	StageEnrich
	StageAggregate
	StageVerify
	StageWrite
)

// String returns a string representation of the stage
func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageParse:
		return "parse"
	case StageValidate:
		return "validate"
	case StageEnrich:
		return "enrich"
	case StageAggregate:
		return "aggregate"
	case StageVerify:
		return "verify"
	case StageWrite:
		return "write"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// StageError wraps an error with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

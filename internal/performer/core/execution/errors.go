package execution

import (
	"errors"
	"fmt"
)

type Stage string

const (
	StageOracle     Stage = "oracle"
	StageEncoding   Stage = "encoding"
	StageSigning    Stage = "signing"
	StageSubmission Stage = "submission"
)

var (
	ErrOracleFailed     = errors.New("failed to fetch price")
	ErrEncodingFailed   = errors.New("failed to encode task")
	ErrSigningFailed    = errors.New("failed to sign task")
	ErrSubmissionFailed = errors.New("failed to submit task")
)

func (s Stage) sentinel() error {
	switch s {
	case StageOracle:
		return ErrOracleFailed
	case StageEncoding:
		return ErrEncodingFailed
	case StageSigning:
		return ErrSigningFailed
	default:
		return ErrSubmissionFailed
	}
}

// StageError identifies the pipeline stage that failed. Both the stage
// sentinel and the underlying cause match with errors.Is / errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v: %v", e.Stage.sentinel(), e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Stage.sentinel(), e.Err}
}

// FailedStage returns the stage of a pipeline error, if any.
func FailedStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}

package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure in the inference pipeline.
type ErrorKind int

const (
	// KindArtifactLoad covers missing, unreadable, or malformed model,
	// label, and vocabulary artifacts.
	KindArtifactLoad ErrorKind = iota + 1
	// KindInvalidInput covers a missing or malformed symptom argument.
	KindInvalidInput
	// KindPrediction covers failures inside the classifier call and the
	// label lookup that follows it.
	KindPrediction
)

func (k ErrorKind) String() string {
	switch k {
	case KindArtifactLoad:
		return "artifact_load"
	case KindInvalidInput:
		return "invalid_input"
	case KindPrediction:
		return "prediction"
	default:
		return "unknown"
	}
}

// Error is a pipeline failure tagged with its kind.
type Error struct {
	Kind ErrorKind
	Op   string // artifact or stage name, e.g. "model", "labels", "argument"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ArtifactLoadError wraps err as a failure to load the named artifact.
func ArtifactLoadError(artifact string, err error) error {
	return &Error{Kind: KindArtifactLoad, Op: artifact, Err: err}
}

// InvalidInputError wraps err as a rejected symptom input.
func InvalidInputError(err error) error {
	return &Error{Kind: KindInvalidInput, Op: "input", Err: err}
}

// PredictionError wraps err as a failure during prediction.
func PredictionError(err error) error {
	return &Error{Kind: KindPrediction, Op: "prediction", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

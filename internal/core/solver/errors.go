package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEvidence marks structurally invalid season input. It is
	// distinct from logical contradictions, which are reported in Result.
	ErrMalformedEvidence = errors.New("malformed evidence")
	// ErrTooManyAssignments is returned when the search space exceeds the
	// configured ceiling.
	ErrTooManyAssignments = errors.New("too many possible assignments")
)

type ValidationKind string

const (
	KindDuplicateContestantID      ValidationKind = "duplicate_contestant_id"
	KindUnknownGroup               ValidationKind = "unknown_group"
	KindUnknownContestant          ValidationKind = "unknown_contestant"
	KindWrongGroup                 ValidationKind = "wrong_group"
	KindDuplicateContestantInEvent ValidationKind = "duplicate_contestant_in_event"
	KindCorrectCountOutOfRange     ValidationKind = "correct_count_out_of_range"
	KindConflictingBinaryResults   ValidationKind = "conflicting_binary_results"
	KindAmbiguousForcedPairs       ValidationKind = "ambiguous_forced_pairs"
)

// ValidationError describes one structural defect in season input.
type ValidationError struct {
	Kind    ValidationKind
	Subject string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %s", ErrMalformedEvidence, e.Kind, e.Subject, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrMalformedEvidence }

func invalid(kind ValidationKind, subject, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

package plants

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("duplicate plant")
	ErrConsistency = errors.New("consistency fault")
	ErrExternal    = errors.New("external call failed")
	ErrBusy        = errors.New("plant is busy")
)

// Kind classifies an error returned by the plant workflows.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindConsistency
	KindExternal
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindConsistency:
		return "consistency"
	case KindExternal:
		return "external"
	case KindBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// KindOf maps err onto its Kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrConsistency):
		return KindConsistency
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrExternal):
		return KindExternal
	default:
		return KindUnknown
	}
}

// DuplicateError interrupts plant creation when another plant already has the plant id.
// Redirected tells whether the user chose to go to the existing plant.
type DuplicateError struct {
	PlantID    string
	Existing   string
	Redirected bool
}

func (e *DuplicateError) Error() string {
	if e.Redirected {
		return fmt.Sprintf("plant id %s already belongs to %s: redirected", e.PlantID, e.Existing)
	}
	return fmt.Sprintf("plant id %s already belongs to %s: cancelled", e.PlantID, e.Existing)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func consistencyf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConsistency, fmt.Sprintf(format, args...))
}

func external(step string, err error) error {
	return fmt.Errorf("%s: %w: %w", step, ErrExternal, err)
}

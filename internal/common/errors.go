package common

import (
	"errors"
	"fmt"
)

// Domain errors - use errors.Is() to check
var (
	ErrInternal   = errors.New("internal error")
	ErrBadRequest = errors.New("bad request")

	// Startup faults
	ErrConfig = errors.New("configuration error")

	// Pipeline faults
	ErrValidation = errors.New("validation error")
	ErrUpstream   = errors.New("upstream error")
	ErrRender     = errors.New("render error")

	ErrFontMissing  = fmt.Errorf("font %w", ErrRender)
	ErrEmptyOutput  = fmt.Errorf("empty completion: %w", ErrUpstream)
	ErrNotPDFOutput = fmt.Errorf("output is not a pdf: %w", ErrRender)
)

// Kind classifies a pipeline failure so the transport can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUpstream
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindRender:
		return "render"
	default:
		return "internal"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindUpstream:
		return ErrUpstream
	case KindRender:
		return ErrRender
	default:
		return ErrInternal
	}
}

// Error is the result of a failed pipeline step.
// Error() yields the underlying message unchanged so it can be shown to the caller.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for the kind sentinels
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validation wraps err as a client-side validation failure
func Validation(op string, err error) error {
	return newError(KindValidation, op, err)
}

// Upstream wraps err as a text-completion failure
func Upstream(op string, err error) error {
	return newError(KindUpstream, op, err)
}

// Render wraps err as a rendering or read-back failure
func Render(op string, err error) error {
	return newError(KindRender, op, err)
}

// WrapInternal wraps an error as an internal error with context
func WrapInternal(operation string, err error) error {
	return newError(KindInternal, operation, err)
}

// KindOf returns the kind of the first *Error in err's chain.
// Bare sentinels are recognised too.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, ErrRender):
		return KindRender
	default:
		return KindInternal
	}
}

// IsValidation checks if error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUpstream checks if error came from the text-completion call
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsRender checks if error came from pdf rendering or read-back
func IsRender(err error) bool {
	return errors.Is(err, ErrRender)
}

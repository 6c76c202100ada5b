package codegen

import (
	"fmt"

	"github.com/chazu/yailc/pkg/ast"
	"github.com/pkg/errors"
)

// Emission failures. Every error returned by the Emitter is an *Error whose
// Kind is one of these.
var (
	ErrUnresolvedType       = errors.New("unresolved component type")
	ErrUnresolvedMember     = errors.New("unresolved signature member")
	ErrUnboundSocket        = errors.New("unbound required socket")
	ErrUnmatchedAPIFunction = errors.New("unmatched API function")
	ErrInvalidBinding       = errors.New("invalid component binding")
	ErrUnsupportedBlock     = errors.New("unsupported block")
)

// Error ties an emission failure to the block that caused it.
type Error struct {
	Kind    error
	BlockID string
	Block   ast.Kind
	Detail  string
	cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %v", e.Block, e.Kind)
	if e.BlockID != "" {
		s = fmt.Sprintf("block %s (%s): %v", e.BlockID, e.Block, e.Kind)
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

// Is matches the error's Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind error, b ast.Block, detail string, cause error) *Error {
	e := &Error{Kind: kind, Detail: detail, cause: cause}
	if b != nil {
		e.BlockID = b.ID()
		e.Block = b.Kind()
	}
	return e
}

func errorf(kind error, b ast.Block, format string, args ...any) *Error {
	return newError(kind, b, fmt.Sprintf(format, args...), nil)
}

// blockError returns err unchanged if it already is an *Error, and wraps it
// with kind otherwise.
func blockError(kind error, b ast.Block, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return newError(kind, b, err.Error(), err)
}

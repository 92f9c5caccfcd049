package osc

import (
	"errors"
	"fmt"
)

// Error discriminants returned by the codec. Most fallible operations
// wrap one of these with fmt.Errorf for context; a few return the
// sentinel itself or an UnexpectedTypeError. Either way callers can
// test with errors.Is.
var (
	ErrCapacity        = errors.New("osc: capacity exceeded")
	ErrTruncated       = errors.New("osc: truncated input")
	ErrMisaligned      = errors.New("osc: size not a multiple of 4")
	ErrInvalidAddress  = errors.New("osc: invalid address pattern")
	ErrInvalidContents = errors.New("osc: invalid packet contents")
	ErrInvalidEscape   = errors.New("osc: invalid SLIP escape sequence")
	ErrUnexpectedType  = errors.New("osc: unexpected argument type")
	ErrNegativeSize    = errors.New("osc: negative size")
	ErrNoHandler       = errors.New("osc: no handler registered")

	// ErrFrameDropped wraps ErrCapacity when a SLIP frame overruns the
	// decoder buffer before its terminating END byte arrives; the
	// corrupted frame is discarded rather than handed to the handler.
	ErrFrameDropped = fmt.Errorf("osc: SLIP frame dropped after buffer overrun: %w", ErrCapacity)
)

// UnexpectedTypeError reports the type tag a Get<Kind> call expected
// against the one actually found at the message's tag cursor.
type UnexpectedTypeError struct {
	Want byte // expected type tag, e.g. 'i'
	Got  byte // type tag found at the cursor, 0 if no argument was available
}

var _ error = (*UnexpectedTypeError)(nil)

func (e *UnexpectedTypeError) Error() string {
	if e.Got == 0 {
		return fmt.Sprintf("osc: expected type tag %q, no argument available", e.Want)
	}
	return fmt.Sprintf("osc: expected type tag %q, got %q", e.Want, e.Got)
}

func (e *UnexpectedTypeError) Unwrap() error { return ErrUnexpectedType }

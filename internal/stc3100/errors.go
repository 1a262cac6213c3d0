package stc3100

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by New when the options are out of range.
	ErrInvalidConfig = errors.New("stc3100: invalid configuration")

	// ErrShortRead is wrapped in a TransportError when the bus returns fewer
	// bytes than requested.
	ErrShortRead = errors.New("short read")

	// ErrUnexpectedPartID is returned by Probe when the part-type register
	// does not identify an STC3100.
	ErrUnexpectedPartID = errors.New("stc3100: unexpected part id")
)

// TransportError reports a failed bus transaction and the register involved.
type TransportError struct {
	Op  string
	Reg byte
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("stc3100: %s reg 0x%02X: %v", e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

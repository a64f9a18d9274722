package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAllDevicesFailed is returned when no device produced usable data
	ErrAllDevicesFailed = errors.New("collection failed for every device")
	// ErrInvalidRecord marks input that violates the parser's output contract
	ErrInvalidRecord = errors.New("invalid device record")
)

// SessionError wraps a failure talking to a device
type SessionError struct {
	Device  string
	Command string
	Err     error
}

func (e *SessionError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("session %s: %v", e.Device, e.Err)
	}
	return fmt.Sprintf("session %s: %q: %v", e.Device, e.Command, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// ParseError describes a line of command output that could not be interpreted
type ParseError struct {
	Device  string `json:"device,omitempty"`
	Command string `json:"command"`
	LineNo  int    `json:"line_no"`
	Line    string `json:"line"`
	Reason  string `json:"reason"`
}

func (e *ParseError) Error() string {
	prefix := e.Command
	if e.Device != "" {
		prefix = e.Device + ": " + prefix
	}
	return fmt.Sprintf("%s: line %d: %s: %q", prefix, e.LineNo, e.Reason, e.Line)
}

// AssemblyContractViolation means the assembler was handed structurally
// invalid data. It is a programming error between stages and aborts the run.
type AssemblyContractViolation struct {
	Reason string
}

func (e *AssemblyContractViolation) Error() string {
	return "assembly contract violation: " + e.Reason
}

// IsContractViolation reports whether err is or wraps an AssemblyContractViolation
func IsContractViolation(err error) bool {
	var v *AssemblyContractViolation
	return errors.As(err, &v)
}

package oci

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a failed client library call.
type Error struct {
	Op      string
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: ORA-%05d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NewError returns a library call failure without an error code.
func NewError(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedError reports a feature this build or this binding doesn't provide.
type UnsupportedError struct {
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported", e.Feature)
}

// ConsistencyError reports a runtime type that disagrees with the described one.
type ConsistencyError struct {
	Attribute string
	Described TypeCode
	Actual    TypeCode
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("unexpected type structure: attribute %s described as %s, got %s", e.Attribute, e.Described, e.Actual)
}

// ConfigurationError reports an invalid bind setup.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func IsNative(err error) bool {
	var target *Error
	return errors.As(err, &target)
}

func IsUnsupported(err error) bool {
	var target *UnsupportedError
	return errors.As(err, &target)
}

func IsConsistency(err error) bool {
	var target *ConsistencyError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// Package apperror defines the typed errors that abort a database setup run.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a setup failure. Every kind is fatal for the suite.
type Kind int

const (
	KindConfiguration Kind = iota
	KindConfigurationMismatch
	KindUnsupportedPlatform
	KindProjectRootNotFound
	KindExternalCommand
	KindAssertionFailure
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindConfigurationMismatch:
		return "ConfigurationMismatch"
	case KindUnsupportedPlatform:
		return "UnsupportedPlatformError"
	case KindProjectRootNotFound:
		return "ProjectRootNotFoundError"
	case KindExternalCommand:
		return "ExternalCommandError"
	case KindAssertionFailure:
		return "AssertionFailure"
	default:
		return "UnknownError"
	}
}

// Error is a setup failure of a given Kind.
type Error struct {
	Kind    Kind
	Message string
	// Key is the offending configuration key, when there is one.
	Key string
	// Code and Output are set for external command failures.
	Code   int
	Output []string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Output) > 0 {
		msg = fmt.Sprintf("%s:\n\n%s", msg, strings.Join(e.Output, "\n"))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configuration reports a missing or invalid configuration value at key.
func Configuration(key, message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Key: key}
}

// ConfigurationMismatch reports an application not pointing at the testing database.
func ConfigurationMismatch(message string) *Error {
	return &Error{Kind: KindConfigurationMismatch, Message: message}
}

// UnsupportedPlatform reports a detected platform that has no safety check.
func UnsupportedPlatform(platform string) *Error {
	return &Error{
		Kind:    KindUnsupportedPlatform,
		Message: fmt.Sprintf("%s detected. This is currently not supported.", platform),
	}
}

// ProjectRootNotFound reports that no platform marker exists above anchor.
func ProjectRootNotFound(anchor string) *Error {
	return &Error{
		Kind:    KindProjectRootNotFound,
		Message: fmt.Sprintf("failed finding project root above %s", anchor),
	}
}

// ExternalCommand reports a failed client command with its exit code and output.
func ExternalCommand(message string, code int, output []string, err error) *Error {
	return &Error{Kind: KindExternalCommand, Message: message, Code: code, Output: output, Err: err}
}

// AssertionFailure reports a custom assertion that did not return a count of 1.
func AssertionFailure(message string) *Error {
	return &Error{Kind: KindAssertionFailure, Message: message}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

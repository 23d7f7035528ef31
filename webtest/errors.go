package webtest

import "fmt"

// PreconditionError is reported when an assertion or guarded accessor is used before any
// request has been opened on the Case.
type PreconditionError struct {
	Method string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf(`You have to call Open first before run "%s" method.`, e.Method)
}

// AssertionError is a failed assertion.
type AssertionError struct {
	Assertion string
	Expected  interface{}
	Actual    interface{}
	Message   string
}

func (e *AssertionError) Error() string {
	return e.Message
}

func fail(assertion string, expected, actual interface{}, format string, args ...interface{}) error {
	return &AssertionError{
		Assertion: assertion,
		Expected:  expected,
		Actual:    actual,
		Message:   fmt.Sprintf(format, args...),
	}
}

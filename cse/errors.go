package cse

import (
	"errors"
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// RequestError is the outermost error returned by RestClient when a call fails. It wraps
// either a transport error or an *InvocationError.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// InvocationError reports a response with a non-2xx status. It wraps the *ServiceError that
// the provider described in the response body.
type InvocationError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *InvocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Reason, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ServiceError is the error raised inside the provider, as reported in a response body.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// RootCause follows the chain of wrapped errors to the innermost one.
func RootCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// newInvocationError builds the error for a failed response. A JSON body with a "message"
// property becomes a ServiceError; any other non-empty body is used as the message verbatim.
func newInvocationError(statusCode int, reason string, body []byte) *InvocationError {
	ie := &InvocationError{StatusCode: statusCode, Reason: reason}
	if len(body) == 0 {
		return ie
	}
	parsed := ldvalue.Parse(body)
	if message := parsed.GetByKey("message"); message.IsString() {
		ie.Err = &ServiceError{
			Code:    parsed.GetByKey("code").StringValue(),
			Message: message.StringValue(),
		}
		return ie
	}
	ie.Err = &ServiceError{Message: string(body)}
	return ie
}

package client

import (
	"errors"
	"fmt"

	"github.com/Sternrassler/vimeo-client/pkg/mapping"
	"github.com/Sternrassler/vimeo-client/pkg/transport"
)

// ErrorKind classifies dispatch failures.
type ErrorKind string

const (
	// KindMalformedResponse: the payload is not a JSON object, or a cache-only
	// request found nothing in the cache.
	KindMalformedResponse ErrorKind = "malformed_response"

	// KindMappingFailed: the payload could not be mapped into the result type.
	KindMappingFailed ErrorKind = "mapping_failed"

	// KindTransport: the transport reported a failure.
	KindTransport ErrorKind = "transport_error"

	// KindNoMappingClass: the result type is a collection of an unregistered model.
	KindNoMappingClass ErrorKind = "no_mapping_class"
)

// Sentinel errors matched by errors.Is against a *ClientError of the same kind.
var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrMappingFailed     = errors.New("mapping failed")
	ErrTransport         = errors.New("transport error")
	ErrNoMappingClass    = mapping.ErrNoMappingClass
)

// ErrNoMorePages is returned by Pager.Next after the last page.
var ErrNoMorePages = errors.New("no more pages")

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindMappingFailed:
		return ErrMappingFailed
	case KindTransport:
		return ErrTransport
	case KindNoMappingClass:
		return ErrNoMappingClass
	default:
		return nil
	}
}

// ClientError is the failure delivered by a dispatch.
type ClientError struct {
	Kind    ErrorKind
	Message string

	// StatusCode is the HTTP status of a transport failure, 0 otherwise.
	StatusCode int

	Err error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vimeo client %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("vimeo client %s: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the error's kind.
func (e *ClientError) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

func newError(kind ErrorKind, message string, err error) *ClientError {
	return &ClientError{Kind: kind, Message: message, Err: err}
}

// transportError wraps a transport failure, keeping its HTTP status.
func transportError(err error) *ClientError {
	ce := newError(KindTransport, "request failed", err)

	var te *transport.Error
	if errors.As(err, &te) {
		ce.StatusCode = te.StatusCode
		ce.Message = string(te.ErrorClass) + " failure"
	}
	return ce
}

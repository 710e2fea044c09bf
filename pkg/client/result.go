package client

import (
	"github.com/Sternrassler/vimeo-client/pkg/request"
)

// Source tells where a delivered response came from.
type Source string

const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
)

// Response is a successfully mapped payload.
type Response[T any] struct {
	// Model is the mapped value.
	Model T

	// NextPageRequest fetches the following page, nil on the last page.
	NextPageRequest *request.Request[T]

	// Source is SourceCache for cached payloads and SourceNetwork otherwise.
	Source Source
}

// Result is the outcome of a dispatch: a Response or a *ClientError.
// Exactly one of the two is present.
type Result[T any] struct {
	response Response[T]
	err      *ClientError
}

// Success creates a successful Result.
func Success[T any](resp Response[T]) Result[T] {
	return Result[T]{response: resp}
}

// Failure creates a failed Result. A nil err is replaced by a generic
// transport error so the result stays a failure.
func Failure[T any](err *ClientError) Result[T] {
	if err == nil {
		err = newError(KindTransport, "unknown failure", nil)
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the result carries a Response.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Response returns the response of a successful result.
func (r Result[T]) Response() (Response[T], bool) {
	return r.response, r.err == nil
}

// Err returns the failure, nil for successes.
func (r Result[T]) Err() *ClientError {
	return r.err
}

// Unwrap returns the response or the failure as an error.
func (r Result[T]) Unwrap() (Response[T], error) {
	if r.err != nil {
		return Response[T]{}, r.err
	}
	return r.response, nil
}

// Match calls onSuccess or onFailure depending on the outcome.
func (r Result[T]) Match(onSuccess func(Response[T]), onFailure func(*ClientError)) {
	if r.err != nil {
		onFailure(r.err)
		return
	}
	onSuccess(r.response)
}

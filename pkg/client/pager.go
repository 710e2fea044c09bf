package client

import (
	"context"

	"github.com/Sternrassler/vimeo-client/pkg/request"
)

// Pager walks a paged list one page per Next call. It never fetches ahead.
// A Pager is not safe for concurrent use.
type Pager[T any] struct {
	client *Client
	next   *request.Request[T]
	pages  int
}

// NewPager creates a Pager starting at first.
func NewPager[T any](c *Client, first request.Request[T]) *Pager[T] {
	return &Pager[T]{client: c, next: &first}
}

// HasNext reports whether another page can be fetched.
func (p *Pager[T]) HasNext() bool {
	return p.next != nil
}

// Next fetches the next page. After a failure the same page is fetched
// again on the following call. It returns ErrNoMorePages after the last page.
func (p *Pager[T]) Next(ctx context.Context) (Response[T], error) {
	if p.next == nil {
		return Response[T]{}, ErrNoMorePages
	}

	resp, err := Fetch(p.client, ctx, *p.next).Unwrap()
	if err != nil {
		return Response[T]{}, err
	}

	p.next = resp.NextPageRequest
	p.pages++
	return resp, nil
}

// Pages returns the number of pages fetched so far.
func (p *Pager[T]) Pages() int {
	return p.pages
}

// Package pagination derives next-page requests from list payloads.
//
// Vimeo list responses carry a paging envelope next to the "data" array:
//
//	{"total": 90, "page": 1, "per_page": 25,
//	 "paging": {"next": "/me/videos?page=2", "previous": null, ...},
//	 "data": [...]}
//
// A Chainer reads the next link and builds a request that differs from the
// current one only in its path. Method, parameters, cache fetch policy, model
// key path and the caching flag carry over. The link's own query string wins
// over carried parameters when the transport merges them.
//
// Example usage:
//
//	ch := pagination.NewChainer(pagination.DefaultNextKeyPath)
//	next, ok := pagination.Next(ch, payload, req)
//	if ok {
//		// dispatch next when the caller asks for another page
//	}
//
// Walking stays caller driven: nothing in this package fetches pages.
package pagination

// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import "github.com/httpmodel/fetch/header"

// A Response is the buffered result of one executed request.
//
// The entire response body is read before the Response is returned, so
// the caller never deals with streaming, connection reuse, or close
// semantics. A Response is inert data and is safe to copy and share.
type Response struct {
	// StatusCode is the HTTP status code, e.g. 200.
	StatusCode int
	// Status is the full status line text, e.g. "200 OK".
	Status string
	// Header holds the response headers. Since the lower-level
	// transport reports headers as an unordered map, fields appear in
	// sorted name order.
	Header *header.Header
	// Body is the complete response body. It is never nil on a
	// successful exchange, but may have zero length.
	Body []byte
	// URL is the canonical string form of the URL that produced this
	// response, after any redirects.
	URL string
	// Redirected indicates whether the exchange followed at least one
	// redirect before producing this response.
	Redirected bool
}

// OK reports whether the response status code is in the 2XX range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

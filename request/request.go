// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"

	"github.com/httpmodel/fetch/body"
	"github.com/httpmodel/fetch/header"
)

// A Request is the normalized value object describing one outbound
// HTTP request.
//
// A Request is built once by New from heterogeneous caller input and is
// read-only thereafter, with one deliberate exception: the method may
// be reassigned via SetMethod. The request owns its header container
// and body outright; it never aliases storage supplied by the caller,
// and Clone never shares mutable state with its source.
//
// The redirect policy fields (Redirect, Follow, Counter) are carried as
// configuration only. The Request itself never follows a redirect; that
// is the job of a client driving the request, such as fetch.Client.
type Request struct {
	url      *urlpkg.URL
	method   string
	header   *header.Header
	body     *body.Body
	redirect RedirectPolicy
	follow   int
	compress bool
	counter  int
	agent    http.RoundTripper
	timeout  time.Duration
	size     int64
}

// URL re-serializes the request's parsed URL into its canonical
// absolute-or-relative string form. An absolute URL with an empty path
// serializes with the root path, so constructing a request from
// "http://example.com" yields "http://example.com/".
func (r *Request) URL() string {
	u := *r.url
	if u.Host != "" && u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// ParsedURL returns a copy of the request's parsed URL. Mutating the
// returned value does not affect the request.
func (r *Request) ParsedURL() *urlpkg.URL {
	u := *r.url
	return &u
}

// Method returns the HTTP method. It is always upper-case.
func (r *Request) Method() string {
	return r.method
}

// SetMethod reassigns the HTTP method, upper-casing it first.
//
// SetMethod performs no other validation. In particular, the rule that
// a GET or HEAD request cannot carry a body is enforced by New only;
// reassigning the method of a request which already has a body is not
// re-checked.
func (r *Request) SetMethod(method string) {
	r.method = strings.ToUpper(method)
}

// Header returns the request's own header container. The container is
// private to the request: it was copied from the caller's input at
// construction. The caller may mutate the returned container to adjust
// the headers this request will send.
func (r *Request) Header() *header.Header {
	return r.header
}

// Body returns the request payload, or nil if the request has none.
func (r *Request) Body() *body.Body {
	return r.body
}

// Redirect returns the redirect policy. It is immutable after
// construction.
func (r *Request) Redirect() RedirectPolicy {
	return r.redirect
}

// Follow returns the maximum number of redirect hops permitted when
// the redirect policy is RedirectFollow.
func (r *Request) Follow() int {
	return r.follow
}

// Compress reports whether response decompression should be advertised
// as acceptable via the Accept-Encoding header.
func (r *Request) Compress() bool {
	return r.compress
}

// Counter returns the number of redirect hops already taken to arrive
// at this request. It is zero for a request which is not the product of
// a redirect.
func (r *Request) Counter() int {
	return r.counter
}

// Agent returns the connection agent the transport should use, or nil
// if none was supplied.
func (r *Request) Agent() http.RoundTripper {
	return r.agent
}

// Timeout returns the total exchange timeout, with zero meaning
// unlimited. The request carries the value as configuration; enforcing
// it is the driving client's job.
func (r *Request) Timeout() time.Duration {
	return r.timeout
}

// Size returns the maximum acceptable response body size in bytes,
// with zero meaning unlimited. The request carries the value as
// configuration; enforcing it is the driving client's job.
func (r *Request) Size() int64 {
	return r.size
}

// Clone returns a new Request built by re-running construction with r
// as the input. The clone shares no mutable state with r: it has a
// fresh header copy and an independently consumable body duplicate.
//
// Cloning fails if the body cannot be duplicated, for example because
// its stream has already been consumed.
func (r *Request) Clone() (*Request, error) {
	return New(r, nil)
}

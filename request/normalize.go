// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/httpmodel/fetch/body"
	"github.com/httpmodel/fetch/header"
)

const (
	// DefaultMethod is the HTTP method used when neither the options
	// nor the input supply one.
	DefaultMethod = "GET"
	// DefaultFollow is the maximum redirect hop count used when neither
	// the options nor the input supply one.
	DefaultFollow = 20
)

// ErrBodyNotAllowed indicates a construction attempt pairing a request
// body with a method that must not carry one (GET or HEAD).
var ErrBodyNotAllowed = errors.New("fetch/request: request with GET/HEAD method cannot have body")

const badInputMsg = "fetch/request: invalid input (use a URL string, " +
	"*url.URL, fmt.Stringer or *Request)"

// Options carries the caller-facing construction options recognized by
// New. The zero value of every field means "unset": an unset field
// inherits its value from the input when the input is an existing
// *Request, and falls back to its documented default otherwise.
type Options struct {
	// Method overrides the inherited or default HTTP method. It is
	// upper-cased during normalization. Default "GET".
	Method string

	// Body is the request payload source. It may be a *body.Body, or
	// any source value accepted by body.New (string, []byte,
	// url.Values, io.Reader, io.ReadCloser). A body is forbidden when
	// the resolved method is GET or HEAD. Default absent.
	Body interface{}

	// Header seeds the request's private header container. The
	// container is copied during normalization; the request never
	// aliases the value supplied here. When set, it replaces (not
	// merges with) headers inherited from an input request. Default
	// empty.
	Header *header.Header

	// Redirect selects the redirect policy. Default RedirectFollow.
	Redirect RedirectPolicy

	// Follow caps the number of redirect hops. Use Int to set an
	// explicit value, including zero. Default 20.
	Follow *int

	// Compress controls whether response decompression is advertised
	// as acceptable. Use Bool to set an explicit value, including
	// false. Default true.
	Compress *bool

	// Counter is the number of redirect hops already taken. It is
	// bookkeeping for a redirect-following client, not something most
	// callers set. Default 0.
	Counter int

	// Agent is an opaque connection agent for the transport to use in
	// place of its default. Default none.
	Agent http.RoundTripper

	// Timeout is the total exchange timeout. Default 0 (unlimited).
	Timeout time.Duration

	// Size is the maximum acceptable response body size in bytes.
	// Default 0 (unlimited).
	Size int64
}

// Bool returns a pointer to b, for Options fields which distinguish an
// unset value from an explicit zero value.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to i, for Options fields which distinguish an
// unset value from an explicit zero value.
func Int(i int) *int {
	return &i
}

// New normalizes heterogeneous caller input into a Request.
//
// Parameter input identifies the target URL. It may be a URL string, a
// *url.URL, any fmt.Stringer whose String method yields a URL
// reference, or an existing *Request to derive from. Any other non-nil
// value is coerced to text and parsed as a URL. The URL need not be
// absolute; it must become absolute before outbound options can be
// built from the request.
//
// Parameter opts may be nil, which is equivalent to the zero Options.
// Each option field is resolved independently: the option value wins if
// set, an existing *Request input is consulted next, and the documented
// default applies last. Deriving from an existing request duplicates
// its body, so the new request and the input remain independently
// consumable.
//
// New fails with an error wrapping ErrBodyNotAllowed when a body is
// present and the resolved method is GET or HEAD.
//
// When a body is present and the caller supplied no Content-Type
// header, one is inferred from the body source and set on the request's
// header copy. A caller-supplied value is never overwritten.
func New(input interface{}, opts *Options) (*Request, error) {
	if opts == nil {
		opts = &Options{}
	}
	base, _ := input.(*Request)
	u, err := resolveURL(input)
	if err != nil {
		return nil, err
	}
	method := resolveMethod(opts, base)
	b, err := resolveBody(opts, base)
	if err != nil {
		return nil, err
	}
	if b != nil && (method == "GET" || method == "HEAD") {
		return nil, errors.Wrapf(ErrBodyNotAllowed, "method %s", method)
	}
	h := resolveHeader(opts, base)
	if b != nil && !h.Has("Content-Type") {
		if ct := b.ContentType(); ct != "" {
			h.Set("Content-Type", ct)
		}
	}
	return &Request{
		url:      u,
		method:   method,
		header:   h,
		body:     b,
		redirect: resolveRedirect(opts, base),
		follow:   resolveFollow(opts, base),
		compress: resolveCompress(opts, base),
		counter:  resolveCounter(opts, base),
		agent:    resolveAgent(opts, base),
		timeout:  resolveTimeout(opts, base),
		size:     resolveSize(opts, base),
	}, nil
}

// resolveURL discriminates the input type once, up front, and produces
// the parsed URL. An existing request input contributes a copy of its
// already-parsed URL; everything else is reduced to a string and
// parsed.
func resolveURL(input interface{}) (*urlpkg.URL, error) {
	switch x := input.(type) {
	case nil:
		return nil, errors.New(badInputMsg)
	case *Request:
		u := *x.url
		return &u, nil
	case string:
		return parseURL(x)
	case *urlpkg.URL:
		return parseURL(x.String())
	case fmt.Stringer:
		return parseURL(x.String())
	default:
		return parseURL(fmt.Sprint(x))
	}
}

func parseURL(url string) (*urlpkg.URL, error) {
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, errors.Wrap(err, "fetch/request: parsing url")
	}
	u.Host = removeEmptyPort(u.Host)
	return u, nil
}

// resolveMethod resolves the HTTP method: options first, then an
// existing request input, then DefaultMethod. The result is always
// upper-case.
func resolveMethod(opts *Options, base *Request) string {
	if opts.Method != "" {
		return strings.ToUpper(opts.Method)
	}
	if base != nil {
		return base.method
	}
	return DefaultMethod
}

// resolveBody resolves the payload: an option body wins outright; an
// existing request input contributes an independently consumable
// duplicate of its body; otherwise the payload is absent.
func resolveBody(opts *Options, base *Request) (*body.Body, error) {
	if opts.Body != nil {
		if b, ok := opts.Body.(*body.Body); ok {
			return b, nil
		}
		return body.New(opts.Body)
	}
	if base != nil && base.body != nil {
		return base.body.Clone()
	}
	return nil, nil
}

// resolveHeader resolves the header container. The request always
// receives a private copy: of the option container if set, else of the
// input request's container, else a fresh empty one.
func resolveHeader(opts *Options, base *Request) *header.Header {
	if opts.Header != nil {
		return opts.Header.Clone()
	}
	if base != nil {
		return base.header.Clone()
	}
	return header.New()
}

func resolveRedirect(opts *Options, base *Request) RedirectPolicy {
	if opts.Redirect != RedirectDefault {
		return opts.Redirect
	}
	if base != nil {
		return base.redirect
	}
	return RedirectFollow
}

func resolveFollow(opts *Options, base *Request) int {
	if opts.Follow != nil {
		return nonNegative(*opts.Follow)
	}
	if base != nil {
		return base.follow
	}
	return DefaultFollow
}

func resolveCompress(opts *Options, base *Request) bool {
	if opts.Compress != nil {
		return *opts.Compress
	}
	if base != nil {
		return base.compress
	}
	return true
}

func resolveCounter(opts *Options, base *Request) int {
	if opts.Counter != 0 {
		return nonNegative(opts.Counter)
	}
	if base != nil {
		return base.counter
	}
	return 0
}

func resolveAgent(opts *Options, base *Request) http.RoundTripper {
	if opts.Agent != nil {
		return opts.Agent
	}
	if base != nil {
		return base.agent
	}
	return nil
}

func resolveTimeout(opts *Options, base *Request) time.Duration {
	if opts.Timeout != 0 {
		return opts.Timeout
	}
	if base != nil {
		return base.timeout
	}
	return 0
}

func resolveSize(opts *Options, base *Request) int64 {
	if opts.Size != 0 {
		return opts.Size
	}
	if base != nil {
		return base.size
	}
	return 0
}

func nonNegative(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}

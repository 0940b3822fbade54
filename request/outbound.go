// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net"
	"net/http"
	urlpkg "net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/httpmodel/fetch/body"
	"github.com/httpmodel/fetch/header"
)

// DefaultUserAgent is the User-Agent value sent when the caller
// supplies none.
const DefaultUserAgent = "fetch-go/1.0 (+https://github.com/httpmodel/fetch)"

const acceptEncoding = "gzip,deflate"

var (
	// ErrInvalidURL indicates a request whose URL lacks a scheme or a
	// host, so no transport connection can be derived from it.
	ErrInvalidURL = errors.New("fetch/request: url must be absolute with a scheme and host")
	// ErrUnsupportedProtocol indicates a request whose URL scheme is
	// neither http nor https.
	ErrUnsupportedProtocol = errors.New("fetch/request: only http and https schemes are supported")
)

// OutboundOptions is the transport-ready record derived from a
// Request: the URL components to connect to, the resolved method, the
// headers in serialized wire form, and the connection agent, if any.
// It is the sole boundary artifact this package produces; issuing the
// network call with it is the transport's job.
type OutboundOptions struct {
	// Scheme is the URL scheme, "http" or "https".
	Scheme string
	// Hostname is the host to connect to, without port or brackets.
	Hostname string
	// Port is the explicit port, or empty for the scheme default.
	Port string
	// Path is the request path. It is never empty; an absent path
	// resolves to "/".
	Path string
	// Query is the raw query string, without the leading "?". Empty
	// when the URL has no query.
	Query string
	// Method is the resolved HTTP method, always upper-case.
	Method string
	// Header holds the serialized header fields in insertion order.
	Header []header.Field
	// Agent is the connection agent for the transport to use, or nil.
	Agent http.RoundTripper
}

// URL reassembles the options' URL components into a parsed URL.
func (o *OutboundOptions) URL() *urlpkg.URL {
	host := o.Hostname
	if o.Port != "" {
		host = net.JoinHostPort(o.Hostname, o.Port)
	}
	return &urlpkg.URL{
		Scheme:   o.Scheme,
		Host:     host,
		Path:     o.Path,
		RawQuery: o.Query,
	}
}

// OutboundOptions translates the request into the exact set of options
// a lower-level HTTP transport needs to issue the call.
//
// The translation is pure: the request, including its header container,
// is read but never mutated, and repeated calls produce equal,
// independent records. All header defaulting works on a private copy
// and never overrides a caller-supplied value:
//
// • Accept defaults to "*/*".
//
// • Content-Length is set to "0" for a POST or PUT with no body, and
// to the body's total byte length when that length is computable. For
// a body of unknown length (an unbuffered stream) Content-Length is
// left unset and the transport is expected to frame the body itself.
//
// • User-Agent defaults to DefaultUserAgent.
//
// • Accept-Encoding is set to "gzip,deflate" when the request has
// compression enabled and the caller supplied no value. When
// compression is disabled the header is left entirely alone.
//
// • Connection defaults to "close" unless a connection agent was
// supplied.
//
// OutboundOptions fails with an error wrapping ErrInvalidURL when the
// request URL lacks a scheme or host, and with one wrapping
// ErrUnsupportedProtocol when the scheme is not http or https.
func (r *Request) OutboundOptions() (*OutboundOptions, error) {
	h := r.header.Clone()
	if !h.Has("Accept") {
		h.Set("Accept", "*/*")
	}
	u := r.url
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidURL, "%q", r.URL())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Wrapf(ErrUnsupportedProtocol, "scheme %q", u.Scheme)
	}
	contentLength := ""
	if r.body == nil && (r.method == "POST" || r.method == "PUT") {
		contentLength = "0"
	}
	if r.body != nil {
		if n := r.body.TotalBytes(); n != body.UnknownLength {
			contentLength = strconv.FormatInt(n, 10)
		}
	}
	if contentLength != "" {
		h.Set("Content-Length", contentLength)
	}
	if !h.Has("User-Agent") {
		h.Set("User-Agent", DefaultUserAgent)
	}
	if r.compress && !h.Has("Accept-Encoding") {
		h.Set("Accept-Encoding", acceptEncoding)
	}
	if !h.Has("Connection") && r.agent == nil {
		h.Set("Connection", "close")
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return &OutboundOptions{
		Scheme:   u.Scheme,
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Path:     path,
		Query:    u.RawQuery,
		Method:   r.method,
		Header:   h.Raw(),
		Agent:    r.agent,
	}, nil
}

// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import (
	urlpkg "net/url"

	"github.com/httpmodel/fetch/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes a normalized request and returns the buffered response
// (and error, if any). Client implements the Doer interface, and any
// other Doer implementation must behave substantially the same as
// Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(r *request.Request) (*Response, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get builds a GET request for the specified URL, executes it, and
// returns the buffered response (and error, if any).
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string) (*Response, error)
}

// Header is the interface that wraps the basic Head method.
//
// Head builds a HEAD request for the specified URL, executes it, and
// returns the buffered response (and error, if any).
//
// Any Doer can be used to emulate a Header via the Head function.
type Header interface {
	Head(url string) (*Response, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Post builds a POST request for the specified URL with the given
// content type and payload source, executes it, and returns the
// buffered response (and error, if any).
//
// The source parameter may be nil for an empty body, or may be any of
// the payload source types supported by body.New, namely: string;
// []byte; url.Values; io.Reader; and io.ReadCloser.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url, contentType string, source interface{}) (*Response, error)
}

// FormPoster is the interface that wraps the basic PostForm method.
//
// PostForm builds a POST request for the specified URL whose body is
// the URL-encoded keys and values from data, with content type
// application/x-www-form-urlencoded, executes it, and returns the
// buffered response (and error, if any).
//
// Any Doer can be used to emulate a FormPoster via the PostForm
// function.
type FormPoster interface {
	PostForm(url string, data urlpkg.Values) (*Response, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes connections which were opened by previous exchanges but are
// now sitting idle in a "keep-alive" state. It does not interrupt any
// connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the basic Do, Get, Head, Post,
// PostForm, and CloseIdleConnections methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Header
	Poster
	FormPoster
	IdleCloser
}

// Get uses the specified Doer to issue a GET to the specified URL,
// using the same policies as d.Do.
//
// To make a request with custom headers or options, use request.New
// and d.Do.
func Get(d Doer, url string) (*Response, error) {
	r, err := request.New(url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(r)
}

// Head uses the specified Doer to issue a HEAD to the specified URL,
// using the same policies as d.Do.
//
// To make a request with custom headers or options, use request.New
// and d.Do.
func Head(d Doer, url string) (*Response, error) {
	r, err := request.New(url, &request.Options{Method: "HEAD"})
	if err != nil {
		return nil, err
	}
	return d.Do(r)
}

// Post uses the specified Doer to issue a POST to the specified URL,
// using the same policies as d.Do.
//
// The source parameter may be nil for an empty body, or may be any of
// the payload source types supported by body.New, namely: string;
// []byte; url.Values; io.Reader; and io.ReadCloser.
//
// To make a request with custom headers or options, use request.New
// and d.Do.
func Post(d Doer, url, contentType string, source interface{}) (*Response, error) {
	r, err := request.New(url, &request.Options{Method: "POST", Body: source})
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		r.Header().Set("Content-Type", contentType)
	}
	return d.Do(r)
}

// PostForm uses the specified Doer to issue a POST to the specified
// URL, with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.New and d.Do.
func PostForm(d Doer, url string, data urlpkg.Values) (*Response, error) {
	return Post(d, url, "application/x-www-form-urlencoded", data.Encode())
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("fetch: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(r *request.Request) (*Response, error) {
	return i.doer.Do(r)
}

func (i inflated) Get(url string) (*Response, error) {
	return Get(i.doer, url)
}

func (i inflated) Head(url string) (*Response, error) {
	return Head(i.doer, url)
}

func (i inflated) Post(url, contentType string, source interface{}) (*Response, error) {
	return Post(i.doer, url, contentType, source)
}

func (i inflated) PostForm(url string, data urlpkg.Values) (*Response, error) {
	return PostForm(i.doer, url, data)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

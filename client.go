// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetch

import (
	"context"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/httpmodel/fetch/body"
	"github.com/httpmodel/fetch/header"
	"github.com/httpmodel/fetch/request"
)

var (
	// ErrTooManyRedirects indicates an exchange that was abandoned
	// because the redirect chain exceeded the request's Follow limit.
	ErrTooManyRedirects = errors.New("fetch: maximum redirect count exceeded")
	// ErrRedirectBlocked indicates a redirect response received by a
	// request whose redirect policy is RedirectError.
	ErrRedirectBlocked = errors.New("fetch: redirect blocked by policy")
	// ErrResponseTooLarge indicates a response body larger than the
	// request's Size limit.
	ErrResponseTooLarge = errors.New("fetch: response body exceeds size limit")
)

var template, _ = http.NewRequest("GET", "", nil)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
//
// An HTTPDoer used with Client must not follow redirects itself:
// redirect handling is Client's job, driven by the policy on each
// request. When using http.Client as the HTTPDoer, set a CheckRedirect
// function returning http.ErrUseLastResponse.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response, following
	// the contract documented on the GoLang standard library
	// http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

var defaultDoer HTTPDoer = &http.Client{CheckRedirect: useLastResponse}

func useLastResponse(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// A Client executes normalized requests. Its zero value is a valid
// configuration which uses a non-redirecting variant of the standard
// HTTP client as the HTTPDoer.
//
// Client adds the behavior the request model only carries as
// configuration: it enforces the redirect policy (follow up to the hop
// limit, fail, or hand the redirect response back untouched), applies
// the request timeout as a context deadline over the whole exchange,
// and caps the buffered response body at the request's size limit.
//
// Client is safe for concurrent use by multiple goroutines as long as
// its HTTPDoer is.
type Client struct {
	// HTTPDoer specifies the mechanics of sending one HTTP request and
	// receiving its response. If nil, a standard http.Client which
	// does not follow redirects is used. A request carrying an agent
	// bypasses the HTTPDoer for that exchange.
	HTTPDoer HTTPDoer
}

// Do executes a request and returns the buffered response.
//
// Do derives the transport options from the request (surfacing any URL
// validation error), sends the request, and acts on redirect responses
// according to the request's redirect policy. Following a redirect
// derives a successor request from the current one with its counter
// incremented; a 303 response, or a 301/302 response to a POST,
// rewrites the successor to a bodiless GET.
//
// An error is returned for transport failures, for redirect chains
// longer than the request's Follow limit (ErrTooManyRedirects), for
// redirects received under the RedirectError policy
// (ErrRedirectBlocked), and for response bodies exceeding the
// request's Size limit (ErrResponseTooLarge). A non-2XX status code is
// not an error.
func (c *Client) Do(r *request.Request) (*Response, error) {
	ctx := context.Background()
	if d := r.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	return c.do(ctx, r)
}

func (c *Client) do(ctx context.Context, r *request.Request) (*Response, error) {
	o, err := r.OutboundOptions()
	if err != nil {
		return nil, err
	}
	httpReq := toHTTPRequest(ctx, o, r.Body())
	resp, err := c.doer(o.Agent).Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: %s %s", o.Method, r.URL())
	}
	if isRedirect(resp.StatusCode) {
		switch r.Redirect() {
		case request.RedirectError:
			drain(resp)
			return nil, errors.Wrapf(ErrRedirectBlocked, "%s", r.URL())
		case request.RedirectManual:
			// The caller gets the 3XX response untouched.
		default:
			if location := resp.Header.Get("Location"); location != "" {
				return c.follow(ctx, r, resp, location)
			}
		}
	}
	return readResponse(r, resp)
}

// follow derives the successor request for a redirect response and
// executes it. It consumes and closes the redirect response body.
func (c *Client) follow(ctx context.Context, r *request.Request, resp *http.Response, location string) (*Response, error) {
	drain(resp)
	if r.Counter() >= r.Follow() {
		return nil, errors.Wrapf(ErrTooManyRedirects, "%d hops reaching %s", r.Counter(), r.URL())
	}
	locationURL, err := r.ParsedURL().Parse(location)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: resolving redirect location %q", location)
	}
	opts := &request.Options{
		Method:   r.Method(),
		Header:   r.Header(),
		Redirect: r.Redirect(),
		Follow:   request.Int(r.Follow()),
		Compress: request.Bool(r.Compress()),
		Counter:  r.Counter() + 1,
		Agent:    r.Agent(),
		Size:     r.Size(),
	}
	if rewriteToGet(resp.StatusCode, r.Method()) {
		opts.Method = "GET"
		h := r.Header().Clone()
		h.Del("Content-Length")
		h.Del("Content-Type")
		opts.Header = h
	} else if b := r.Body(); b != nil {
		dup, err := b.Clone()
		if err != nil {
			return nil, errors.Wrap(err, "fetch: duplicating body for redirect")
		}
		opts.Body = dup
	}
	next, err := request.New(locationURL.String(), opts)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, next)
}

// rewriteToGet reports whether a redirect must demote the successor
// request to a bodiless GET: always for 303, and for 301/302 when the
// original method was POST.
func rewriteToGet(statusCode int, method string) bool {
	if statusCode == http.StatusSeeOther {
		return true
	}
	return (statusCode == http.StatusMovedPermanently || statusCode == http.StatusFound) &&
		method == "POST"
}

func isRedirect(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// readResponse buffers the response body, honoring the request's size
// limit, and closes it.
func readResponse(r *request.Request, resp *http.Response) (*Response, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	var buf []byte
	var err error
	if limit := r.Size(); limit > 0 {
		buf, err = io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err == nil && int64(len(buf)) > limit {
			return nil, errors.Wrapf(ErrResponseTooLarge, "over %d bytes from %s", limit, r.URL())
		}
	} else {
		buf, err = io.ReadAll(resp.Body)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: reading response body from %s", r.URL())
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     header.FromHTTP(resp.Header),
		Body:       buf,
		URL:        r.URL(),
		Redirected: r.Counter() > 0,
	}, nil
}

// toHTTPRequest creates the HTTP request corresponding to the given
// transport options. The context of the new request is set to ctx.
func toHTTPRequest(ctx context.Context, o *request.OutboundOptions, b *body.Body) *http.Request {
	hr := template.WithContext(ctx)
	hr.Method = o.Method
	hr.URL = o.URL()
	hr.Header = httpHeader(o.Header)
	hr.Close = connectionClose(o.Header)
	if b != nil {
		hr.Body = b.Reader()
		if n := b.TotalBytes(); n != body.UnknownLength {
			hr.ContentLength = n
			hr.GetBody = func() (io.ReadCloser, error) {
				return b.Reader(), nil
			}
		} else {
			hr.ContentLength = -1
		}
	}
	return hr
}

func httpHeader(fields []header.Field) http.Header {
	hh := make(http.Header, len(fields))
	for _, f := range fields {
		values := make([]string, len(f.Values))
		copy(values, f.Values)
		hh[f.Name] = values
	}
	return hh
}

func connectionClose(fields []header.Field) bool {
	for _, f := range fields {
		if f.Name != "Connection" {
			continue
		}
		for _, value := range f.Values {
			for _, token := range strings.Split(value, ",") {
				if strings.EqualFold(strings.TrimSpace(token), "close") {
					return true
				}
			}
		}
	}
	return false
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// doer selects the transport for one exchange: the request's agent if
// it has one, else the configured HTTPDoer, else the default.
func (c *Client) doer(agent http.RoundTripper) HTTPDoer {
	if agent != nil {
		return &http.Client{Transport: agent, CheckRedirect: useLastResponse}
	}
	if c.HTTPDoer != nil {
		return c.HTTPDoer
	}
	return defaultDoer
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
//
// To make a request with custom headers or options, use request.New
// and Client.Do.
func (c *Client) Get(url string) (*Response, error) {
	return Get(c, url)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Do.
//
// To make a request with custom headers or options, use request.New
// and Client.Do.
func (c *Client) Head(url string) (*Response, error) {
	return Head(c, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do.
//
// The source parameter may be nil for an empty body, or may be any of
// the payload source types supported by body.New, namely: string;
// []byte; url.Values; io.Reader; and io.ReadCloser.
//
// To make a request with custom headers or options, use request.New
// and Client.Do.
func (c *Client) Post(url, contentType string, source interface{}) (*Response, error) {
	return Post(c, url, contentType, source)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.New and Client.Do.
func (c *Client) PostForm(url string, data urlpkg.Values) (*Response, error) {
	return PostForm(c, url, data)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.doer(nil).(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetch provides an HTTP client built around a normalized,
value-object request model.

Create a Client to begin making requests.

	client := &fetch.Client{}
	resp, err := client.Get("https://www.example.com")
	...
	resp, err := client.Post("https://www.example.com/upload",
		"application/json", &buf)
	...
	resp, err := client.PostForm("http://example.com/form",
		url.Values{"key": {"Value"}, "id": {"123"}})

For control over methods, headers, bodies, redirect policy, timeouts
and response size limits, build a request with package request and
execute it with Client.Do:

	r, err := request.New("https://www.example.com/upload", &request.Options{
		Method:   "POST",
		Body:     strings.NewReader(payload),
		Redirect: request.RedirectManual,
		Timeout:  10 * time.Second,
		Size:     1 << 20,
	})
	...
	resp, err := client.Do(r)

Client enforces what the request model only carries as configuration:
the redirect policy (following up to the hop limit with 303-style
method rewriting, failing on redirect, or returning the 3XX response
untouched), the exchange timeout, and the response body size cap.

For control over how individual HTTP requests are sent on the wire,
supply a custom HTTPDoer. The HTTPDoer must not follow redirects
itself; when wrapping http.Client, install a CheckRedirect function
returning http.ErrUseLastResponse:

	doer := &http.Client{
		Transport:     myTransport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	client := &fetch.Client{HTTPDoer: doer}

A note on compression: a request with compression enabled advertises
"Accept-Encoding: gzip,deflate" on the wire, but decoding a compressed
response body is the HTTPDoer's concern, not Client's.
*/
package fetch

// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request models a client-side HTTP request as a normalized,
mostly-immutable value, and translates that value into the exact
options a lower-level transport needs to issue the call.

Construct a request with New, which accepts a URL string, a *url.URL,
any fmt.Stringer, or an existing *Request to derive from, plus an
optional Options record:

	r, err := request.New("https://www.example.com/upload", &request.Options{
		Method: "POST",
		Body:   strings.NewReader(payload),
	})

New resolves each field independently, preferring the option value,
then the input request's value, then the documented default, and
enforces the construction invariants (upper-case method, no body on
GET/HEAD, private header copy, inferred Content-Type).

Translate a request for the transport with OutboundOptions, which
applies the protocol-mandated header defaults (Accept, Content-Length,
User-Agent, Accept-Encoding, Connection) and validates that the URL is
absolute with an http or https scheme:

	o, err := r.OutboundOptions()

The redirect policy carried by a request (Redirect, Follow, Counter) is
configuration for a redirect-following client such as fetch.Client;
package request never follows a redirect itself.
*/
package request

// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package body abstracts an outbound HTTP request payload.

A Body is constructed from a heterogeneous source value (string,
[]byte, url.Values, io.Reader, io.ReadCloser, or nil for the absent
payload) and answers the three questions the request model needs: what
media type the payload implies (ContentType), how many bytes it holds
(TotalBytes, which may be unknown for streams), and how to duplicate it
without consuming it (Clone).
*/
package body

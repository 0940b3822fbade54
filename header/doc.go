// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package header provides a case-insensitive, order-preserving HTTP
header container.

The container backs the request model in package request, which owns a
private Header per request and never aliases caller storage. Seed a
container from caller input with NewFromMap, which validates names and
values against the HTTP field grammar:

	h, err := header.NewFromMap(map[string][]string{
		"Accept":       {"application/json"},
		"X-Request-Id": {"abc123"},
	})

Mutate it with Set, Append and Del, and serialize it for the wire with
Raw, which preserves the order fields were first inserted in.
*/
package header

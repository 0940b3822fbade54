// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "github.com/pkg/errors"

// A RedirectPolicy tells a redirect-following client what to do when a
// response carries a 3XX status code. The Request only carries the
// policy; enforcement belongs to the client driving the request.
type RedirectPolicy int

const (
	// RedirectDefault is the zero value and means the policy was not
	// set. It resolves to RedirectFollow during normalization.
	RedirectDefault RedirectPolicy = iota
	// RedirectFollow directs the client to follow redirects up to the
	// request's Follow hop limit.
	RedirectFollow
	// RedirectError directs the client to fail the exchange when a
	// redirect is received.
	RedirectError
	// RedirectManual directs the client to return the redirect
	// response untouched, leaving the caller to act on it.
	RedirectManual
)

// String returns the policy's name. The unset policy stringifies as
// "follow", the value it resolves to.
func (p RedirectPolicy) String() string {
	switch p {
	case RedirectError:
		return "error"
	case RedirectManual:
		return "manual"
	default:
		return "follow"
	}
}

// ParseRedirectPolicy converts a policy name ("follow", "error" or
// "manual") to a RedirectPolicy.
func ParseRedirectPolicy(name string) (RedirectPolicy, error) {
	switch name {
	case "follow":
		return RedirectFollow, nil
	case "error":
		return RedirectError, nil
	case "manual":
		return RedirectManual, nil
	default:
		return RedirectDefault, errors.Errorf("fetch/request: unknown redirect policy %q", name)
	}
}

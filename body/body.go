// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package body

import (
	"bytes"
	"io"
	urlpkg "net/url"

	"github.com/pkg/errors"
)

const badSourceMsg = "fetch/body: invalid type (for source use nil, " +
	"string, []byte, url.Values, io.Reader or io.ReadCloser)"

// UnknownLength is returned by TotalBytes when the total byte length of
// the payload cannot be computed without consuming it, as for an
// open-ended stream.
const UnknownLength int64 = -1

// ErrConsumed indicates an attempt to clone a streaming body after its
// stream has already been handed out for consumption.
var ErrConsumed = errors.New("fetch/body: body stream already consumed")

// A Body is a request payload source.
//
// A Body is either buffered (constructed from a string, []byte or
// url.Values, or converted from a stream by Clone or Bytes) or
// streaming (constructed from an io.Reader or io.ReadCloser that has
// not yet been buffered). Buffered bodies have a known total length and
// may be read any number of times; a streaming body may be consumed
// exactly once.
//
// A nil *Body is valid and represents the absent payload; all methods
// are nil-safe.
type Body struct {
	buf         []byte
	stream      io.ReadCloser
	contentType string
	consumed    bool
}

// New converts a generic payload source into a Body.
//
// The source may be nil, or it may be a string, []byte, url.Values,
// io.Reader, or io.ReadCloser. The conversion logic is:
//
// • If source is nil, a nil Body (the absent payload) and no error is
// returned.
//
// • If source is a string, a buffered body holding the string's bytes
// is returned, with inferred content type "text/plain;charset=UTF-8".
//
// • If source is a []byte, a buffered body holding a copy of the slice
// is returned, with no inferred content type.
//
// • If source is a url.Values, a buffered body holding the URL-encoded
// form is returned, with inferred content type
// "application/x-www-form-urlencoded;charset=UTF-8".
//
// • If source is an io.Reader or io.ReadCloser, a streaming body is
// returned, with no inferred content type and an unknown total length.
// The reader is not consumed until the body is.
//
// • If source is any other type than those listed above, a nil Body
// and an error is returned.
func New(source interface{}) (*Body, error) {
	switch x := source.(type) {
	case nil:
		return nil, nil
	case string:
		return &Body{
			buf:         []byte(x),
			contentType: "text/plain;charset=UTF-8",
		}, nil
	case []byte:
		buf := make([]byte, len(x))
		copy(buf, x)
		return &Body{buf: buf}, nil
	case urlpkg.Values:
		return &Body{
			buf:         []byte(x.Encode()),
			contentType: "application/x-www-form-urlencoded;charset=UTF-8",
		}, nil
	case io.ReadCloser:
		return &Body{stream: x}, nil
	case io.Reader:
		return &Body{stream: io.NopCloser(x)}, nil
	default:
		return nil, errors.New(badSourceMsg)
	}
}

// ContentType returns the media type inferred from the payload source
// at construction, or the empty string when no type could be inferred
// (byte slices, streams, and the absent payload).
func (b *Body) ContentType() string {
	if b == nil {
		return ""
	}
	return b.contentType
}

// TotalBytes returns the total byte length of the payload, or
// UnknownLength if the body is an unbuffered stream whose length cannot
// be computed without consuming it. The absent payload has length 0.
func (b *Body) TotalBytes() int64 {
	if b == nil {
		return 0
	}
	if b.stream != nil {
		return UnknownLength
	}
	return int64(len(b.buf))
}

// Clone returns an independently consumable duplicate of the body. The
// clone and the original share no mutable state: either may be read
// without affecting the other.
//
// Cloning a streaming body drains the stream into an internal buffer
// once, converting both the original and the clone into buffered
// bodies; the stream itself is closed. Cloning fails with an error
// wrapping ErrConsumed if the stream was already handed out via Reader.
// Cloning the absent payload returns the absent payload.
func (b *Body) Clone() (*Body, error) {
	if b == nil {
		return nil, nil
	}
	if b.consumed {
		return nil, ErrConsumed
	}
	if b.stream != nil {
		if err := b.buffer(); err != nil {
			return nil, err
		}
	}
	return &Body{buf: b.buf, contentType: b.contentType}, nil
}

// Reader returns a reader over the payload. For a buffered body the
// reader covers the full payload and Reader may be called any number of
// times, each call yielding an independent reader. For a streaming body
// the underlying stream itself is returned, and it may be consumed
// exactly once; subsequent Clone calls fail with ErrConsumed.
//
// The caller owns the returned reader and is responsible for closing
// it.
func (b *Body) Reader() io.ReadCloser {
	if b == nil {
		return io.NopCloser(bytes.NewReader(nil))
	}
	if b.stream != nil {
		b.consumed = true
		return b.stream
	}
	return io.NopCloser(bytes.NewReader(b.buf))
}

// Bytes returns the full payload as a byte slice, draining and closing
// the underlying stream first if the body is streaming. After Bytes
// returns successfully the body is buffered: its length is known and it
// may be read and cloned freely. The returned slice must not be
// modified.
func (b *Body) Bytes() ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	if b.consumed {
		return nil, ErrConsumed
	}
	if b.stream != nil {
		if err := b.buffer(); err != nil {
			return nil, err
		}
	}
	return b.buf, nil
}

// buffer drains the stream into buf and closes it. The body becomes
// buffered.
func (b *Body) buffer() error {
	buf, err := io.ReadAll(b.stream)
	if err != nil {
		return errors.Wrap(err, "fetch/body: buffering stream")
	}
	if err := b.stream.Close(); err != nil {
		return errors.Wrap(err, "fetch/body: closing stream")
	}
	b.buf = buf
	b.stream = nil
	return nil
}

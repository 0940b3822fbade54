// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package header

import (
	"net/http"
	"net/textproto"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
)

var (
	// ErrInvalidName indicates a seed header field name which is not a
	// valid HTTP field name token per RFC 7230 §3.2.6.
	ErrInvalidName = errors.New("fetch/header: invalid header field name")
	// ErrInvalidValue indicates a seed header field value containing
	// bytes not permitted in an HTTP field value per RFC 7230 §3.2.
	ErrInvalidValue = errors.New("fetch/header: invalid header field value")
)

// A Header is a case-insensitive, insertion-order-preserving, multi-value
// collection of HTTP header fields.
//
// Unlike http.Header (net/http), which is a plain map, Header remembers
// the order in which field names were first added, so it can serialize
// fields onto the wire in a stable, caller-controlled order. Field name
// lookups are case-insensitive; names are stored in canonical form
// (see textproto.CanonicalMIMEHeaderKey).
//
// The zero value is not usable; construct instances with New or
// NewFromMap. Header is not safe for concurrent use by multiple
// goroutines.
type Header struct {
	fields []field
}

type field struct {
	name   string // canonical form
	values []string
}

// A Field is one serialized header field: a canonical name plus its
// one-or-more values in append order. Raw returns fields in insertion
// order.
type Field struct {
	Name   string
	Values []string
}

// New returns a new, empty Header.
func New() *Header {
	return &Header{}
}

// NewFromMap returns a new Header seeded with the given name→values
// mapping. Names are sorted before insertion so the resulting field
// order is deterministic.
//
// Every name and value is validated against the HTTP grammar; the first
// offender causes an error wrapping ErrInvalidName or ErrInvalidValue.
func NewFromMap(seed map[string][]string) (*Header, error) {
	h := New()
	names := make([]string, 0, len(seed))
	for name := range seed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, errors.Wrapf(ErrInvalidName, "%q", name)
		}
		for _, value := range seed[name] {
			if !httpguts.ValidHeaderFieldValue(value) {
				return nil, errors.Wrapf(ErrInvalidValue, "%q: %q", name, value)
			}
			h.Append(name, value)
		}
	}
	return h, nil
}

// FromHTTP returns a new Header containing a copy of the fields in hh.
// Since http.Header is an unordered map, names are sorted to make the
// resulting field order deterministic.
func FromHTTP(hh http.Header) *Header {
	h := New()
	names := make([]string, 0, len(hh))
	for name := range hh {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range hh[name] {
			h.Append(name, value)
		}
	}
	return h
}

// Has reports whether at least one field with the given name is
// present. The name match is case-insensitive.
func (h *Header) Has(name string) bool {
	return h.index(name) >= 0
}

// Get returns the first value associated with the given name, or the
// empty string if the name is absent. The name match is
// case-insensitive. Use Values to retrieve all values.
func (h *Header) Get(name string) string {
	if i := h.index(name); i >= 0 {
		return h.fields[i].values[0]
	}
	return ""
}

// Values returns a copy of all values associated with the given name,
// in append order, or nil if the name is absent.
func (h *Header) Values(name string) []string {
	if i := h.index(name); i >= 0 {
		values := make([]string, len(h.fields[i].values))
		copy(values, h.fields[i].values)
		return values
	}
	return nil
}

// Set replaces all values associated with the given name by the single
// given value. If the name is absent, the field is appended at the end
// of the insertion order; otherwise the field keeps its position.
func (h *Header) Set(name, value string) {
	if i := h.index(name); i >= 0 {
		h.fields[i].values = []string{value}
		return
	}
	h.fields = append(h.fields, field{
		name:   canonical(name),
		values: []string{value},
	})
}

// Append adds a value to the field with the given name, creating the
// field at the end of the insertion order if it is absent.
func (h *Header) Append(name, value string) {
	if i := h.index(name); i >= 0 {
		h.fields[i].values = append(h.fields[i].values, value)
		return
	}
	h.fields = append(h.fields, field{
		name:   canonical(name),
		values: []string{value},
	})
}

// Del removes all values associated with the given name. Removing an
// absent name is a no-op.
func (h *Header) Del(name string) {
	if i := h.index(name); i >= 0 {
		h.fields = append(h.fields[:i], h.fields[i+1:]...)
	}
}

// Len returns the number of distinct field names present.
func (h *Header) Len() int {
	return len(h.fields)
}

// Names returns the canonical field names in insertion order.
func (h *Header) Names() []string {
	names := make([]string, len(h.fields))
	for i, f := range h.fields {
		names[i] = f.name
	}
	return names
}

// Clone returns a deep copy of h sharing no storage with h.
func (h *Header) Clone() *Header {
	h2 := &Header{fields: make([]field, len(h.fields))}
	for i, f := range h.fields {
		values := make([]string, len(f.values))
		copy(values, f.values)
		h2.fields[i] = field{name: f.name, values: values}
	}
	return h2
}

// Raw serializes the header into wire form: one Field per distinct
// name, in insertion order, each carrying its values in append order.
// The returned slice shares no storage with h.
func (h *Header) Raw() []Field {
	raw := make([]Field, len(h.fields))
	for i, f := range h.fields {
		values := make([]string, len(f.values))
		copy(values, f.values)
		raw[i] = Field{Name: f.name, Values: values}
	}
	return raw
}

// HTTP converts the header into an http.Header for consumption by a
// net/http transport. Insertion order is necessarily lost, since
// http.Header is a map.
func (h *Header) HTTP() http.Header {
	hh := make(http.Header, len(h.fields))
	for _, f := range h.fields {
		values := make([]string, len(f.values))
		copy(values, f.values)
		hh[f.name] = values
	}
	return hh
}

func (h *Header) index(name string) int {
	name = canonical(name)
	for i := range h.fields {
		if h.fields[i].name == name {
			return i
		}
	}
	return -1
}

func canonical(name string) string {
	return textproto.CanonicalMIMEHeaderKey(name)
}

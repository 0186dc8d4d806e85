// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vmarray

import (
	"hash/maphash"
	"strconv"

	"github.com/cockroachdb/errors"
)

var stringSeed = maphash.MakeSeed()

// StringData is an immutable, reference counted string with a cached hash.
// It is the representation of string keys. A freshly created StringData holds
// one reference owned by the caller.
type StringData struct {
	s    string
	hash uint64
	refs int32
}

// NewString returns a StringData for s hashed with the package seed.
func NewString(s string) *StringData {
	return &StringData{s: s, hash: maphash.String(stringSeed, s), refs: 1}
}

// NewStringWithHash returns a StringData for s using a hash computed by an
// external interner. Equal strings must be given equal hashes.
func NewStringWithHash(s string, hash uint64) *StringData {
	return &StringData{s: s, hash: hash, refs: 1}
}

// IncRef acquires a reference.
func (d *StringData) IncRef() {
	d.refs++
}

// DecRef drops a reference and reports whether it was the last one.
func (d *StringData) DecRef() bool {
	d.refs--
	if invariants && d.refs < 0 {
		panic(errors.AssertionFailedf("string %q released below zero", d.s))
	}
	return d.refs == 0
}

// RefCount returns the number of outstanding references.
func (d *StringData) RefCount() int32 {
	return d.refs
}

// Hash returns the cached hash.
func (d *StringData) Hash() uint64 {
	return d.hash
}

func (d *StringData) String() string {
	return d.s
}

// Equal compares by content.
func (d *StringData) Equal(o *StringData) bool {
	return d == o || (d.hash == o.hash && d.s == o.s)
}

// Key is either a 64-bit integer or a string. The zero Key is the integer 0.
// A Key does not own a reference to its string; storing it in an Array does.
type Key struct {
	str *StringData
	i   int64
}

// IntKey returns an integer key.
func IntKey(i int64) Key {
	return Key{i: i}
}

// StrKey returns a string key. The key borrows d.
func StrKey(d *StringData) Key {
	return Key{str: d}
}

// KeyFromString returns the key for s, normalizing canonical decimal integer
// strings ("12", "-3", but not "012" or "+3") to integer keys. A returned
// string key holds a new reference that the caller must Release.
func KeyFromString(s string) Key {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
		return IntKey(i)
	}
	return StrKey(NewString(s))
}

// IsInt reports whether k is an integer key.
func (k Key) IsInt() bool {
	return k.str == nil
}

// Int returns the integer value of k. It is 0 for string keys.
func (k Key) Int() int64 {
	return k.i
}

// Str returns the string of k, or nil for integer keys.
func (k Key) Str() *StringData {
	return k.str
}

// Equal reports whether k and o identify the same entry.
func (k Key) Equal(o Key) bool {
	if k.str == nil || o.str == nil {
		return k.str == nil && o.str == nil && k.i == o.i
	}
	return k.str.Equal(o.str)
}

// Release drops the reference held on a string key. It is a no-op for
// integer keys.
func (k Key) Release() {
	if k.str != nil {
		k.str.DecRef()
	}
}

func (k Key) String() string {
	if k.str == nil {
		return strconv.FormatInt(k.i, 10)
	}
	return strconv.Quote(k.str.s)
}

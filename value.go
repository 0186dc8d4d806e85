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
	"reflect"

	"github.com/cockroachdb/errors"
)

// ValueOps is the set of operations an Array needs from its value type. The
// Array acquires a reference with Dup whenever it stores a value and drops it
// with Release when the value is overwritten or the Array is destroyed.
type ValueOps[V any] interface {
	// Dup returns a new reference to v.
	Dup(v V) V
	// Release drops a reference obtained from Dup.
	Release(v V)
	// IsNull reports whether v is the null value.
	IsNull(v V) bool
	// Null returns the null value used to fill slots created for writing.
	Null() V
}

// plainOps treats values as plain Go values: nothing is counted and the null
// value is the zero value. Value types whose zero value is a meaningful
// non-null value need their own ValueOps.
type plainOps[V any] struct{}

func (plainOps[V]) Dup(v V) V { return v }

func (plainOps[V]) Release(V) {}

func (plainOps[V]) IsNull(v V) bool {
	return reflect.ValueOf(&v).Elem().IsZero()
}

func (plainOps[V]) Null() V {
	var v V
	return v
}

// Ref is a shared, reference counted box holding a value. Binding the same
// Ref into several slots makes them aliases: a write through any of them is
// visible through all.
type Ref[V any] struct {
	v    V
	refs int32
}

// NewRef returns a Ref holding v with one reference owned by the caller.
func NewRef[V any](v V) *Ref[V] {
	return &Ref[V]{v: v, refs: 1}
}

// Get returns the boxed value.
func (r *Ref[V]) Get() V {
	return r.v
}

// Set replaces the boxed value. Ownership of v passes to the Ref.
func (r *Ref[V]) Set(v V) {
	r.v = v
}

// RefCount returns the number of outstanding references.
func (r *Ref[V]) RefCount() int32 {
	return r.refs
}

// IncRef acquires a reference.
func (r *Ref[V]) IncRef() {
	r.refs++
}

// DecRef drops a reference and reports whether it was the last one.
func (r *Ref[V]) DecRef() bool {
	r.refs--
	if invariants && r.refs < 0 {
		panic(errors.AssertionFailedf("ref released below zero"))
	}
	return r.refs == 0
}

// releaseRef drops a reference on r, releasing the boxed value through ops
// when it was the last.
func releaseRef[V any](r *Ref[V], ops ValueOps[V]) {
	if r.DecRef() {
		ops.Release(r.v)
		var zero V
		r.v = zero
	}
}

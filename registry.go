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
	"github.com/cockroachdb/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/exp/slices"
)

// IteratorRegistry is notified of the structural changes of an Array that
// affect the strong iterators positioned on it. An Array only calls its
// registry while at least one iterator is attached (see
// Array.AttachIterator).
type IteratorRegistry[V any] interface {
	// SlotRemoved is called after the element at pos has been deleted.
	SlotRemoved(a *Array[V], pos int32)
	// Rebased is called after a rebuild renumbered the slots of a. remap
	// returns the new position for an old one, or -1 if nothing follows it.
	Rebased(a *Array[V], remap func(pos int32) int32)
	// DetachAll is called before a is destroyed.
	DetachAll(a *Array[V])
}

// Registry tracks the strong iterators of any number of Arrays. Arrays are
// confined to their goroutine, but a Registry may be shared between
// goroutines each working on their own Arrays.
type Registry[V any] struct {
	iters *xsync.MapOf[*Array[V], []*StrongIter[V]]
}

var _ IteratorRegistry[int] = (*Registry[int])(nil)

// NewRegistry returns an empty Registry.
func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{iters: xsync.NewMapOf[*Array[V], []*StrongIter[V]]()}
}

// Register returns a strong iterator on a positioned at pos, installing r as
// the registry of a. Passing a.Pos() starts the iterator at the internal
// cursor. An Array has a single registry; registering with a second one is a
// contract violation, checked only in invariants builds.
func (r *Registry[V]) Register(a *Array[V], pos int32) *StrongIter[V] {
	if a.registry == nil {
		a.registry = r
	} else if invariants && a.registry != IteratorRegistry[V](r) {
		panic(errors.AssertionFailedf("array already uses a different iterator registry"))
	}
	if !a.isLive(pos) {
		pos = -1
	}
	it := &StrongIter[V]{reg: r, arr: a, pos: pos}
	r.iters.Compute(a, func(old []*StrongIter[V], loaded bool) ([]*StrongIter[V], bool) {
		return append(slices.Clip(old), it), false
	})
	a.AttachIterator()
	return it
}

// Len returns the number of strong iterators registered on a.
func (r *Registry[V]) Len(a *Array[V]) int {
	its, _ := r.iters.Load(a)
	return len(its)
}

func (r *Registry[V]) unregister(it *StrongIter[V]) {
	a := it.arr
	r.iters.Compute(a, func(old []*StrongIter[V], loaded bool) ([]*StrongIter[V], bool) {
		i := slices.Index(old, it)
		if i < 0 {
			return old, !loaded
		}
		n := slices.Delete(slices.Clone(old), i, i+1)
		return n, len(n) == 0
	})
	a.DetachIterator()
}

// SlotRemoved implements IteratorRegistry.
func (r *Registry[V]) SlotRemoved(a *Array[V], pos int32) {
	its, _ := r.iters.Load(a)
	var next int32 = -2
	for _, it := range its {
		if it.pos != pos {
			continue
		}
		if next == -2 {
			next = a.nextLive(pos)
		}
		it.pos = next
		it.fresh = true
	}
}

// Rebased implements IteratorRegistry.
func (r *Registry[V]) Rebased(a *Array[V], remap func(pos int32) int32) {
	its, _ := r.iters.Load(a)
	for _, it := range its {
		if it.pos >= 0 {
			it.pos = remap(it.pos)
		}
	}
}

// DetachAll implements IteratorRegistry.
func (r *Registry[V]) DetachAll(a *Array[V]) {
	its, _ := r.iters.LoadAndDelete(a)
	for _, it := range its {
		it.arr = nil
		it.pos = -1
	}
	detachCounter.Add(len(its))
	plog.Debugf("detached %d strong iterators", len(its))
}

// StrongIter is an iterator that stays valid across mutations of its Array.
// Deleting the element it is on moves it to the next element; destroying the
// Array detaches it.
type StrongIter[V any] struct {
	reg *Registry[V]
	arr *Array[V]
	pos int32
	// fresh is set when the iterator was moved onto its element by a
	// deletion, in which case the next call to Next stays on it.
	fresh bool
}

// Valid reports whether the iterator is on an element.
func (it *StrongIter[V]) Valid() bool {
	return it.arr != nil && it.pos >= 0
}

// Detached reports whether the Array was destroyed under the iterator.
func (it *StrongIter[V]) Detached() bool {
	return it.arr == nil
}

// Pos returns the position of the iterator, or -1.
func (it *StrongIter[V]) Pos() int32 {
	return it.pos
}

// Key returns the key of the element, borrowed from the Array.
func (it *StrongIter[V]) Key() Key {
	return it.arr.keyAt(it.pos)
}

// Value returns the value of the element.
func (it *StrongIter[V]) Value() V {
	return it.arr.cellAt(it.pos).get()
}

// Next moves to the next element and reports whether there is one.
func (it *StrongIter[V]) Next() bool {
	if !it.Valid() {
		return false
	}
	if it.fresh {
		it.fresh = false
		return true
	}
	it.pos = it.arr.nextLive(it.pos)
	return it.pos >= 0
}

// Close unregisters the iterator. It is safe to call on a detached iterator.
func (it *StrongIter[V]) Close() {
	if it.arr != nil {
		it.reg.unregister(it)
		it.arr = nil
		it.pos = -1
	}
}

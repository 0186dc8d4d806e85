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

// Cursor is a read-only forward cursor over the live elements of an Array.
// A Cursor must not be used across a mutation of its Array.
type Cursor[V any] interface {
	// Empty reports whether the cursor is past the last element.
	Empty() bool
	// Advance moves to the next live element.
	Advance()
	// Current returns the value at the cursor.
	Current() V
	// Key returns the key at the cursor, borrowed from the Array.
	Key() Key
	// MaterializeKey returns the key at the cursor holding a new reference
	// that the caller must Release.
	MaterializeKey() Key
	// Pos returns the position of the cursor, which can be passed to IterAt
	// or SetPos to resume from the same element. It is -1 past the end.
	Pos() int32
}

type packedCursor[V any] struct {
	a   *Array[V]
	pos uint32
}

func (c *packedCursor[V]) Empty() bool { return c.pos >= c.a.size }

func (c *packedCursor[V]) Advance() { c.pos++ }

func (c *packedCursor[V]) Current() V { return c.a.blk.cells[c.pos].get() }

func (c *packedCursor[V]) Key() Key { return Key{i: int64(c.pos)} }

func (c *packedCursor[V]) MaterializeKey() Key { return Key{i: int64(c.pos)} }

func (c *packedCursor[V]) Pos() int32 {
	if c.Empty() {
		return -1
	}
	return int32(c.pos)
}

type mixedCursor[V any] struct {
	a   *Array[V]
	pos uint32
}

func (c *mixedCursor[V]) Empty() bool { return c.pos >= c.a.used }

// skip moves forward over tombstones.
func (c *mixedCursor[V]) skip() {
	for c.pos < c.a.used && c.a.blk.slots[c.pos].isTombstone() {
		c.pos++
	}
}

func (c *mixedCursor[V]) Advance() {
	c.pos++
	c.skip()
}

func (c *mixedCursor[V]) Current() V { return c.a.blk.slots[c.pos].get() }

func (c *mixedCursor[V]) Key() Key { return c.a.blk.slots[c.pos].key }

func (c *mixedCursor[V]) MaterializeKey() Key { return c.a.blk.slots[c.pos].materializeKey() }

func (c *mixedCursor[V]) Pos() int32 {
	if c.Empty() {
		return -1
	}
	return int32(c.pos)
}

// Iter returns a Cursor positioned at the first element.
func (a *Array[V]) Iter() Cursor[V] {
	return a.IterAt(0)
}

// IterAt returns a Cursor positioned at pos, or at the next live element if
// pos is a deleted slot. A negative pos yields an empty cursor.
func (a *Array[V]) IterAt(pos int32) Cursor[V] {
	p := uint32(pos)
	if pos < 0 {
		p = a.used
	}
	if a.mode == Packed {
		return &packedCursor[V]{a: a, pos: p}
	}
	c := &mixedCursor[V]{a: a, pos: p}
	c.skip()
	return c
}

// All calls yield sequentially for each key and value in insertion order.
// If yield returns false, All stops the iteration. The Array must not be
// mutated during the iteration.
func (a *Array[V]) All(yield func(key Key, value V) bool) {
	for c := a.Iter(); !c.Empty(); c.Advance() {
		if !yield(c.Key(), c.Current()) {
			return
		}
	}
}

// Keys calls yield for each key in insertion order.
func (a *Array[V]) Keys(yield func(key Key) bool) {
	for c := a.Iter(); !c.Empty(); c.Advance() {
		if !yield(c.Key()) {
			return
		}
	}
}

// Values calls yield for each value in insertion order.
func (a *Array[V]) Values(yield func(value V) bool) {
	for c := a.Iter(); !c.Empty(); c.Advance() {
		if !yield(c.Current()) {
			return
		}
	}
}

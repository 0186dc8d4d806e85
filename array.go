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

// Package vmarray implements the ordered associative array used as the
// native array/map value of a dynamic-language virtual machine.
//
// An Array maps keys, which are 64-bit integers or strings, to values and
// iterates in insertion order. It has two layouts:
//
//   - Packed: the keys are exactly 0..n-1 in order. Values are stored in a
//     dense slice indexed by key and no key or hash is stored.
//   - Mixed: a slice of slots, each holding a key, its hash and a value,
//     appended to in insertion order, plus an open-addressing hash index
//     mapping a key's hash to its slot.
//
// An Array starts packed and is promoted to mixed on the first insert of a
// string key or an out-of-sequence integer key. Promotion is one-way.
//
// # Hash index
//
// The index is a power-of-two sized slice of uint32 entries, each of which
// is empty, a tombstone, or the index of an occupied slot. Lookups probe the
// index using triangular numbers (see probeSeq), which visits every entry of
// a power-of-two table exactly once. A lookup ends at the first empty entry;
// tombstones are skipped since the key may lie further along the chain.
//
// Deleting a key turns its index entry into a tombstone and marks its slot
// as a tombstone, leaving the other slots where they are so iteration order
// and iterator positions are preserved. Tombstoned slots keep their key and
// value until they are purged. Slots are never reused: an insert always
// appends a new slot. When the slots are exhausted the Array is rebuilt,
// which is the only point where slots are renumbered and tombstones purged.
// The rebuild doubles the table if more than half of the slots are live and
// otherwise compacts in place at the same size.
//
// The index holds at most 3/4 as many slots as it has entries (see
// computeMaxElements) which guarantees a probe always finds an empty entry.
//
// # Ownership
//
// An Array holds one reference on every key and value it stores, including
// tombstoned ones, acquired on store and released on overwrite or
// destruction. Arrays are reference counted themselves and follow a
// copy-on-write discipline: a shared Array must be copied (see Unshare)
// before it is mutated. The Array does not enforce this.
//
// An Array is not safe for concurrent use.
package vmarray

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

const debug = false

// Mode is the storage layout of an Array.
type Mode uint8

const (
	// Packed stores the values of keys 0..n-1 densely.
	Packed Mode = iota
	// Mixed stores arbitrary keys behind a hash index.
	Mixed
)

func (m Mode) String() string {
	switch m {
	case Packed:
		return "packed"
	case Mixed:
		return "mixed"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Block is the storage backing an Array: the hash index and slots in mixed
// mode, or the dense cells in packed mode. Blocks are obtained from an
// Allocator.
type Block[V any] struct {
	index []hashEntry
	slots []slot[V]
	cells []cell[V]
	mask  uint32
	cap   uint32
	mode  Mode
}

// NewBlock returns a zeroed block with room for capacity slots and, in mixed
// mode, a hash index of mask+1 entries.
func NewBlock[V any](capacity, mask uint32, mode Mode) *Block[V] {
	b := &Block[V]{mask: mask, cap: capacity, mode: mode}
	if mode == Packed {
		b.cells = make([]cell[V], capacity)
	} else {
		b.index = make([]hashEntry, uint64(mask)+1)
		b.slots = make([]slot[V], capacity)
	}
	return b
}

// Capacity returns the number of slots in the block.
func (b *Block[V]) Capacity() uint32 { return b.cap }

// Mask returns the hash index mask the block was sized for.
func (b *Block[V]) Mask() uint32 { return b.mask }

// Mode returns the layout of the block.
func (b *Block[V]) Mode() Mode { return b.mode }

// reset zeroes the block so it can be handed out again.
func (b *Block[V]) reset() {
	clear(b.index)
	clear(b.slots)
	clear(b.cells)
}

// Array is an insertion ordered map from Key to V with a packed layout for
// dense integer keys.
type Array[V any] struct {
	blk       *Block[V]
	ops       ValueOps[V]
	allocator Allocator[V]
	registry  IteratorRegistry[V]
	intHash   func(k int64) uint64

	// nextKI is the key assigned by Append. It only moves forward and is
	// negative once it has overflowed.
	nextKI int64
	// size is the number of live elements.
	size uint32
	// used is the number of slots handed out, live or tombstoned. In packed
	// mode used == size.
	used uint32
	// hashLoad is the number of index entries that are not empty.
	hashLoad uint32
	// pos is the internal cursor, or -1.
	pos int32
	// refs is the number of owners.
	refs int32
	// iters is the number of strong iterators registered on the Array.
	iters int32
	mode  Mode
}

// New constructs a packed Array with room for at least capacity elements.
func New[V any](capacity int, options ...option[V]) *Array[V] {
	a := &Array[V]{}
	a.init(capacity, Packed, options...)
	return a
}

// NewMixed constructs an Array that starts in mixed mode.
func NewMixed[V any](capacity int, options ...option[V]) *Array[V] {
	a := &Array[V]{}
	a.init(capacity, Mixed, options...)
	return a
}

func (a *Array[V]) init(capacity int, mode Mode, options ...option[V]) {
	a.ops = plainOps[V]{}
	a.allocator = defaultAllocator[V]{}
	a.intHash = identityHash
	for _, op := range options {
		op.apply(a)
	}
	if capacity < 0 {
		capacity = 0
	}
	mask := computeMask(uint64(capacity))
	a.mode = mode
	a.blk = a.alloc(mask, mode)
	a.pos = -1
	a.refs = 1
}

// alloc obtains a block for a table of size mask+1 from the allocator.
func (a *Array[V]) alloc(mask uint32, mode Mode) *Block[V] {
	capacity := computeMaxElements(mask)
	b := a.allocator.Alloc(capacity, mask, mode)
	if b == nil {
		panic(errors.Wrapf(ErrOutOfMemory, "allocating %s block of %d bytes",
			mode, computeAllocBytes[V](capacity, mask, mode)))
	}
	return b
}

func (a *Array[V]) free(b *Block[V]) {
	a.allocator.Free(b)
}

// Len returns the number of live elements.
func (a *Array[V]) Len() int {
	return int(a.size)
}

// Mode returns the current layout.
func (a *Array[V]) Mode() Mode {
	return a.mode
}

// NextKey returns the key the next Append will use, or -1 if integer keys
// have been exhausted.
func (a *Array[V]) NextKey() int64 {
	if a.nextKI < 0 {
		return -1
	}
	return a.nextKI
}

func (a *Array[V]) capacity() uint32 {
	return a.blk.cap
}

// lookup returns the slot index of k, or -1.
func (a *Array[V]) lookup(k Key) int32 {
	if a.mode == Packed {
		if k.str == nil && k.i >= 0 && k.i < int64(a.size) {
			return int32(k.i)
		}
		return -1
	}
	_, i := a.blk.find(k, a.hashKey(k))
	return i
}

func (a *Array[V]) cellAt(i int32) *cell[V] {
	if a.mode == Packed {
		return &a.blk.cells[i]
	}
	return &a.blk.slots[i].cell
}

// keyAt returns the key of the slot at i without acquiring a reference.
func (a *Array[V]) keyAt(i int32) Key {
	if a.mode == Packed {
		return Key{i: int64(i)}
	}
	return a.blk.slots[i].key
}

// materializeKeyAt returns the key of the slot at i holding a new reference.
func (a *Array[V]) materializeKeyAt(i int32) Key {
	if a.mode == Packed {
		return Key{i: int64(i)}
	}
	return a.blk.slots[i].materializeKey()
}

func (a *Array[V]) isLive(i int32) bool {
	if i < 0 {
		return false
	}
	if a.mode == Packed {
		return uint32(i) < a.size
	}
	return uint32(i) < a.used && !a.blk.slots[i].isTombstone()
}

// nextLive returns the first live slot after i, or -1.
func (a *Array[V]) nextLive(i int32) int32 {
	if a.mode == Packed {
		if i+1 < int32(a.size) {
			return i + 1
		}
		return -1
	}
	for j := i + 1; j < int32(a.used); j++ {
		if !a.blk.slots[j].isTombstone() {
			return j
		}
	}
	return -1
}

// prevLive returns the last live slot before i, or -1.
func (a *Array[V]) prevLive(i int32) int32 {
	if a.mode == Packed {
		if i > int32(a.size) {
			i = int32(a.size)
		}
		return i - 1
	}
	if i > int32(a.used) {
		i = int32(a.used)
	}
	for j := i - 1; j >= 0; j-- {
		if !a.blk.slots[j].isTombstone() {
			return j
		}
	}
	return -1
}

// Get retrieves the value for k, returning ok=false if k is not present.
func (a *Array[V]) Get(k Key) (value V, ok bool) {
	if i := a.lookup(k); i >= 0 {
		return a.cellAt(i).get(), true
	}
	return value, false
}

// Exists reports whether k is present.
func (a *Array[V]) Exists(k Key) bool {
	return a.lookup(k) >= 0
}

// IsSet reports whether k is present and its value is not null.
func (a *Array[V]) IsSet(k Key) bool {
	i := a.lookup(k)
	return i >= 0 && !a.ops.IsNull(a.cellAt(i).get())
}

// Set stores v under k, overwriting the existing value if k is present. If
// the existing slot is bound to a Ref the write goes through the Ref and is
// visible to every alias.
func (a *Array[V]) Set(k Key, v V) {
	if i := a.lookup(k); i >= 0 {
		a.cellAt(i).assign(a.ops, v)
		a.checkInvariants()
		return
	}
	a.insert(k, cell[V]{v: a.ops.Dup(v)})
	a.checkInvariants()
}

// AddNew stores v under k, which the caller knows to be absent. Violating
// that requirement leaves the Array with two entries for k.
func (a *Array[V]) AddNew(k Key, v V) {
	if invariants && a.lookup(k) >= 0 {
		panic(errors.AssertionFailedf("AddNew(%s): key already present", k))
	}
	a.insert(k, cell[V]{v: a.ops.Dup(v)})
	a.checkInvariants()
}

// Append stores v under the next integer key, reporting false without
// modifying the Array if integer keys have been exhausted.
func (a *Array[V]) Append(v V) bool {
	if a.nextKI < 0 {
		return false
	}
	k := Key{i: a.nextKI}
	if invariants && a.lookup(k) >= 0 {
		panic(errors.AssertionFailedf("Append: next key %d already present", a.nextKI))
	}
	a.insert(k, cell[V]{v: a.ops.Dup(v)})
	a.checkInvariants()
	return true
}

// BindAlias binds the slot for k to r, creating it if absent. The Array
// acquires a reference on r and releases whatever the slot held before.
func (a *Array[V]) BindAlias(k Key, r *Ref[V]) {
	r.IncRef()
	if i := a.lookup(k); i >= 0 {
		c := a.cellAt(i)
		c.release(a.ops)
		*c = cell[V]{ref: r, kind: cellRef}
		a.checkInvariants()
		return
	}
	a.insert(k, cell[V]{ref: r, kind: cellRef})
	a.checkInvariants()
}

// LvalForWrite returns a pointer to the value stored under k, first storing
// the null value if k is absent. The pointer is invalidated by the next
// mutation of the Array.
func (a *Array[V]) LvalForWrite(k Key) *V {
	i := a.lookup(k)
	if i < 0 {
		i = a.insert(k, cell[V]{v: a.ops.Null()})
		a.checkInvariants()
	}
	return a.cellAt(i).ptr()
}

func (a *Array[V]) updateNextKI(k int64) {
	if k >= a.nextKI && a.nextKI >= 0 {
		a.nextKI = k + 1
	}
}

// insert stores c under the absent key k and returns its slot index.
func (a *Array[V]) insert(k Key, c cell[V]) int32 {
	if a.mode == Packed {
		if k.str == nil && k.i == int64(a.size) {
			if a.size == a.capacity() {
				a.growPacked()
			}
			i := a.size
			a.blk.cells[i] = c
			a.size++
			a.used++
			if a.pos < 0 {
				a.pos = int32(i)
			}
			a.updateNextKI(k.i)
			return int32(i)
		}
		a.promote(1)
	}

	if a.used == a.capacity() || a.hashLoad == a.capacity() {
		a.resize()
	}
	h := a.hashKey(k)
	i := a.allocSlot(a.blk.findForNewInsert(h))
	s := &a.blk.slots[i]
	if k.str != nil {
		s.setStrKey(k.str)
	} else {
		s.setIntKey(k.i, h)
		a.updateNextKI(k.i)
	}
	s.cell = c
	return int32(i)
}

// Delete removes k, reporting whether it was present.
//
// In mixed mode the slot becomes a tombstone. In packed mode removing the
// last element shrinks the Array in place; removing any other element
// promotes the Array to mixed mode first.
func (a *Array[V]) Delete(k Key) bool {
	if a.mode == Packed {
		if k.str != nil || k.i < 0 || k.i >= int64(a.size) {
			return false
		}
		i := int32(k.i)
		if uint32(i) == a.size-1 {
			a.blk.cells[i].release(a.ops)
			a.size--
			a.used--
			a.slotRemoved(i)
			a.checkInvariants()
			return true
		}
		a.promote(0)
	}

	e, i := a.blk.find(k, a.hashKey(k))
	if i < 0 {
		return false
	}
	*e = entryTombstone
	a.blk.slots[i].kind = cellTombstone
	a.size--
	a.slotRemoved(i)
	a.checkInvariants()
	return true
}

// slotRemoved moves the internal cursor and strong iterators off the removed
// slot i onto the next live slot.
func (a *Array[V]) slotRemoved(i int32) {
	if a.pos == i {
		a.pos = a.nextLive(i)
	}
	if a.iters > 0 {
		a.registry.SlotRemoved(a, i)
	}
}

// growPacked doubles the capacity of a packed Array.
func (a *Array[V]) growPacked() {
	if a.blk.mask >= maxTableMask {
		panic(errors.Wrapf(ErrCapacityOverflow, "growing packed array of %d elements", a.size))
	}
	old := a.blk
	blk := a.alloc(old.mask*2+1, Packed)
	copy(blk.cells, old.cells[:a.size])
	clear(old.cells)
	a.blk = blk
	a.free(old)
	growCounter.Inc()
	if debug {
		fmt.Printf("grow(packed): cap=%d->%d\n", old.cap, blk.cap)
	}
}

// resize makes room for at least one more slot in a full mixed Array. The
// table doubles if more than half the slots are live, otherwise tombstones
// are purged at the current size.
func (a *Array[V]) resize() {
	if a.size > a.capacity()/2 {
		if a.blk.mask >= maxTableMask {
			// The table cannot double; purging tombstones is the only way
			// to make room.
			if a.size == a.capacity() {
				panic(errors.Wrapf(ErrCapacityOverflow, "growing array of %d elements", a.size))
			}
			plog.Debugf("compact at max size: size=%d used=%d", a.size, a.used)
			compactCounter.Inc()
			a.rebuild(a.blk.mask)
			return
		}
		plog.Debugf("grow: size=%d mask=%d->%d", a.size, a.blk.mask, a.blk.mask*2+1)
		growCounter.Inc()
		a.rebuild(a.blk.mask*2 + 1)
		return
	}
	plog.Debugf("compact: size=%d used=%d mask=%d", a.size, a.used, a.blk.mask)
	compactCounter.Inc()
	a.rebuild(a.blk.mask)
}

// rebuild moves the live slots, in order, into a new block with a table of
// size mask+1 and releases the tombstoned ones. The internal cursor and
// strong iterators are remapped: a live slot maps to its new index and a
// tombstone to the new index of the next live slot, if any.
func (a *Array[V]) rebuild(mask uint32) {
	old := a.blk
	blk := a.alloc(mask, Mixed)
	if debug {
		fmt.Printf("rebuild: mask=%d->%d size=%d used=%d\n", old.mask, mask, a.size, a.used)
	}

	var remap []int32
	if a.iters > 0 || a.pos >= 0 {
		remap = make([]int32, a.used)
	}
	var n uint32
	for j := uint32(0); j < a.used; j++ {
		if remap != nil {
			remap[j] = int32(n)
		}
		s := &old.slots[j]
		if s.isTombstone() {
			s.release(a.ops)
			continue
		}
		*blk.findForNewInsert(s.hash) = occupiedEntry(n)
		blk.slots[n] = *s
		*s = slot[V]{}
		n++
	}
	if remap != nil {
		for j := range remap {
			if remap[j] == int32(n) {
				remap[j] = -1
			}
		}
	}

	a.blk = blk
	a.used = n
	a.hashLoad = n
	a.free(old)

	remapFn := func(pos int32) int32 {
		if pos < 0 || int(pos) >= len(remap) {
			return -1
		}
		return remap[pos]
	}
	if a.pos >= 0 {
		a.pos = remapFn(a.pos)
	}
	if a.iters > 0 {
		a.registry.Rebased(a, remapFn)
	}
}

// promote converts a packed Array to mixed mode with room for extra more
// elements. Element i keeps slot index i, so positions are unchanged.
func (a *Array[V]) promote(extra uint32) {
	old := a.blk
	mask := computeMask(uint64(a.size) + uint64(extra))
	blk := a.alloc(mask, Mixed)
	for i := uint32(0); i < a.size; i++ {
		h := a.intHash(int64(i))
		*blk.findForNewInsert(h) = occupiedEntry(i)
		s := &blk.slots[i]
		s.setIntKey(int64(i), h)
		s.cell = old.cells[i]
	}
	clear(old.cells)
	a.blk = blk
	a.mode = Mixed
	a.used = a.size
	a.hashLoad = a.size
	a.free(old)
	promoteCounter.Inc()
	plog.Debugf("promote: size=%d mask=%d", a.size, mask)
}

// Copy returns a new, unshared Array with the same contents, layout and
// internal cursor. The copy acquires its own reference on every key and
// value; aliased slots stay bound to the same Ref. Strong iterators are not
// carried over.
func (a *Array[V]) Copy() *Array[V] {
	c := &Array[V]{
		ops:       a.ops,
		allocator: a.allocator,
		registry:  a.registry,
		intHash:   a.intHash,
		nextKI:    a.nextKI,
		size:      a.size,
		used:      a.used,
		hashLoad:  a.hashLoad,
		pos:       a.pos,
		refs:      1,
		mode:      a.mode,
	}
	c.blk = c.alloc(a.blk.mask, a.mode)
	if a.mode == Packed {
		for i := uint32(0); i < a.size; i++ {
			c.blk.cells[i] = a.blk.cells[i].dup(a.ops)
		}
		return c
	}
	copy(c.blk.index, a.blk.index)
	for i := uint32(0); i < a.used; i++ {
		s := &a.blk.slots[i]
		d := &c.blk.slots[i]
		d.key = s.key
		if s.key.str != nil {
			s.key.str.IncRef()
		}
		d.hash = s.hash
		d.cell = s.cell.dup(a.ops)
	}
	c.checkInvariants()
	return c
}

// IncRef adds an owner.
func (a *Array[V]) IncRef() {
	a.refs++
}

// RefCount returns the number of owners.
func (a *Array[V]) RefCount() int32 {
	return a.refs
}

// Shared reports whether the Array has more than one owner, in which case it
// must not be mutated.
func (a *Array[V]) Shared() bool {
	return a.refs > 1
}

// Unshare returns an Array the caller may mutate: a itself if it is not
// shared, otherwise a copy, in which case the caller's reference on a is
// dropped.
func (a *Array[V]) Unshare() *Array[V] {
	if !a.Shared() {
		return a
	}
	c := a.Copy()
	a.Release()
	return c
}

// Release drops an owner, destroying the Array when the last is gone.
func (a *Array[V]) Release() {
	if invariants && a.refs <= 0 {
		panic(errors.AssertionFailedf("release of destroyed array"))
	}
	a.refs--
	if a.refs == 0 {
		a.destroy()
	}
}

// AttachIterator records that a strong iterator has been positioned on the
// Array. While any are attached the Array notifies its IteratorRegistry of
// removals, rebuilds and destruction.
func (a *Array[V]) AttachIterator() {
	if invariants && a.registry == nil {
		panic(errors.AssertionFailedf("strong iterator attached to array without a registry"))
	}
	a.iters++
}

// DetachIterator reverses AttachIterator.
func (a *Array[V]) DetachIterator() {
	if invariants && a.iters <= 0 {
		panic(errors.AssertionFailedf("no strong iterator attached"))
	}
	a.iters--
}

// destroy detaches any strong iterators, releases every key and value,
// including those of tombstoned slots, and returns the block.
func (a *Array[V]) destroy() {
	if a.iters > 0 {
		a.registry.DetachAll(a)
		a.iters = 0
	}
	if a.mode == Packed {
		for i := uint32(0); i < a.size; i++ {
			a.blk.cells[i].release(a.ops)
		}
	} else {
		for i := uint32(0); i < a.used; i++ {
			a.blk.slots[i].release(a.ops)
		}
	}
	a.free(a.blk)
	a.blk = nil
	a.size = 0
	a.used = 0
	a.hashLoad = 0
	a.pos = -1
}

// Reset moves the internal cursor to the first element and reports whether
// there is one.
func (a *Array[V]) Reset() bool {
	a.pos = a.nextLive(-1)
	return a.pos >= 0
}

// End moves the internal cursor to the last element and reports whether
// there is one.
func (a *Array[V]) End() bool {
	a.pos = a.prevLive(int32(a.used))
	return a.pos >= 0
}

// Next advances the internal cursor and reports whether it is still on an
// element.
func (a *Array[V]) Next() bool {
	if a.pos < 0 {
		return false
	}
	a.pos = a.nextLive(a.pos)
	return a.pos >= 0
}

// Prev moves the internal cursor back and reports whether it is still on an
// element.
func (a *Array[V]) Prev() bool {
	if a.pos < 0 {
		return false
	}
	a.pos = a.prevLive(a.pos)
	return a.pos >= 0
}

// Current returns the value under the internal cursor.
func (a *Array[V]) Current() (value V, ok bool) {
	if !a.isLive(a.pos) {
		return value, false
	}
	return a.cellAt(a.pos).get(), true
}

// CurrentKey returns the key under the internal cursor. The key is borrowed
// from the Array.
func (a *Array[V]) CurrentKey() (Key, bool) {
	if !a.isLive(a.pos) {
		return Key{}, false
	}
	return a.keyAt(a.pos), true
}

// Pos returns the position of the internal cursor, or -1 if it is past the
// end.
func (a *Array[V]) Pos() int32 {
	return a.pos
}

// SetPos restores a position previously returned by Pos or a Cursor. A
// position that is not on a live element moves the cursor past the end.
func (a *Array[V]) SetPos(pos int32) {
	if !a.isLive(pos) {
		pos = -1
	}
	a.pos = pos
}

// checkInvariants verifies the bookkeeping of the Array and that every live
// slot is reachable through the hash index. It is a no-op unless built with
// the invariants tag.
func (a *Array[V]) checkInvariants() {
	if !invariants {
		return
	}
	if a.used > a.capacity() || a.hashLoad > a.capacity() || a.size > a.used {
		panic(fmt.Sprintf("invariant failed: size=%d used=%d hash-load=%d capacity=%d\n%s",
			a.size, a.used, a.hashLoad, a.capacity(), a.debugString()))
	}
	if a.mode == Packed {
		if a.size != a.used {
			panic(fmt.Sprintf("invariant failed: packed size=%d != used=%d", a.size, a.used))
		}
		return
	}

	var live, load uint32
	for i := uint32(0); i < a.used; i++ {
		s := &a.blk.slots[i]
		if s.isTombstone() {
			continue
		}
		live++
		if _, j := a.blk.find(s.key, s.hash); j != int32(i) {
			panic(fmt.Sprintf("invariant failed: slot(%d): %s found at %d\n%s",
				i, s.key, j, a.debugString()))
		}
	}
	for _, e := range a.blk.index {
		if e != entryEmpty {
			load++
		}
		if e.isOccupied() && (e.slotIndex() >= a.used || a.blk.slots[e.slotIndex()].isTombstone()) {
			panic(fmt.Sprintf("invariant failed: entry %s references a dead slot\n%s", e, a.debugString()))
		}
	}
	if live != a.size {
		panic(fmt.Sprintf("invariant failed: found %d live slots, but size is %d\n%s",
			live, a.size, a.debugString()))
	}
	if load != a.hashLoad {
		panic(fmt.Sprintf("invariant failed: found %d loaded entries, but hash-load is %d\n%s",
			load, a.hashLoad, a.debugString()))
	}
}

func (a *Array[V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "mode=%s  size=%d  used=%d  hash-load=%d  capacity=%d  next-key=%d  pos=%d\n",
		a.mode, a.size, a.used, a.hashLoad, a.capacity(), a.nextKI, a.pos)
	if a.mode == Packed {
		for i := uint32(0); i < a.size; i++ {
			fmt.Fprintf(&buf, "  %4d: %v\n", i, a.blk.cells[i].get())
		}
		return buf.String()
	}
	for i, e := range a.blk.index {
		if e != entryEmpty {
			fmt.Fprintf(&buf, "  index %4d: %s\n", i, e)
		}
	}
	for i := uint32(0); i < a.used; i++ {
		s := &a.blk.slots[i]
		if s.isTombstone() {
			fmt.Fprintf(&buf, "  slot %4d: %s [tombstone]\n", i, s.key)
			continue
		}
		fmt.Fprintf(&buf, "  slot %4d: %s => %v [h=%x]\n", i, s.key, s.get(), s.hash)
	}
	return buf.String()
}

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

// cellKind tags the contents of a cell. cellTombstone is the reserved tag
// marking a deleted slot; a tombstoned cell still holds its value (or ref)
// until the slot is purged.
type cellKind uint8

const (
	cellValue cellKind = iota
	cellRef
	cellTombstone
)

// cell holds a value either inline or through an aliasable Ref.
type cell[V any] struct {
	v    V
	ref  *Ref[V]
	kind cellKind
}

func (c *cell[V]) get() V {
	if c.ref != nil {
		return c.ref.v
	}
	return c.v
}

// ptr returns a pointer to the storage a write should go to.
func (c *cell[V]) ptr() *V {
	if c.ref != nil {
		return &c.ref.v
	}
	return &c.v
}

// assign stores a new reference to v, writing through the alias if the cell
// is bound to one.
func (c *cell[V]) assign(ops ValueOps[V], v V) {
	p := c.ptr()
	old := *p
	*p = ops.Dup(v)
	ops.Release(old)
}

// dup returns a copy of c holding its own references. Aliases stay bound to
// the same Ref.
func (c *cell[V]) dup(ops ValueOps[V]) cell[V] {
	d := *c
	if c.ref != nil {
		c.ref.IncRef()
	} else {
		d.v = ops.Dup(c.v)
	}
	return d
}

// release drops the references held by c, tombstoned or not, and clears it.
func (c *cell[V]) release(ops ValueOps[V]) {
	if c.ref != nil {
		releaseRef(c.ref, ops)
	} else {
		ops.Release(c.v)
	}
	*c = cell[V]{}
}

// slot is the unit of storage in mixed mode: a key, its cached hash and a
// cell.
type slot[V any] struct {
	key  Key
	hash uint64
	cell[V]
}

// setIntKey writes an integer key. The caller has already established the
// key is absent.
func (s *slot[V]) setIntKey(k int64, h uint64) {
	s.key = Key{i: k}
	s.hash = h
}

// setStrKey writes a string key, taking a reference on it. The caller has
// already established the key is absent.
func (s *slot[V]) setStrKey(d *StringData) {
	d.IncRef()
	s.key = Key{str: d}
	s.hash = d.hash
}

func (s *slot[V]) isTombstone() bool {
	return s.kind == cellTombstone
}

// materializeKey returns the slot's key holding a new reference on a string
// key, for use outside of the Array.
func (s *slot[V]) materializeKey() Key {
	if s.key.str != nil {
		s.key.str.IncRef()
	}
	return s.key
}

// release drops every reference held by the slot.
func (s *slot[V]) release(ops ValueOps[V]) {
	s.key.Release()
	s.cell.release(ops)
	*s = slot[V]{}
}

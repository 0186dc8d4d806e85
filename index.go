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

import "fmt"

// hashEntry is an entry of the mixed mode hash index. It is one of
// entryEmpty, entryTombstone, or an occupied entry encoding a slot index i as
// i+entryOccupied. The zero value is entryEmpty so a freshly allocated index
// needs no initialization.
type hashEntry uint32

const (
	entryEmpty     hashEntry = 0
	entryTombstone hashEntry = 1
	entryOccupied  hashEntry = 2
)

func occupiedEntry(i uint32) hashEntry {
	return hashEntry(i) + entryOccupied
}

func (e hashEntry) isOccupied() bool {
	return e >= entryOccupied
}

// slotIndex returns the slot index of an occupied entry.
func (e hashEntry) slotIndex() uint32 {
	return uint32(e - entryOccupied)
}

func (e hashEntry) String() string {
	switch e {
	case entryEmpty:
		return "empty"
	case entryTombstone:
		return "tombstone"
	}
	return fmt.Sprintf("slot(%d)", e.slotIndex())
}

// probeSeq maintains the state for a probe sequence. The sequence is a
// triangular progression of the form
//
//	p(i) := (i^2 + i)/2 + hash (mod mask+1)
//
// It visits every entry of the index exactly once if the number of entries
// is a power of two, since (i^2+i)/2 is a bijection in Z/(2^m). See
// https://en.wikipedia.org/wiki/Quadratic_probing
type probeSeq struct {
	mask   uint32
	offset uint32
	index  uint32
}

func makeProbeSeq(hash uint64, mask uint32) probeSeq {
	return probeSeq{
		mask:   mask,
		offset: uint32(hash) & mask,
		index:  0,
	}
}

func (s probeSeq) next() probeSeq {
	s.index++
	s.offset = (s.offset + s.index) & s.mask
	return s
}

func (s probeSeq) String() string {
	return fmt.Sprintf("mask=%d offset=%d index=%d", s.mask, s.offset, s.index)
}

// find returns the index entry and slot index of key k with hash h, or a nil
// entry and -1 if k is absent. Tombstones do not end the search since live
// keys may lie further along the chain.
func (b *Block[V]) find(k Key, h uint64) (*hashEntry, int32) {
	seq := makeProbeSeq(h, b.mask)
	if debug {
		fmt.Printf("find(%v): %s\n", k, seq)
	}
	for ; ; seq = seq.next() {
		e := &b.index[seq.offset]
		switch {
		case *e == entryEmpty:
			if debug {
				fmt.Printf("find(not-found): offset=%d\n", seq.offset)
			}
			return nil, -1
		case e.isOccupied():
			i := e.slotIndex()
			s := &b.slots[i]
			if s.hash == h && s.key.Equal(k) {
				if debug {
					fmt.Printf("find(found): offset=%d slot=%d\n", seq.offset, i)
				}
				return e, int32(i)
			}
		}
	}
}

// findForNewInsert returns the first empty or tombstoned entry along the probe
// sequence for h. The index must not be full.
func (b *Block[V]) findForNewInsert(h uint64) *hashEntry {
	seq := makeProbeSeq(h, b.mask)
	for ; ; seq = seq.next() {
		e := &b.index[seq.offset]
		if !e.isOccupied() {
			if debug {
				fmt.Printf("insert(h=%x): offset=%d %s\n", h, seq.offset, *e)
			}
			return e
		}
	}
}

// allocSlot claims the next slot for the index entry e. Reusing a tombstoned
// entry does not add to the index load.
func (a *Array[V]) allocSlot(e *hashEntry) uint32 {
	i := a.used
	if *e == entryEmpty {
		a.hashLoad++
	}
	*e = occupiedEntry(i)
	a.used++
	a.size++
	if a.pos < 0 {
		a.pos = int32(i)
	}
	return i
}

// hashKey returns the hash used to place k in the index.
func (a *Array[V]) hashKey(k Key) uint64 {
	if k.str != nil {
		return k.str.hash
	}
	return a.intHash(k.i)
}

func identityHash(i int64) uint64 {
	return uint64(i)
}

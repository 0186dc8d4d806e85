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
	"unsafe"

	"github.com/cockroachdb/errors"
)

const (
	// minLgTableSize is log2 of the smallest hash table an Array allocates.
	minLgTableSize = 4
	// maxLgTableSize bounds the table so that every slot index, plus the
	// reserved index entry states, fits in a uint32.
	maxLgTableSize = 31
	// loadScale sets the maximum load factor to 1 - 1/loadScale.
	loadScale = 4

	// MaxSize is the largest number of elements an Array can hold.
	MaxSize = (uint64(1) << maxLgTableSize) - (uint64(1)<<maxLgTableSize)/loadScale
)

// maxTableMask is the mask of the largest table growth may reach.
var maxTableMask uint32 = 1<<maxLgTableSize - 1

// computeMaxElements returns the number of slots backing a table of size
// mask+1. Live plus tombstoned slots never exceed this, which keeps at least a
// quarter of the index empty and guarantees every probe sequence terminates.
func computeMaxElements(mask uint32) uint32 {
	c := uint64(mask) + 1
	return uint32(c - c/loadScale)
}

// computeMask returns the mask of the smallest table able to hold n
// elements. The search doubles from the minimum table size rather than
// rounding n up, so the thresholds match computeMaxElements exactly.
func computeMask(n uint64) uint32 {
	if n > MaxSize {
		panic(errors.Wrapf(ErrCapacityOverflow, "requested %d elements, max %d", n, MaxSize))
	}
	lg := uint(minLgTableSize)
	for uint64(computeMaxElements(uint32(1)<<lg-1)) < n {
		lg++
	}
	return uint32(1)<<lg - 1
}

// computeAllocBytes returns the number of bytes a block with the given
// geometry occupies: the header, the hash index (mixed only) and the slots.
func computeAllocBytes[V any](capacity, mask uint32, mode Mode) uint64 {
	var b Block[V]
	n := uint64(unsafe.Sizeof(b))
	if mode == Packed {
		var c cell[V]
		return n + uint64(capacity)*uint64(unsafe.Sizeof(c))
	}
	var e hashEntry
	var s slot[V]
	return n + (uint64(mask)+1)*uint64(unsafe.Sizeof(e)) + uint64(capacity)*uint64(unsafe.Sizeof(s))
}

// PlanCapacity returns the slot capacity and table mask an Array allocates
// when asked to hold n elements. It panics if n exceeds MaxSize.
func PlanCapacity(n uint64) (capacity, mask uint32) {
	mask = computeMask(n)
	return computeMaxElements(mask), mask
}

// MaxElements returns the slot capacity of a table of size mask+1.
func MaxElements(mask uint32) uint32 {
	return computeMaxElements(mask)
}

// AllocationSize returns the size in bytes of a block holding capacity slots
// in the given mode. The mask is ignored for packed blocks.
func AllocationSize[V any](capacity, mask uint32, mode Mode) uint64 {
	return computeAllocBytes[V](capacity, mask, mode)
}

// ProbeSequence returns the first n table offsets visited when probing for
// hash in a table of size mask+1.
func ProbeSequence(hash uint64, mask uint32, n int) []uint32 {
	seq := makeProbeSeq(hash, mask)
	vals := make([]uint32, n)
	for i := range vals {
		vals[i] = seq.offset
		seq = seq.next()
	}
	return vals
}

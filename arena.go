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

type arenaClass struct {
	mask uint32
	mode Mode
}

// ArenaStats counts the work done by an Arena.
type ArenaStats struct {
	// Allocs is the number of blocks created.
	Allocs int
	// Reuses is the number of blocks handed out again from a free list.
	Reuses int
	// Frees is the number of blocks returned.
	Frees int
}

// Arena is an Allocator that keeps released blocks on free lists, keyed by
// layout and table size, and hands them out again. Like the Arrays using it,
// an Arena belongs to a single goroutine.
type Arena[V any] struct {
	free  map[arenaClass][]*Block[V]
	stats ArenaStats
	// maxFree bounds the number of blocks kept per class.
	maxFree int
}

var _ Allocator[int] = (*Arena[int])(nil)

// NewArena returns an Arena keeping up to maxFree released blocks of each
// size. A maxFree of 0 keeps every block.
func NewArena[V any](maxFree int) *Arena[V] {
	return &Arena[V]{free: make(map[arenaClass][]*Block[V]), maxFree: maxFree}
}

// Alloc implements Allocator.
func (r *Arena[V]) Alloc(capacity, mask uint32, mode Mode) *Block[V] {
	class := arenaClass{mask: mask, mode: mode}
	if l := r.free[class]; len(l) > 0 {
		b := l[len(l)-1]
		l[len(l)-1] = nil
		r.free[class] = l[:len(l)-1]
		if b.cap == capacity {
			r.stats.Reuses++
			arenaReuseCounter.Inc()
			return b
		}
	}
	r.stats.Allocs++
	arenaAllocCounter.Inc()
	return NewBlock[V](capacity, mask, mode)
}

// Free implements Allocator.
func (r *Arena[V]) Free(b *Block[V]) {
	r.stats.Frees++
	class := arenaClass{mask: b.mask, mode: b.mode}
	if r.maxFree > 0 && len(r.free[class]) >= r.maxFree {
		return
	}
	b.reset()
	r.free[class] = append(r.free[class], b)
}

// Stats returns the counts accumulated since the Arena was created or last
// Reset.
func (r *Arena[V]) Stats() ArenaStats {
	return r.stats
}

// Reset drops every cached block and clears the statistics.
func (r *Arena[V]) Reset() {
	clear(r.free)
	r.stats = ArenaStats{}
}

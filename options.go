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

// option configures an Array during New or NewMixed.
type option[V any] interface {
	apply(a *Array[V])
}

type intHashOption[V any] struct {
	hash func(k int64) uint64
}

func (op intHashOption[V]) apply(a *Array[V]) {
	a.intHash = op.hash
}

// WithIntHash sets the hash function used to place integer keys in mixed
// mode. The default is the identity function. String keys always use the hash
// cached in their StringData.
func WithIntHash[V any](hash func(k int64) uint64) option[V] {
	return intHashOption[V]{hash}
}

// Allocator supplies and takes back the blocks backing an Array. Without one,
// blocks are made with make and left to the garbage collector.
//
// An Array owns exactly one block at a time. Blocks are released through Free
// when the Array grows, is promoted, or is destroyed by its last Release.
type Allocator[V any] interface {
	// Alloc should return a block equivalent to NewBlock(capacity, mask,
	// mode), or nil if memory is exhausted.
	Alloc(capacity, mask uint32, mode Mode) *Block[V]

	// Free takes back a block previously returned by Alloc. Nothing in the
	// block owns a reference any more; Free may recycle it or drop it.
	Free(b *Block[V])
}

type defaultAllocator[V any] struct{}

func (defaultAllocator[V]) Alloc(capacity, mask uint32, mode Mode) *Block[V] {
	return NewBlock[V](capacity, mask, mode)
}

func (defaultAllocator[V]) Free(b *Block[V]) {
}

type allocatorOption[V any] struct {
	allocator Allocator[V]
}

func (op allocatorOption[V]) apply(a *Array[V]) {
	a.allocator = op.allocator
}

// WithAllocator sets the Allocator an Array obtains its blocks from. Arrays
// sharing an Arena must belong to the same goroutine.
func WithAllocator[V any](allocator Allocator[V]) option[V] {
	return allocatorOption[V]{allocator}
}

type valueOpsOption[V any] struct {
	ops ValueOps[V]
}

func (op valueOpsOption[V]) apply(a *Array[V]) {
	a.ops = op.ops
}

// WithValueOps sets how an Array acquires, releases and nulls its values.
// By default values are plain Go values and the zero value is null.
func WithValueOps[V any](ops ValueOps[V]) option[V] {
	return valueOpsOption[V]{ops}
}

type registryOption[V any] struct {
	registry IteratorRegistry[V]
}

func (op registryOption[V]) apply(a *Array[V]) {
	a.registry = op.registry
}

// WithRegistry sets the registry notified of structural
// changes that affect strong iterators. Registry.Register installs itself on
// first use, so this is only needed for custom registries.
func WithRegistry[V any](registry IteratorRegistry[V]) option[V] {
	return registryOption[V]{registry}
}

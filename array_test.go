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
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

// dump returns the elements as "key=value" strings in iteration order.
func dump[V any](a *Array[V]) []string {
	var r []string
	a.All(func(k Key, v V) bool {
		r = append(r, fmt.Sprintf("%s=%v", k, v))
		return true
	})
	return r
}

// toBuiltinMap returns the elements as a map keyed by the formatted key.
// Useful for testing.
func (a *Array[V]) toBuiltinMap() map[string]V {
	r := make(map[string]V)
	a.All(func(k Key, v V) bool {
		r[k.String()] = v
		return true
	})
	return r
}

func strKeys(prefix string, n int) []Key {
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = StrKey(NewString(fmt.Sprintf("%s%d", prefix, i)))
	}
	return keys
}

func TestBasic(t *testing.T) {
	test := func(t *testing.T, a *Array[int], keys []Key) {
		count := len(keys)
		e := make(map[string]int)
		require.EqualValues(t, 0, a.Len())

		// Non-existent.
		for _, k := range keys {
			_, ok := a.Get(k)
			require.False(t, ok)
			require.False(t, a.Exists(k))
		}

		// Insert.
		for i, k := range keys {
			a.Set(k, i+count)
			e[k.String()] = i + count
			v, ok := a.Get(k)
			require.True(t, ok)
			require.EqualValues(t, i+count, v)
			require.EqualValues(t, i+1, a.Len())
			require.Equal(t, e, a.toBuiltinMap())
		}

		// Update.
		for i, k := range keys {
			a.Set(k, i+2*count)
			e[k.String()] = i + 2*count
			v, ok := a.Get(k)
			require.True(t, ok)
			require.EqualValues(t, i+2*count, v)
			require.EqualValues(t, count, a.Len())
			require.Equal(t, e, a.toBuiltinMap())
		}

		// Delete.
		for i, k := range keys {
			require.True(t, a.Delete(k))
			require.False(t, a.Delete(k))
			delete(e, k.String())
			require.EqualValues(t, count-i-1, a.Len())
			_, ok := a.Get(k)
			require.False(t, ok)
			require.Equal(t, e, a.toBuiltinMap())
		}
		a.Release()
	}

	intKeys := func(n int) []Key {
		keys := make([]Key, n)
		for i := range keys {
			keys[i] = IntKey(int64(i))
		}
		return keys
	}

	t.Run("packed", func(t *testing.T) {
		test(t, New[int](0), intKeys(100))
	})
	t.Run("mixed", func(t *testing.T) {
		test(t, NewMixed[int](0), intKeys(100))
	})
	t.Run("strings", func(t *testing.T) {
		test(t, New[int](0), strKeys("k", 100))
	})

	t.Run("degenerate", func(t *testing.T) {
		testDegenerate := func(t *testing.T, h uint64) {
			a := NewMixed[int](0, WithIntHash[int](func(int64) uint64 {
				return h
			}))
			keys := intKeys(100)
			for i := 0; i < 100; i++ {
				keys = append(keys, StrKey(NewStringWithHash(fmt.Sprintf("k%d", i), h)))
			}
			test(t, a, keys)
		}

		for _, v := range []uint64{0, ^uint64(0)} {
			t.Run(fmt.Sprintf("%016x", v), func(t *testing.T) {
				testDegenerate(t, v)
			})
		}
		for i := 0; i < 10; i++ {
			v := rand.Uint64()
			t.Run(fmt.Sprintf("%016x", v), func(t *testing.T) {
				testDegenerate(t, v)
			})
		}
	})
}

func TestRandom(t *testing.T) {
	test := func(t *testing.T, a *Array[int], strs []Key) {
		e := make(map[string]int)
		order := make([]string, 0)
		randKey := func() Key {
			if rand.Intn(2) == 0 {
				return IntKey(int64(rand.Intn(len(strs))))
			}
			return strs[rand.Intn(len(strs))]
		}
		for i := 0; i < 10000; i++ {
			switch r := rand.Float64(); {
			case r < 0.5: // 50% upserts
				k, v := randKey(), rand.Int()
				a.Set(k, v)
				if _, ok := e[k.String()]; !ok {
					order = append(order, k.String())
				}
				e[k.String()] = v
			case r < 0.70: // 20% deletes
				k := randKey()
				_, ok := e[k.String()]
				require.Equal(t, ok, a.Delete(k))
				if ok {
					delete(e, k.String())
					j := slices.Index(order, k.String())
					order = slices.Delete(order, j, j+1)
				}
			case r < 0.95: // 25% lookups
				k := randKey()
				v, ok := a.Get(k)
				ev, eok := e[k.String()]
				require.Equal(t, eok, ok)
				require.Equal(t, ev, v)
			default: // 5% iterate
				keys := make([]string, 0)
				a.Keys(func(k Key) bool {
					keys = append(keys, k.String())
					return true
				})
				require.Equal(t, order, keys)
				require.Equal(t, e, a.toBuiltinMap())
			}
			require.EqualValues(t, len(e), a.Len())
			require.LessOrEqual(t, a.used, a.capacity())
			require.LessOrEqual(t, a.hashLoad, a.capacity())
		}
	}

	t.Run("normal", func(t *testing.T) {
		test(t, New[int](0), strKeys("s", 100))
	})

	t.Run("degenerate", func(t *testing.T) {
		for _, h := range []uint64{0, ^uint64(0)} {
			t.Run(fmt.Sprintf("%016x", h), func(t *testing.T) {
				a := New[int](0, WithIntHash[int](func(int64) uint64 {
					return h
				}))
				strs := make([]Key, 100)
				for i := range strs {
					strs[i] = StrKey(NewStringWithHash(fmt.Sprintf("s%d", i), h))
				}
				test(t, a, strs)
			})
		}
	})
}

func TestPackedStaysPacked(t *testing.T) {
	a := New[int](0)
	var expected []string
	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			a.Set(IntKey(int64(i)), i)
		} else {
			require.True(t, a.Append(i))
		}
		expected = append(expected, fmt.Sprintf("%d=%d", i, i))
	}
	require.Equal(t, Packed, a.Mode())
	require.Equal(t, expected, dump(a))
	require.EqualValues(t, 1000, a.NextKey())
}

func TestMixedInsertionOrder(t *testing.T) {
	a := New[int](0)
	for i, s := range []string{"b", "a", "c"} {
		a.Set(StrKey(NewString(s)), i)
	}
	require.Equal(t, Mixed, a.Mode())
	require.Equal(t, []string{`"b"=0`, `"a"=1`, `"c"=2`}, dump(a))
}

func TestPromotion(t *testing.T) {
	a := New[string](0)
	a.Set(IntKey(0), "a")
	a.Set(IntKey(1), "b")
	a.Set(IntKey(2), "c")
	require.Equal(t, Packed, a.Mode())

	before := promoteCounter.Get()
	a.Set(StrKey(NewString("x")), "d")
	require.Equal(t, Mixed, a.Mode())
	require.Equal(t, before+1, promoteCounter.Get())
	require.Equal(t, []string{"0=a", "1=b", "2=c", `"x"=d`}, dump(a))

	// An out of sequence integer key also promotes.
	b := New[string](0)
	b.Set(IntKey(0), "a")
	b.Set(IntKey(2), "c")
	require.Equal(t, Mixed, b.Mode())
	require.Equal(t, []string{"0=a", "2=c"}, dump(b))
}

func TestPromotionEquivalence(t *testing.T) {
	x := NewString("x")
	y := NewString("y")
	build := func(a *Array[int]) *Array[int] {
		for i := 0; i < 10; i++ {
			a.Set(IntKey(int64(i)), i)
		}
		a.Set(StrKey(x), 100)
		return a
	}
	a := build(New[int](0))
	b := build(NewMixed[int](0))
	require.Equal(t, Mixed, a.Mode())

	check := func() {
		require.Equal(t, dump(b), dump(a))
		require.Equal(t, b.Len(), a.Len())
		require.Equal(t, b.NextKey(), a.NextKey())
		for i := int64(-1); i < 25; i++ {
			va, oka := a.Get(IntKey(i))
			vb, okb := b.Get(IntKey(i))
			require.Equal(t, okb, oka)
			require.Equal(t, vb, va)
		}
	}
	check()

	ops := []func(a *Array[int]){
		func(a *Array[int]) { a.Delete(IntKey(3)) },
		func(a *Array[int]) { a.Set(StrKey(y), 200) },
		func(a *Array[int]) { a.Delete(StrKey(x)) },
		func(a *Array[int]) { a.Set(IntKey(20), 20) },
		func(a *Array[int]) { a.Append(21) },
		func(a *Array[int]) { a.Set(IntKey(3), 3) },
		func(a *Array[int]) { *a.LvalForWrite(IntKey(0)) += 1000 },
		func(a *Array[int]) {
			for i := 0; i < 40; i++ {
				a.Append(i)
			}
		},
	}
	for _, op := range ops {
		op(a)
		op(b)
		check()
	}
}

func TestGrowth(t *testing.T) {
	test := func(t *testing.T, a *Array[int], keys []Key) {
		for i, k := range keys[:12] {
			a.Set(k, i)
		}
		require.EqualValues(t, 15, a.blk.mask)
		require.EqualValues(t, 12, a.capacity())

		before := growCounter.Get()
		a.Set(keys[12], 12)
		require.EqualValues(t, 31, a.blk.mask)
		require.Equal(t, before+1, growCounter.Get())
		for i, k := range keys[:13] {
			v, ok := a.Get(k)
			require.True(t, ok)
			require.Equal(t, i, v)
		}
		require.LessOrEqual(t, a.used, a.capacity())
		require.LessOrEqual(t, a.hashLoad, a.capacity())
		a.checkInvariants()
	}

	t.Run("packed", func(t *testing.T) {
		keys := make([]Key, 13)
		for i := range keys {
			keys[i] = IntKey(int64(i))
		}
		a := New[int](0)
		test(t, a, keys)
		require.Equal(t, Packed, a.Mode())
	})
	t.Run("mixed", func(t *testing.T) {
		test(t, New[int](0), strKeys("g", 13))
	})
}

func TestCompaction(t *testing.T) {
	a := NewMixed[int](0)
	keys := strKeys("c", 13)
	for i, k := range keys[:12] {
		a.Set(k, i)
	}
	for _, k := range keys[:10] {
		require.True(t, a.Delete(k))
	}
	require.EqualValues(t, 2, a.Len())
	require.EqualValues(t, 12, a.used)

	// Only 2 of 12 slots are live so the table is rebuilt at the same size.
	before := compactCounter.Get()
	a.Set(keys[12], 12)
	require.Equal(t, before+1, compactCounter.Get())
	require.EqualValues(t, 15, a.blk.mask)
	require.EqualValues(t, 3, a.used)
	require.EqualValues(t, 3, a.hashLoad)
	require.Equal(t, []string{`"c10"=10`, `"c11"=11`, `"c12"=12`}, dump(a))
	for _, k := range keys[:10] {
		require.False(t, a.Exists(k))
		require.EqualValues(t, 1, k.Str().RefCount())
	}
}

func TestNextKey(t *testing.T) {
	a := New[string](0)
	a.Set(IntKey(5), "five")
	require.EqualValues(t, 6, a.NextKey())
	a.Set(IntKey(3), "three")
	a.Set(IntKey(-10), "neg")
	require.EqualValues(t, 6, a.NextKey())

	require.True(t, a.Append("six"))
	v, ok := a.Get(IntKey(6))
	require.True(t, ok)
	require.Equal(t, "six", v)
	require.EqualValues(t, 7, a.NextKey())

	// Deleting never moves the counter back.
	require.True(t, a.Delete(IntKey(6)))
	require.EqualValues(t, 7, a.NextKey())
	require.True(t, a.Append("seven"))
	require.Equal(t, []string{"5=five", "3=three", "-10=neg", "7=seven"}, dump(a))

	a.Set(IntKey(math.MaxInt64), "max")
	require.EqualValues(t, -1, a.NextKey())
	n := a.Len()
	require.False(t, a.Append("overflow"))
	require.Equal(t, n, a.Len())
}

func TestAppendAfterPop(t *testing.T) {
	a := New[string](0)
	require.True(t, a.Append("a"))
	require.True(t, a.Append("b"))
	require.True(t, a.Append("c"))
	require.True(t, a.Delete(IntKey(2)))
	require.Equal(t, Packed, a.Mode())
	require.EqualValues(t, 3, a.NextKey())

	// Key 3 is out of sequence for a packed array of 2 elements.
	require.True(t, a.Append("d"))
	require.Equal(t, Mixed, a.Mode())
	require.Equal(t, []string{"0=a", "1=b", "3=d"}, dump(a))
}

func TestPackedDelete(t *testing.T) {
	a := New[int](0)
	for i := 0; i < 5; i++ {
		a.Append(i)
	}
	require.False(t, a.Delete(IntKey(10)))
	require.False(t, a.Delete(IntKey(-1)))
	require.False(t, a.Delete(StrKey(NewString("0"))))
	require.Equal(t, Packed, a.Mode())

	require.True(t, a.Delete(IntKey(4)))
	require.Equal(t, Packed, a.Mode())
	require.Equal(t, []string{"0=0", "1=1", "2=2", "3=3"}, dump(a))

	// Re-adding the popped key keeps the array packed.
	a.Set(IntKey(4), 40)
	require.Equal(t, Packed, a.Mode())

	require.True(t, a.Delete(IntKey(2)))
	require.Equal(t, Mixed, a.Mode())
	require.Equal(t, []string{"0=0", "1=1", "3=3", "4=40"}, dump(a))
	require.EqualValues(t, 4, a.Len())
}

func TestBindAlias(t *testing.T) {
	r := NewRef("x")
	k := NewString("k")
	a := New[string](0)
	a.BindAlias(IntKey(0), r)
	a.BindAlias(StrKey(k), r)
	require.EqualValues(t, 3, r.RefCount())

	a.Set(IntKey(0), "y")
	require.Equal(t, "y", r.Get())
	v, ok := a.Get(StrKey(k))
	require.True(t, ok)
	require.Equal(t, "y", v)

	r.Set("z")
	v, _ = a.Get(IntKey(0))
	require.Equal(t, "z", v)

	// Rebinding to the same ref is a no-op; binding over a ref drops it.
	a.BindAlias(IntKey(0), r)
	require.EqualValues(t, 3, r.RefCount())
	r2 := NewRef("other")
	a.BindAlias(IntKey(0), r2)
	require.EqualValues(t, 2, r.RefCount())
	require.EqualValues(t, 2, r2.RefCount())

	// The copy shares the aliases.
	c := a.Copy()
	require.EqualValues(t, 3, r.RefCount())
	c.Set(StrKey(k), "shared")
	v, _ = a.Get(StrKey(k))
	require.Equal(t, "shared", v)
	c.Release()

	a.Release()
	require.EqualValues(t, 1, r.RefCount())
	require.EqualValues(t, 1, r2.RefCount())
	require.EqualValues(t, 1, k.RefCount())
}

func TestLvalForWrite(t *testing.T) {
	a := New[int](0)
	*a.LvalForWrite(IntKey(0)) = 5
	v, ok := a.Get(IntKey(0))
	require.True(t, ok)
	require.Equal(t, 5, v)

	p := a.LvalForWrite(IntKey(0))
	*p += 10
	v, _ = a.Get(IntKey(0))
	require.Equal(t, 15, v)

	n := NewString("n")
	require.Equal(t, 0, *a.LvalForWrite(StrKey(n)))
	require.True(t, a.Exists(StrKey(n)))
	require.Equal(t, []string{"0=15", `"n"=0`}, dump(a))

	b := New[any](0)
	b.LvalForWrite(IntKey(0))
	require.True(t, b.Exists(IntKey(0)))
	require.False(t, b.IsSet(IntKey(0)))
	b.Set(IntKey(0), "v")
	require.True(t, b.IsSet(IntKey(0)))

	r := NewRef(1)
	a.BindAlias(IntKey(1), r)
	*a.LvalForWrite(IntKey(1)) = 2
	require.Equal(t, 2, r.Get())
}

func TestLvalForWriteNull(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		a := New[int](0)
		a.LvalForWrite(IntKey(0))
		require.True(t, a.Exists(IntKey(0)))
		require.False(t, a.IsSet(IntKey(0)))
		a.Set(IntKey(0), 7)
		require.True(t, a.IsSet(IntKey(0)))
	})

	t.Run("pointer", func(t *testing.T) {
		a := New[*int](0)
		a.LvalForWrite(IntKey(0))
		require.True(t, a.Exists(IntKey(0)))
		require.False(t, a.IsSet(IntKey(0)))
		x := 0
		*a.LvalForWrite(IntKey(0)) = &x
		require.True(t, a.IsSet(IntKey(0)))
	})

	t.Run("struct", func(t *testing.T) {
		type pair struct{ a, b int }
		a := NewMixed[pair](0)
		k := NewString("k")
		a.LvalForWrite(StrKey(k))
		require.False(t, a.IsSet(StrKey(k)))
		a.LvalForWrite(StrKey(k)).b = 1
		require.True(t, a.IsSet(StrKey(k)))
	})

	t.Run("slice", func(t *testing.T) {
		a := New[[]byte](0)
		a.LvalForWrite(IntKey(0))
		require.False(t, a.IsSet(IntKey(0)))
		a.Set(IntKey(0), []byte{})
		require.True(t, a.IsSet(IntKey(0)))
	})
}

// obj is a reference counted value.
type obj struct {
	id   int
	refs int
}

type objOps struct{}

func (objOps) Dup(v *obj) *obj {
	if v != nil {
		v.refs++
	}
	return v
}

func (objOps) Release(v *obj) {
	if v != nil {
		v.refs--
	}
}

func (objOps) IsNull(v *obj) bool { return v == nil }

func (objOps) Null() *obj { return nil }

func TestRefCounts(t *testing.T) {
	const n = 50
	keys := strKeys("r", n)
	objs := make([]*obj, n)
	for i := range objs {
		objs[i] = &obj{id: i, refs: 1}
	}
	requireBaseline := func() {
		for i := range objs {
			require.Equal(t, 1, objs[i].refs, "obj %d", i)
			require.EqualValues(t, 1, keys[i].Str().RefCount(), "key %d", i)
		}
	}

	a := New[*obj](0, WithValueOps[*obj](objOps{}))
	for i, k := range keys {
		a.Set(k, objs[i])
	}
	require.Equal(t, 2, objs[0].refs)
	require.EqualValues(t, 2, keys[0].Str().RefCount())

	// Overwriting releases the old value.
	a.Set(keys[1], objs[2])
	require.Equal(t, 1, objs[1].refs)
	require.Equal(t, 3, objs[2].refs)
	a.Set(keys[1], objs[1])

	// Tombstones keep their references until the table is rebuilt.
	for _, k := range keys[:n/2] {
		require.True(t, a.Delete(k))
	}
	require.Equal(t, 2, objs[0].refs)
	require.EqualValues(t, 2, keys[0].Str().RefCount())
	a.rebuild(a.blk.mask)
	require.Equal(t, 1, objs[0].refs)
	require.EqualValues(t, 1, keys[0].Str().RefCount())
	require.Equal(t, 2, objs[n-1].refs)

	c := a.Copy()
	require.Equal(t, 3, objs[n-1].refs)
	require.EqualValues(t, 3, keys[n-1].Str().RefCount())
	c.Release()
	require.Equal(t, 2, objs[n-1].refs)

	a.IncRef()
	require.True(t, a.Shared())
	b := a.Unshare()
	require.NotSame(t, a, b)
	require.False(t, a.Shared())
	require.False(t, b.Shared())
	require.Same(t, b, b.Unshare())

	b.Set(keys[n-1], objs[0])
	v, _ := a.Get(keys[n-1])
	require.Same(t, objs[n-1], v)
	v, _ = b.Get(keys[n-1])
	require.Same(t, objs[0], v)

	// Destruction releases tombstoned slots too.
	require.True(t, b.Delete(keys[n-2]))
	a.Release()
	b.Release()
	requireBaseline()
}

func TestCopy(t *testing.T) {
	a := New[int](0)
	for i := 0; i < 20; i++ {
		a.Append(i)
	}
	a.Reset()
	a.Next()
	c := a.Copy()
	require.Equal(t, Packed, c.Mode())
	require.Equal(t, dump(a), dump(c))
	require.Equal(t, a.Pos(), c.Pos())
	require.Equal(t, a.NextKey(), c.NextKey())

	a.Set(StrKey(NewString("s")), 1)
	a.Delete(IntKey(5))
	c = a.Copy()
	require.Equal(t, Mixed, c.Mode())
	require.Equal(t, a.blk.mask, c.blk.mask)
	require.Equal(t, a.used, c.used)
	require.Equal(t, dump(a), dump(c))

	c.Set(IntKey(0), 100)
	v, _ := a.Get(IntKey(0))
	require.Equal(t, 0, v)
	c.Delete(IntKey(1))
	require.True(t, a.Exists(IntKey(1)))
	c.checkInvariants()
}

type countingAllocator[V any] struct {
	alloc int
	free  int
}

func (a *countingAllocator[V]) Alloc(capacity, mask uint32, mode Mode) *Block[V] {
	a.alloc++
	return NewBlock[V](capacity, mask, mode)
}

func (a *countingAllocator[V]) Free(_ *Block[V]) {
	a.free++
}

func TestAllocator(t *testing.T) {
	ca := &countingAllocator[int]{}
	a := New[int](0, WithAllocator[int](ca))

	for i := 0; i < 100; i++ {
		a.Append(i)
	}

	// 12 -> 24 -> 48 -> 96 -> 192
	const expected = 5
	require.EqualValues(t, expected, ca.alloc)
	require.EqualValues(t, expected-1, ca.free)

	a.Release()

	require.EqualValues(t, expected, ca.free)
}

type failingAllocator[V any] struct{}

func (failingAllocator[V]) Alloc(uint32, uint32, Mode) *Block[V] { return nil }

func (failingAllocator[V]) Free(*Block[V]) {}

func TestOutOfMemory(t *testing.T) {
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		require.True(t, errors.Is(err, ErrOutOfMemory))
	}()
	New[int](0, WithAllocator[int](failingAllocator[int]{}))
}

func TestInternalCursor(t *testing.T) {
	t.Run("packed", func(t *testing.T) {
		a := New[string](0)
		_, ok := a.Current()
		require.False(t, ok)

		a.Append("a")
		a.Append("b")
		a.Append("c")
		v, ok := a.Current()
		require.True(t, ok)
		require.Equal(t, "a", v)

		require.True(t, a.Next())
		v, _ = a.Current()
		require.Equal(t, "b", v)
		require.True(t, a.Next())
		require.False(t, a.Next())
		require.EqualValues(t, -1, a.Pos())

		require.True(t, a.Reset())
		k, ok := a.CurrentKey()
		require.True(t, ok)
		require.EqualValues(t, 0, k.Int())
		require.True(t, a.End())
		require.True(t, a.Prev())
		v, _ = a.Current()
		require.Equal(t, "b", v)

		// Popping the element under the cursor moves it past the end.
		a.End()
		a.Delete(IntKey(2))
		require.EqualValues(t, -1, a.Pos())
	})

	t.Run("mixed", func(t *testing.T) {
		x, y, z, w := NewString("x"), NewString("y"), NewString("z"), NewString("w")
		a := New[string](0)
		a.Set(StrKey(x), "X")
		a.Set(StrKey(y), "Y")
		a.Set(StrKey(z), "Z")
		a.Reset()
		a.Next()
		v, _ := a.Current()
		require.Equal(t, "Y", v)

		// Deleting the element under the cursor moves it to the next one.
		a.Delete(StrKey(y))
		v, _ = a.Current()
		require.Equal(t, "Z", v)
		require.True(t, a.Prev())
		v, _ = a.Current()
		require.Equal(t, "X", v)
		a.Next()
		a.Delete(StrKey(z))
		require.EqualValues(t, -1, a.Pos())

		// An invalid cursor is anchored to the next inserted element.
		a.Set(StrKey(w), "W")
		v, _ = a.Current()
		require.Equal(t, "W", v)

		a.SetPos(0)
		v, _ = a.Current()
		require.Equal(t, "X", v)
		a.SetPos(1)
		require.EqualValues(t, -1, a.Pos())
	})

	t.Run("rebuild", func(t *testing.T) {
		a := NewMixed[int](0)
		for i := 0; i < 12; i++ {
			a.AddNew(IntKey(int64(i)), i)
		}
		for i := 0; i < 8; i++ {
			a.Delete(IntKey(int64(i)))
		}
		a.SetPos(10)
		a.Set(IntKey(100), 100)
		require.EqualValues(t, 15, a.blk.mask)
		require.EqualValues(t, 2, a.Pos())
		k, _ := a.CurrentKey()
		require.EqualValues(t, 10, k.Int())
	})
}

/*
 * Copyright (C) 2020-2022, IrineSistiana
 *
 * This file is part of linked-list.
 *
 * linked-list is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * linked-list is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Splice(t *testing.T) {
	tests := []struct {
		name        string
		src, dst    []int
		first, last int // element indexes in src, len(src) means the end position
		at          int // element index in dst
		wantSrc     []int
		wantDst     []int
	}{
		{"empty range", []int{1, 2, 3}, []int{4}, 1, 1, 0, []int{1, 2, 3}, []int{4}},
		{"prefix to front", []int{1, 2, 3}, []int{4, 5}, 0, 2, 0, []int{3}, []int{1, 2, 4, 5}},
		{"suffix to mid", []int{1, 2, 3}, []int{4, 5}, 1, 3, 1, []int{1}, []int{4, 2, 3, 5}},
		{"all to end", []int{1, 2, 3}, []int{4, 5}, 0, 3, 2, []int{}, []int{4, 5, 1, 2, 3}},
		{"to empty list", []int{1, 2, 3}, []int{}, 0, 2, 0, []int{3}, []int{1, 2}},
		{"from single", []int{1}, []int{2}, 0, 1, 1, []int{}, []int{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := listOf(tt.src...)
			dst := listOf(tt.dst...)
			advance := func(l *List[int], k int) Iterator[int] {
				it := l.Begin()
				for i := 0; i < k; i++ {
					it = it.Next()
				}
				return it
			}

			dst.Splice(advance(dst, tt.at), src, advance(src, tt.first), advance(src, tt.last))

			checkRing(t, src)
			checkRing(t, dst)
			assert.Equal(t, tt.wantSrc, allValues(src))
			assert.Equal(t, tt.wantDst, allValues(dst))
		})
	}
}

func TestList_SpliceKeepsIterators(t *testing.T) {
	src := listOf(1, 2, 3, 4)
	dst := listOf(9)
	first := src.Begin().Next() // 2
	inner := first.Next()       // 3
	last := inner.Next()        // 4

	dst.Splice(dst.End(), src, first, last)

	assert.Equal(t, []int{1, 4}, allValues(src))
	assert.Equal(t, []int{9, 2, 3}, allValues(dst))

	// Iterators of the moved elements stay valid and now walk dst's ring.
	assert.Equal(t, 2, first.Value())
	assert.Equal(t, 3, inner.Value())
	inner.Set(30)
	assert.Equal(t, []int{9, 2, 30}, allValues(dst))
	assert.True(t, first.Prev() == dst.Begin())
	assert.True(t, inner.Next() == dst.End())
}

func TestList_SpliceSelf(t *testing.T) {
	// Move an inner range to the front of the same list.
	l := listOf(1, 2, 3, 4, 5)
	first := l.Begin().Next().Next() // 3
	last := first.Next().Next()      // 5
	l.Splice(l.Begin(), l, first, last)
	checkRing(t, l)
	assert.Equal(t, []int{3, 4, 1, 2, 5}, allValues(l))

	// Move the front element to the back, the LRU touch pattern.
	l = listOf(1, 2, 3)
	front := l.Begin()
	l.Splice(l.End(), l, front, front.Next())
	checkRing(t, l)
	assert.Equal(t, []int{2, 3, 1}, allValues(l))
	assert.Equal(t, 1, front.Value())

	// pos == first and pos == last leave the list unchanged.
	l = listOf(1, 2, 3)
	it2 := l.Begin().Next()
	l.Splice(it2, l, it2, l.End())
	checkRing(t, l)
	assert.Equal(t, []int{1, 2, 3}, allValues(l))
	l.Splice(l.End(), l, it2, l.End())
	checkRing(t, l)
	assert.Equal(t, []int{1, 2, 3}, allValues(l))
}

func TestList_SpliceNoAlloc(t *testing.T) {
	src := listOf(1, 2, 3, 4, 5)
	dst := New[int]()

	allocs := testing.AllocsPerRun(100, func() {
		dst.Splice(dst.End(), src, src.Begin(), src.End())
		src.Splice(src.End(), dst, dst.Begin(), dst.End())
	})
	assert.Zero(t, allocs)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, allValues(src))
}

func TestList_SpliceAll(t *testing.T) {
	src := listOf(3, 4)
	dst := listOf(1, 2)

	dst.SpliceAll(dst.End(), src)
	checkRing(t, src)
	checkRing(t, dst)
	assert.True(t, src.Empty())
	assert.Equal(t, []int{1, 2, 3, 4}, allValues(dst))

	// Splicing a list into itself is a no-op.
	dst.SpliceAll(dst.Begin(), dst)
	assert.Equal(t, []int{1, 2, 3, 4}, allValues(dst))

	// Splicing an empty list is a no-op.
	dst.SpliceAll(dst.Begin(), New[int]())
	assert.Equal(t, []int{1, 2, 3, 4}, allValues(dst))
}

// TestList_EraseInsertSpliceScenario drives the container through a
// combined erase, insert and splice sequence and checks every
// intermediate state.
func TestList_EraseInsertSpliceScenario(t *testing.T) {
	l := listOf(1, 2, 3, 4, 5)

	// Erase 3, the returned iterator addresses 4.
	pos := l.Begin().Next().Next()
	require.Equal(t, 3, pos.Value())
	it4 := l.Erase(pos)
	assert.Equal(t, []int{1, 2, 4, 5}, allValues(l))
	require.Equal(t, 4, it4.Value())

	// Insert 9 before 4.
	it9 := l.Insert(it4, 9)
	assert.Equal(t, []int{1, 2, 9, 4, 5}, allValues(l))
	require.Equal(t, 9, it9.Value())

	// Move the elements 2 and 9 to the front of an empty list.
	dst := New[int]()
	it2 := l.Begin().Next()
	require.Equal(t, 2, it2.Value())
	dst.Splice(dst.Begin(), l, it2, it4)

	checkRing(t, l)
	checkRing(t, dst)
	assert.Equal(t, []int{2, 9}, allValues(dst))
	assert.Equal(t, []int{1, 4, 5}, allValues(l))

	// The moved iterators belong to dst now.
	assert.True(t, it2 == dst.Begin())
	assert.True(t, it9.Next() == dst.End())
}

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
)

func TestIterator_Walk(t *testing.T) {
	l := listOf(1, 2, 3)

	it := l.Begin()
	assert.Equal(t, 1, it.Value())
	it = it.Next()
	assert.Equal(t, 2, it.Value())
	it = it.Next()
	assert.Equal(t, 3, it.Value())
	it = it.Next()
	assert.True(t, it == l.End())
	assert.True(t, it.IsEnd())

	it = it.Prev()
	assert.Equal(t, 3, it.Value())
	it = it.Prev().Prev()
	assert.Equal(t, 1, it.Value())
	assert.True(t, it == l.Begin())
}

func TestIterator_Mutate(t *testing.T) {
	l := listOf(1, 2, 3)

	it := l.Begin().Next()
	it.Set(20)
	assert.Equal(t, []int{1, 20, 3}, allValues(l))

	*it.Ptr() = 200
	assert.Equal(t, []int{1, 200, 3}, allValues(l))

	// Ptr stays usable while the element is linked.
	p := it.Ptr()
	l.PushBack(4)
	*p = 2
	assert.Equal(t, []int{1, 2, 3, 4}, allValues(l))
}

func TestIterator_Misuse(t *testing.T) {
	l := listOf(1)
	empty := New[int]()

	tests := []struct {
		name string
		f    func()
	}{
		{"zero iterator value", func() { var it Iterator[int]; it.Value() }},
		{"zero iterator next", func() { var it Iterator[int]; it.Next() }},
		{"deref end", func() { l.End().Value() }},
		{"set end", func() { l.End().Set(0) }},
		{"ptr end", func() { l.End().Ptr() }},
		{"advance past end", func() { l.End().Next() }},
		{"retreat before begin", func() { l.Begin().Prev() }},
		{"retreat end of empty", func() { empty.End().Prev() }},
		{"erase end", func() { l.Erase(l.End()) }},
		{"insert at zero iterator", func() { l.Insert(Iterator[int]{}, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.f)
		})
	}
}

func TestIterator_ErasedElement(t *testing.T) {
	l := listOf(1, 2, 3)
	it := l.Begin().Next()
	l.Erase(it)

	assert.Panics(t, func() { it.Value() })
	assert.Panics(t, func() { it.Set(0) })
	assert.Panics(t, func() { it.Next() })
	assert.Panics(t, func() { it.Prev() })
	assert.Panics(t, func() { l.Erase(it) })
	assert.Panics(t, func() { l.Insert(it, 0) })

	// The rest of the list is intact.
	assert.Equal(t, []int{1, 3}, allValues(l))
	checkRing(t, l)
}

func TestIterator_Equality(t *testing.T) {
	l := listOf(1, 2)

	assert.True(t, l.Begin() == l.Begin())
	assert.True(t, l.Begin().Next().Prev() == l.Begin())
	assert.False(t, l.Begin() == l.End())

	// Iterators of different lists never compare equal.
	o := listOf(1, 2)
	assert.False(t, l.Begin() == o.Begin())
	assert.False(t, l.End() == o.End())
}

func TestReverseIterator_Walk(t *testing.T) {
	l := listOf(1, 2, 3)

	got := make([]int, 0)
	for it := l.RBegin(); it != l.REnd(); it = it.Next() {
		got = append(got, it.Value())
	}
	assert.Equal(t, []int{3, 2, 1}, got)

	// Walking an empty list does nothing.
	empty := New[int]()
	assert.True(t, empty.RBegin() == empty.REnd())

	// Prev walks back toward RBegin.
	it := l.REnd().Prev()
	assert.Equal(t, 1, it.Value())
	it = it.Prev()
	assert.Equal(t, 2, it.Value())
}

func TestReverseIterator_Mutate(t *testing.T) {
	l := listOf(1, 2, 3)

	it := l.RBegin() // 3
	it.Set(30)
	*it.Next().Ptr() = 20 // 2
	assert.Equal(t, []int{1, 20, 30}, allValues(l))
}

func TestReverseIterator_Base(t *testing.T) {
	l := listOf(1, 2, 3)

	assert.True(t, l.RBegin().Base() == l.End())
	assert.True(t, l.REnd().Base() == l.Begin())

	// rit and rit.Base().Prev() address the same element.
	rit := l.RBegin().Next() // 2
	assert.Equal(t, rit.Value(), rit.Base().Prev().Value())
}

func TestReverseIterator_Misuse(t *testing.T) {
	l := listOf(1)
	empty := New[int]()

	tests := []struct {
		name string
		f    func()
	}{
		{"zero iterator", func() { var it ReverseIterator[int]; it.Value() }},
		{"deref rend", func() { l.REnd().Value() }},
		{"set rend", func() { l.REnd().Set(0) }},
		{"advance past rend", func() { l.REnd().Next() }},
		{"retreat before rbegin", func() { l.RBegin().Prev() }},
		{"retreat rend of empty", func() { empty.REnd().Prev() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.f)
		})
	}
}

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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Clone(t *testing.T) {
	l := listOf(1, 2, 3)
	c := l.Clone()
	checkRing(t, c)
	assert.Equal(t, []int{1, 2, 3}, allValues(c))

	// The copy is independent in both directions.
	c.PushBack(4)
	c.Begin().Set(10)
	assert.Equal(t, []int{1, 2, 3}, allValues(l))
	l.PopFront()
	assert.Equal(t, []int{10, 2, 3, 4}, allValues(c))

	// Cloning an empty list gives a usable empty list.
	e := New[int]().Clone()
	assert.True(t, e.Empty())
	e.PushBack(1)
	assert.Equal(t, []int{1}, allValues(e))
}

func TestList_CloneFunc(t *testing.T) {
	l := listOf(1, 2, 3)
	c, err := l.CloneFunc(func(v int) (int, error) { return v * 10, nil })
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, allValues(c))
	assert.Equal(t, []int{1, 2, 3}, allValues(l))
}

func TestList_CloneFunc_Error(t *testing.T) {
	l := listOf(1, 2, 3, 4, 5)
	errBoom := errors.New("boom")

	for k := 1; k <= 5; k++ {
		calls := 0
		c, err := l.CloneFunc(func(v int) (int, error) {
			calls++
			if calls == k {
				return 0, errBoom
			}
			return v, nil
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, errBoom))
		assert.Nil(t, c)
		// The copy stops at the failed element.
		assert.Equal(t, k, calls)
		// The source is untouched.
		assert.Equal(t, []int{1, 2, 3, 4, 5}, allValues(l))
		checkRing(t, l)
	}
}

func TestList_CloneFunc_Panic(t *testing.T) {
	l := listOf(1, 2, 3)

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = l.CloneFunc(func(v int) (int, error) {
			if v == 2 {
				panic("boom")
			}
			return v, nil
		})
	})

	// The source is untouched.
	assert.Equal(t, []int{1, 2, 3}, allValues(l))
	checkRing(t, l)
}

func TestList_Assign(t *testing.T) {
	l := listOf(1, 2, 3)
	o := listOf(4, 5)
	oldIt := l.Begin()

	l.Assign(o)
	checkRing(t, l)
	checkRing(t, o)

	assert.Equal(t, []int{4, 5}, allValues(l))
	assert.Equal(t, []int{4, 5}, allValues(o))

	// The contents are independent copies.
	l.Begin().Set(40)
	assert.Equal(t, []int{4, 5}, allValues(o))

	// Iterators of the replaced elements are dead.
	assert.Panics(t, func() { oldIt.Value() })

	// Assigning an empty list empties the receiver.
	l.Assign(New[int]())
	assert.True(t, l.Empty())
	checkRing(t, l)
}

func TestList_AssignSelf(t *testing.T) {
	l := listOf(1, 2, 3)
	it := l.Begin().Next()

	l.Assign(l)

	// Contents and iterators survive a self assignment.
	assert.Equal(t, []int{1, 2, 3}, allValues(l))
	assert.Equal(t, 2, it.Value())
	assert.True(t, it == l.Begin().Next())
	checkRing(t, l)

	require.NoError(t, l.AssignFunc(l, func(v int) (int, error) {
		t.Fatal("copyFn called on self assignment")
		return 0, nil
	}))
	assert.Equal(t, []int{1, 2, 3}, allValues(l))
}

func TestList_AssignFunc(t *testing.T) {
	l := listOf(1, 2, 3)
	o := listOf(4, 5)

	require.NoError(t, l.AssignFunc(o, func(v int) (int, error) { return v + 1, nil }))
	assert.Equal(t, []int{5, 6}, allValues(l))
	assert.Equal(t, []int{4, 5}, allValues(o))
}

func TestList_AssignFunc_Error(t *testing.T) {
	l := listOf(1, 2, 3)
	o := listOf(4, 5, 6)
	it := l.Begin().Next() // 2
	errBoom := errors.New("boom")

	err := l.AssignFunc(o, func(v int) (int, error) {
		if v == 5 {
			return 0, errBoom
		}
		return v, nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))

	// The receiver keeps its old contents and iterators.
	assert.Equal(t, []int{1, 2, 3}, allValues(l))
	assert.Equal(t, 2, it.Value())
	assert.Equal(t, []int{4, 5, 6}, allValues(o))
	checkRing(t, l)
	checkRing(t, o)
}

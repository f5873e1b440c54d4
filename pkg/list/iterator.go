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

// Iterator addresses one position of a list: an element, or the
// position after the last element (the end position, see List.End).
// It is a small value, pass it by value. Two Iterators compare equal
// with == iff they address the same position of the same list.
//
// An Iterator stays valid until the element it addresses is removed.
// Methods panic on the zero Iterator and on iterators of removed
// elements.
type Iterator[T any] struct {
	n *node[T]
}

func checkLinked[T any](n *node[T]) {
	if n == nil {
		panic("list: nil iterator")
	}
	if n.next == nil {
		panic("list: iterator of a removed element")
	}
}

// Next returns the iterator of the following position. Advancing the
// end iterator panics.
func (it Iterator[T]) Next() Iterator[T] {
	checkLinked(it.n)
	if it.n.sentinel {
		panic("list: cannot advance the end iterator")
	}
	return Iterator[T]{n: it.n.next}
}

// Prev returns the iterator of the preceding position. Retreating from
// the first element, or from the end position of an empty list, panics.
func (it Iterator[T]) Prev() Iterator[T] {
	checkLinked(it.n)
	if it.n.prev.sentinel {
		panic("list: cannot retreat the begin iterator")
	}
	return Iterator[T]{n: it.n.prev}
}

// Value returns the value of the element at the iterator.
// The end iterator is not dereferenceable.
func (it Iterator[T]) Value() T {
	checkLinked(it.n)
	if it.n.sentinel {
		panic("list: end iterator is not dereferenceable")
	}
	return it.n.value
}

// Ptr returns a pointer to the value stored in the element, valid until
// the element is removed. The end iterator is not dereferenceable.
func (it Iterator[T]) Ptr() *T {
	checkLinked(it.n)
	if it.n.sentinel {
		panic("list: end iterator is not dereferenceable")
	}
	return &it.n.value
}

// Set replaces the value of the element at the iterator.
func (it Iterator[T]) Set(v T) {
	*it.Ptr() = v
}

// IsEnd reports whether the iterator addresses the end position of its
// list.
func (it Iterator[T]) IsEnd() bool {
	return it.n != nil && it.n.sentinel
}

// ReverseIterator walks a list from back to front. The element order it
// sees is the reverse of the forward order: List.RBegin addresses the
// last element and List.REnd the position before the first one.
//
// Base returns the forward iterator of the position after the
// addressed element, so rit.Base().Prev() addresses the same element
// as rit.
type ReverseIterator[T any] struct {
	n *node[T]
}

// Next returns the reverse iterator of the following position, which is
// one element closer to the front. Advancing REnd panics.
func (it ReverseIterator[T]) Next() ReverseIterator[T] {
	checkLinked(it.n)
	if it.n.sentinel {
		panic("list: cannot advance the end iterator")
	}
	return ReverseIterator[T]{n: it.n.prev}
}

// Prev returns the reverse iterator of the preceding position, which is
// one element closer to the back. Retreating from RBegin panics.
func (it ReverseIterator[T]) Prev() ReverseIterator[T] {
	checkLinked(it.n)
	if it.n.next.sentinel {
		panic("list: cannot retreat the begin iterator")
	}
	return ReverseIterator[T]{n: it.n.next}
}

// Value returns the value of the element at the iterator.
// REnd is not dereferenceable.
func (it ReverseIterator[T]) Value() T {
	checkLinked(it.n)
	if it.n.sentinel {
		panic("list: end iterator is not dereferenceable")
	}
	return it.n.value
}

// Ptr returns a pointer to the value stored in the element, valid until
// the element is removed. REnd is not dereferenceable.
func (it ReverseIterator[T]) Ptr() *T {
	checkLinked(it.n)
	if it.n.sentinel {
		panic("list: end iterator is not dereferenceable")
	}
	return &it.n.value
}

// Set replaces the value of the element at the iterator.
func (it ReverseIterator[T]) Set(v T) {
	*it.Ptr() = v
}

// IsEnd reports whether the iterator addresses the position before the
// first element of its list.
func (it ReverseIterator[T]) IsEnd() bool {
	return it.n != nil && it.n.sentinel
}

// Base returns the underlying forward iterator, which addresses the
// position after the element this reverse iterator addresses.
// RBegin().Base() == End() and REnd().Base() == Begin().
func (it ReverseIterator[T]) Base() Iterator[T] {
	checkLinked(it.n)
	return Iterator[T]{n: it.n.next}
}

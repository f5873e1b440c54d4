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

// Package list implements a generic doubly linked list with explicit
// bidirectional iterators, O(1) insertion and removal at any position,
// and O(1) splicing of element ranges between lists.
//
// The list is stored as a ring: a sentinel node owned by the List is
// linked between the last and the first element. An empty list is a
// sentinel linked to itself. Iterators address nodes directly, so they
// stay valid across insertions, removals of other elements and splices,
// including splices that move them into another list.
//
// List is not safe for concurrent use. Callers that share a list
// between goroutines must synchronize externally.
package list

import "fmt"

// node is a link of the ring. The sentinel node carries no value and is
// the only node with the sentinel mark set. Nodes of removed elements
// get their links severed so that a leftover iterator fails fast
// instead of walking a stale ring.
type node[T any] struct {
	prev, next *node[T]
	value      T
	sentinel   bool
}

// List is a doubly linked list of values of type T.
// The zero value is an empty list ready to use. A List must not be
// copied by assignment after first use, use Clone, Assign or Swap.
//
// List does not maintain an element count: keeping one would make
// Splice of a sub-range O(n) instead of O(1). Callers that need a
// count track it beside the list.
type List[T any] struct {
	noCopy noCopy

	root node[T]
}

// New creates an empty list.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.lazyInit()
	return l
}

func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.root.prev = &l.root
		l.root.next = &l.root
		l.root.sentinel = true
	}
}

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool {
	return l.root.next == nil || l.root.next == &l.root
}

// Begin returns the iterator of the first element.
// If the list is empty, Begin() == End().
func (l *List[T]) Begin() Iterator[T] {
	l.lazyInit()
	return Iterator[T]{n: l.root.next}
}

// End returns the iterator of the position after the last element.
// It is not dereferenceable.
func (l *List[T]) End() Iterator[T] {
	l.lazyInit()
	return Iterator[T]{n: &l.root}
}

// RBegin returns the reverse iterator of the last element.
// If the list is empty, RBegin() == REnd().
func (l *List[T]) RBegin() ReverseIterator[T] {
	l.lazyInit()
	return ReverseIterator[T]{n: l.root.prev}
}

// REnd returns the reverse iterator of the position before the first
// element. It is not dereferenceable.
func (l *List[T]) REnd() ReverseIterator[T] {
	l.lazyInit()
	return ReverseIterator[T]{n: &l.root}
}

// Front returns the value of the first element.
// It panics if the list is empty.
func (l *List[T]) Front() T {
	if l.Empty() {
		panic("list: the list is empty")
	}
	return l.root.next.value
}

// Back returns the value of the last element.
// It panics if the list is empty.
func (l *List[T]) Back() T {
	if l.Empty() {
		panic("list: the list is empty")
	}
	return l.root.prev.value
}

// PushFront inserts v at the front and returns the iterator of the new
// element.
func (l *List[T]) PushFront(v T) Iterator[T] {
	return l.Insert(l.Begin(), v)
}

// PushBack inserts v at the back and returns the iterator of the new
// element.
func (l *List[T]) PushBack(v T) Iterator[T] {
	return l.Insert(l.End(), v)
}

// PopFront removes the first element and returns its value.
// It panics if the list is empty.
func (l *List[T]) PopFront() T {
	if l.Empty() {
		panic("list: the list is empty")
	}
	n := l.root.next
	v := n.value
	l.Erase(Iterator[T]{n: n})
	return v
}

// PopBack removes the last element and returns its value.
// It panics if the list is empty.
func (l *List[T]) PopBack() T {
	if l.Empty() {
		panic("list: the list is empty")
	}
	n := l.root.prev
	v := n.value
	l.Erase(Iterator[T]{n: n})
	return v
}

// Insert inserts v before pos and returns the iterator of the new
// element. pos must be an iterator of this list, End() included. No
// other iterator is invalidated.
//
// The node is fully built before the ring is touched, so a failed
// allocation cannot leave the list half modified.
func (l *List[T]) Insert(pos Iterator[T], v T) Iterator[T] {
	l.lazyInit()
	p := pos.n
	checkLinked(p)

	n := &node[T]{value: v}
	n.prev = p.prev
	n.next = p
	p.prev.next = n
	p.prev = n
	return Iterator[T]{n: n}
}

// Erase removes the element at pos and returns the iterator of the
// following position. pos must be a dereferenceable iterator of this
// list. Only iterators of the removed element are invalidated, using
// one afterwards panics.
func (l *List[T]) Erase(pos Iterator[T]) Iterator[T] {
	n := pos.n
	checkLinked(n)
	if n.sentinel {
		panic("list: cannot erase the end iterator")
	}

	next := n.next
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	var zero T
	n.value = zero
	return Iterator[T]{n: next}
}

// EraseRange removes the elements in [first, last) and returns last.
// first and last must be iterators of this list with last reachable
// from first. If first == last the list is unchanged.
func (l *List[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	checkLinked(first.n)
	checkLinked(last.n)
	for first != last {
		first = l.Erase(first)
	}
	return last
}

// Clear removes all elements. The list stays usable. Links of removed
// nodes are severed one by one in a plain loop, a leftover iterator of
// any removed element panics when used.
func (l *List[T]) Clear() {
	if l.root.next == nil {
		return
	}
	n := l.root.next
	for n != &l.root {
		next := n.next
		n.prev, n.next = nil, nil
		var zero T
		n.value = zero
		n = next
	}
	l.root.prev = &l.root
	l.root.next = &l.root
}

// Splice moves the elements in [first, last) out of other and inserts
// them before pos, preserving their order. No element is copied,
// allocated or destroyed, the nodes are relinked in place. Iterators of
// the moved elements stay valid and address the same elements inside
// the receiver afterwards.
//
// other may be the receiver itself. first and last must be iterators of
// other with last reachable from first, and pos must be an iterator of
// the receiver that is not inside (first, last). If first == last or
// pos == first the lists are unchanged.
func (l *List[T]) Splice(pos Iterator[T], other *List[T], first, last Iterator[T]) {
	l.lazyInit()
	other.lazyInit()
	checkLinked(pos.n)
	checkLinked(first.n)
	checkLinked(last.n)
	if first == last || pos == first {
		return
	}

	f := first.n
	b := last.n.prev
	p := pos.n

	// Unlink [f..b] from other's ring.
	f.prev.next = b.next
	b.next.prev = f.prev

	// Link [f..b] before p.
	pp := p.prev
	pp.next = f
	f.prev = pp
	b.next = p
	p.prev = b
}

// SpliceAll moves all elements of other to the position before pos.
// It is a no-op if other is the receiver or empty.
func (l *List[T]) SpliceAll(pos Iterator[T], other *List[T]) {
	if other == l {
		return
	}
	l.Splice(pos, other, other.Begin(), other.End())
}

// Clone returns a new list holding a copy of every value in order.
// Values are copied by plain assignment, interior pointers are shared.
func (l *List[T]) Clone() *List[T] {
	l.lazyInit()
	c := New[T]()
	for n := l.root.next; n != &l.root; n = n.next {
		c.PushBack(n.value)
	}
	return c
}

// CloneFunc returns a new list built by passing every value through
// copyFn in order. If copyFn returns an error or panics, the partially
// built list is torn down before the failure is propagated and the
// receiver is left untouched.
func (l *List[T]) CloneFunc(copyFn func(v T) (T, error)) (*List[T], error) {
	l.lazyInit()
	c := New[T]()
	ok := false
	defer func() {
		if !ok {
			c.Clear()
		}
	}()

	for n := l.root.next; n != &l.root; n = n.next {
		v, err := copyFn(n.value)
		if err != nil {
			return nil, fmt.Errorf("failed to copy element, %w", err)
		}
		c.PushBack(v)
	}
	ok = true
	return c, nil
}

// Assign replaces the contents of the list with a copy of other's
// contents. Assigning a list to itself is a no-op that keeps all
// iterators valid. Iterators of the replaced elements panic when used
// afterwards.
func (l *List[T]) Assign(other *List[T]) {
	if l == other {
		return
	}
	c := other.Clone()
	l.Swap(c)
	c.Clear()
}

// AssignFunc is Assign with values copied through copyFn. If copyFn
// fails the receiver is left untouched.
func (l *List[T]) AssignFunc(other *List[T], copyFn func(v T) (T, error)) error {
	if l == other {
		return nil
	}
	c, err := other.CloneFunc(copyFn)
	if err != nil {
		return err
	}
	l.Swap(c)
	c.Clear()
	return nil
}

// Swap exchanges the contents of two lists without copying, allocating
// or destroying elements. Iterators keep addressing the same elements,
// which afterwards belong to the other list. Boundary nodes of each
// ring are re-pointed at the adopting list's sentinel, an empty ring is
// re-linked to its own sentinel.
func (l *List[T]) Swap(other *List[T]) {
	l.lazyInit()
	other.lazyInit()
	if l == other {
		return
	}

	lFirst, lLast := l.root.next, l.root.prev
	oFirst, oLast := other.root.next, other.root.prev

	if oFirst == &other.root { // other is empty
		l.root.prev = &l.root
		l.root.next = &l.root
	} else {
		l.root.next = oFirst
		l.root.prev = oLast
		oFirst.prev = &l.root
		oLast.next = &l.root
	}

	if lFirst == &l.root { // l was empty
		other.root.prev = &other.root
		other.root.next = &other.root
	} else {
		other.root.next = lFirst
		other.root.prev = lLast
		lFirst.prev = &other.root
		lLast.next = &other.root
	}
}

// Range calls f for every value from front to back until f returns
// false. f must not add or remove elements.
func (l *List[T]) Range(f func(v T) bool) {
	if l.root.next == nil {
		return
	}
	for n := l.root.next; n != &l.root; n = n.next {
		if !f(n.value) {
			return
		}
	}
}

// RangeReverse calls f for every value from back to front until f
// returns false. f must not add or remove elements.
func (l *List[T]) RangeReverse(f func(v T) bool) {
	if l.root.next == nil {
		return
	}
	for n := l.root.prev; n != &l.root; n = n.prev {
		if !f(n.value) {
			return
		}
	}
}

// noCopy triggers a go vet warning when a List is copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

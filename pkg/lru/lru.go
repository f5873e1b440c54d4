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

package lru

import (
	"fmt"

	"github.com/Vergil645/linked-list/pkg/list"
)

// LRU is a recency ordered kv container with a size limit. The order
// is kept in a list, oldest entry at the front. Touching an entry
// splices its node to the back, no allocation is made after the entry
// was added. LRU is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	maxSize int
	onEvict func(key K, v V)

	l *list.List[KV[K, V]]
	m map[K]list.Iterator[KV[K, V]]
}

type KV[K comparable, V any] struct {
	key K
	v   V
}

func NewLRU[K comparable, V any](maxSize int, onEvict func(key K, v V)) *LRU[K, V] {
	if maxSize <= 0 {
		panic(fmt.Sprintf("LRU: invalid max size: %d", maxSize))
	}

	return &LRU[K, V]{
		maxSize: maxSize,
		onEvict: onEvict,
		l:       list.New[KV[K, V]](),
		m:       make(map[K]list.Iterator[KV[K, V]]),
	}
}

func (q *LRU[K, V]) Add(key K, v V) {
	if it, ok := q.m[key]; ok { // update existed key
		it.Ptr().v = v
		q.touch(it)
		return
	}

	o := q.Len() - q.maxSize + 1
	for o > 0 {
		key, v, _ := q.PopOldest()
		if q.onEvict != nil {
			q.onEvict(key, v)
		}
		o--
	}

	q.m[key] = q.l.PushBack(KV[K, V]{
		key: key,
		v:   v,
	})
}

func (q *LRU[K, V]) Del(key K) {
	if it, ok := q.m[key]; ok {
		q.delElem(it)
	}
}

func (q *LRU[K, V]) delElem(it list.Iterator[KV[K, V]]) {
	kv := it.Value()
	q.l.Erase(it)
	delete(q.m, kv.key)
	if q.onEvict != nil {
		q.onEvict(kv.key, kv.v)
	}
}

func (q *LRU[K, V]) PopOldest() (key K, v V, ok bool) {
	if q.l.Empty() {
		return
	}
	kv := q.l.PopFront()
	delete(q.m, kv.key)
	return kv.key, kv.v, true
}

func (q *LRU[K, V]) Clean(f func(key K, v V) (remove bool)) (removed int) {
	it := q.l.Begin()
	for it != q.l.End() {
		next := it.Next() // Erasing it severs its links. Save the next one first.
		kv := it.Value()
		if remove := f(kv.key, kv.v); remove {
			q.delElem(it)
			removed++
		}
		it = next
	}
	return removed
}

func (q *LRU[K, V]) Get(key K) (v V, ok bool) {
	it, ok := q.m[key]
	if !ok {
		return
	}
	q.touch(it)
	return it.Value().v, true
}

// touch splices the entry to the back of the recency list.
func (q *LRU[K, V]) touch(it list.Iterator[KV[K, V]]) {
	q.l.Splice(q.l.End(), q.l, it, it.Next())
}

// Range calls f for every entry from the oldest to the latest one
// without refreshing their recency, until f returns false. f must not
// modify the lru.
func (q *LRU[K, V]) Range(f func(key K, v V) bool) {
	q.l.Range(func(kv KV[K, V]) bool {
		return f(kv.key, kv.v)
	})
}

// Len returns the number of entries. The count lives in the key map,
// the list itself does not track one.
func (q *LRU[K, V]) Len() int {
	return len(q.m)
}

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

package concurrent_lru

import (
	"hash/maphash"
	"sync"

	"github.com/Vergil645/linked-list/pkg/lru"
)

// ShardedLRU is a string keyed lru cache that divides the key space
// over multiple mutex guarded shards to reduce lock contention. It is
// safe for concurrent use.
type ShardedLRU[V any] struct {
	seed maphash.Seed
	l    []*concurrentLRU[string, V]
}

func NewShardedLRU[V any](
	shardNum, maxSizePerShard int,
	onEvict func(key string, v V),
) *ShardedLRU[V] {
	cl := &ShardedLRU[V]{
		seed: maphash.MakeSeed(),
		l:    make([]*concurrentLRU[string, V], 0, shardNum),
	}

	for i := 0; i < shardNum; i++ {
		cl.l = append(cl.l, newConcurrentLRU[string, V](maxSizePerShard, onEvict))
	}

	return cl
}

func (c *ShardedLRU[V]) Add(key string, v V) {
	sl := c.getShard(key)
	sl.Add(key, v)
}

func (c *ShardedLRU[V]) Del(key string) {
	sl := c.getShard(key)
	sl.Del(key)
}

func (c *ShardedLRU[V]) Clean(f func(key string, v V) (remove bool)) (removed int) {
	for i := range c.l {
		removed += c.l[i].Clean(f)
	}
	return removed
}

func (c *ShardedLRU[V]) Get(key string) (v V, ok bool) {
	sl := c.getShard(key)
	return sl.Get(key)
}

func (c *ShardedLRU[V]) Len() int {
	sum := 0
	for _, sl := range c.l {
		sum += sl.Len()
	}
	return sum
}

// Range calls f for every entry until f returns false. The entry order
// is unspecified and entries are not refreshed. f must not call other
// ShardedLRU methods, the shard lock is held during the call.
func (c *ShardedLRU[V]) Range(f func(key string, v V) bool) {
	stopped := false
	wrapped := func(key string, v V) bool {
		if !f(key, v) {
			stopped = true
			return false
		}
		return true
	}
	for _, sl := range c.l {
		sl.Range(wrapped)
		if stopped {
			return
		}
	}
}

func (c *ShardedLRU[V]) shardNum() int {
	return len(c.l)
}

func (c *ShardedLRU[V]) getShard(key string) *concurrentLRU[string, V] {
	h := maphash.Hash{}
	h.SetSeed(c.seed)

	h.WriteString(key)
	n := h.Sum64() % uint64(c.shardNum())
	return c.l[n]
}

// concurrentLRU is a lru.LRU behind a mutex.
type concurrentLRU[K comparable, V any] struct {
	sync.Mutex
	lru *lru.LRU[K, V]
}

func newConcurrentLRU[K comparable, V any](maxSize int, onEvict func(key K, v V)) *concurrentLRU[K, V] {
	return &concurrentLRU[K, V]{
		lru: lru.NewLRU[K, V](maxSize, onEvict),
	}
}

func (sl *concurrentLRU[K, V]) Add(key K, v V) {
	sl.Lock()
	defer sl.Unlock()

	sl.lru.Add(key, v)
}

func (sl *concurrentLRU[K, V]) Del(key K) {
	sl.Lock()
	defer sl.Unlock()

	sl.lru.Del(key)
}

func (sl *concurrentLRU[K, V]) Clean(f func(key K, v V) (remove bool)) (removed int) {
	sl.Lock()
	defer sl.Unlock()

	return sl.lru.Clean(f)
}

func (sl *concurrentLRU[K, V]) Get(key K) (v V, ok bool) {
	sl.Lock()
	defer sl.Unlock()

	return sl.lru.Get(key)
}

func (sl *concurrentLRU[K, V]) Range(f func(key K, v V) bool) {
	sl.Lock()
	defer sl.Unlock()

	sl.lru.Range(f)
}

func (sl *concurrentLRU[K, V]) Len() int {
	sl.Lock()
	defer sl.Unlock()

	return sl.lru.Len()
}

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

package tools

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Vergil645/linked-list/pkg/concurrent_lru"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBenchCmd() *cobra.Command {
	var (
		shardNum int
		size     int
		workers  int
		ops      int
	)

	c := &cobra.Command{
		Use:   "bench",
		Args:  cobra.NoArgs,
		Short: "Benchmark the sharded lru cache.",
		Run: func(cmd *cobra.Command, args []string) {
			runBench(shardNum, size, workers, ops)
		},
	}
	c.PersistentFlags().IntVar(&shardNum, "shard", 64, "number of lru shards")
	c.PersistentFlags().IntVar(&size, "size", 64*1024, "total cache size")
	c.PersistentFlags().IntVar(&workers, "workers", 8, "number of concurrent workers")
	c.PersistentFlags().IntVar(&ops, "ops", 1024*1024, "total number of operations")
	return c
}

// runBench fills a sharded lru then hammers it with a mixed get/add
// workload. One in eight operations is a write.
func runBench(shardNum, size, workers, ops int) {
	lru := concurrent_lru.NewShardedLRU[int](shardNum, size/shardNum, nil)

	keys := make([]string, size)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		lru.Add(keys[i], i)
	}

	var hits atomic.Int64
	opsPerWorker := ops / workers

	start := time.Now()
	g := new(errgroup.Group)
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			r := rand.New(rand.NewSource(int64(i)))
			for j := 0; j < opsPerWorker; j++ {
				key := keys[r.Intn(len(keys))]
				if j%8 == 0 {
					lru.Add(key, j)
					continue
				}
				if _, ok := lru.Get(key); ok {
					hits.Add(1)
				}
			}
			return nil
		})
	}
	g.Wait()
	elapsed := time.Since(start)

	total := opsPerWorker * workers
	fmt.Printf("%d ops in %s, %.0f ops/s\n", total, elapsed, float64(total)/elapsed.Seconds())
	fmt.Printf("hits: %d, cached entries: %d\n", hits.Load(), lru.Len())
}

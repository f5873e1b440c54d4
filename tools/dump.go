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
	"os"
	"time"

	"github.com/Vergil645/linked-list/mlog"
	"github.com/Vergil645/linked-list/pkg/cache"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "inspect dump_file",
		Args:  cobra.ExactArgs(1),
		Short: "Print a summary of a cache dump file.",
		Run: func(cmd *cobra.Command, args []string) {
			if err := inspectDump(args[0]); err != nil {
				mlog.S().Fatal(err)
			}
		},
	}
	return c
}

func inspectDump(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	now := time.Now()
	var entries, expired int
	var keyBytes, valueBytes int
	h, err := cache.ReadDump(f, func(e *cache.DumpEntry) bool {
		entries++
		keyBytes += len(e.Key)
		valueBytes += len(e.Value)
		if now.After(time.Unix(e.ExpirationTime, 0)) {
			expired++
		}
		return true
	})
	if err != nil {
		return err
	}

	fmt.Printf("version: %d\n", h.Version)
	fmt.Printf("created at: %s\n", time.Unix(h.CreatedAt, 0).Format(time.RFC3339))
	fmt.Printf("entries: %d (%d expired)\n", entries, expired)
	fmt.Printf("key bytes: %d\n", keyBytes)
	fmt.Printf("value bytes: %d\n", valueBytes)
	return nil
}

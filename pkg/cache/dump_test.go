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

package cache

import (
	"bytes"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Vergil645/linked-list/pkg/cache/mem_cache"
	"github.com/golang/snappy"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// rangerFunc adapts a func to the Ranger interface.
type rangerFunc func(f func(key string, v []byte, storedTime, expirationTime time.Time) bool)

func (r rangerFunc) Range(f func(key string, v []byte, storedTime, expirationTime time.Time) bool) {
	r(f)
}

func Test_Dump_LoadDump(t *testing.T) {
	r := require.New(t)

	src := mem_cache.NewMemCache(1024, time.Minute)
	defer src.Close()
	now := time.Now()
	for i := 0; i < 128; i++ {
		key := strconv.Itoa(i)
		src.Store(key, []byte(key), now, now.Add(time.Hour))
	}

	buf := new(bytes.Buffer)
	dumped, err := Dump(buf, src)
	r.NoError(err)
	r.Equal(128, dumped)

	dst := mem_cache.NewMemCache(1024, time.Minute)
	defer dst.Close()
	loaded, err := LoadDump(buf, dst)
	r.NoError(err)
	r.Equal(128, loaded)
	r.Equal(128, dst.Len())

	// timestamps survive at second granularity
	for i := 0; i < 128; i++ {
		key := strconv.Itoa(i)
		v, storedTime, expirationTime := dst.Get(key)
		r.Equal([]byte(key), v)
		r.Equal(now.Unix(), storedTime.Unix())
		r.Equal(now.Add(time.Hour).Unix(), expirationTime.Unix())
	}
}

func Test_Dump_skipsExpired(t *testing.T) {
	r := require.New(t)

	now := time.Now()
	src := rangerFunc(func(f func(key string, v []byte, storedTime, expirationTime time.Time) bool) {
		if !f("live", []byte("a"), now, now.Add(time.Hour)) {
			return
		}
		f("expired", []byte("b"), now.Add(-time.Hour*2), now.Add(-time.Hour))
	})

	buf := new(bytes.Buffer)
	dumped, err := Dump(buf, src)
	r.NoError(err)
	r.Equal(1, dumped)

	var keys []string
	h, err := ReadDump(buf, func(e *DumpEntry) bool {
		keys = append(keys, e.Key)
		return true
	})
	r.NoError(err)
	r.Equal(DumpFormatVersion, h.Version)
	r.Equal([]string{"live"}, keys)
}

func Test_ReadDump_stop(t *testing.T) {
	r := require.New(t)

	now := time.Now()
	src := rangerFunc(func(f func(key string, v []byte, storedTime, expirationTime time.Time) bool) {
		for i := 0; i < 10; i++ {
			if !f(strconv.Itoa(i), []byte("v"), now, now.Add(time.Hour)) {
				return
			}
		}
	})

	buf := new(bytes.Buffer)
	_, err := Dump(buf, src)
	r.NoError(err)

	read := 0
	_, err = ReadDump(buf, func(e *DumpEntry) bool {
		read++
		return read < 3
	})
	r.NoError(err)
	r.Equal(3, read)
}

func Test_ReadDump_versionMismatch(t *testing.T) {
	r := require.New(t)

	buf := new(bytes.Buffer)
	sw := snappy.NewBufferedWriter(buf)
	enc := msgpack.NewEncoder(sw)
	r.NoError(enc.Encode(&DumpHeader{Version: DumpFormatVersion + 1, CreatedAt: time.Now().Unix()}))
	r.NoError(sw.Close())

	_, err := ReadDump(buf, func(e *DumpEntry) bool { return true })
	r.Error(err)
}

func Test_LoadDump_skipsExpired(t *testing.T) {
	r := require.New(t)

	now := time.Now()
	buf := new(bytes.Buffer)
	sw := snappy.NewBufferedWriter(buf)
	enc := msgpack.NewEncoder(sw)
	r.NoError(enc.Encode(&DumpHeader{Version: DumpFormatVersion, CreatedAt: now.Unix()}))
	r.NoError(enc.Encode(&DumpEntry{
		Key:            "live",
		Value:          []byte("a"),
		StoredTime:     now.Unix(),
		ExpirationTime: now.Add(time.Hour).Unix(),
	}))
	r.NoError(enc.Encode(&DumpEntry{
		Key:            "expired",
		Value:          []byte("b"),
		StoredTime:     now.Add(-time.Hour * 2).Unix(),
		ExpirationTime: now.Add(-time.Hour).Unix(),
	}))
	r.NoError(sw.Close())

	dst := mem_cache.NewMemCache(1024, time.Minute)
	defer dst.Close()
	loaded, err := LoadDump(buf, dst)
	r.NoError(err)
	r.Equal(1, loaded)
	r.Equal(1, dst.Len())

	v, _, _ := dst.Get("live")
	r.Equal([]byte("a"), v)
	v, _, _ = dst.Get("expired")
	r.Nil(v)
}

func Test_DumpToFile_LoadDumpFromFile(t *testing.T) {
	r := require.New(t)

	src := mem_cache.NewMemCache(1024, time.Minute)
	defer src.Close()
	now := time.Now()
	for i := 0; i < 16; i++ {
		key := strconv.Itoa(i)
		src.Store(key, []byte(key), now, now.Add(time.Hour))
	}

	path := filepath.Join(t.TempDir(), "cache.dump")
	dumped, err := DumpToFile(path, src)
	r.NoError(err)
	r.Equal(16, dumped)

	dst := mem_cache.NewMemCache(1024, time.Minute)
	defer dst.Close()
	loaded, err := LoadDumpFromFile(path, dst)
	r.NoError(err)
	r.Equal(16, loaded)

	for i := 0; i < 16; i++ {
		key := strconv.Itoa(i)
		v, _, _ := dst.Get(key)
		r.Equal([]byte(key), v)
	}
}

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
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/snappy"
	"github.com/vmihailenco/msgpack/v5"
)

// A dump is a snappy compressed stream of msgpack records: one
// DumpHeader followed by zero or more DumpEntry records.
const DumpFormatVersion = 1

type DumpHeader struct {
	Version   int   `msgpack:"version"`
	CreatedAt int64 `msgpack:"created_at"`
}

type DumpEntry struct {
	Key            string `msgpack:"key"`
	Value          []byte `msgpack:"value"`
	StoredTime     int64  `msgpack:"stored_time"`
	ExpirationTime int64  `msgpack:"expiration_time"`
}

// Dump writes all unexpired entries of r to w and returns the number
// of entries written.
func Dump(w io.Writer, r Ranger) (int, error) {
	now := time.Now()
	sw := snappy.NewBufferedWriter(w)
	enc := msgpack.NewEncoder(sw)

	h := &DumpHeader{Version: DumpFormatVersion, CreatedAt: now.Unix()}
	if err := enc.Encode(h); err != nil {
		return 0, fmt.Errorf("failed to write dump header, %w", err)
	}

	entries := 0
	var encErr error
	r.Range(func(key string, v []byte, storedTime, expirationTime time.Time) bool {
		if expirationTime.Before(now) {
			return true
		}
		e := &DumpEntry{
			Key:            key,
			Value:          v,
			StoredTime:     storedTime.Unix(),
			ExpirationTime: expirationTime.Unix(),
		}
		if err := enc.Encode(e); err != nil {
			encErr = err
			return false
		}
		entries++
		return true
	})
	if encErr != nil {
		return entries, fmt.Errorf("failed to write dump entry, %w", encErr)
	}

	if err := sw.Close(); err != nil {
		return entries, fmt.Errorf("failed to flush compressed stream, %w", err)
	}
	return entries, nil
}

// ReadDump reads a dump from r and calls f for every entry until f
// returns false. It returns the dump header.
func ReadDump(r io.Reader, f func(e *DumpEntry) bool) (*DumpHeader, error) {
	dec := msgpack.NewDecoder(snappy.NewReader(r))

	h := new(DumpHeader)
	if err := dec.Decode(h); err != nil {
		return nil, fmt.Errorf("failed to read dump header, %w", err)
	}
	if h.Version != DumpFormatVersion {
		return nil, fmt.Errorf("dump format version %d is not supported", h.Version)
	}

	for {
		e := new(DumpEntry)
		if err := dec.Decode(e); err != nil {
			if errors.Is(err, io.EOF) {
				return h, nil
			}
			return h, fmt.Errorf("failed to read dump entry, %w", err)
		}
		if !f(e) {
			return h, nil
		}
	}
}

// LoadDump reads a dump from r and stores its unexpired entries into b.
// It returns the number of entries stored.
func LoadDump(r io.Reader, b Backend) (int, error) {
	now := time.Now()
	entries := 0
	_, err := ReadDump(r, func(e *DumpEntry) bool {
		expirationTime := time.Unix(e.ExpirationTime, 0)
		if expirationTime.Before(now) {
			return true
		}
		b.Store(e.Key, e.Value, time.Unix(e.StoredTime, 0), expirationTime)
		entries++
		return true
	})
	if err != nil {
		return entries, err
	}
	return entries, nil
}

// DumpToFile dumps the entries of r to the file at path. The file is
// created or truncated.
func DumpToFile(path string, r Ranger) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create dump file, %w", err)
	}

	entries, err := Dump(f, r)
	if err != nil {
		_ = f.Close()
		return entries, err
	}
	if err := f.Close(); err != nil {
		return entries, fmt.Errorf("failed to close dump file, %w", err)
	}
	return entries, nil
}

// LoadDumpFromFile loads the dump file at path into b.
func LoadDumpFromFile(path string, b Backend) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dump file, %w", err)
	}
	defer f.Close()
	return LoadDump(f, b)
}

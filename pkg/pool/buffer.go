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

package pool

// Buffer is a byte buffer borrowed from the default allocator.
type Buffer struct {
	b []byte
}

// GetBuf returns a Buffer of the given length from the default
// allocator. Call Release to put it back, the Buffer must not be used
// afterwards.
func GetBuf(size int) *Buffer {
	return &Buffer{b: defaultBufPool.Get(size)}
}

func (b *Buffer) Bytes() []byte {
	return b.b
}

func (b *Buffer) Len() int {
	return len(b.b)
}

func (b *Buffer) Release() {
	if b.b != nil {
		defaultBufPool.Release(b.b)
		b.b = nil
	}
}

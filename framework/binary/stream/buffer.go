// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stream routes encoded bytes through caller supplied buffers.
//
// The encoder writes into a fixed buffer. When the next write does not fit,
// the filled part is handed to a FlushFunc, which consumes it and returns the
// buffer to continue with. Markers, length prefixes and plain values are
// written atomically and never cross a flush. Only raw data block bytes may
// be split between two buffers.
package stream

import (
	"github.com/pkg/errors"

	"github.com/GameFoundry/bsf-sub024/core/data/endian"
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

// FlushFunc consumes the filled part of the current buffer and returns the
// buffer to write into next. It may return filled[:cap(filled)] to reuse the
// same memory. Returning a nil buffer, or one too small for the pending
// write, aborts the encode with fault.ErrCapacity. Returning an error aborts
// the encode with that error.
type FlushFunc func(filled []byte) ([]byte, error)

// Buffer writes into a caller supplied buffer, flushing as it fills.
type Buffer struct {
	buf     []byte
	n       int
	flush   FlushFunc
	written int
	flushes int
}

// NewBuffer returns a Buffer that starts writing into buf.
func NewBuffer(buf []byte, flush FlushFunc) *Buffer {
	return &Buffer{buf: buf, flush: flush}
}

// Written returns the total number of bytes written so far, flushed or not.
func (b *Buffer) Written() int { return b.written }

// Flushes returns the number of calls made to the flush function.
func (b *Buffer) Flushes() int { return b.flushes }

func (b *Buffer) swap() error {
	if b.flush == nil {
		return fault.Capacityf("buffer full after %d bytes and no flush function", b.written)
	}
	b.flushes++
	next, err := b.flush(b.buf[:b.n])
	if err != nil {
		return errors.Wrapf(err, "flush after %d bytes", b.written)
	}
	b.buf, b.n = next, 0
	if next == nil {
		return fault.Capacityf("flush after %d bytes returned no buffer", b.written)
	}
	return nil
}

// Reserve returns the next n bytes of the buffer for an atomic write,
// flushing first if they do not fit. The caller must fill all n bytes.
func (b *Buffer) Reserve(n int) ([]byte, error) {
	if len(b.buf)-b.n < n {
		if err := b.swap(); err != nil {
			return nil, err
		}
		if len(b.buf) < n {
			return nil, fault.Capacityf("flush returned %d bytes, %d needed", len(b.buf), n)
		}
	}
	out := b.buf[b.n : b.n+n]
	b.n += n
	b.written += n
	return out, nil
}

// PutUint32 atomically writes v in the host byte order.
func (b *Buffer) PutUint32(v uint32) error {
	dst, err := b.Reserve(4)
	if err != nil {
		return err
	}
	endian.Order.PutUint32(dst, v)
	return nil
}

// Write copies p into the buffer, flushing whenever the buffer fills, so p
// may be split across several buffers. It implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	done := 0
	for done < len(p) {
		if b.n == len(b.buf) {
			if err := b.swap(); err != nil {
				return done, err
			}
			if len(b.buf) == 0 {
				return done, fault.Capacityf("flush returned an empty buffer")
			}
		}
		c := copy(b.buf[b.n:], p[done:])
		b.n += c
		b.written += c
		done += c
	}
	return done, nil
}

// Close hands the unflushed tail to the flush function one last time. The
// buffer it returns is ignored.
func (b *Buffer) Close() error {
	if b.flush == nil {
		return nil
	}
	b.flushes++
	if _, err := b.flush(b.buf[:b.n]); err != nil {
		return errors.Wrapf(err, "final flush after %d bytes", b.written)
	}
	b.n = 0
	return nil
}

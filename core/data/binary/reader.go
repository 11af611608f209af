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

// Package binary provides bounds-checked sequential access to fixed-width
// values held in byte slices.
package binary

import (
	eb "encoding/binary"
	"math"

	"github.com/GameFoundry/bsf-sub024/core/data/endian"
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

// Reader decodes values from a byte slice.
// If a read would run past the end of the slice, all further reads return the
// zero value of the type read and Error returns the error which stopped
// reading.
type Reader struct {
	data  []byte
	pos   int
	order eb.ByteOrder
	err   fault.One
}

// NewReader returns a Reader over data using the host byte order.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, order: endian.Order}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.pos }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.data) - r.pos }

// Error returns the error which stopped reading, or nil.
func (r *Reader) Error() error { return r.err.First() }

func (r *Reader) take(n int) []byte {
	if r.err.First() != nil {
		return nil
	}
	if n < 0 || n > r.Len() {
		r.err.Collect(fault.Protocolf("read of %d bytes at offset %d overruns %d byte buffer", n, r.pos, len(r.data)))
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Data returns the next n bytes. The result aliases the underlying slice.
func (r *Reader) Data(n int) []byte { return r.take(n) }

// Skip discards the next n bytes.
func (r *Reader) Skip(n int) { r.take(n) }

// PeekUint32 returns the next 32 bit value without consuming it.
// ok is false if fewer than 4 bytes remain.
func (r *Reader) PeekUint32() (v uint32, ok bool) {
	if r.err.First() != nil || r.Len() < 4 {
		return 0, false
	}
	return r.order.Uint32(r.data[r.pos:]), true
}

// Bool decodes and returns a boolean value.
func (r *Reader) Bool() bool { return r.Uint8() != 0 }

// Int8 decodes and returns a signed, 8 bit integer value.
func (r *Reader) Int8() int8 { return int8(r.Uint8()) }

// Uint8 decodes and returns an unsigned, 8 bit integer value.
func (r *Reader) Uint8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

// Int16 decodes and returns a signed, 16 bit integer value.
func (r *Reader) Int16() int16 { return int16(r.Uint16()) }

// Uint16 decodes and returns an unsigned, 16 bit integer value.
func (r *Reader) Uint16() uint16 {
	if b := r.take(2); b != nil {
		return r.order.Uint16(b)
	}
	return 0
}

// Int32 decodes and returns a signed, 32 bit integer value.
func (r *Reader) Int32() int32 { return int32(r.Uint32()) }

// Uint32 decodes and returns an unsigned, 32 bit integer value.
func (r *Reader) Uint32() uint32 {
	if b := r.take(4); b != nil {
		return r.order.Uint32(b)
	}
	return 0
}

// Int64 decodes and returns a signed, 64 bit integer value.
func (r *Reader) Int64() int64 { return int64(r.Uint64()) }

// Uint64 decodes and returns an unsigned, 64 bit integer value.
func (r *Reader) Uint64() uint64 {
	if b := r.take(8); b != nil {
		return r.order.Uint64(b)
	}
	return 0
}

// Float32 decodes and returns a 32 bit floating-point value.
func (r *Reader) Float32() float32 { return math.Float32frombits(r.Uint32()) }

// Float64 decodes and returns a 64 bit floating-point value.
func (r *Reader) Float64() float64 { return math.Float64frombits(r.Uint64()) }

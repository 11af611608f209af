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

package binary

import (
	eb "encoding/binary"
	"math"

	"github.com/GameFoundry/bsf-sub024/core/data/endian"
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

// Writer encodes values into a fixed byte slice.
// If a write would run past the end of the slice, all further writing becomes
// a no-op and Error returns the error which stopped writing.
type Writer struct {
	data  []byte
	pos   int
	order eb.ByteOrder
	err   fault.One
}

// NewWriter returns a Writer over data using the host byte order.
func NewWriter(data []byte) *Writer {
	return &Writer{data: data, order: endian.Order}
}

// Error returns the error which stopped writing, or nil.
func (w *Writer) Error() error { return w.err.First() }

func (w *Writer) take(n int) []byte {
	if w.err.First() != nil {
		return nil
	}
	if n > len(w.data)-w.pos {
		w.err.Collect(fault.Capacityf("write of %d bytes at offset %d overruns %d byte buffer", n, w.pos, len(w.data)))
		return nil
	}
	b := w.data[w.pos : w.pos+n]
	w.pos += n
	return b
}

// Bool encodes a boolean value.
func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

// Int8 encodes a signed, 8 bit integer value.
func (w *Writer) Int8(v int8) { w.Uint8(uint8(v)) }

// Uint8 encodes an unsigned, 8 bit integer value.
func (w *Writer) Uint8(v uint8) {
	if b := w.take(1); b != nil {
		b[0] = v
	}
}

// Int16 encodes a signed, 16 bit integer value.
func (w *Writer) Int16(v int16) { w.Uint16(uint16(v)) }

// Uint16 encodes an unsigned, 16 bit integer value.
func (w *Writer) Uint16(v uint16) {
	if b := w.take(2); b != nil {
		w.order.PutUint16(b, v)
	}
}

// Int32 encodes a signed, 32 bit integer value.
func (w *Writer) Int32(v int32) { w.Uint32(uint32(v)) }

// Uint32 encodes an unsigned, 32 bit integer value.
func (w *Writer) Uint32(v uint32) {
	if b := w.take(4); b != nil {
		w.order.PutUint32(b, v)
	}
}

// Int64 encodes a signed, 64 bit integer value.
func (w *Writer) Int64(v int64) { w.Uint64(uint64(v)) }

// Uint64 encodes an unsigned, 64 bit integer value.
func (w *Writer) Uint64(v uint64) {
	if b := w.take(8); b != nil {
		w.order.PutUint64(b, v)
	}
}

// Float32 encodes a 32 bit floating-point value.
func (w *Writer) Float32(v float32) { w.Uint32(math.Float32bits(v)) }

// Float64 encodes a 64 bit floating-point value.
func (w *Writer) Float64(v float64) { w.Uint64(math.Float64bits(v)) }

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

package stream

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Collector accumulates flushed bytes in a pooled buffer.
type Collector struct {
	buf *bytebufferpool.ByteBuffer
}

// NewCollector returns an empty Collector. Release must be called once the
// collected bytes are no longer needed.
func NewCollector() *Collector {
	return &Collector{buf: bytebufferpool.Get()}
}

// Flush is a FlushFunc that appends filled to the collected bytes and hands
// the same memory back.
func (c *Collector) Flush(filled []byte) ([]byte, error) {
	c.buf.Write(filled)
	return filled[:cap(filled)], nil
}

// Len returns the number of bytes collected.
func (c *Collector) Len() int { return c.buf.Len() }

// Bytes returns a copy of the collected bytes.
func (c *Collector) Bytes() []byte {
	return append([]byte(nil), c.buf.B...)
}

// Release returns the pooled buffer. The Collector must not be used again.
func (c *Collector) Release() {
	bytebufferpool.Put(c.buf)
	c.buf = nil
}

// WriterSink returns a FlushFunc that writes each filled buffer to w and
// hands the same memory back.
func WriterSink(w io.Writer) FlushFunc {
	return func(filled []byte) ([]byte, error) {
		if _, err := w.Write(filled); err != nil {
			return nil, err
		}
		return filled[:cap(filled)], nil
	}
}

// Fresh returns a FlushFunc that appends the filled bytes to *out and
// supplies a newly allocated buffer of size bytes on every flush.
func Fresh(size int, out *[]byte) FlushFunc {
	return func(filled []byte) ([]byte, error) {
		*out = append(*out, filled...)
		return make([]byte, size), nil
	}
}

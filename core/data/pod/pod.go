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

// Package pod describes how Plain Old Data values are laid out in memory.
//
// A Plain value is copied to and from a byte range without any knowledge of
// object identity. Fixed size types always occupy the same number of bytes.
// Dynamic size types write a leading 32 bit length, which counts itself, so a
// reader that does not understand the value can still step over it.
// All integers use the host byte order.
package pod

import (
	"github.com/GameFoundry/bsf-sub024/core/data/endian"
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

// HeaderSize is the size of the length prefix of a dynamic size value.
const HeaderSize = 4

// Type describes the memory layout of values of T.
type Type[T any] interface {
	// Dynamic reports whether values of the type carry a leading length.
	Dynamic() bool
	// Size returns the number of bytes Write produces for v. For a fixed size
	// type the result does not depend on v.
	Size(v T) uint32
	// Write encodes v into dst, which holds at least Size(v) bytes, and
	// returns the number of bytes written.
	Write(dst []byte, v T) int
	// Read decodes a value from the start of src into v and returns the number
	// of bytes consumed.
	Read(src []byte, v *T) (int, error)
}

// FixedSize returns the size of a fixed size type, or 0 if t is dynamic.
func FixedSize[T any](t Type[T]) uint32 {
	if t.Dynamic() {
		return 0
	}
	var zero T
	return t.Size(zero)
}

// ReadHeader returns the length stored in the header of the dynamic value at
// the start of src, checking that the whole value is present.
func ReadHeader(src []byte) (uint32, error) {
	if len(src) < HeaderSize {
		return 0, fault.Protocolf("dynamic value header needs %d bytes, %d available", HeaderSize, len(src))
	}
	n := endian.Order.Uint32(src)
	if n < HeaderSize || uint64(n) > uint64(len(src)) {
		return 0, fault.Protocolf("dynamic value length %d out of range (%d available)", n, len(src))
	}
	return n, nil
}

// leastSize returns the smallest number of bytes a value of t can occupy.
func leastSize[T any](t Type[T]) uint64 {
	if t.Dynamic() {
		return HeaderSize
	}
	return uint64(FixedSize(t))
}

func putHeader(dst []byte, n uint32) {
	endian.Order.PutUint32(dst, n)
}

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

package pod

import (
	"github.com/GameFoundry/bsf-sub024/core/data/binary"
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

type fixed[T any] struct {
	name string
	size uint32
	put  func([]byte, T)
	get  func([]byte) T
}

func (f fixed[T]) Dynamic() bool  { return false }
func (f fixed[T]) Size(T) uint32  { return f.size }
func (f fixed[T]) String() string { return f.name }
func (f fixed[T]) Write(dst []byte, v T) int {
	f.put(dst[:f.size], v)
	return int(f.size)
}

func (f fixed[T]) Read(src []byte, v *T) (int, error) {
	if uint32(len(src)) < f.size {
		return 0, fault.Protocolf("%s needs %d bytes, %d available", f.name, f.size, len(src))
	}
	*v = f.get(src[:f.size])
	return int(f.size), nil
}

// Fixed returns a fixed size type of size bytes built from an encode and a
// decode function. It is the building block for plain structs with a fixed
// layout.
func Fixed[T any](name string, size uint32, put func([]byte, T), get func([]byte) T) Type[T] {
	return fixed[T]{name, size, put, get}
}

// put adapts a Writer method to encode a value at the start of a slice.
func put[T any](write func(*binary.Writer, T)) func([]byte, T) {
	return func(b []byte, v T) { write(binary.NewWriter(b), v) }
}

// get adapts a Reader method to decode a value from the start of a slice.
func get[T any](read func(*binary.Reader) T) func([]byte) T {
	return func(b []byte) T { return read(binary.NewReader(b)) }
}

var (
	// Bool is a boolean stored as a single byte, zero meaning false.
	Bool    Type[bool]    = fixed[bool]{"bool", 1, put((*binary.Writer).Bool), get((*binary.Reader).Bool)}
	Int8    Type[int8]    = fixed[int8]{"int8", 1, put((*binary.Writer).Int8), get((*binary.Reader).Int8)}
	Uint8   Type[uint8]   = fixed[uint8]{"uint8", 1, put((*binary.Writer).Uint8), get((*binary.Reader).Uint8)}
	Int16   Type[int16]   = fixed[int16]{"int16", 2, put((*binary.Writer).Int16), get((*binary.Reader).Int16)}
	Uint16  Type[uint16]  = fixed[uint16]{"uint16", 2, put((*binary.Writer).Uint16), get((*binary.Reader).Uint16)}
	Int32   Type[int32]   = fixed[int32]{"int32", 4, put((*binary.Writer).Int32), get((*binary.Reader).Int32)}
	Uint32  Type[uint32]  = fixed[uint32]{"uint32", 4, put((*binary.Writer).Uint32), get((*binary.Reader).Uint32)}
	Int64   Type[int64]   = fixed[int64]{"int64", 8, put((*binary.Writer).Int64), get((*binary.Reader).Int64)}
	Uint64  Type[uint64]  = fixed[uint64]{"uint64", 8, put((*binary.Writer).Uint64), get((*binary.Reader).Uint64)}
	Float32 Type[float32] = fixed[float32]{"float32", 4, put((*binary.Writer).Float32), get((*binary.Reader).Float32)}
	Float64 Type[float64] = fixed[float64]{"float64", 8, put((*binary.Writer).Float64), get((*binary.Reader).Float64)}
)

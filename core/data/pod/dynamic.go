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
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/GameFoundry/bsf-sub024/core/data/endian"
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

type bytesType[T ~string | ~[]byte] struct{}

func (bytesType[T]) Dynamic() bool   { return true }
func (bytesType[T]) Size(v T) uint32 { return HeaderSize + uint32(len(v)) }
func (t bytesType[T]) Write(dst []byte, v T) int {
	n := t.Size(v)
	putHeader(dst, n)
	copy(dst[HeaderSize:n], v)
	return int(n)
}

func (bytesType[T]) Read(src []byte, v *T) (int, error) {
	n, err := ReadHeader(src)
	if err != nil {
		return 0, err
	}
	if n == HeaderSize {
		var empty T
		*v = empty
	} else {
		*v = T(append([]byte(nil), src[HeaderSize:n]...))
	}
	return int(n), nil
}

var (
	// String is a UTF-8 string stored as its length followed by its bytes.
	String Type[string] = bytesType[string]{}
	// Bytes is a byte slice stored as its length followed by its bytes. An
	// empty slice decodes as nil.
	Bytes Type[[]byte] = bytesType[[]byte]{}
)

type sliceType[T any] struct{ elem Type[T] }

// Slice returns the dynamic size type of a slice of elem values.
// The layout is the length, the element count, then each element. An empty
// slice decodes as nil.
func Slice[T any](elem Type[T]) Type[[]T] { return sliceType[T]{elem} }

func (sliceType[T]) Dynamic() bool { return true }

func (t sliceType[T]) Size(v []T) uint32 {
	n := uint32(HeaderSize + 4)
	if !t.elem.Dynamic() {
		return n + uint32(len(v))*FixedSize(t.elem)
	}
	for _, e := range v {
		n += t.elem.Size(e)
	}
	return n
}

func (t sliceType[T]) Write(dst []byte, v []T) int {
	n := t.Size(v)
	putHeader(dst, n)
	endian.Order.PutUint32(dst[HeaderSize:], uint32(len(v)))
	o := HeaderSize + 4
	for _, e := range v {
		o += t.elem.Write(dst[o:], e)
	}
	return int(n)
}

func (t sliceType[T]) Read(src []byte, v *[]T) (int, error) {
	n, err := ReadHeader(src)
	if err != nil {
		return 0, err
	}
	body := src[HeaderSize:n]
	if len(body) < 4 {
		return 0, fault.Protocolf("slice of %d bytes has no element count", n)
	}
	count := endian.Order.Uint32(body)
	body = body[4:]
	if need := uint64(count) * leastSize(t.elem); need > uint64(len(body)) {
		return 0, fault.Protocolf("slice of %d elements does not fit in %d bytes", count, len(body))
	}
	var out []T
	if count > 0 {
		out = make([]T, count)
	}
	for i := range out {
		c, err := t.elem.Read(body, &out[i])
		if err != nil {
			return 0, err
		}
		body = body[c:]
	}
	if len(body) != 0 {
		return 0, fault.Protocolf("slice has %d trailing bytes", len(body))
	}
	*v = out
	return int(n), nil
}

type mapType[K cmp.Ordered, V any] struct {
	key   Type[K]
	value Type[V]
}

// Map returns the dynamic size type of a map. The layout is the length, the
// entry count, then each key followed by its value. Keys are written in
// ascending order so equal maps always produce equal bytes. An empty map
// decodes as nil.
func Map[K cmp.Ordered, V any](key Type[K], value Type[V]) Type[map[K]V] {
	return mapType[K, V]{key, value}
}

func (mapType[K, V]) Dynamic() bool { return true }

func (t mapType[K, V]) Size(m map[K]V) uint32 {
	n := uint32(HeaderSize + 4)
	for k, v := range m {
		n += t.key.Size(k) + t.value.Size(v)
	}
	return n
}

func (t mapType[K, V]) Write(dst []byte, m map[K]V) int {
	n := t.Size(m)
	putHeader(dst, n)
	endian.Order.PutUint32(dst[HeaderSize:], uint32(len(m)))
	keys := lo.Keys(m)
	slices.Sort(keys)
	o := HeaderSize + 4
	for _, k := range keys {
		o += t.key.Write(dst[o:], k)
		o += t.value.Write(dst[o:], m[k])
	}
	return int(n)
}

func (t mapType[K, V]) Read(src []byte, m *map[K]V) (int, error) {
	n, err := ReadHeader(src)
	if err != nil {
		return 0, err
	}
	body := src[HeaderSize:n]
	if len(body) < 4 {
		return 0, fault.Protocolf("map of %d bytes has no entry count", n)
	}
	count := endian.Order.Uint32(body)
	body = body[4:]
	if need := uint64(count) * (leastSize(t.key) + leastSize(t.value)); need > uint64(len(body)) {
		return 0, fault.Protocolf("map of %d entries does not fit in %d bytes", count, len(body))
	}
	var out map[K]V
	if count > 0 {
		out = make(map[K]V, count)
	}
	for i := uint32(0); i < count; i++ {
		var k K
		var v V
		c, err := t.key.Read(body, &k)
		if err != nil {
			return 0, err
		}
		body = body[c:]
		if c, err = t.value.Read(body, &v); err != nil {
			return 0, err
		}
		body = body[c:]
		out[k] = v
	}
	if len(body) != 0 {
		return 0, fault.Protocolf("map has %d trailing bytes", len(body))
	}
	*m = out
	return int(n), nil
}

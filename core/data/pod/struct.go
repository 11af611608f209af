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

import "github.com/GameFoundry/bsf-sub024/core/fault"

// Member is one field of a Struct type.
type Member[T any] interface {
	dynamic() bool
	size(v *T) uint32
	write(dst []byte, v *T) int
	read(src []byte, v *T) (int, error)
}

type member[T, M any] struct {
	t   Type[M]
	ref func(*T) *M
}

// Field returns a struct member of type t, located by ref.
func Field[T, M any](t Type[M], ref func(*T) *M) Member[T] { return member[T, M]{t, ref} }

func (m member[T, M]) dynamic() bool                      { return m.t.Dynamic() }
func (m member[T, M]) size(v *T) uint32                   { return m.t.Size(*m.ref(v)) }
func (m member[T, M]) write(dst []byte, v *T) int         { return m.t.Write(dst, *m.ref(v)) }
func (m member[T, M]) read(src []byte, v *T) (int, error) { return m.t.Read(src, m.ref(v)) }

type structType[T any] struct {
	name    string
	members []Member[T]
	dyn     bool
}

// Struct returns a type that lays out the members one after another in
// order. If every member has a fixed size, the struct is fixed size too.
// Otherwise it is a dynamic size type with a leading length.
func Struct[T any](name string, members ...Member[T]) Type[T] {
	s := structType[T]{name: name, members: members}
	for _, m := range members {
		s.dyn = s.dyn || m.dynamic()
	}
	return s
}

func (s structType[T]) Dynamic() bool  { return s.dyn }
func (s structType[T]) String() string { return s.name }

func (s structType[T]) Size(v T) uint32 {
	n := uint32(0)
	if s.dyn {
		n = HeaderSize
	}
	for _, m := range s.members {
		n += m.size(&v)
	}
	return n
}

func (s structType[T]) Write(dst []byte, v T) int {
	o := 0
	if s.dyn {
		putHeader(dst, s.Size(v))
		o = HeaderSize
	}
	for _, m := range s.members {
		o += m.write(dst[o:], &v)
	}
	return o
}

func (s structType[T]) Read(src []byte, v *T) (int, error) {
	body, n := src, len(src)
	if s.dyn {
		h, err := ReadHeader(src)
		if err != nil {
			return 0, err
		}
		body, n = src[HeaderSize:h], int(h)
	}
	o := 0
	for _, m := range s.members {
		c, err := m.read(body[o:], v)
		if err != nil {
			return 0, fault.Protocolf("%s: %v", s.name, err)
		}
		o += c
	}
	if !s.dyn {
		return o, nil
	}
	if o != len(body) {
		return 0, fault.Protocolf("%s has %d trailing bytes", s.name, len(body)-o)
	}
	return n, nil
}

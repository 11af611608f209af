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

package cyclic

import (
	"context"
	"math"

	cb "github.com/GameFoundry/bsf-sub024/core/data/binary"
	"github.com/GameFoundry/bsf-sub024/core/fault"
	"github.com/GameFoundry/bsf-sub024/core/log"
	"github.com/GameFoundry/bsf-sub024/framework/binary"
	"github.com/GameFoundry/bsf-sub024/framework/binary/schema"
	"github.com/GameFoundry/bsf-sub024/framework/binary/stream"
)

// Encoder writes object graphs to a stream.
// An Encoder may be reused but must not be used concurrently.
type Encoder struct {
	out   *stream.Buffer
	ids   map[binary.Reflectable]uint32
	queue []queued
	ready map[binary.Reflectable]bool
	sizes map[sizeKey]int
}

type queued struct {
	id  uint32
	obj binary.Reflectable
}

// sizeKey identifies the chunk written for one level of an object's type
// hierarchy.
type sizeKey struct {
	obj binary.Reflectable
	t   *binary.TypeDescriptor
}

// NewEncoder returns a new Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Encode writes the graph reachable from root into buf, handing buf to flush
// whenever the next write does not fit, and once more at the end with the
// remaining bytes. It returns the total number of bytes written.
//
// On error the bytes already flushed are valid but the stream is incomplete
// and must be discarded.
func (e *Encoder) Encode(ctx context.Context, root binary.Reflectable, buf []byte, flush stream.FlushFunc) (int, error) {
	ctx = log.Enter(ctx, "Encode")
	e.out = stream.NewBuffer(buf, flush)
	e.ids = map[binary.Reflectable]uint32{}
	e.queue = nil
	e.ready = map[binary.Reflectable]bool{}
	e.sizes = map[sizeKey]int{}
	defer func() { e.ids, e.ready, e.sizes = nil, nil, nil }()

	err := e.encode(root)
	if err == nil {
		err = e.out.Close()
	}
	n := e.out.Written()
	flushes.Add(float64(e.out.Flushes()))
	if err != nil {
		failed("encode", err)
		log.W(ctx, "Encode failed after %d bytes: %v", n, err)
		return n, err
	}
	objectsEncoded.Add(float64(len(e.ids)))
	bytesEncoded.Add(float64(n))
	log.D(ctx, "Encoded %d objects in %d bytes with %d flushes", len(e.ids), n, e.out.Flushes())
	return n, nil
}

func (e *Encoder) encode(root binary.Reflectable) error {
	if binary.IsNil(root) {
		return fault.Configurationf("cannot encode a nil root")
	}
	if _, err := e.id(root); err != nil {
		return err
	}
	for len(e.queue) > 0 {
		q := e.queue[0]
		e.queue = e.queue[1:]
		e.prepare(q.obj)
		if err := e.writeChunk(q.obj, q.obj.Descriptor(), q.id); err != nil {
			return err
		}
	}
	return nil
}

// id returns the id of obj, queueing it for encoding the first time it is
// seen.
func (e *Encoder) id(obj binary.Reflectable) (uint32, error) {
	if binary.IsNil(obj) {
		return 0, nil
	}
	if id, found := e.ids[obj]; found {
		return id, nil
	}
	if len(e.ids) >= schema.MaxObjectID {
		return 0, fault.Capacityf("more than %d objects in one graph", schema.MaxObjectID)
	}
	id := uint32(len(e.ids) + 1)
	e.ids[obj] = id
	e.queue = append(e.queue, queued{id, obj})
	return id, nil
}

// prepare runs the OnEncode hooks of obj, once per encode.
func (e *Encoder) prepare(obj binary.Reflectable) {
	if e.ready[obj] {
		return
	}
	e.ready[obj] = true
	for _, t := range obj.Descriptor().Hierarchy() {
		if t.OnEncode != nil {
			t.OnEncode(obj)
		}
	}
}

func (e *Encoder) writeChunk(obj binary.Reflectable, t *binary.TypeDescriptor, id uint32) error {
	dst, err := e.out.Reserve(schema.ObjectMetadataSize)
	if err != nil {
		return err
	}
	w := cb.NewWriter(dst)
	schema.ObjectMetadata{ObjectID: id, TypeID: t.ID()}.Write(w)
	if err := w.Error(); err != nil {
		return err
	}
	if base := t.Base(); base != nil {
		if err := e.put(schema.BaseClassField().Word()); err != nil {
			return err
		}
		if err := e.putLength(e.chunkSize(obj, base)); err != nil {
			return err
		}
		if err := e.writeChunk(obj, base, 0); err != nil {
			return err
		}
	}
	for _, f := range t.Fields() {
		if err := e.writeField(obj, f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeField(obj binary.Reflectable, f binary.Field) error {
	if err := e.put(schema.FieldOf(f).Word()); err != nil {
		return err
	}
	if !f.IsArray() {
		return e.writeElement(obj, f, -1)
	}
	n := f.ArraySize(obj)
	if err := e.putLength(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := e.writeElement(obj, f, i); err != nil {
			return err
		}
	}
	return nil
}

// writeElement writes element i of f, or its scalar value if i is negative.
func (e *Encoder) writeElement(obj binary.Reflectable, f binary.Field, i int) error {
	switch f := f.(type) {
	case binary.PlainField:
		if i < 0 {
			dst, err := e.out.Reserve(int(f.ValueSize(obj)))
			if err != nil {
				return err
			}
			f.WriteValue(obj, dst)
			return nil
		}
		dst, err := e.out.Reserve(int(f.ValueSizeAt(obj, i)))
		if err != nil {
			return err
		}
		f.WriteValueAt(obj, i, dst)
		return nil

	case binary.ReflectableField:
		v, err := valueOf(f, obj, i)
		if err != nil {
			return err
		}
		if f.Kind() == binary.KindReflectablePtr {
			id, err := e.id(v)
			if err != nil {
				return err
			}
			return e.put(id)
		}
		if v == nil {
			return e.putLength(0)
		}
		e.prepare(v)
		if err := e.putLength(e.chunkSize(v, v.Descriptor())); err != nil {
			return err
		}
		return e.writeChunk(v, v.Descriptor(), 0)

	case binary.DataBlockField:
		data := f.Block(obj)
		if err := e.putLength(len(data)); err != nil {
			return err
		}
		_, err := e.out.Write(data)
		return err
	}
	return fault.Configurationf("field %s has unknown kind %v", f.Name(), f.Kind())
}

// valueOf returns element i of f, or its scalar value if i is negative,
// checking it against the field's declared type.
func valueOf(f binary.ReflectableField, obj binary.Reflectable, i int) (binary.Reflectable, error) {
	var v binary.Reflectable
	if i < 0 {
		v = f.Value(obj)
	} else {
		v = f.ValueAt(obj, i)
	}
	if v != nil && !v.Descriptor().IsDerivedFrom(f.Type()) {
		return nil, fault.Configurationf("field %s holds a %v, which is not a %v", f.Name(), v.Descriptor(), f.Type())
	}
	return v, nil
}

// chunkSize returns the number of bytes writeChunk writes for obj at level t
// of its hierarchy.
func (e *Encoder) chunkSize(obj binary.Reflectable, t *binary.TypeDescriptor) int {
	key := sizeKey{obj, t}
	if n, found := e.sizes[key]; found {
		return n
	}
	n := schema.ObjectMetadataSize
	if base := t.Base(); base != nil {
		n += schema.FieldMetadataSize + schema.LengthSize + e.chunkSize(obj, base)
	}
	for _, f := range t.Fields() {
		n += schema.FieldMetadataSize
		if !f.IsArray() {
			n += e.elementSize(obj, f, -1)
			continue
		}
		count := f.ArraySize(obj)
		n += schema.LengthSize
		for i := 0; i < count; i++ {
			n += e.elementSize(obj, f, i)
		}
	}
	e.sizes[key] = n
	return n
}

func (e *Encoder) elementSize(obj binary.Reflectable, f binary.Field, i int) int {
	switch f := f.(type) {
	case binary.PlainField:
		if i < 0 {
			return int(f.ValueSize(obj))
		}
		return int(f.ValueSizeAt(obj, i))
	case binary.ReflectableField:
		if f.Kind() == binary.KindReflectablePtr {
			return schema.LengthSize
		}
		var v binary.Reflectable
		if i < 0 {
			v = f.Value(obj)
		} else {
			v = f.ValueAt(obj, i)
		}
		if v == nil {
			return schema.LengthSize
		}
		e.prepare(v)
		return schema.LengthSize + e.chunkSize(v, v.Descriptor())
	case binary.DataBlockField:
		return schema.LengthSize + len(f.Block(obj))
	}
	return 0
}

func (e *Encoder) put(v uint32) error { return e.out.PutUint32(v) }

func (e *Encoder) putLength(n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return fault.Capacityf("length %d does not fit in 32 bits", n)
	}
	return e.out.PutUint32(uint32(n))
}

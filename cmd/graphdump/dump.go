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

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GameFoundry/bsf-sub024/core/data/endian"
	fb "github.com/GameFoundry/bsf-sub024/framework/binary"
	"github.com/GameFoundry/bsf-sub024/framework/binary/schema"
)

type object struct {
	meta   schema.ObjectMetadata
	fields []*field
}

type field struct {
	meta   schema.FieldMetadata
	count  int
	values []any
}

// dumper is a schema.Visitor building the object tree of a stream.
type dumper struct {
	maxData int
	objects []*object
	stack   []*object
}

func (d *dumper) top() *object { return d.stack[len(d.stack)-1] }

func (d *dumper) current() *field {
	o := d.top()
	return o.fields[len(o.fields)-1]
}

func (d *dumper) BeginObject(m schema.ObjectMetadata) error {
	o := &object{meta: m}
	if len(d.stack) > 0 {
		f := d.current()
		f.values = append(f.values, o)
	}
	d.stack = append(d.stack, o)
	return nil
}

func (d *dumper) EndObject() error {
	o := d.top()
	d.stack = d.stack[:len(d.stack)-1]
	if len(d.stack) == 0 {
		d.objects = append(d.objects, o)
	}
	return nil
}

func (d *dumper) BeginField(m schema.FieldMetadata, count int) error {
	o := d.top()
	o.fields = append(o.fields, &field{meta: m, count: count})
	return nil
}

func (d *dumper) EndField() error { return nil }

func (d *dumper) Value(m schema.FieldMetadata, payload []byte) error {
	f := d.current()
	f.values = append(f.values, d.value(m, payload))
	return nil
}

func (d *dumper) value(m schema.FieldMetadata, payload []byte) any {
	switch m.Kind() {
	case fb.KindReflectable:
		return nil
	case fb.KindReflectablePtr:
		return endian.Order.Uint32(payload)
	}
	if d.maxData < 0 || len(payload) <= d.maxData {
		return hex.EncodeToString(payload)
	}
	return fmt.Sprintf("%s...(%d bytes)", hex.EncodeToString(payload[:d.maxData]), len(payload))
}

func (o *object) tree() map[string]any {
	out := map[string]any{
		"type":   o.meta.TypeID,
		"fields": lo.Map(o.fields, func(f *field, _ int) any { return f.tree() }),
	}
	if !o.meta.BaseClassPart {
		out["id"] = o.meta.ObjectID
	}
	return out
}

func (f *field) tree() map[string]any {
	values := lo.Map(f.values, func(v any, _ int) any {
		if o, ok := v.(*object); ok {
			return o.tree()
		}
		return v
	})
	out := map[string]any{
		"id":    uint32(f.meta.ID),
		"kind":  f.meta.Kind().String(),
		"flags": f.meta.Flags.String(),
	}
	switch {
	case f.meta.IsBaseClass():
		out["kind"] = "Base"
		out["value"] = values[0]
	case f.count < 0:
		out["value"] = values[0]
	default:
		out["values"] = values
	}
	if f.meta.Size != 0 {
		out["size"] = uint32(f.meta.Size)
	}
	return out
}

// dump returns the JSON description of the stream data.
func dump(data []byte, maxData int, indent bool) ([]byte, error) {
	d := &dumper{maxData: maxData}
	if err := schema.Walk(data, d); err != nil {
		return nil, err
	}
	list, err := structpb.NewList(lo.Map(d.objects, func(o *object, _ int) any { return o.tree() }))
	if err != nil {
		return nil, err
	}
	opts := protojson.MarshalOptions{}
	if indent {
		opts.Multiline = true
		opts.Indent = "  "
	}
	return opts.Marshal(list)
}

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

package cyclic_test

import (
	"sync"

	"github.com/GameFoundry/bsf-sub024/core/data/pod"
	"github.com/GameFoundry/bsf-sub024/framework/binary"
	"github.com/GameFoundry/bsf-sub024/framework/binary/registry"
	"github.com/GameFoundry/bsf-sub024/framework/binary/test"
)

// nodeA and nodeB reference each other, B's reference being weak.
type nodeA struct {
	Name string
	B    *nodeB
}

type nodeB struct {
	A *nodeA
}

// pointV1 and pointV2 are two versions of the same type, sharing an id.
type pointV1 struct {
	X, Y int32
}

type pointV2 struct {
	X, Y    int32
	Label   string
	Weights []float32
	Pose    test.Transform
	Blob    []byte
	Next    *pointV2
}

// sink has a reference without a setter.
type sink struct {
	Target *nodeB
}

// holder stores slots by value, and each slot references a nodeB.
type holder struct {
	Slot  slot
	Slots []slot
}

type slot struct {
	Target *nodeB
	Ready  bool
}

var (
	nodeAType    = binary.NewType(200, "NodeA", func() binary.Reflectable { return &nodeA{} }, nil)
	nodeBType    = binary.NewType(201, "NodeB", func() binary.Reflectable { return &nodeB{} }, nil)
	pointV1Type  = binary.NewType(300, "Point", func() binary.Reflectable { return &pointV1{} }, nil)
	pointV2Type  = binary.NewType(300, "Point", func() binary.Reflectable { return &pointV2{} }, nil)
	abstractType = binary.NewType(301, "Abstract", nil, nil)
	sinkType     = binary.NewType(302, "Sink", func() binary.Reflectable { return &sink{} }, nil)
	holderType   = binary.NewType(303, "Holder", func() binary.Reflectable { return &holder{} }, nil)
	slotType     = binary.NewType(304, "Slot", func() binary.Reflectable { return &slot{} }, nil)
)

func (*nodeA) Descriptor() *binary.TypeDescriptor   { return nodeAType }
func (*nodeB) Descriptor() *binary.TypeDescriptor   { return nodeBType }
func (*pointV1) Descriptor() *binary.TypeDescriptor { return pointV1Type }
func (*pointV2) Descriptor() *binary.TypeDescriptor { return pointV2Type }
func (*sink) Descriptor() *binary.TypeDescriptor    { return sinkType }
func (*holder) Descriptor() *binary.TypeDescriptor  { return holderType }
func (*slot) Descriptor() *binary.TypeDescriptor    { return slotType }

var describeTypes = sync.OnceValue(func() error {
	err := nodeAType.AddFields(
		binary.Plain(1, "Name", pod.String,
			func(a *nodeA) string { return a.Name },
			func(a *nodeA, v string) { a.Name = v }),
		binary.Ptr(2, "B", nodeBType,
			func(a *nodeA) *nodeB { return a.B },
			func(a *nodeA, v *nodeB) { a.B = v }),
	)
	if err != nil {
		return err
	}
	err = nodeBType.AddField(binary.WeakPtr(1, "A", nodeAType,
		func(b *nodeB) *nodeA { return b.A },
		func(b *nodeB, v *nodeA) { b.A = v }))
	if err != nil {
		return err
	}
	err = pointV1Type.AddFields(
		binary.Plain(1, "X", pod.Int32,
			func(p *pointV1) int32 { return p.X },
			func(p *pointV1, v int32) { p.X = v }),
		binary.Plain(5, "Y", pod.Int32,
			func(p *pointV1) int32 { return p.Y },
			func(p *pointV1, v int32) { p.Y = v }),
	)
	if err != nil {
		return err
	}
	err = pointV2Type.AddFields(
		binary.Plain(1, "X", pod.Int32,
			func(p *pointV2) int32 { return p.X },
			func(p *pointV2, v int32) { p.X = v }),
		binary.Plain(2, "Label", pod.String,
			func(p *pointV2) string { return p.Label },
			func(p *pointV2, v string) { p.Label = v }),
		binary.PlainArray(3, "Weights", pod.Float32,
			func(p *pointV2) int { return len(p.Weights) },
			func(p *pointV2, n int) {
				p.Weights = nil
				if n > 0 {
					p.Weights = make([]float32, n)
				}
			},
			func(p *pointV2, i int) float32 { return p.Weights[i] },
			func(p *pointV2, i int, v float32) { p.Weights[i] = v }),
		binary.Nested(4, "Pose", test.TransformType,
			func(p *pointV2) *test.Transform { return &p.Pose },
			func(p *pointV2, v *test.Transform) {
				p.Pose = test.Transform{}
				if v != nil {
					p.Pose = *v
				}
			}),
		binary.Plain(5, "Y", pod.Int32,
			func(p *pointV2) int32 { return p.Y },
			func(p *pointV2, v int32) { p.Y = v }),
		binary.DataBlock(6, "Blob",
			func(p *pointV2) []byte { return p.Blob },
			func(p *pointV2, v []byte) { p.Blob = v }),
		binary.WeakPtr(7, "Next", pointV2Type,
			func(p *pointV2) *pointV2 { return p.Next },
			func(p *pointV2, v *pointV2) { p.Next = v }),
	)
	if err != nil {
		return err
	}
	err = sinkType.AddField(binary.Ptr(1, "Target", nodeBType,
		func(s *sink) *nodeB { return s.Target }, nil))
	if err != nil {
		return err
	}
	slotType.OnDecoded = func(obj binary.Reflectable) {
		s := obj.(*slot)
		s.Ready = s.Target != nil
	}
	err = slotType.AddField(binary.Ptr(1, "Target", nodeBType,
		func(s *slot) *nodeB { return s.Target },
		func(s *slot, v *nodeB) { s.Target = v }))
	if err != nil {
		return err
	}
	return holderType.AddFields(
		binary.Nested(1, "Slot", slotType,
			func(h *holder) *slot { return &h.Slot },
			func(h *holder, v *slot) {
				h.Slot = slot{}
				if v != nil {
					h.Slot = *v
				}
			}),
		binary.NestedArray(2, "Slots", slotType,
			func(h *holder) int { return len(h.Slots) },
			func(h *holder, n int) {
				h.Slots = nil
				if n > 0 {
					h.Slots = make([]slot, n)
				}
			},
			func(h *holder, i int) *slot { return &h.Slots[i] },
			func(h *holder, i int, v *slot) {
				h.Slots[i] = slot{}
				if v != nil {
					h.Slots[i] = *v
				}
			}),
	)
})

// registries returns a registry holding the fixtures and the current
// versions of the test types, and one holding the old version of Point.
func registries() (current, old *registry.Registry, err error) {
	if err := describeTypes(); err != nil {
		return nil, nil, err
	}
	fixtures, err := test.NewRegistry()
	if err != nil {
		return nil, nil, err
	}
	current = registry.New(fixtures)
	if err := current.RegisterAll(nodeAType, nodeBType, pointV2Type, abstractType, sinkType, slotType, holderType); err != nil {
		return nil, nil, err
	}
	old = registry.New(fixtures)
	if err := old.Register(pointV1Type); err != nil {
		return nil, nil, err
	}
	return current, old, nil
}

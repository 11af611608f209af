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

package test

import (
	"bytes"

	"github.com/GameFoundry/bsf-sub024/core/data/endian"
)

// NewScene returns a scene whose two renderables share a mesh and a
// material, with a two level object hierarchy linked by weak references.
func NewScene() *Scene {
	mesh := &Mesh{
		Resource: Resource{Name: "crate", Version: 3},
		Vertices: []Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 2, 0.5}},
		Indices:  []uint32{0, 1, 2},
		Payload:  bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef, 0x01}, 13),
	}
	wood := &Material{
		Resource: Resource{Name: "wood", Version: 1},
		Color:    Color{0.5, 0.3, 0.1, 1},
		Params:   map[string]float32{"roughness": 0.8, "metal": 0},
		Shader:   "lit",
	}
	glow := &Material{
		Resource: Resource{Name: "glow"},
		Color:    Color{1, 1, 0.5, 1},
		Shader:   "unlit",
	}

	root := &SceneObject{Name: "root", Local: Transform{Rotation: Quat{W: 1}, Scale: Vec3{1, 1, 1}}}
	left := &SceneObject{Name: "left", Tags: []string{"static", "crate"}}
	right := &SceneObject{Name: "right", Local: Transform{Position: Vec3{X: 4}}}
	root.AddChild(left)
	root.AddChild(right)

	left.AddComponent(&Renderable{
		Component: Component{Enabled: true},
		Mesh:      mesh,
		Materials: []*Material{wood},
	})
	right.AddComponent(&Renderable{
		Mesh:      mesh,
		Materials: []*Material{wood, glow},
		Offset:    Transform{Position: Vec3{Y: 1}},
	})
	right.AddComponent(&Light{Component: Component{Enabled: true}, Intensity: 2.5, Color: Color{1, 1, 1, 1}})

	return &Scene{
		Name:      "level",
		Root:      root,
		Resources: []ResourceObject{mesh, wood, glow},
	}
}

// Bytes is a helper for building expected encodings.
type Bytes struct {
	Data []byte
}

// Add appends raw bytes.
func (b Bytes) Add(v ...byte) Bytes {
	b.Data = append(b.Data, v...)
	return b
}

// Words appends each value as a host endian 32 bit word.
func (b Bytes) Words(v ...uint32) Bytes {
	for _, w := range v {
		b.Data = endian.Order.AppendUint32(b.Data, w)
	}
	return b
}

// String appends s as a dynamic size plain value.
func (b Bytes) String(s string) Bytes {
	return b.Words(uint32(4 + len(s))).Add([]byte(s)...)
}

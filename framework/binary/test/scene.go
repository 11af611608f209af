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

// Package test holds a small scene and resource model used to exercise the
// binary framework: abstract bases, by-value sub-objects, shared and weak
// references, plain structs, dynamic size values and data blocks.
package test

import (
	"github.com/GameFoundry/bsf-sub024/core/data/pod"
	"github.com/GameFoundry/bsf-sub024/framework/binary"
)

// Type ids of the concrete fixture types.
const (
	MeshID uint32 = 100 + iota
	MaterialID
	TransformID
	RenderableID
	LightID
	SceneObjectID
	SceneID
)

type Vec3 struct{ X, Y, Z float32 }

type Quat struct{ X, Y, Z, W float32 }

type Color struct{ R, G, B, A float32 }

var (
	Vec3Type = pod.Struct("Vec3",
		pod.Field(pod.Float32, func(v *Vec3) *float32 { return &v.X }),
		pod.Field(pod.Float32, func(v *Vec3) *float32 { return &v.Y }),
		pod.Field(pod.Float32, func(v *Vec3) *float32 { return &v.Z }),
	)
	QuatType = pod.Struct("Quat",
		pod.Field(pod.Float32, func(v *Quat) *float32 { return &v.X }),
		pod.Field(pod.Float32, func(v *Quat) *float32 { return &v.Y }),
		pod.Field(pod.Float32, func(v *Quat) *float32 { return &v.Z }),
		pod.Field(pod.Float32, func(v *Quat) *float32 { return &v.W }),
	)
	ColorType = pod.Struct("Color",
		pod.Field(pod.Float32, func(v *Color) *float32 { return &v.R }),
		pod.Field(pod.Float32, func(v *Color) *float32 { return &v.G }),
		pod.Field(pod.Float32, func(v *Color) *float32 { return &v.B }),
		pod.Field(pod.Float32, func(v *Color) *float32 { return &v.A }),
	)
)

// Resource is the state shared by every asset.
type Resource struct {
	Name    string
	Version uint32
}

func (r *Resource) AsResource() *Resource { return r }

// ResourceObject is implemented by every type derived from Resource.
type ResourceObject interface {
	binary.Reflectable
	AsResource() *Resource
}

type Mesh struct {
	Resource
	Vertices []Vec3
	Indices  []uint32
	// Bounds is recomputed from Vertices whenever the mesh is encoded.
	Bounds  Vec3
	Payload []byte

	Loaded bool
}

type Material struct {
	Resource
	Color  Color
	Params map[string]float32
	Shader string
}

// Transform is always stored by value.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// Component is the state shared by everything attached to a SceneObject.
type Component struct {
	Owner   *SceneObject
	Enabled bool
}

func (c *Component) AsComponent() *Component { return c }

// ComponentObject is implemented by every type derived from Component.
type ComponentObject interface {
	binary.Reflectable
	AsComponent() *Component
}

type Renderable struct {
	Component
	Mesh      *Mesh
	Materials []*Material
	Offset    Transform

	// MeshLoaded records whether Mesh had been notified of its decode when
	// the renderable itself was.
	MeshLoaded bool
}

type Light struct {
	Component
	Intensity float32
	Color     Color
}

type SceneObject struct {
	Name       string
	Local      Transform
	Components []ComponentObject
	Children   []*SceneObject
	Parent     *SceneObject
	Tags       []string
}

type Scene struct {
	Name      string
	Root      *SceneObject
	Resources []ResourceObject
}

var (
	ResourceType    = binary.NewAbstractType("Resource", nil)
	MeshType        = binary.NewType(MeshID, "Mesh", func() binary.Reflectable { return &Mesh{} }, ResourceType)
	MaterialType    = binary.NewType(MaterialID, "Material", func() binary.Reflectable { return &Material{} }, ResourceType)
	TransformType   = binary.NewType(TransformID, "Transform", func() binary.Reflectable { return &Transform{} }, nil)
	ComponentType   = binary.NewAbstractType("Component", nil)
	RenderableType  = binary.NewType(RenderableID, "Renderable", func() binary.Reflectable { return &Renderable{} }, ComponentType)
	LightType       = binary.NewType(LightID, "Light", func() binary.Reflectable { return &Light{} }, ComponentType)
	SceneObjectType = binary.NewType(SceneObjectID, "SceneObject", func() binary.Reflectable { return &SceneObject{} }, nil)
	SceneType       = binary.NewType(SceneID, "Scene", func() binary.Reflectable { return &Scene{} }, nil)
)

func (*Mesh) Descriptor() *binary.TypeDescriptor        { return MeshType }
func (*Material) Descriptor() *binary.TypeDescriptor    { return MaterialType }
func (*Transform) Descriptor() *binary.TypeDescriptor   { return TransformType }
func (*Renderable) Descriptor() *binary.TypeDescriptor  { return RenderableType }
func (*Light) Descriptor() *binary.TypeDescriptor       { return LightType }
func (*SceneObject) Descriptor() *binary.TypeDescriptor { return SceneObjectType }
func (*Scene) Descriptor() *binary.TypeDescriptor       { return SceneType }

// AddChild appends child to o's children and sets its parent.
func (o *SceneObject) AddChild(child *SceneObject) {
	child.Parent = o
	o.Children = append(o.Children, child)
}

// AddComponent attaches c to o.
func (o *SceneObject) AddComponent(c ComponentObject) {
	c.AsComponent().Owner = o
	o.Components = append(o.Components, c)
}

func (m *Mesh) updateBounds() {
	m.Bounds = Vec3{}
	for _, v := range m.Vertices {
		m.Bounds.X = max(m.Bounds.X, abs(v.X))
		m.Bounds.Y = max(m.Bounds.Y, abs(v.Y))
		m.Bounds.Z = max(m.Bounds.Z, abs(v.Z))
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

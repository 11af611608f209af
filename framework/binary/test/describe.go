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
	"sync"

	"github.com/GameFoundry/bsf-sub024/core/data/pod"
	"github.com/GameFoundry/bsf-sub024/framework/binary"
	"github.com/GameFoundry/bsf-sub024/framework/binary/registry"
)

var (
	describeOnce sync.Once
	describeErr  error
)

// Types returns the fixture type descriptors, bases first.
func Types() []*binary.TypeDescriptor {
	return []*binary.TypeDescriptor{
		ResourceType, MeshType, MaterialType,
		TransformType,
		ComponentType, RenderableType, LightType,
		SceneObjectType, SceneType,
	}
}

// Register adds the fixture types to r. The fields of each type are declared
// on the first call.
func Register(r *registry.Registry) error {
	describeOnce.Do(func() { describeErr = describe() })
	if describeErr != nil {
		return describeErr
	}
	return r.RegisterAll(Types()...)
}

// NewRegistry returns a new registry holding only the fixture types.
func NewRegistry() (*registry.Registry, error) {
	r := registry.New()
	return r, Register(r)
}

func describe() error {
	for _, d := range []func() error{
		describeResources,
		describeTransform,
		describeComponents,
		describeScene,
	} {
		if err := d(); err != nil {
			return err
		}
	}
	return nil
}

func describeResources() error {
	err := ResourceType.AddFields(
		binary.Plain(1, "Name", pod.String,
			func(r ResourceObject) string { return r.AsResource().Name },
			func(r ResourceObject, v string) { r.AsResource().Name = v }),
		binary.Plain(2, "Version", pod.Uint32,
			func(r ResourceObject) uint32 { return r.AsResource().Version },
			func(r ResourceObject, v uint32) { r.AsResource().Version = v }),
	)
	if err != nil {
		return err
	}

	MeshType.OnEncode = func(obj binary.Reflectable) { obj.(*Mesh).updateBounds() }
	MeshType.OnDecoded = func(obj binary.Reflectable) { obj.(*Mesh).Loaded = true }
	err = MeshType.AddFields(
		binary.PlainArray(1, "Vertices", Vec3Type,
			func(m *Mesh) int { return len(m.Vertices) },
			func(m *Mesh, n int) { m.Vertices = resize[[]Vec3](n) },
			func(m *Mesh, i int) Vec3 { return m.Vertices[i] },
			func(m *Mesh, i int, v Vec3) { m.Vertices[i] = v }),
		binary.Plain(2, "Indices", pod.Slice(pod.Uint32),
			func(m *Mesh) []uint32 { return m.Indices },
			func(m *Mesh, v []uint32) { m.Indices = v }),
		binary.Plain(3, "Bounds", Vec3Type,
			func(m *Mesh) Vec3 { return m.Bounds },
			func(m *Mesh, v Vec3) { m.Bounds = v }),
		binary.DataBlock(4, "Payload",
			func(m *Mesh) []byte { return m.Payload },
			func(m *Mesh, v []byte) { m.Payload = v }),
	)
	if err != nil {
		return err
	}

	return MaterialType.AddFields(
		binary.Plain(1, "Color", ColorType,
			func(m *Material) Color { return m.Color },
			func(m *Material, v Color) { m.Color = v }),
		binary.Plain(2, "Params", pod.Map(pod.String, pod.Float32),
			func(m *Material) map[string]float32 { return m.Params },
			func(m *Material, v map[string]float32) { m.Params = v }),
		binary.Plain(3, "Shader", pod.String,
			func(m *Material) string { return m.Shader },
			func(m *Material, v string) { m.Shader = v }),
	)
}

func describeTransform() error {
	return TransformType.AddFields(
		binary.Plain(1, "Position", Vec3Type,
			func(t *Transform) Vec3 { return t.Position },
			func(t *Transform, v Vec3) { t.Position = v }),
		binary.Plain(2, "Rotation", QuatType,
			func(t *Transform) Quat { return t.Rotation },
			func(t *Transform, v Quat) { t.Rotation = v }),
		binary.Plain(3, "Scale", Vec3Type,
			func(t *Transform) Vec3 { return t.Scale },
			func(t *Transform, v Vec3) { t.Scale = v }),
	)
}

func resize[S ~[]E, E any](n int) S {
	if n == 0 {
		return nil
	}
	return make(S, n)
}

func setTransform(dst *Transform, src *Transform) {
	if src == nil {
		*dst = Transform{}
		return
	}
	*dst = *src
}

func describeComponents() error {
	err := ComponentType.AddFields(
		binary.WeakPtr(1, "Owner", SceneObjectType,
			func(c ComponentObject) *SceneObject { return c.AsComponent().Owner },
			func(c ComponentObject, v *SceneObject) { c.AsComponent().Owner = v }),
		binary.Plain(2, "Enabled", pod.Bool,
			func(c ComponentObject) bool { return c.AsComponent().Enabled },
			func(c ComponentObject, v bool) { c.AsComponent().Enabled = v }),
	)
	if err != nil {
		return err
	}

	RenderableType.OnDecoded = func(obj binary.Reflectable) {
		r := obj.(*Renderable)
		r.MeshLoaded = r.Mesh != nil && r.Mesh.Loaded
	}
	err = RenderableType.AddFields(
		binary.Ptr(1, "Mesh", MeshType,
			func(r *Renderable) *Mesh { return r.Mesh },
			func(r *Renderable, v *Mesh) { r.Mesh = v }),
		binary.PtrArray(2, "Materials", MaterialType,
			func(r *Renderable) int { return len(r.Materials) },
			func(r *Renderable, n int) { r.Materials = resize[[]*Material](n) },
			func(r *Renderable, i int) *Material { return r.Materials[i] },
			func(r *Renderable, i int, v *Material) { r.Materials[i] = v }),
		binary.Nested(3, "Offset", TransformType,
			func(r *Renderable) *Transform { return &r.Offset },
			func(r *Renderable, v *Transform) { setTransform(&r.Offset, v) }),
	)
	if err != nil {
		return err
	}

	return LightType.AddFields(
		binary.Plain(1, "Intensity", pod.Float32,
			func(l *Light) float32 { return l.Intensity },
			func(l *Light, v float32) { l.Intensity = v }),
		binary.Plain(2, "Color", ColorType,
			func(l *Light) Color { return l.Color },
			func(l *Light, v Color) { l.Color = v }),
	)
}

func describeScene() error {
	err := SceneObjectType.AddFields(
		binary.Plain(1, "Name", pod.String,
			func(o *SceneObject) string { return o.Name },
			func(o *SceneObject, v string) { o.Name = v }),
		binary.Nested(2, "Local", TransformType,
			func(o *SceneObject) *Transform { return &o.Local },
			func(o *SceneObject, v *Transform) { setTransform(&o.Local, v) }),
		binary.PtrArray(3, "Components", ComponentType,
			func(o *SceneObject) int { return len(o.Components) },
			func(o *SceneObject, n int) { o.Components = resize[[]ComponentObject](n) },
			func(o *SceneObject, i int) ComponentObject { return o.Components[i] },
			func(o *SceneObject, i int, v ComponentObject) { o.Components[i] = v }),
		binary.WeakPtrArray(4, "Children", SceneObjectType,
			func(o *SceneObject) int { return len(o.Children) },
			func(o *SceneObject, n int) { o.Children = resize[[]*SceneObject](n) },
			func(o *SceneObject, i int) *SceneObject { return o.Children[i] },
			func(o *SceneObject, i int, v *SceneObject) { o.Children[i] = v }),
		binary.WeakPtr(5, "Parent", SceneObjectType,
			func(o *SceneObject) *SceneObject { return o.Parent },
			func(o *SceneObject, v *SceneObject) { o.Parent = v }),
		binary.PlainArray(6, "Tags", pod.String,
			func(o *SceneObject) int { return len(o.Tags) },
			func(o *SceneObject, n int) { o.Tags = resize[[]string](n) },
			func(o *SceneObject, i int) string { return o.Tags[i] },
			func(o *SceneObject, i int, v string) { o.Tags[i] = v }),
	)
	if err != nil {
		return err
	}

	return SceneType.AddFields(
		binary.Plain(1, "Name", pod.String,
			func(s *Scene) string { return s.Name },
			func(s *Scene, v string) { s.Name = v }),
		binary.Ptr(2, "Root", SceneObjectType,
			func(s *Scene) *SceneObject { return s.Root },
			func(s *Scene, v *SceneObject) { s.Root = v }),
		binary.PtrArray(3, "Resources", ResourceType,
			func(s *Scene) int { return len(s.Resources) },
			func(s *Scene, n int) { s.Resources = resize[[]ResourceObject](n) },
			func(s *Scene, i int) ResourceObject { return s.Resources[i] },
			func(s *Scene, i int, v ResourceObject) { s.Resources[i] = v }),
	)
}

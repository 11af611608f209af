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

package registry

import (
	"github.com/GameFoundry/bsf-sub024/core/fault"
	"github.com/GameFoundry/bsf-sub024/framework/binary"
)

// checkCircular fails if t can reach an object of its own type, or of one of
// its bases, by following only references that are not weak. Sub-objects
// held by value are followed too, as their references belong to the owner.
func checkCircular(t *binary.TypeDescriptor) error {
	visited := map[*binary.TypeDescriptor]bool{}
	todo := []*binary.TypeDescriptor{t}
	for len(todo) > 0 {
		cur := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, level := range cur.Hierarchy() {
			for _, f := range level.Fields() {
				rf, ok := f.(binary.ReflectableField)
				if !ok || rf.IsWeak() {
					continue
				}
				if rf.Kind() == binary.KindReflectablePtr && t.IsDerivedFrom(rf.Type()) {
					return fault.Configurationf("circular reference: %s reaches %s through %s.%s, mark one of the references weak",
						t.Name(), rf.Type().Name(), level.Name(), rf.Name())
				}
				todo = append(todo, rf.Type())
			}
		}
	}
	return nil
}

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

package fault

// One is the type for something that collects only the first error.
type One struct{ err error }

// First returns the first error added to it.
func (o *One) First() error {
	return o.err
}

// Collect adds an error to the list. Only the first non-nil error is kept.
func (o *One) Collect(err error) {
	if o.err != nil || err == nil {
		return
	}
	o.err = err
}

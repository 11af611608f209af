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

package fault_test

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/GameFoundry/bsf-sub024/core/fault"
)

const (
	errorMessage = "Some message"
	anError      = fault.Const(errorMessage)
	anotherError = fault.Const("another")
)

func TestConst(t *testing.T) {
	assert.Equal(t, errorMessage, anError.Error())
	assert.NotEqual(t, anError, anotherError)
}

func TestClass(t *testing.T) {
	for _, test := range []struct {
		name string
		err  error
		want fault.Const
	}{
		{"nil", nil, ""},
		{"foreign", io.EOF, ""},
		{"configuration", fault.Configurationf("type %d registered twice", 3), fault.ErrConfiguration},
		{"protocol", fault.Protocolf("truncated at %d", 10), fault.ErrProtocol},
		{"capacity", fault.Capacityf("need %d bytes", 4), fault.ErrCapacity},
		{"wrapped", errors.Wrap(fault.Protocolf("bad"), "decoding scene"), fault.ErrProtocol},
	} {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, fault.Class(test.err))
		})
	}
}

func TestMessages(t *testing.T) {
	err := fault.Protocolf("object %d missing", 7)
	assert.Equal(t, "object 7 missing: protocol error", err.Error())
	assert.True(t, errors.Is(err, fault.ErrProtocol))
	assert.False(t, errors.Is(err, fault.ErrCapacity))
}

func TestOne(t *testing.T) {
	one := fault.One{}
	assert.NoError(t, one.First())
	one.Collect(nil)
	assert.NoError(t, one.First())
	one.Collect(anError)
	assert.Equal(t, error(anError), one.First())
	one.Collect(anotherError)
	assert.Equal(t, error(anError), one.First())
}

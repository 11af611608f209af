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

// Package log provides a context-carried structured logger.
//
// The logger travels inside a context.Context so that deep call chains, such
// as an object graph encode, can log with the fields bound by their callers
// without threading a logger through every signature. The zero context logs
// nothing.
package log

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// Put returns a new context with the logger l installed.
func Put(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// From returns the logger installed in ctx, or a no-op logger if there is
// none.
func From(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}

// Enter returns a new context with the logger named by appending name to the
// current logger name.
func Enter(ctx context.Context, name string) context.Context {
	return Put(ctx, From(ctx).Named(name))
}

// V is a set of key-value pairs to bind to a logger.
type V map[string]interface{}

// Bind returns a new context whose logger carries the values in v.
func (v V) Bind(ctx context.Context) context.Context {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, len(keys))
	for i, k := range keys {
		fields[i] = zap.Any(k, v[k])
	}
	return Put(ctx, From(ctx).With(fields...))
}

// D logs a debug message to the logging target.
func D(ctx context.Context, fmt string, args ...interface{}) { From(ctx).Sugar().Debugf(fmt, args...) }

// I logs a info message to the logging target.
func I(ctx context.Context, fmt string, args ...interface{}) { From(ctx).Sugar().Infof(fmt, args...) }

// W logs a warning message to the logging target.
func W(ctx context.Context, fmt string, args ...interface{}) { From(ctx).Sugar().Warnf(fmt, args...) }

// E logs a error message to the logging target.
func E(ctx context.Context, fmt string, args ...interface{}) { From(ctx).Sugar().Errorf(fmt, args...) }

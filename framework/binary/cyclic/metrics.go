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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/GameFoundry/bsf-sub024/core/fault"
)

const (
	namespace = "bsf"
	subsystem = "serializer"
)

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

var (
	objectsEncoded = counter("encoded_objects_total", "Objects written by successful encodes.")
	bytesEncoded   = counter("encoded_bytes_total", "Bytes written by successful encodes.")
	objectsDecoded = counter("decoded_objects_total", "Objects rebuilt by successful decodes.")
	bytesDecoded   = counter("decoded_bytes_total", "Bytes read by successful decodes.")
	flushes        = counter("flushes_total", "Calls made to encode flush functions.")

	failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "failures_total",
		Help:      "Failed encodes and decodes by operation and error class.",
	}, []string{"op", "class"})
)

// RegisterMetrics registers the serializer counters with r.
func RegisterMetrics(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		objectsEncoded, bytesEncoded, objectsDecoded, bytesDecoded, flushes, failures,
	} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func failed(op string, err error) {
	class := string(fault.Class(err))
	if class == "" {
		class = "other"
	}
	failures.WithLabelValues(op, class).Inc()
}

// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := prometheus.NewRegistry()
	Register(r)
	// 重复注册不应 panic。
	Register(r)
	assert.Equal(t, prometheus.Registerer(r), GetRegisterer())

	CodecOperations.WithLabelValues(OpMarshal, SuccessLabel).Inc()
	CodecLatency.WithLabelValues(OpMarshal).Observe(0.5)
	CodecPayloadBytes.WithLabelValues(OpMarshal).Observe(128)
	SchemaCacheEntries.Set(3)

	families, err := r.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "dson_codec_operations_total")
	assert.Contains(t, names, "dson_codec_latency_ms")
	assert.Contains(t, names, "dson_codec_payload_bytes")
	assert.Contains(t, names, "dson_schema_cache_entries")

	assert.Equal(t, 3.0, testutil.ToFloat64(SchemaCacheEntries))
}

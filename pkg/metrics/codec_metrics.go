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
	"github.com/prometheus/client_golang/prometheus"
)

const codecMetricSubsystem = "codec"

var (
	CodecOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: dsonNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "operations_total",
			Help:      "编解码调用次数，按操作类型与结果区分",
		}, []string{opLabelName, resultLabelName})

	CodecLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: dsonNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "latency_ms",
			Help:      "单次编解码耗时，单位毫秒",
			Buckets:   buckets,
		}, []string{opLabelName})

	CodecPayloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: dsonNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "payload_bytes",
			Help:      "编码输出或解码输入的文本大小，单位字节",
			Buckets:   sizeBuckets,
		}, []string{opLabelName})

	SchemaCacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: dsonNamespace,
		Name:      "schema_cache_entries",
		Help:      "Schema Registry 中已解析的记录类型数量",
	})
)

// RegisterCodecMetrics 将编解码相关的指标注册到 Prometheus Registerer 中。
func RegisterCodecMetrics(r prometheus.Registerer) {
	r.MustRegister(CodecOperations)
	r.MustRegister(CodecLatency)
	r.MustRegister(CodecPayloadBytes)
	r.MustRegister(SchemaCacheEntries)
}

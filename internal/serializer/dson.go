package serializer

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/dson-go/pkg/dson"
	"github.com/lk2023060901/dson-go/pkg/log"
	"github.com/lk2023060901/dson-go/pkg/metrics"
	"github.com/lk2023060901/dson-go/pkg/util/conc"
	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

// DSONSerializer 将 dson 编解码器接入 Serializer 接口，并记录调用指标。
type DSONSerializer struct {
	log.Binder

	enc *dson.Encoder
	dec *dson.Decoder
}

var _ Serializer = (*DSONSerializer)(nil)

// NewDSONSerializer 创建一个 DSONSerializer，opts 同时作用于编码与解码。
func NewDSONSerializer(opts ...dson.Option) *DSONSerializer {
	s := &DSONSerializer{
		enc: dson.NewEncoder(opts...),
		dec: dson.NewDecoder(opts...),
	}
	s.SetLogger(log.With(log.FieldComponent("dson-serializer")).
		WithRateGroup("dson-serializer", 1, 60))
	return s
}

func (s *DSONSerializer) Marshal(v any) ([]byte, error) {
	start := time.Now()
	data, err := s.enc.Encode(v)
	observe(metrics.OpMarshal, start, len(data), err)
	if err != nil {
		s.Logger().RatedWarn(1, "dson marshal failed",
			zap.String("type", typeName(v)),
			zap.String("code", merr.CodeName(err)),
			zap.Error(err))
	}
	return data, err
}

func (s *DSONSerializer) Unmarshal(data []byte, v any) error {
	start := time.Now()
	err := s.dec.Decode(data, v)
	observe(metrics.OpUnmarshal, start, len(data), err)
	if err != nil {
		// 输入错误只在 debug 级别输出，避免外部数据刷屏。
		if merr.IsInputError(err) {
			s.Logger().RatedDebug(1, "dson unmarshal rejected input",
				zap.String("type", typeName(v)),
				zap.String("code", merr.CodeName(err)),
				zap.Error(err))
		} else {
			s.Logger().RatedWarn(1, "dson unmarshal failed",
				zap.String("type", typeName(v)),
				zap.Error(err))
		}
	}
	return err
}

// MarshalBatch 使用协程池并发编码多条记录，结果顺序与输入一致。
// 任意一条失败时返回第一个错误，且不返回任何结果。
func (s *DSONSerializer) MarshalBatch(pool *conc.Pool[[]byte], values ...any) ([][]byte, error) {
	futures := make([]*conc.Future[[]byte], 0, len(values))
	for _, v := range values {
		v := v
		futures = append(futures, pool.Submit(func() ([]byte, error) {
			return s.Marshal(v)
		}))
	}
	if err := conc.AwaitAll(futures...); err != nil {
		return nil, err
	}

	out := make([][]byte, len(futures))
	for i, future := range futures {
		out[i] = future.Value()
	}
	return out, nil
}

func observe(op string, start time.Time, size int, err error) {
	result := metrics.SuccessLabel
	if err != nil {
		result = metrics.FailLabel
	}
	metrics.CodecOperations.WithLabelValues(op, result).Inc()
	metrics.CodecLatency.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000)
	if err == nil {
		metrics.CodecPayloadBytes.WithLabelValues(op).Observe(float64(size))
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

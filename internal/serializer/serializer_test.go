package serializer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/dson-go/pkg/dson"
	"github.com/lk2023060901/dson-go/pkg/metrics"
	"github.com/lk2023060901/dson-go/pkg/util/conc"
	"github.com/lk2023060901/dson-go/pkg/util/merr"
	"github.com/lk2023060901/dson-go/pkg/util/typeutil"
)

type food struct {
	Weight int
	Tasty  bool
}

type apple struct {
	Color  string
	Weight float64
	Tags   typeutil.Set[string]
}

type SerializerSuite struct {
	suite.Suite
}

func (s *SerializerSuite) TestDSONRoundTrip() {
	ser := NewDSONSerializer()
	before := testutil.ToFloat64(metrics.CodecOperations.WithLabelValues(metrics.OpMarshal, metrics.SuccessLabel))

	data, err := ser.Marshal(food{Weight: 3, Tasty: true})
	s.Require().NoError(err)
	s.Equal("{weight:3,tasty:true}", string(data))

	var out food
	s.Require().NoError(ser.Unmarshal(data, &out))
	s.Equal(food{Weight: 3, Tasty: true}, out)

	after := testutil.ToFloat64(metrics.CodecOperations.WithLabelValues(metrics.OpMarshal, metrics.SuccessLabel))
	s.Equal(before+1, after)
}

func (s *SerializerSuite) TestDSONFailures() {
	ser := NewDSONSerializer(dson.WithMaxDepth(4))
	before := testutil.ToFloat64(metrics.CodecOperations.WithLabelValues(metrics.OpUnmarshal, metrics.FailLabel))

	var out food
	err := ser.Unmarshal([]byte("{bogus:1}"), &out)
	s.ErrorIs(err, merr.ErrSchemaMismatch)

	err = ser.Unmarshal([]byte("{weight:1}"), out)
	s.ErrorIs(err, merr.ErrParameterInvalid)

	after := testutil.ToFloat64(metrics.CodecOperations.WithLabelValues(metrics.OpUnmarshal, metrics.FailLabel))
	s.Equal(before+2, after)

	_, err = ser.Marshal(apple{Color: `bad"`})
	s.ErrorIs(err, merr.ErrEncoding)
}

func (s *SerializerSuite) TestMarshalBatch() {
	ser := NewDSONSerializer()
	pool := conc.NewPool[[]byte](4)
	defer pool.Release()

	values := []any{
		food{Weight: 1},
		apple{Color: "red", Weight: 0.25, Tags: typeutil.NewSet("sweet", "crisp")},
		food{Weight: 2, Tasty: true},
	}
	out, err := ser.MarshalBatch(pool, values...)
	s.Require().NoError(err)
	s.Require().Len(out, 3)
	s.Equal("{weight:1,tasty:false}", string(out[0]))
	s.Equal(`{color:"red",weight:0.25,tags:["crisp","sweet"]}`, string(out[1]))
	s.Equal("{weight:2,tasty:true}", string(out[2]))

	_, err = ser.MarshalBatch(pool, food{}, apple{Color: `"`})
	s.ErrorIs(err, merr.ErrEncoding)

	out, err = ser.MarshalBatch(pool)
	s.NoError(err)
	s.Empty(out)
}

func (s *SerializerSuite) TestJSONBridge() {
	ser := NewDSONSerializer()
	var a apple
	s.Require().NoError(ser.Unmarshal([]byte(`{color:"green",weight:1.5}`), &a))

	js := NewJSONSerializer()
	data, err := js.Marshal(a)
	s.Require().NoError(err)
	s.JSONEq(`{"Color":"green","Weight":1.5,"Tags":null}`, string(data))

	var back apple
	s.Require().NoError(js.Unmarshal(data, &back))
	s.Equal(a, back)

	indented, err := js.MarshalIndent(food{Weight: 1}, "  ")
	s.Require().NoError(err)
	s.Contains(string(indented), "\n  \"Weight\": 1")
}

func (s *SerializerSuite) TestMsgpackBridge() {
	var a apple
	s.Require().NoError(NewDSONSerializer().Unmarshal([]byte(`{color:"green",weight:1.5,tags:["ripe"]}`), &a))

	mp := NewMsgpackSerializer()
	data, err := mp.Marshal(a)
	s.Require().NoError(err)
	s.NotEmpty(data)

	var back apple
	s.Require().NoError(mp.Unmarshal(data, &back))
	s.Equal(a, back)

	s.Error(mp.Unmarshal([]byte{0xc1}, &back))
}

func TestSerializer(t *testing.T) {
	suite.Run(t, new(SerializerSuite))
}

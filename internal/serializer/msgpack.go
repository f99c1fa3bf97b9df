package serializer

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lk2023060901/dson-go/internal/pool/bytebuffer"
)

// MsgpackSerializer 使用 vmihailenco/msgpack 实现紧凑的二进制编解码。
// 字段名取自 json 标签，使二进制与 JSON 两种输出的字段保持一致。
type MsgpackSerializer struct{}

var _ Serializer = (*MsgpackSerializer)(nil)

// NewMsgpackSerializer 创建一个 MsgpackSerializer。
func NewMsgpackSerializer() *MsgpackSerializer {
	return &MsgpackSerializer{}
}

func (s *MsgpackSerializer) Marshal(v any) ([]byte, error) {
	buf := bytebuffer.Get()
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	enc.Reset(buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		bytebuffer.Put(buf)
		return nil, err
	}
	return bytebuffer.Detach(buf), nil
}

func (s *MsgpackSerializer) Unmarshal(data []byte, v any) error {
	dec := msgpack.GetDecoder()
	defer msgpack.PutDecoder(dec)

	dec.Reset(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

package serializer

import (
	"github.com/bytedance/sonic"
)

// JSONSerializer 使用 bytedance/sonic 实现标准 JSON 编解码。
type JSONSerializer struct {
	api sonic.API
}

var _ Serializer = (*JSONSerializer)(nil)

// NewJSONSerializer 创建一个 JSONSerializer，map 的键按字典序输出。
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{api: sonic.Config{
		EscapeHTML:  true,
		SortMapKeys: true,
	}.Froze()}
}

func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	return s.api.Marshal(v)
}

// MarshalIndent 按给定缩进输出 JSON。
func (s *JSONSerializer) MarshalIndent(v any, indent string) ([]byte, error) {
	return s.api.MarshalIndent(v, "", indent)
}

func (s *JSONSerializer) Unmarshal(data []byte, v any) error {
	return s.api.Unmarshal(data, v)
}

package compressor

import (
	"bytes"

	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

// Compressor 抽象了对编码后文本的单次压缩与解压。
type Compressor interface {
	// Compress 将 src 压缩后追加到 dst[:0]，返回完整的压缩数据。
	Compress(dst, src []byte) ([]byte, error)

	// Decompress 将 Compress 的输出解压后追加到 dst[:0]。
	Decompress(dst, src []byte) ([]byte, error)
}

const (
	NameNone = "none"
	NameZstd = "zstd"
)

// zstdMagic 为 zstd 帧头的魔数。
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsZstd 判断 data 是否以 zstd 帧头开始。
func IsZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// New 按名称创建压缩器，空名称等同于 none。
func New(name string) (Compressor, error) {
	switch name {
	case "", NameNone:
		return NopCompressor{}, nil
	case NameZstd:
		return NewZstdCompressor()
	default:
		return nil, merr.WrapErrParameterInvalidMsg("unknown compressor %q", name)
	}
}

// NopCompressor 不做任何压缩，直接返回输入内容。
type NopCompressor struct{}

func (NopCompressor) Compress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Decompress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

var _ Compressor = NopCompressor{}

// Package bytebuffer 提供编码阶段复用的字节缓冲区，用于降低 GC 压力。
package bytebuffer

import (
	"github.com/valyala/bytebufferpool"
)

// ByteBuffer 是 bytebufferpool.ByteBuffer 的别名，便于在池中引用。
type ByteBuffer = bytebufferpool.ByteBuffer

var builtinPool bytebufferpool.Pool

// Get 从默认池中获取一个空的缓冲区。
func Get() *ByteBuffer { return builtinPool.Get() }

// Put 将缓冲区归还到默认池中。
//
// 注意：归还后的 ByteBuffer 不允许再被访问，否则会引发数据竞争。
func Put(b *ByteBuffer) {
	if b != nil {
		builtinPool.Put(b)
	}
}

// Detach 复制缓冲区内容并将缓冲区归还到池中。
// 返回的切片由调用方独占。
func Detach(b *ByteBuffer) []byte {
	out := make([]byte, b.Len())
	copy(out, b.B)
	Put(b)
	return out
}

package dson

import (
	"unicode/utf8"

	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

// cursor 是一次顶层解析中共享的读取位置，嵌套记录的解析使用同一个 cursor。
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.data)
}

// peek 返回当前字节，输入结束时返回 0。
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.data[c.pos]
}

func (c *cursor) advance() {
	c.pos++
}

// option 在当前字节等于 b 时消费它。
func (c *cursor) option(b byte) bool {
	if !c.eof() && c.data[c.pos] == b {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) expect(b byte) error {
	if c.eof() {
		return merr.WrapErrParsef(c.pos, "expected %q, got end of input", b)
	}
	if got := c.data[c.pos]; got != b {
		return merr.WrapErrParsef(c.pos, "expected %q, got %q", b, got)
	}
	c.pos++
	return nil
}

// nextRune 消费并返回一个 UTF-8 字符。
func (c *cursor) nextRune() (rune, error) {
	if c.eof() {
		return 0, merr.WrapErrParse(c.pos, "unexpected end of input")
	}
	r, size := utf8.DecodeRune(c.data[c.pos:])
	if r == utf8.RuneError && size <= 1 {
		return 0, merr.WrapErrParse(c.pos, "invalid utf-8 encoding")
	}
	c.pos += size
	return r, nil
}

func (c *cursor) peekRune() rune {
	if c.eof() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRune(c.data[c.pos:])
	return r
}

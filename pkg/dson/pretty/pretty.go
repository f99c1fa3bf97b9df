// Package pretty 将紧凑的 dson 文本重新排版为便于阅读的多行形式。
//
// 每进入一层 {} 换行并增加 4 个空格缩进，对象内的逗号之后换行，
// 列表内的逗号保持在同一行，冒号之后补一个空格。
// 字符串与字符字面量原样复制，不参与排版。
package pretty

import (
	"bytes"
	"unicode/utf8"

	"github.com/lk2023060901/dson-go/pkg/dson"
)

const indentWidth = 4

type printer struct {
	out   bytes.Buffer
	stack []byte
	level int
}

func (p *printer) newline() {
	p.out.WriteByte('\n')
	for i := 0; i < p.level*indentWidth; i++ {
		p.out.WriteByte(' ')
	}
}

func (p *printer) push(b byte) {
	p.stack = append(p.stack, b)
}

func (p *printer) pop() {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *printer) inObject() bool {
	return len(p.stack) > 0 && p.stack[len(p.stack)-1] == '{'
}

// Format 返回 data 排版后的文本。data 会先经过 dson.Normalize。
func Format(data []byte) []byte {
	data = dson.Normalize(data)
	p := &printer{}
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch b {
		case '"':
			end := stringEnd(data, i)
			p.out.Write(data[i:end])
			i = end - 1
		case '\'':
			end := charEnd(data, i)
			p.out.Write(data[i:end])
			i = end - 1
		case '{':
			if i+1 < len(data) && data[i+1] == '}' {
				p.out.WriteString("{}")
				i++
				continue
			}
			p.push('{')
			p.out.WriteByte(b)
			p.level++
			p.newline()
		case '}':
			p.pop()
			if p.level > 0 {
				p.level--
			}
			p.newline()
			p.out.WriteByte(b)
		case '[':
			p.push('[')
			p.out.WriteByte(b)
		case ']':
			p.pop()
			p.out.WriteByte(b)
		case ',':
			p.out.WriteByte(b)
			if p.inObject() {
				p.newline()
			}
		case ':':
			p.out.WriteString(": ")
		default:
			p.out.WriteByte(b)
		}
	}
	return p.out.Bytes()
}

// String 是 Format 的字符串版本。
func String(s string) string {
	return string(Format([]byte(s)))
}

// stringEnd 返回从 start 处引号开始的字符串字面量之后的位置。
func stringEnd(data []byte, start int) int {
	for i := start + 1; i < len(data); i++ {
		if data[i] == '"' && data[i-1] != '\\' {
			return i + 1
		}
	}
	return len(data)
}

// charEnd 返回从 start 处单引号开始的字符字面量之后的位置。
func charEnd(data []byte, start int) int {
	i := start + 1
	if i < len(data) {
		_, size := utf8.DecodeRune(data[i:])
		i += size
	}
	if i < len(data) && data[i] == '\'' {
		i++
	}
	return i
}

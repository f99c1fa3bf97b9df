package dson

import (
	"unicode/utf8"
)

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Normalize 去掉字符串与字符字面量之外的空白（空格、制表符、回车、换行）。
// 字符串以未被反斜杠转义的双引号切换内外状态，内部内容原样保留。
// 对已规范化的文本再次调用不会有任何变化。
func Normalize(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case b == '"' && (i == 0 || data[i-1] != '\\'):
			inString = !inString
		case inString:
		case isSpace(b):
			continue
		case b == '\'':
			// 字符字面量：开引号、一个字符以及可选的闭引号都原样保留。
			out = append(out, b)
			if i+1 < len(data) {
				_, size := utf8.DecodeRune(data[i+1:])
				out = append(out, data[i+1:i+1+size]...)
				i += size
			}
			if i+1 < len(data) && data[i+1] == '\'' {
				out = append(out, '\'')
				i++
			}
			continue
		}
		out = append(out, b)
	}
	return out
}

package dson

import (
	"math"
	"strconv"

	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (c *cursor) digits() (start, end int) {
	start = c.pos
	for !c.eof() && isDigit(c.data[c.pos]) {
		c.pos++
	}
	return start, c.pos
}

// lexInt 读取可选的负号以及连续的十进制数字，按 v = v*10 + d 累加。
// 返回绝对值与符号，由调用方根据目标宽度检查溢出。
func (c *cursor) lexInt() (uint64, bool, error) {
	begin := c.pos
	neg := c.option('-')
	start, end := c.digits()
	if start == end {
		return 0, false, merr.WrapErrParse(begin, "expected digit")
	}
	var v uint64
	for _, b := range c.data[start:end] {
		d := uint64(b - '0')
		if v > (math.MaxUint64-d)/10 {
			return 0, false, merr.WrapErrParse(begin, "integer overflow")
		}
		v = v*10 + d
	}
	return v, neg, nil
}

func (c *cursor) lexSigned(bits int) (int64, error) {
	begin := c.pos
	u, neg, err := c.lexInt()
	if err != nil {
		return 0, err
	}
	limit := uint64(1) << (bits - 1)
	if neg {
		if u > limit {
			return 0, merr.WrapErrParsef(begin, "integer overflows int%d", bits)
		}
		return int64(^u + 1), nil
	}
	if u >= limit {
		return 0, merr.WrapErrParsef(begin, "integer overflows int%d", bits)
	}
	return int64(u), nil
}

func (c *cursor) lexUnsigned(bits int) (uint64, error) {
	begin := c.pos
	u, neg, err := c.lexInt()
	if err != nil {
		return 0, err
	}
	if neg {
		return 0, merr.WrapErrParse(begin, "negative value for unsigned integer")
	}
	if bits < 64 && u >= uint64(1)<<bits {
		return 0, merr.WrapErrParsef(begin, "integer overflows uint%d", bits)
	}
	return u, nil
}

// lexFloat 读取 [-]digits[.digits]，至少需要一个数字。
// allowSuffix 为 true 时额外接受并丢弃一个结尾的 f。
func (c *cursor) lexFloat(bits int, allowSuffix, legacy bool) (float64, error) {
	begin := c.pos
	neg := c.option('-')
	intStart, intEnd := c.digits()
	fracStart, fracEnd := intEnd, intEnd
	if c.option('.') {
		fracStart, fracEnd = c.digits()
	}
	if intStart == intEnd && fracStart == fracEnd {
		return 0, merr.WrapErrParse(begin, "expected number")
	}
	if allowSuffix {
		c.option('f')
	}

	var v float64
	if legacy {
		v = legacyFloat(c.data[intStart:intEnd], c.data[fracStart:fracEnd])
		if bits == 32 {
			v = float64(float32(v))
		}
	} else {
		intPart, fracPart := c.data[intStart:intEnd], c.data[fracStart:fracEnd]
		buf := make([]byte, 0, len(intPart)+len(fracPart)+3)
		buf = append(buf, '0')
		buf = append(buf, intPart...)
		buf = append(buf, '.')
		buf = append(buf, fracPart...)
		buf = append(buf, '0')
		parsed, err := strconv.ParseFloat(string(buf), bits)
		if err != nil {
			return 0, merr.WrapErrParse(begin, "number out of range")
		}
		v = parsed
	}
	if neg {
		v = -v
	}
	return v, nil
}

// legacyFloat 沿用旧格式的小数累加方式：对每一位小数依次执行 frac = (frac + d) / 10。
// 该方式会把小数位顺序颠倒，只有单个小数位时与十进制解析一致。
func legacyFloat(intPart, fracPart []byte) float64 {
	var whole, frac float64
	for _, b := range intPart {
		whole = whole*10 + float64(b-'0')
	}
	for _, b := range fracPart {
		frac += float64(b - '0')
		frac /= 10
	}
	return whole + frac
}

// lexBool 读取连续的小写字母，结果必须恰好是 true 或 false。
func (c *cursor) lexBool() (bool, error) {
	start := c.pos
	for !c.eof() && c.data[c.pos] >= 'a' && c.data[c.pos] <= 'z' {
		c.pos++
	}
	switch word := string(c.data[start:c.pos]); word {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, merr.WrapErrParsef(start, "invalid boolean %q", word)
	}
}

// lexString 读取 "..."，结束于第一个前面不是反斜杠的双引号。
// 反斜杠原样保留，不解释任何转义序列。
func (c *cursor) lexString() (string, error) {
	if err := c.expect('"'); err != nil {
		return "", err
	}
	start := c.pos
	for ; !c.eof(); c.pos++ {
		if c.data[c.pos] == '"' && (c.pos == start || c.data[c.pos-1] != '\\') {
			s := string(c.data[start:c.pos])
			c.pos++
			return s, nil
		}
	}
	return "", merr.WrapErrParse(start-1, "unterminated string")
}

// lexChar 读取 'c'，恰好一个字符。
func (c *cursor) lexChar() (Char, error) {
	if err := c.expect('\''); err != nil {
		return 0, err
	}
	r, err := c.nextRune()
	if err != nil {
		return 0, err
	}
	if err := c.expect('\''); err != nil {
		return 0, err
	}
	return Char(r), nil
}

// lexFieldName 读取可选引号包围的字段名，并消费其后的冒号。
func (c *cursor) lexFieldName() (string, int, error) {
	begin := c.pos
	c.option('"')
	start := c.pos
	for !c.eof() && isIdentRune(c.peekRune()) {
		_, _ = c.nextRune()
	}
	name := string(c.data[start:c.pos])
	if name == "" {
		return "", begin, merr.WrapErrParse(begin, "expected field name")
	}
	c.option('"')
	if err := c.expect(':'); err != nil {
		return "", begin, err
	}
	return name, begin, nil
}

package dson

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lk2023060901/dson-go/internal/pool/bytebuffer"
	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

// Encoder 将值编码为紧凑文本。构造后不可变，可并发使用。
type Encoder struct {
	opts *options
}

// NewEncoder 创建一个 Encoder。
func NewEncoder(opts ...Option) *Encoder {
	return &Encoder{opts: buildOptions(opts)}
}

var defaultEncoder = NewEncoder()

// Marshal 使用默认配置编码 v。
func Marshal(v any, opts ...Option) ([]byte, error) {
	if len(opts) == 0 {
		return defaultEncoder.Encode(v)
	}
	return NewEncoder(opts...).Encode(v)
}

// Encode 编码 v，失败时不返回任何部分输出。
func (e *Encoder) Encode(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, merr.WrapErrParameterInvalidMsg("cannot encode nil value")
	}
	d, err := e.opts.registry.Describe(rv.Type())
	if err != nil {
		return nil, err
	}

	s := &encodeState{buf: bytebuffer.Get(), maxDepth: e.opts.maxDepth}
	if err := s.encodeValue(d, rv); err != nil {
		bytebuffer.Put(s.buf)
		return nil, err
	}
	return bytebuffer.Detach(s.buf), nil
}

type encodeState struct {
	buf      *bytebuffer.ByteBuffer
	depth    int
	maxDepth int
	path     []string
}

func (s *encodeState) pathString() string {
	var sb strings.Builder
	for i, seg := range s.path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(seg)
	}
	if sb.Len() == 0 {
		return "$"
	}
	return sb.String()
}

func (s *encodeState) fail(format string, args ...any) error {
	return merr.WrapErrEncoding(s.pathString(), fmt.Sprintf(format, args...))
}

func (s *encodeState) enter() error {
	s.depth++
	if s.depth > s.maxDepth {
		return merr.WrapErrRecursionLimit(s.maxDepth, s.buf.Len())
	}
	return nil
}

func (s *encodeState) leave() {
	s.depth--
}

func (s *encodeState) encodeValue(d *TypeDescriptor, v reflect.Value) error {
	if v.Type() != d.GoType {
		return s.fail("value of type %s does not match descriptor %s", v.Type(), d)
	}
	switch d.Kind {
	case KindScalar:
		return s.encodeScalar(d.Scalar, v)
	case KindArray, KindList:
		return s.encodeSequence(d, v)
	case KindSet:
		return s.encodeSet(d, v)
	case KindMap:
		return s.encodeMap(d, v)
	case KindRecord:
		return s.encodeRecord(d, v)
	default:
		return s.fail("unknown descriptor kind %s", d.Kind)
	}
}

func (s *encodeState) encodeScalar(k ScalarKind, v reflect.Value) error {
	b := s.buf.B
	switch k {
	case ScalarInt:
		if v.CanInt() {
			b = strconv.AppendInt(b, v.Int(), 10)
		} else {
			b = strconv.AppendUint(b, v.Uint(), 10)
		}
	case ScalarDouble, ScalarFloat:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return s.fail("%v cannot be represented", f)
		}
		bits := 64
		if k == ScalarFloat {
			bits = 32
		}
		b = strconv.AppendFloat(b, f, 'f', -1, bits)
	case ScalarBool:
		b = strconv.AppendBool(b, v.Bool())
	case ScalarString:
		str := v.String()
		if err := s.checkString(str); err != nil {
			return err
		}
		b = append(b, '"')
		b = append(b, str...)
		b = append(b, '"')
	case ScalarChar:
		r := rune(v.Int())
		if !utf8.ValidRune(r) {
			return s.fail("invalid char %U", r)
		}
		b = append(b, '\'')
		b = utf8.AppendRune(b, r)
		b = append(b, '\'')
	default:
		return s.fail("unknown scalar kind %s", k)
	}
	s.buf.B = b
	return nil
}

// checkString 拒绝解析器无法原样读回的字符串。
func (s *encodeState) checkString(str string) error {
	for i := 0; i < len(str); i++ {
		if str[i] == '"' && (i == 0 || str[i-1] != '\\') {
			return s.fail("string contains unescaped quote at byte %d", i)
		}
	}
	if strings.HasSuffix(str, `\`) {
		return s.fail("string ends with a backslash")
	}
	return nil
}

func (s *encodeState) encodeSequence(d *TypeDescriptor, v reflect.Value) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	_ = s.buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			_ = s.buf.WriteByte(',')
		}
		s.path = append(s.path, "["+strconv.Itoa(i)+"]")
		if err := s.encodeValue(d.Elem, v.Index(i)); err != nil {
			return err
		}
		s.path = s.path[:len(s.path)-1]
	}
	_ = s.buf.WriteByte(']')
	return nil
}

// encodeDetached 将值编码到独立的缓冲区并返回文本，用于集合与映射排序。
func (s *encodeState) encodeDetached(d *TypeDescriptor, v reflect.Value) (string, error) {
	saved := s.buf
	s.buf = bytebuffer.Get()
	defer func() {
		bytebuffer.Put(s.buf)
		s.buf = saved
	}()
	if err := s.encodeValue(d, v); err != nil {
		return "", err
	}
	return s.buf.String(), nil
}

func (s *encodeState) encodeSet(d *TypeDescriptor, v reflect.Value) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	elems := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		text, err := s.encodeDetached(d.Elem, iter.Key())
		if err != nil {
			return err
		}
		elems = append(elems, text)
	}
	slices.Sort(elems)

	_ = s.buf.WriteByte('[')
	_, _ = s.buf.WriteString(strings.Join(elems, ","))
	_ = s.buf.WriteByte(']')
	return nil
}

type mapEntry struct {
	key, value string
}

func (s *encodeState) encodeMap(d *TypeDescriptor, v reflect.Value) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := s.encodeDetached(d.Key, iter.Key())
		if err != nil {
			return err
		}
		s.path = append(s.path, "["+key+"]")
		value, err := s.encodeDetached(d.Value, iter.Value())
		if err != nil {
			return err
		}
		s.path = s.path[:len(s.path)-1]
		entries = append(entries, mapEntry{key: key, value: value})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		return strings.Compare(a.key, b.key)
	})

	_ = s.buf.WriteByte('[')
	for i, entry := range entries {
		if i > 0 {
			_ = s.buf.WriteByte(',')
		}
		_, _ = s.buf.WriteString("{key:")
		_, _ = s.buf.WriteString(entry.key)
		_, _ = s.buf.WriteString(",value:")
		_, _ = s.buf.WriteString(entry.value)
		_ = s.buf.WriteByte('}')
	}
	_ = s.buf.WriteByte(']')
	return nil
}

func (s *encodeState) encodeRecord(d *TypeDescriptor, v reflect.Value) error {
	if d.Pointer() {
		if v.IsNil() {
			return s.fail("nil %s", d)
		}
		v = v.Elem()
	}
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	_ = s.buf.WriteByte('{')
	for i, f := range d.Schema.Serializable() {
		if i > 0 {
			_ = s.buf.WriteByte(',')
		}
		_, _ = s.buf.WriteString(f.Name)
		_ = s.buf.WriteByte(':')
		s.path = append(s.path, f.Name)
		if err := s.encodeValue(f.Type, v.Field(f.Index)); err != nil {
			return err
		}
		s.path = s.path[:len(s.path)-1]
	}
	_ = s.buf.WriteByte('}')
	return nil
}

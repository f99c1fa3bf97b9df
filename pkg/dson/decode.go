package dson

import (
	"reflect"

	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

// Decoder 按目标类型解析文本。构造后不可变，可并发使用。
type Decoder struct {
	opts *options
}

// NewDecoder 创建一个 Decoder。
func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{opts: buildOptions(opts)}
}

var defaultDecoder = NewDecoder()

// Unmarshal 使用默认配置将 data 解析到 v 指向的值中。
//
// v 指向已有记录时，文本中未出现的字段保持原值。
// 解析失败时不做回滚，失败位置之前已赋值的字段会保留新值。
func Unmarshal(data []byte, v any, opts ...Option) error {
	if len(opts) == 0 {
		return defaultDecoder.Decode(data, v)
	}
	return NewDecoder(opts...).Decode(data, v)
}

// Decode 将 data 解析为 T 类型的新值。
func Decode[T any](data []byte, opts ...Option) (T, error) {
	var out T
	err := Unmarshal(data, &out, opts...)
	return out, err
}

// Decode 将 data 解析到 v 指向的值中，v 必须是非 nil 指针。
func (dec *Decoder) Decode(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return merr.WrapErrParameterInvalidMsg("decode target must be a non-nil pointer, got %T", v)
	}
	target := rv.Elem()
	d, err := dec.opts.registry.Describe(target.Type())
	if err != nil {
		return err
	}

	s := &decodeState{
		cur:            newCursor(Normalize(data)),
		maxDepth:       dec.opts.maxDepth,
		legacyFraction: dec.opts.legacyFraction,
	}
	switch {
	case d.Kind == KindRecord && d.Pointer():
		if target.IsNil() {
			target.Set(reflect.New(d.Schema.GoType()))
		}
		err = s.decodeRecord(d.Schema, target.Elem())
	case d.Kind == KindRecord:
		err = s.decodeRecord(d.Schema, target)
	default:
		var val reflect.Value
		if val, err = s.decodeValue(d); err == nil {
			target.Set(val)
		}
	}
	if err != nil {
		return err
	}
	if !s.cur.eof() {
		return merr.WrapErrParsef(s.cur.pos, "unexpected trailing data %q", s.cur.peek())
	}
	return nil
}

type decodeState struct {
	cur            *cursor
	depth          int
	maxDepth       int
	legacyFraction bool
}

func (s *decodeState) enter() error {
	s.depth++
	if s.depth > s.maxDepth {
		return merr.WrapErrRecursionLimit(s.maxDepth, s.cur.pos)
	}
	return nil
}

func (s *decodeState) leave() {
	s.depth--
}

// decodeValue 按描述解析一个新值，返回值的类型为 d.GoType。
func (s *decodeState) decodeValue(d *TypeDescriptor) (reflect.Value, error) {
	switch d.Kind {
	case KindScalar:
		return s.decodeScalar(d)
	case KindArray:
		return s.decodeArray(d)
	case KindList:
		return s.decodeList(d)
	case KindSet:
		return s.decodeSet(d)
	case KindMap:
		return s.decodeMap(d)
	case KindRecord:
		rv := reflect.New(d.Schema.GoType())
		if err := s.decodeRecord(d.Schema, rv.Elem()); err != nil {
			return reflect.Value{}, err
		}
		if d.Pointer() {
			return rv, nil
		}
		return rv.Elem(), nil
	default:
		return reflect.Value{}, merr.WrapErrParsef(s.cur.pos, "unknown descriptor kind %s", d.Kind)
	}
}

func (s *decodeState) decodeScalar(d *TypeDescriptor) (reflect.Value, error) {
	rv := reflect.New(d.GoType).Elem()
	switch d.Scalar {
	case ScalarInt:
		if rv.CanInt() {
			n, err := s.cur.lexSigned(d.GoType.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			rv.SetInt(n)
		} else {
			n, err := s.cur.lexUnsigned(d.GoType.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			rv.SetUint(n)
		}
	case ScalarDouble, ScalarFloat:
		f, err := s.cur.lexFloat(d.GoType.Bits(), d.Scalar == ScalarFloat, s.legacyFraction)
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetFloat(f)
	case ScalarBool:
		b, err := s.cur.lexBool()
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetBool(b)
	case ScalarString:
		str, err := s.cur.lexString()
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetString(str)
	case ScalarChar:
		c, err := s.cur.lexChar()
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetInt(int64(c))
	default:
		return reflect.Value{}, merr.WrapErrParsef(s.cur.pos, "unknown scalar kind %s", d.Scalar)
	}
	return rv, nil
}

// elements 解析 '[' (elem (',' elem)*)? ']'，每个元素交给 fn 处理。
func (s *decodeState) elements(fn func() error) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	if err := s.cur.expect('['); err != nil {
		return err
	}
	if s.cur.option(']') {
		return nil
	}
	for {
		if err := fn(); err != nil {
			return err
		}
		if s.cur.option(',') {
			continue
		}
		return s.cur.expect(']')
	}
}

func (s *decodeState) decodeArray(d *TypeDescriptor) (reflect.Value, error) {
	rv := reflect.New(d.GoType).Elem()
	begin := s.cur.pos
	n := 0
	err := s.elements(func() error {
		if n >= d.Len {
			return merr.WrapErrParsef(s.cur.pos, "too many elements for %s", d)
		}
		elem, err := s.decodeValue(d.Elem)
		if err != nil {
			return err
		}
		rv.Index(n).Set(elem)
		n++
		return nil
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if n != d.Len {
		return reflect.Value{}, merr.WrapErrParsef(begin, "got %d elements for %s", n, d)
	}
	return rv, nil
}

func (s *decodeState) decodeList(d *TypeDescriptor) (reflect.Value, error) {
	rv := reflect.MakeSlice(d.GoType, 0, 0)
	err := s.elements(func() error {
		elem, err := s.decodeValue(d.Elem)
		if err != nil {
			return err
		}
		rv = reflect.Append(rv, elem)
		return nil
	})
	if err != nil {
		return reflect.Value{}, err
	}
	return rv, nil
}

func (s *decodeState) decodeSet(d *TypeDescriptor) (reflect.Value, error) {
	rv := reflect.MakeMap(d.GoType)
	present := reflect.Zero(d.GoType.Elem())
	err := s.elements(func() error {
		elem, err := s.decodeValue(d.Elem)
		if err != nil {
			return err
		}
		rv.SetMapIndex(elem, present)
		return nil
	})
	if err != nil {
		return reflect.Value{}, err
	}
	return rv, nil
}

func (s *decodeState) decodeMap(d *TypeDescriptor) (reflect.Value, error) {
	rv := reflect.MakeMap(d.GoType)
	err := s.elements(func() error {
		key, value, err := s.decodeEntry(d)
		if err != nil {
			return err
		}
		rv.SetMapIndex(key, value)
		return nil
	})
	if err != nil {
		return reflect.Value{}, err
	}
	return rv, nil
}

// decodeEntry 解析 {key:K,value:V}，两个成员顺序任意。
// 条目本身不计入嵌套深度，与编码端保持一致。
func (s *decodeState) decodeEntry(d *TypeDescriptor) (key, value reflect.Value, err error) {
	if err = s.cur.expect('{'); err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		if i > 0 {
			if err = s.cur.expect(','); err != nil {
				return
			}
		}
		name, offset, lexErr := s.cur.lexFieldName()
		if lexErr != nil {
			err = lexErr
			return
		}
		switch name {
		case "key":
			if key.IsValid() {
				err = merr.WrapErrParse(offset, "duplicate map entry member \"key\"")
				return
			}
			if key, err = s.decodeValue(d.Key); err != nil {
				return
			}
		case "value":
			if value.IsValid() {
				err = merr.WrapErrParse(offset, "duplicate map entry member \"value\"")
				return
			}
			if value, err = s.decodeValue(d.Value); err != nil {
				return
			}
		default:
			err = merr.WrapErrSchemaMismatchMsg("map entry", offset, "unknown member %q", name)
			return
		}
	}
	err = s.cur.expect('}')
	return
}

// decodeRecord 将 '{' (Field (',' Field)*)? '}' 解析到 target 上，字段按出现顺序逐个赋值。
func (s *decodeState) decodeRecord(schema *Schema, target reflect.Value) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	if err := s.cur.expect('{'); err != nil {
		return err
	}
	if s.cur.option('}') {
		return nil
	}
	for {
		name, offset, err := s.cur.lexFieldName()
		if err != nil {
			return err
		}
		f, ok := schema.Lookup(name)
		if !ok {
			return merr.WrapErrSchemaMismatch(schema.Name(), name, offset)
		}
		val, err := s.decodeValue(f.Type)
		if err != nil {
			return err
		}
		target.Field(f.Index).Set(val)
		if s.cur.option(',') {
			continue
		}
		return s.cur.expect('}')
	}
}

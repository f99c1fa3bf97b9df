package dson

import (
	"fmt"
	"reflect"
)

// Char 表示单个字符，文本形式为 'c'。
// 普通的 rune 类型会按整数处理。
type Char rune

// Kind 为类型描述的种类。
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindArray
	KindList
	KindSet
	KindMap
	KindRecord
)

var kindNames = map[Kind]string{
	KindScalar: "scalar",
	KindArray:  "array",
	KindList:   "list",
	KindSet:    "set",
	KindMap:    "map",
	KindRecord: "record",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ScalarKind 为标量的词法种类。
type ScalarKind uint8

const (
	ScalarInt ScalarKind = iota + 1
	ScalarDouble
	ScalarFloat
	ScalarBool
	ScalarString
	ScalarChar
)

var scalarNames = map[ScalarKind]string{
	ScalarInt:    "int",
	ScalarDouble: "double",
	ScalarFloat:  "float",
	ScalarBool:   "bool",
	ScalarString: "string",
	ScalarChar:   "char",
}

func (k ScalarKind) String() string {
	if name, ok := scalarNames[k]; ok {
		return name
	}
	return fmt.Sprintf("scalar(%d)", uint8(k))
}

// TypeDescriptor 描述一个值槽位的形状，编码与解码都由它驱动。
//
// Elem 用于 Array/List/Set，Key 与 Value 用于 Map，Schema 用于 Record。
// 容器类描述中的子描述总是完整解析过的。
type TypeDescriptor struct {
	Kind   Kind
	Scalar ScalarKind
	Elem   *TypeDescriptor
	Key    *TypeDescriptor
	Value  *TypeDescriptor
	// Len 为 Array 的固定长度。
	Len int
	// Schema 为 Record 的字段元数据。
	Schema *Schema
	// GoType 为该描述对应的 Go 类型，指针记录为 *T。
	GoType reflect.Type
}

// Pointer 判断记录描述是否通过指针持有。
func (d *TypeDescriptor) Pointer() bool {
	return d.Kind == KindRecord && d.GoType.Kind() == reflect.Pointer
}

func (d *TypeDescriptor) String() string {
	switch d.Kind {
	case KindScalar:
		return d.Scalar.String()
	case KindArray:
		return fmt.Sprintf("array[%d]<%s>", d.Len, d.Elem)
	case KindList:
		return fmt.Sprintf("list<%s>", d.Elem)
	case KindSet:
		return fmt.Sprintf("set<%s>", d.Elem)
	case KindMap:
		return fmt.Sprintf("map<%s,%s>", d.Key, d.Value)
	case KindRecord:
		return fmt.Sprintf("record<%s>", d.Schema.Name())
	default:
		return d.Kind.String()
	}
}

var (
	charType     = reflect.TypeOf((*Char)(nil)).Elem()
	emptyStructT = reflect.TypeOf((*struct{})(nil)).Elem()
)

func scalarKindOf(t reflect.Type) (ScalarKind, bool) {
	if t == charType {
		return ScalarChar, true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ScalarInt, true
	case reflect.Float64:
		return ScalarDouble, true
	case reflect.Float32:
		return ScalarFloat, true
	case reflect.Bool:
		return ScalarBool, true
	case reflect.String:
		return ScalarString, true
	default:
		return 0, false
	}
}

func isSetType(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() == emptyStructT
}

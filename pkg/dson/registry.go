package dson

import (
	"fmt"
	"reflect"
	"sync"
	"unicode"

	"github.com/cockroachdb/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lk2023060901/dson-go/pkg/log"
	"github.com/lk2023060901/dson-go/pkg/metrics"
	"github.com/lk2023060901/dson-go/pkg/util/merr"
	"github.com/lk2023060901/dson-go/pkg/util/typeutil"
)

// Field 为记录中单个字段的元数据。
type Field struct {
	// Name 为文本中使用的规范名。
	Name string
	// GoName 为 Go 字段名。
	GoName string
	// Index 为字段在结构体中的下标。
	Index int
	// Type 为字段声明的类型描述，不可序列化的字段为 nil。
	Type *TypeDescriptor
	// Serializable 为 false 的字段在编码和解码时都不可见。
	Serializable bool
}

// Schema 为一个记录类型解析后的字段元数据，由 Registry 持有且解析后不再变化。
type Schema struct {
	goType  reflect.Type
	fields  []*Field
	visible []*Field
	index   map[string]*Field
}

// GoType 返回记录对应的结构体类型。
func (s *Schema) GoType() reflect.Type {
	return s.goType
}

// Name 返回记录类型名，用于日志与错误信息。
func (s *Schema) Name() string {
	return s.goType.String()
}

// Fields 按声明顺序返回全部字段，包括不可序列化的字段。
func (s *Schema) Fields() []*Field {
	return s.fields
}

// Serializable 按声明顺序返回参与编解码的字段。
func (s *Schema) Serializable() []*Field {
	return s.visible
}

// Lookup 按规范名精确查找可序列化字段。
func (s *Schema) Lookup(name string) (*Field, bool) {
	f, ok := s.index[name]
	return f, ok
}

// Registry 缓存记录类型的字段元数据与任意类型的类型描述。
//
// 读取走 sync.Map 无锁路径，首次解析新类型时由互斥锁串行化。
// 一次解析过程中遇到的嵌套记录类型会一起解析，全部成功后才写入缓存。
type Registry struct {
	source FieldSource

	mu          sync.Mutex
	schemas     sync.Map // reflect.Type -> *Schema
	descriptors sync.Map // reflect.Type -> *TypeDescriptor
	count       atomic.Int64
}

// NewRegistry 创建一个使用指定字段来源的 Registry，source 为 nil 时使用 TagSource。
func NewRegistry(source FieldSource) *Registry {
	if source == nil {
		source = TagSource{}
	}
	return &Registry{source: source}
}

var defaultRegistry = NewRegistry(nil)

// DefaultRegistry 返回进程级共享的 Registry。
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Len 返回已缓存的记录类型数量。
func (r *Registry) Len() int {
	return int(r.count.Load())
}

// Resolve 返回记录类型的字段元数据，t 可以是结构体或结构体指针。
// 同一类型只会解析一次。
func (r *Registry) Resolve(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, merr.WrapErrParameterInvalidMsg("nil type")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, merr.WrapErrSchemaResolution(t, "not a record type")
	}
	d, err := r.Describe(t)
	if err != nil {
		return nil, err
	}
	return d.Schema, nil
}

// ResolveType 是 Resolve 的泛型版本。
func ResolveType[T any](r *Registry) (*Schema, error) {
	return r.Resolve(reflect.TypeOf((*T)(nil)).Elem())
}

// Describe 返回任意可编解码类型的类型描述。
func (r *Registry) Describe(t reflect.Type) (*TypeDescriptor, error) {
	if t == nil {
		return nil, merr.WrapErrParameterInvalidMsg("nil type")
	}
	if d, ok := r.descriptors.Load(t); ok {
		return d.(*TypeDescriptor), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.descriptors.Load(t); ok {
		return d.(*TypeDescriptor), nil
	}

	res := &resolver{
		registry:    r,
		schemas:     make(map[reflect.Type]*Schema),
		descriptors: make(map[reflect.Type]*TypeDescriptor),
	}
	d, err := res.describe(t)
	if err != nil {
		log.Warn("failed to resolve type",
			log.FieldComponent("dson-registry"),
			zap.Stringer("type", t),
			zap.Error(err))
		return nil, err
	}
	res.commit()
	return d, nil
}

type resolver struct {
	registry    *Registry
	schemas     map[reflect.Type]*Schema
	descriptors map[reflect.Type]*TypeDescriptor
}

func (res *resolver) commit() {
	for t, d := range res.descriptors {
		res.registry.descriptors.Store(t, d)
	}
	for t, s := range res.schemas {
		res.registry.schemas.Store(t, s)
		log.Debug("record type resolved",
			log.FieldComponent("dson-registry"),
			log.FieldRecord(s.Name()),
			zap.Int("fields", len(s.visible)))
	}
	res.registry.count.Add(int64(len(res.schemas)))
	metrics.SchemaCacheEntries.Add(float64(len(res.schemas)))
}

func (res *resolver) describe(t reflect.Type) (*TypeDescriptor, error) {
	if d, ok := res.registry.descriptors.Load(t); ok {
		return d.(*TypeDescriptor), nil
	}
	if d, ok := res.descriptors[t]; ok {
		return d, nil
	}

	d := &TypeDescriptor{GoType: t}
	if sk, ok := scalarKindOf(t); ok {
		d.Kind, d.Scalar = KindScalar, sk
		res.descriptors[t] = d
		return d, nil
	}

	var err error
	switch t.Kind() {
	case reflect.Array:
		d.Kind, d.Len = KindArray, t.Len()
		d.Elem, err = res.describe(t.Elem())
	case reflect.Slice:
		d.Kind = KindList
		d.Elem, err = res.describe(t.Elem())
	case reflect.Map:
		if isSetType(t) {
			d.Kind = KindSet
			d.Elem, err = res.describe(t.Key())
			break
		}
		d.Kind = KindMap
		if d.Key, err = res.describe(t.Key()); err == nil {
			d.Value, err = res.describe(t.Elem())
		}
	case reflect.Struct:
		d.Kind = KindRecord
		d.Schema, err = res.schema(t)
	case reflect.Pointer:
		if t.Elem().Kind() != reflect.Struct {
			return nil, merr.WrapErrSchemaResolution(t, "pointer to non-record type")
		}
		d.Kind = KindRecord
		d.Schema, err = res.schema(t.Elem())
	default:
		return nil, merr.WrapErrSchemaResolution(t, fmt.Sprintf("unsupported kind %s", t.Kind()))
	}
	if err != nil {
		return nil, err
	}
	res.descriptors[t] = d
	return d, nil
}

// schema 解析记录类型。解析开始前先登记占位，自引用类型会拿到同一个 Schema。
func (res *resolver) schema(t reflect.Type) (*Schema, error) {
	if s, ok := res.registry.schemas.Load(t); ok {
		return s.(*Schema), nil
	}
	if s, ok := res.schemas[t]; ok {
		return s, nil
	}

	s := &Schema{goType: t, index: make(map[string]*Field)}
	res.schemas[t] = s

	specs, err := res.registry.source.Fields(t)
	if err != nil {
		return nil, merr.WrapErrSchemaResolution(t, err.Error())
	}

	var errs []error
	names := typeutil.NewSet[string]()
	for _, spec := range specs {
		f := &Field{
			Name:         spec.Name,
			GoName:       spec.GoName,
			Index:        spec.Index,
			Serializable: !spec.Excluded,
		}
		s.fields = append(s.fields, f)
		if spec.Excluded {
			continue
		}
		if !isIdentifier(spec.Name) {
			errs = append(errs, merr.WrapErrSchemaResolutionField(t, spec.GoName,
				fmt.Sprintf("name %q is not a valid field name", spec.Name)))
			continue
		}
		if !names.TryInsert(spec.Name) {
			errs = append(errs, merr.WrapErrSchemaResolutionField(t, spec.GoName,
				fmt.Sprintf("duplicate field name %q", spec.Name)))
			continue
		}
		f.Type, err = res.describe(spec.Type)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "field %s.%s", t, spec.GoName))
			continue
		}
		s.visible = append(s.visible, f)
		s.index[f.Name] = f
	}
	if err := merr.Combine(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

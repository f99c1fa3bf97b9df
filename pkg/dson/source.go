package dson

import (
	"reflect"
	"strings"
)

// DefaultTagName 为 TagSource 默认读取的结构体标签名。
const DefaultTagName = "dson"

// FieldSpec 是字段元数据来源提供的单个字段信息。
type FieldSpec struct {
	// GoName 为 Go 字段名。
	GoName string
	// Index 为字段在结构体中的下标。
	Index int
	// Name 为文本中使用的规范名。
	Name string
	// Excluded 为 true 时该字段不参与编解码。
	Excluded bool
	// Type 为字段声明的 Go 类型。
	Type reflect.Type
}

// FieldSource 为 Registry 提供记录类型的字段元数据。
// 返回的字段按声明顺序排列，只包含可见字段。
type FieldSource interface {
	Fields(t reflect.Type) ([]FieldSpec, error)
}

// TagSource 从结构体标签读取字段元数据。
//
//	Name string `dson:"title"` // 重命名为 title
//	Note string `dson:"-"`     // 不参与编解码
//
// 未导出字段总是被忽略。
type TagSource struct {
	// TagName 为读取的标签名，留空表示 DefaultTagName。
	TagName string
}

func (s TagSource) Fields(t reflect.Type) ([]FieldSpec, error) {
	tagName := s.TagName
	if tagName == "" {
		tagName = DefaultTagName
	}

	specs := make([]FieldSpec, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		spec := FieldSpec{
			GoName: sf.Name,
			Index:  i,
			Name:   strings.ToLower(sf.Name),
			Type:   sf.Type,
		}
		tag, _, _ := strings.Cut(sf.Tag.Get(tagName), ",")
		switch tag {
		case "":
		case "-":
			spec.Excluded = true
		default:
			spec.Name = tag
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

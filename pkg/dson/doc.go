// Package dson 实现一种由类型驱动的宽松 JSON 文本编解码。
//
// 文本本身不携带任何类型标记：同样的 [...] 语法，根据目标类型
// 可以是定长数组、有序列表、无序集合，或由 {key:..,value:..} 条目组成的映射。
// 记录类型的字段元数据在第一次使用时通过反射解析并缓存，
// 之后的编码与解码只遍历缓存好的类型描述。
//
//	type Food struct {
//		Weight int
//		Tasty  bool
//	}
//
//	text, _ := dson.Marshal(Food{Weight: 3, Tasty: true}) // {weight:3,tasty:true}
//	food, _ := dson.Decode[Food](text)
//
// 字段名默认取 Go 字段名的小写形式，可以通过 `dson:"name"` 重命名，
// `dson:"-"` 表示该字段不参与编解码。
package dson

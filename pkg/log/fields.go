package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule    = "module"
	FieldNameComponent = "component"
	FieldNameRecord    = "record"
	FieldNameOffset    = "offset"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldRecord 返回一个包含记录类型名的 zap 字段。
func FieldRecord(record string) zap.Field {
	return zap.String(FieldNameRecord, record)
}

// FieldOffset 返回一个包含输入偏移量的 zap 字段。
func FieldOffset(offset int) zap.Field {
	return zap.Int(FieldNameOffset, offset)
}

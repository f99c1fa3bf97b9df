// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码，nil 返回 0。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	if specificErr, ok := cause.(dsonError); ok {
		return specificErr.code()
	}
	if multi, ok := cause.(multiErrors); ok {
		return Code(multi.errs[0])
	}
	return errUnexpected.code()
}

// CodeName 返回错误码对应的稳定字符串，用于日志与监控标签。
func CodeName(err error) string {
	switch Code(err) {
	case 0:
		return "ok"
	case ErrSchemaResolution.errCode:
		return "schema_resolution"
	case ErrSchemaMismatch.errCode:
		return "schema_mismatch"
	case ErrEncoding.errCode:
		return "encoding"
	case ErrParse.errCode:
		return "parse"
	case ErrRecursionLimit.errCode:
		return "recursion_limit"
	case ErrParameterInvalid.errCode:
		return "parameter_invalid"
	default:
		return "unexpected"
	}
}

func GetErrorType(err error) ErrorType {
	if merr, ok := errors.Cause(err).(dsonError); ok {
		return merr.errType
	}

	return SystemError
}

// IsInputError 判断错误是否由输入文本本身引起。
func IsInputError(err error) bool {
	return err != nil && GetErrorType(err) == InputError
}

// Schema 相关错误封装。
func WrapErrSchemaResolution(typ any, reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrSchemaResolution, reason, value("type", typ))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSchemaResolutionField(typ any, field string, reason string) error {
	return wrapFieldsWithDesc(ErrSchemaResolution, reason, value("type", typ), value("field", field))
}

func WrapErrSchemaMismatch(record any, field string, offset int) error {
	return wrapFieldsWithDesc(ErrSchemaMismatch, "unknown field",
		value("record", record),
		value("field", field),
		value("offset", offset),
	)
}

func WrapErrSchemaMismatchMsg(record any, offset int, fmt string, args ...any) error {
	err := wrapFields(ErrSchemaMismatch, value("record", record), value("offset", offset))
	return errors.Wrapf(err, fmt, args...)
}

// 编解码相关错误封装。
func WrapErrEncoding(path string, reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrEncoding, reason, value("path", path))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParse(offset int, reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrParse, reason, value("offset", offset))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParsef(offset int, format string, args ...any) error {
	return wrapFieldsWithDesc(ErrParse, fmt.Sprintf(format, args...), value("offset", offset))
}

func WrapErrRecursionLimit(limit int, offset int) error {
	return wrapFields(ErrRecursionLimit, bound("depth", limit+1, 0, limit), value("offset", offset))
}

// 参数相关错误封装。
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

func wrapFields(err dsonError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err dsonError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

type boundField struct {
	name  string
	value any
	lower any
	upper any
}

func bound(name string, value, lower, upper any) boundField {
	return boundField{
		name,
		value,
		lower,
		upper,
	}
}

func (f boundField) String() string {
	return fmt.Sprintf("%v out of range %v <= %s <= %v", f.value, f.lower, f.name, f.upper)
}

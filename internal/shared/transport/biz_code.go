package transport

import (
	"errors"

	"LevelEditor/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体里的 code。0 成功，4xx 调用方问题，5xx 服务端问题。
const (
	OK           = 0
	InvalidParam = 400
	NotFound     = 404
	Conflict     = 409
	SystemError  = 500
)

// BizCodeOf 把错误映射为业务码：nil 为 OK，输入类错误为 InvalidParam，其它都是 SystemError。
func BizCodeOf(err error) int {
	if err == nil {
		return OK
	}
	var e *errx.Error
	if errors.As(err, &e) && e.IsInput() {
		return InvalidParam
	}
	return SystemError
}

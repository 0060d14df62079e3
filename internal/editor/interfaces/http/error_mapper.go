package http

import (
	"context"
	"errors"

	"LevelEditor/internal/shared/transport"
	"LevelEditor/modules/kit/errx"
	"LevelEditor/modules/kit/logx"
)

// handleError 记录错误日志并转换为客户端可见的 code/msg：
// 输入类错误把原因返回给调用方；系统错误只返回通用提示。
func handleError(ctx context.Context, log logx.Logger, action string, err error) (int, string, string) {
	logx.ReportError(ctx, log, action, err)

	code := transport.BizCodeOf(err)
	errCode := string(errx.CodeOf(err))
	transport.SetErrorReason(ctx, errCode)

	var e *errx.Error
	if code == transport.InvalidParam && errors.As(err, &e) {
		return code, e.Msg(), errCode
	}
	return code, "系统繁忙，请稍后重试", errCode
}

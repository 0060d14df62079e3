package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReportAccess 记录访问日志：
// - code == 0: INFO
// - code 1~499: WARN
// - code >= 500: ERROR
func ReportAccess(ctx context.Context, l Logger, action string, code int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := []zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("code", code),
	}
	base = append(base, fields...)
	withCtx := l.WithContext(ctx)
	switch {
	case code == 0:
		withCtx.Info("access", base...)
	case code >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

// ReportError 按错误类型选择级别：输入类 WARN、不带栈；系统类 ERROR、带发生处栈。
func ReportError(ctx context.Context, l Logger, action string, err error, fields ...zap.Field) {
	if err == nil || l == nil {
		return
	}
	if action == "" {
		action = "error"
	}
	meta := BuildErrorLog(err)

	base := []zap.Field{zap.String("action", action)}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}

	if meta.Input {
		base = append(base, zap.String("err_type", "input"))
		base = append(base, fields...)
		l.WithContext(ctx).Warn(fmt.Sprintf("%s, error:%s", action, meta.Error), base...)
		return
	}

	base = append(base, zap.String("err_type", "sys"))
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		base = append(base, zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)
	l.WithContext(ctx).Error(fmt.Sprintf("%s, error:%s", action, meta.Error), base...)
}

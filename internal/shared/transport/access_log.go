package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"LevelEditor/modules/kit/logx"
	"LevelEditor/modules/kit/tracex"
)

// Protocol 标明请求从哪个入口进来。
type Protocol string

const (
	ProtoHTTP Protocol = "http"
	ProtoWS   Protocol = "ws"
)

// AccessLog 记录一次请求的结果，请求结束时由入口调用 Write 输出一条 access 日志。
type AccessLog struct {
	Proto  Protocol
	Action string
	Code   BizCode
	Reason string

	start  time.Time
	fields []zap.Field
}

type accessLogKey struct{}

// Begin 在 parent 上挂一个 AccessLog 并返回新的 context。
// parent 没有 trace_id 时生成一个；结果默认是 SystemError，入口忘记设置时不会被当成成功。
func Begin(parent context.Context, proto Protocol, action string) (context.Context, *AccessLog) {
	if action == "" {
		action = "unknown"
	}
	ctx, _ := tracex.Ensure(parent)
	al := &AccessLog{
		Proto:  proto,
		Action: action,
		Code:   BizCode(SystemError),
		start:  time.Now(),
	}
	return context.WithValue(ctx, accessLogKey{}, al), al
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

// Result 设置业务码。reason 只在失败且还没有原因时记录，handler 先写入的错误码优先。
func (a *AccessLog) Result(code int, reason string) {
	a.Code = BizCode(code)
	if code == OK {
		a.Reason = ""
		return
	}
	if a.Reason == "" {
		a.Reason = reason
	}
}

// With 追加额外字段，例如 ws 的 seq。
func (a *AccessLog) With(fields ...zap.Field) {
	a.fields = append(a.fields, fields...)
}

func (a *AccessLog) Write(ctx context.Context, log logx.Logger) {
	if log == nil {
		return
	}
	fields := []zap.Field{
		zap.String("proto", string(a.Proto)),
		zap.Duration("latency", time.Since(a.start)),
	}
	if a.Code == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if a.Reason != "" {
			fields = append(fields, zap.String("error_reason", a.Reason))
		}
	}
	fields = append(fields, a.fields...)
	logx.ReportAccess(ctx, log, a.Action, int(a.Code), fields...)
}

// SetErrorReason 给 ctx 上的 AccessLog 记失败原因，供 handler 在业务码之外补充错误码。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.Reason = reason
	}
}

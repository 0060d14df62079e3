package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"LevelEditor/internal/shared/transport"
	"LevelEditor/modules/kit/logx"
	"LevelEditor/modules/kit/tracex"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，并尽量从响应体中的 `code`/`msg` 字段提取业务码和失败原因。
// 调用方带了 X-Trace-Id 时沿用，响应头里总是回写本次的 trace_id。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		parent := c.Request.Context()
		if id, ok := tracex.FromRequest(c.Request); ok {
			parent = tracex.WithTraceID(parent, id)
		}
		ctx, al := transport.Begin(parent, transport.ProtoHTTP, action)
		c.Request = c.Request.WithContext(ctx)
		if id, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(tracex.Header, id)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		if payload, ok := parseBody(bw.body.Bytes()); ok {
			al.Result(*payload.Code, payload.Msg)
		} else if c.Writer.Status() >= http.StatusBadRequest {
			al.Result(transport.SystemError, http.StatusText(c.Writer.Status()))
		} else {
			al.Result(transport.OK, "")
		}
		al.With(zap.Int("status", c.Writer.Status()))
		al.Write(ctx, log)
	}
}

type responsePayload struct {
	Code *int   `json:"code"`
	Msg  string `json:"msg"`
}

// parseBody 按常见响应体格式解析：{"code":123, "msg":"..."}。
func parseBody(body []byte) (responsePayload, bool) {
	var payload responsePayload
	if len(body) == 0 {
		return payload, false
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return payload, false
	}
	return payload, true
}

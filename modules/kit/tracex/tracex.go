// Package tracex 在 context 里传递 trace_id，并负责和 HTTP 头之间的转换。
package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
)

const (
	// Header 是请求/响应里携带 trace_id 的头。
	Header = "X-Trace-Id"
	// Field 是日志里的字段名。
	Field = "trace_id"

	maxIncomingLen = 64
)

type traceIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(traceIDKey{}).(string)
	return s, ok && s != ""
}

// NewTraceID 生成 8 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

// Ensure 保证 ctx 上有 trace_id：已有则沿用，否则新生成一个。
func Ensure(ctx context.Context) (context.Context, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	if id, ok := TraceIDFrom(ctx); ok {
		return ctx, id
	}
	id := NewTraceID()
	if id == "" {
		return ctx, ""
	}
	return WithTraceID(ctx, id), id
}

// FromRequest 读取调用方传来的 trace_id。只接受可打印 ASCII 且不超过 64 字节的值，其余视为没有。
func FromRequest(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	id := strings.TrimSpace(r.Header.Get(Header))
	if id == "" || len(id) > maxIncomingLen {
		return "", false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return "", false
		}
	}
	return id, true
}

package ws

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"LevelEditor/internal/shared/transport"
	"LevelEditor/modules/kit/errx"
	"LevelEditor/modules/kit/logx"
)

// HandlerFunc 处理一条请求，结果写进 resp。
type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Group 把同一前缀下的处理器注册成 "<前缀>.<名字>"。
type Group struct {
	prefix string
	r      *Router
}

func (g *Group) Handle(name string, h HandlerFunc) {
	g.r.handle(g.prefix+"."+name, h)
}

// Router 按消息名分发请求。注册在启动时完成，分发可以来自多个连接并发进行。
type Router struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	log      logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{
		handlers: make(map[string]HandlerFunc),
		log:      l,
	}
}

func (r *Router) Group(prefix string) *Group {
	return &Group{prefix: prefix, r: r}
}

func (r *Router) handle(route string, h HandlerFunc) {
	if !validRoute(route) || h == nil {
		panic(fmt.Sprintf("ws: invalid route %q", route))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[route] = h
}

// Routes 返回已注册的消息名，按字典序。
func (r *Router) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (r *Router) lookup(route string) (HandlerFunc, string) {
	if !validRoute(route) {
		return nil, "invalid route"
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h := r.handlers[route]
	if h == nil {
		return nil, "route not found"
	}
	return h, ""
}

// validRoute 要求恰好一个点，两边都不为空，例如 level.status。
func validRoute(name string) bool {
	prefix, handler, ok := strings.Cut(name, ".")
	return ok && prefix != "" && handler != "" && !strings.Contains(handler, ".")
}

// Dispatch 按 req.Body.Name 找到处理器并执行，结束时写一条 access 日志。
// resp 预置为 SystemError，处理器没有写结果时不会被当成成功。
func (r *Router) Dispatch(parent context.Context, req *WsMsgReq, resp *WsMsgResp) {
	name := "unknown"
	if req != nil && req.Body != nil {
		name = req.Body.Name
	}
	ctx, al := transport.Begin(parent, transport.ProtoWS, "WS "+name)
	defer func() {
		code, reason := transport.SystemError, ""
		if resp != nil && resp.Body != nil {
			code = resp.Body.Code
			reason, _ = resp.Body.Msg.(string)
		}
		al.Result(code, reason)
		al.Write(ctx, r.log)
	}()

	if req == nil || req.Body == nil || resp == nil || resp.Body == nil {
		fail(resp, transport.InvalidParam, "invalid request")
		return
	}
	al.With(zap.Int64("seq", req.Body.Seq))
	resp.Body.Code = transport.SystemError
	resp.Body.Msg = nil

	h, reason := r.lookup(name)
	if h == nil {
		fail(resp, transport.InvalidParam, reason)
		return
	}
	r.call(ctx, h, req, resp)
}

func (r *Router) call(ctx context.Context, h HandlerFunc, req *WsMsgReq, resp *WsMsgResp) {
	defer func() {
		if p := recover(); p != nil {
			err := errx.ErrInternal.WithCause(fmt.Errorf("panic: %v", p)).WithData("route", req.Body.Name)
			logx.ReportError(ctx, r.log, "WS "+req.Body.Name, err)
			fail(resp, transport.SystemError, "internal error")
		}
	}()
	h(ctx, req, resp)
}

func fail(resp *WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	resp.Body.Msg = msg
}

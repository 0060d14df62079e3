package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"LevelEditor/internal/shared/transport"
	"LevelEditor/internal/shared/transport/http/middleware"
	"LevelEditor/modules/kit/logx"
)

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
)

// Server 是编辑器的 HTTP 入口。中间件顺序是访问日志、跨域、panic 恢复，另外挂了 /healthz。
type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
	health func() any
}

type Option func(*Server)

// WithHealth 让 /healthz 在 data 里带上 fn 的返回值，例如在线连接数。
func WithHealth(fn func() any) Option {
	return func(s *Server) { s.health = fn }
}

// WithTimeouts 覆盖读写超时。websocket 连接升级后不受这两个超时影响。
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.srv.ReadTimeout = read
		s.srv.WriteTimeout = write
	}
}

func NewHttpServer(addr string, logger logx.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logx.Nop()
	}
	engine := gin.New()
	engine.Use(middleware.AccessLog(logger))
	engine.Use(middleware.Cors())
	engine.Use(middleware.Recovery(logger))

	s := &Server{
		engine: engine,
		group:  engine.Group(""),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	engine.GET("/healthz", s.healthz)
	return s
}

func (s *Server) healthz(c *gin.Context) {
	var data any
	if s.health != nil {
		data = s.health()
	}
	c.JSON(nethttp.StatusOK, gin.H{"code": transport.OK, "msg": "ok", "data": data})
}

// Start 启动 HTTP 服务（阻塞）。关闭时会返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}

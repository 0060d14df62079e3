package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"LevelEditor/modules/kit/logx"
)

// Hub 接受 websocket 连接并向所有在线连接广播事件。
type Hub struct {
	router   *Router
	log      logx.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*Conn]struct{}
}

func NewHub(r *Router, l logx.Logger) *Hub {
	if l == nil {
		l = logx.Nop()
	}
	if r == nil {
		r = NewRouter(l)
	}
	return &Hub{
		router: r,
		log:    l,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(map[*Conn]struct{}),
	}
}

func (h *Hub) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := h.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	c := newConn(wsConn, h.router, h.log)
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info("websocket connected", zap.String("addr", c.Addr()))

	c.run()
	go func() {
		<-c.Done()
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		h.log.Info("websocket disconnected", zap.String("addr", c.Addr()))
	}()
}

// Broadcast 向所有连接推送一条事件。
func (h *Hub) Broadcast(name string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		c.Push(name, data)
	}
}

// Count 返回在线连接数。
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close 断开所有连接。
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		c.Close()
	}
}
